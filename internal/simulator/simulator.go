// Package simulator plays batches of computer-vs-computer Generala matches
// and aggregates the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/generala/internal/ai"
	"github.com/lox/generala/internal/game"
	"github.com/lox/generala/internal/randutil"
	"github.com/lox/generala/internal/statistics"
)

// ErrGameTimeout indicates a single match exceeded Config.Timeout.
var ErrGameTimeout = errors.New("game timed out")

// Config holds configuration for running simulations
type Config struct {
	Games    int
	Workers  int // Parallel matches; 0 uses GOMAXPROCS
	Seed     int64
	Timeout  time.Duration
	Hero     ai.Difficulty // Side the statistics are reported for
	Opponent ai.Difficulty
	Presets  ai.Presets // Optional difficulty overrides
	// FirstRollGeneralaWins enables the first-roll Generala rule.
	FirstRollGeneralaWins bool
	Logger                *log.Logger
	// GameLogger receives the per-match engine and match logs. Nil discards
	// them.
	GameLogger *log.Logger
	Clock      quartz.Clock
}

// DefaultTimeout bounds a single match when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// Simulator runs Generala match simulations
type Simulator struct {
	config Config
	clock  quartz.Clock
	play   func(ctx context.Context, seed int64, heroSeat int) (statistics.GameResult, error)
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.GameLogger == nil {
		config.GameLogger = log.New(io.Discard)
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	s := &Simulator{config: config, clock: config.Clock}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	s.play = s.playGame
	return s
}

// Run plays config.Games matches and returns the hero's statistics.
//
// Matches are played in pairs from the same seed with the seats swapped, so
// moving first does not bias the result. Results are aggregated in game
// order regardless of which worker finished first.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := s.config.Logger.WithPrefix("simulator")
	logger.Info("Starting simulation",
		"games", s.config.Games,
		"workers", workers,
		"seed", s.config.Seed,
		"hero", s.config.Hero,
		"opponent", s.config.Opponent)

	start := s.clock.Now()
	results := make([]statistics.GameResult, s.config.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range s.config.Games {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			seed := randutil.Derive(s.config.Seed, i/2)
			result, err := s.playGameWithTimeout(gctx, seed, i%2)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for i := 0; i < len(results); i += 2 {
		pair := &statistics.Statistics{}
		for _, r := range results[i:min(i+2, len(results))] {
			pair.Add(r)
		}
		logger.Debug("Pair complete", "pair", i/2+1, "seed", results[i].Seed, "margin", pair.SumM)
		stats.Merge(pair)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Info("Simulation complete", "games", stats.Games, "winRate", stats.WinRate(), "elapsed", s.clock.Since(start))
	return stats, nil
}

// playGameWithTimeout runs a single match with timeout protection. The match
// is cancelled when it times out so its goroutine stops at the next turn.
func (s *Simulator) playGameWithTimeout(ctx context.Context, seed int64, heroSeat int) (statistics.GameResult, error) {
	timer := s.clock.NewTimer(s.config.Timeout, "simulator", "game")
	defer timer.Stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		result statistics.GameResult
		err    error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		r, err := s.play(ctx, seed, heroSeat)
		resultCh <- outcome{r, err}
	}()

	select {
	case o := <-resultCh:
		return o.result, o.err
	case <-timer.C:
		return statistics.GameResult{}, fmt.Errorf("%w after %v (seed: %d, seat: %d)", ErrGameTimeout, s.config.Timeout, seed, heroSeat)
	case <-ctx.Done():
		return statistics.GameResult{}, ctx.Err()
	}
}

// playGame plays one match to completion or until ctx is done. The match dice
// and both engines draw from independent streams derived from seed.
func (s *Simulator) playGame(ctx context.Context, seed int64, heroSeat int) (statistics.GameResult, error) {
	logger := s.config.GameLogger
	start := s.clock.Now()

	var opts []ai.Option
	if s.config.Presets != nil {
		opts = append(opts, ai.WithPresets(ai.DefaultPresets().Merge(s.config.Presets)))
	}
	hero, err := ai.NewEngine(randutil.New(randutil.Derive(seed, 1)), s.config.Hero, logger, opts...)
	if err != nil {
		return statistics.GameResult{}, err
	}
	opp, err := ai.NewEngine(randutil.New(randutil.Derive(seed, 2)), s.config.Opponent, logger, opts...)
	if err != nil {
		return statistics.GameResult{}, err
	}

	heroPlayer := game.NewPlayer("hero-"+s.config.Hero.String(), game.Computer)
	oppPlayer := game.NewPlayer("opponent-"+s.config.Opponent.String(), game.Computer)
	players := [2]*game.Player{heroPlayer, oppPlayer}
	engines := [2]*ai.Engine{hero, opp}
	if heroSeat == 1 {
		players[0], players[1] = players[1], players[0]
		engines[0], engines[1] = engines[1], engines[0]
	}

	m := game.NewMatch(players[0], players[1], randutil.New(seed), logger,
		game.WithClock(s.clock),
		game.WithFirstRollGeneralaWins(s.config.FirstRollGeneralaWins))
	for !m.Outcome().Over {
		if err := ctx.Err(); err != nil {
			return statistics.GameResult{}, err
		}
		if _, err := m.PlayComputer(engines[m.CurrentIndex()]); err != nil {
			return statistics.GameResult{}, err
		}
	}

	o := m.Outcome()
	generala := o.Reason == game.FirstRollGenerala
	return statistics.GameResult{
		Seed:          seed,
		Seat:          heroSeat,
		Score:         o.Totals[heroSeat],
		OpponentScore: o.Totals[1-heroSeat],
		Turns:         m.Turn(),
		Generala:      generala,
		GeneralaHero:  generala && o.Winner == heroSeat,
		Duration:      s.clock.Since(start),
	}, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PrintSummary writes a summary of simulation results to w.
func PrintSummary(w io.Writer, stats *statistics.Statistics, hero, opponent ai.Difficulty) {
	low, high := stats.ConfidenceInterval95()
	wl, wh := stats.WinRateCI95()

	section := func(title string) {
		fmt.Fprintf(w, "\n%s\n", headerStyle.Render("=== "+title+" ==="))
	}
	line := func(label, format string, args ...any) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), fmt.Sprintf(format, args...))
	}

	section(fmt.Sprintf("FINAL RESULTS %s vs %s", hero, opponent))
	line("Games played", "%d", stats.Games)
	line("Record", "%d won, %d lost, %d drawn", stats.Wins, stats.Losses, stats.Ties)
	line("Win rate", "%.1f%% (95%% CI [%.1f%%, %.1f%%])", stats.WinRate()*100, wl*100, wh*100)

	section("SCORES")
	line("Mean score", "%.1f vs %.1f", stats.MeanScore(), stats.MeanOpponentScore())
	line("Score range", "%d to %d", stats.MinScore, stats.MaxScore)

	section("MARGIN")
	line("Mean", "%.2f points/game", stats.Mean())
	line("Median", "%.2f points/game", stats.Median())
	line("Std Dev", "%.2f", stats.StdDev())
	line("Std Error", "%.2f", stats.StdError())
	line("95% CI", "[%.2f, %.2f] points/game", low, high)
	line("Percentiles", "P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	section("FIRST ROLL GENERALA")
	line("Matches ended", "%d (%d by %s)", stats.Generalas, stats.GeneralasHero, hero)

	section("SEAT ANALYSIS")
	for seat, ss := range stats.SeatResults {
		if ss.Games == 0 {
			continue
		}
		line(fmt.Sprintf("Seat %d", seat+1), "%d games, %d won, %.2f points/game", ss.Games, ss.Wins, stats.SeatMean(seat))
	}

	section("TIMING")
	line("Mean match", "%v", stats.MeanDuration().Round(time.Microsecond))
	line("Longest match", "%v", stats.LongestMatch.Round(time.Microsecond))
	if stats.Games > 0 {
		line("Mean turns", "%.1f", float64(stats.TotalTurns)/float64(stats.Games))
	}
}
