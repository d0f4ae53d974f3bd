package simulator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/generala/internal/ai"
	"github.com/lox/generala/internal/randutil"
	"github.com/lox/generala/internal/statistics"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testConfig(t *testing.T, games int) Config {
	return Config{
		Games:    games,
		Workers:  2,
		Seed:     42,
		Timeout:  time.Minute,
		Hero:     ai.Easy,
		Opponent: ai.Easy,
		Logger:   quietLogger(),
		Clock:    quartz.NewMock(t),
	}
}

func TestRunPlaysDuplicatePairs(t *testing.T) {
	cfg := testConfig(t, 4)
	cfg.FirstRollGeneralaWins = false

	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, stats.Validate())

	assert.Equal(t, 4, stats.Games)
	assert.Equal(t, 2, stats.SeatResults[0].Games)
	assert.Equal(t, 2, stats.SeatResults[1].Games)
	assert.Equal(t, 4*20, stats.TotalTurns, "every match runs to a full card")
	assert.Zero(t, stats.Generalas)
	assert.Greater(t, stats.MinScore, 0)
}

func TestRunIsDeterministic(t *testing.T) {
	first := testConfig(t, 6)
	first.Workers = 1
	second := testConfig(t, 6)
	second.Workers = 4

	a, err := New(first).Run(context.Background())
	require.NoError(t, err)
	b, err := New(second).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Margins, b.Margins, "worker count must not change results")
	assert.Equal(t, a.SumScore, b.SumScore)
}

func TestRunSeedChangesResults(t *testing.T) {
	first := testConfig(t, 4)
	second := testConfig(t, 4)
	second.Seed = 43

	a, err := New(first).Run(context.Background())
	require.NoError(t, err)
	b, err := New(second).Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.SumScore+a.SumOpponentScore, b.SumScore+b.SumOpponentScore)
}

func TestRunRejectsNoGames(t *testing.T) {
	_, err := New(testConfig(t, 0)).Run(context.Background())
	require.Error(t, err)
}

func TestRunUnknownDifficulty(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Opponent = ai.Difficulty(9)

	_, err := New(cfg).Run(context.Background())
	require.ErrorIs(t, err, ai.ErrUnknownDifficulty)
}

func TestRunPresetOverrides(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Presets = ai.Presets{ai.Easy: {Simulations: 0, MaxMasks: 1}}

	_, err := New(cfg).Run(context.Background())
	require.Error(t, err, "an invalid preset fails engine construction")
}

func TestRunPropagatesGameErrors(t *testing.T) {
	boom := errors.New("boom")
	sim := New(testConfig(t, 3))
	sim.play = func(_ context.Context, seed int64, seat int) (statistics.GameResult, error) {
		return statistics.GameResult{}, boom
	}

	_, err := sim.Run(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t, 2)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunTimeout(t *testing.T) {
	clock := quartz.NewMock(t)
	cfg := testConfig(t, 1)
	cfg.Clock = clock
	cfg.Timeout = 5 * time.Second

	started := make(chan struct{})
	stopped := make(chan struct{})

	sim := New(cfg)
	sim.play = func(ctx context.Context, seed int64, seat int) (statistics.GameResult, error) {
		close(started)
		<-ctx.Done()
		close(stopped)
		return statistics.GameResult{}, ctx.Err()
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := sim.Run(context.Background())
		errCh <- err
	}()

	<-started
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(5 * time.Second).MustWait(ctx)

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrGameTimeout)
	case <-ctx.Done():
		t.Fatal("simulation did not time out")
	}

	select {
	case <-stopped:
	case <-ctx.Done():
		t.Fatal("timed out match was not cancelled")
	}
}

func TestPlayGameStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t, 1)).playGame(ctx, 42, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunAggregatesPairsInOrder(t *testing.T) {
	sim := New(testConfig(t, 5))
	sim.play = func(_ context.Context, seed int64, seat int) (statistics.GameResult, error) {
		score := 100 + int(seed%7+7)%7*10 + seat
		return statistics.GameResult{Seed: seed, Seat: seat, Score: score, OpponentScore: 100, Turns: 20}, nil
	}

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, stats.Validate())

	want := &statistics.Statistics{}
	for i := range 5 {
		r, err := sim.play(context.Background(), randutil.Derive(42, i/2), i%2)
		require.NoError(t, err)
		want.Add(r)
	}
	assert.Equal(t, 5, stats.Games)
	assert.Equal(t, want.Margins, stats.Margins)
	assert.Equal(t, want.SumScore, stats.SumScore)
	assert.Equal(t, want.SeatResults, stats.SeatResults)
	assert.Equal(t, want.MinScore, stats.MinScore)
	assert.Equal(t, want.MaxScore, stats.MaxScore)
}

func TestPrintSummary(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	stats := &statistics.Statistics{}
	stats.Add(statistics.GameResult{Seat: 0, Score: 200, OpponentScore: 150, Turns: 20, Duration: time.Millisecond})
	stats.Add(statistics.GameResult{Seat: 1, Score: 60, OpponentScore: 10, Turns: 3, Generala: true, GeneralaHero: true})

	var buf bytes.Buffer
	PrintSummary(&buf, stats, ai.Hard, ai.Easy)
	out := buf.String()

	assert.Contains(t, out, "=== FINAL RESULTS hard vs easy ===")
	assert.Contains(t, out, "Games played: 2")
	assert.Contains(t, out, "Record: 2 won, 0 lost, 0 drawn")
	assert.Contains(t, out, "Matches ended: 1 (1 by hard)")
	assert.Contains(t, out, "Seat 1: 1 games, 1 won, 50.00 points/game")
	assert.Contains(t, out, "Seat 2: 1 games, 1 won, 50.00 points/game")
}
