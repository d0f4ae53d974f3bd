// Package statistics aggregates the results of simulated Generala matches
// from the point of view of one engine configuration (the hero).
package statistics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// GameResult is the outcome of a single simulated match.
type GameResult struct {
	Seed          int64         // Seed the match was played from (for replay)
	Seat          int           // Hero's seat, 0 moves first
	Score         int           // Hero's final total
	OpponentScore int           // Opponent's final total
	Turns         int           // Turns played across both players
	Generala      bool          // Match ended on a first-roll Generala
	GeneralaHero  bool          // The hero rolled it
	Duration      time.Duration // Wall time spent playing the match
}

// Margin is the hero's score minus the opponent's.
func (r GameResult) Margin() int {
	return r.Score - r.OpponentScore
}

// SeatStats tracks results for one seat.
type SeatStats struct {
	Games     int
	Wins      int
	SumMargin float64
}

// Statistics tracks simulation results. The zero value is ready to use.
type Statistics struct {
	Games   int
	Wins    int
	Losses  int
	Ties    int
	SumM    float64   // Sum of margins
	SumM2   float64   // Sum of squared margins for variance
	Margins []float64 // Every margin, for median/percentiles

	SumScore         float64
	SumOpponentScore float64
	MaxScore         int
	MinScore         int

	Generalas     int // Matches ended by a first-roll Generala
	GeneralasHero int // Of those, rolled by the hero
	SeatResults   [2]SeatStats
	TotalTurns    int
	TotalDuration time.Duration
	LongestMatch  time.Duration
}

// Add incorporates a match result.
func (s *Statistics) Add(r GameResult) {
	m := float64(r.Margin())
	s.Games++
	s.SumM += m
	s.SumM2 += m * m
	s.Margins = append(s.Margins, m)

	switch {
	case r.Score > r.OpponentScore:
		s.Wins++
	case r.Score < r.OpponentScore:
		s.Losses++
	default:
		s.Ties++
	}

	s.SumScore += float64(r.Score)
	s.SumOpponentScore += float64(r.OpponentScore)
	if s.Games == 1 || r.Score > s.MaxScore {
		s.MaxScore = r.Score
	}
	if s.Games == 1 || r.Score < s.MinScore {
		s.MinScore = r.Score
	}

	if r.Generala {
		s.Generalas++
		if r.GeneralaHero {
			s.GeneralasHero++
		}
	}

	if r.Seat == 0 || r.Seat == 1 {
		seat := &s.SeatResults[r.Seat]
		seat.Games++
		seat.SumMargin += m
		if r.Score > r.OpponentScore {
			seat.Wins++
		}
	}

	s.TotalTurns += r.Turns
	s.TotalDuration += r.Duration
	if r.Duration > s.LongestMatch {
		s.LongestMatch = r.Duration
	}
}

// Merge folds other into s. Margins keep their relative order.
func (s *Statistics) Merge(other *Statistics) {
	if other == nil || other.Games == 0 {
		return
	}
	if s.Games == 0 || other.MaxScore > s.MaxScore {
		s.MaxScore = other.MaxScore
	}
	if s.Games == 0 || other.MinScore < s.MinScore {
		s.MinScore = other.MinScore
	}
	s.Games += other.Games
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Ties += other.Ties
	s.SumM += other.SumM
	s.SumM2 += other.SumM2
	s.Margins = append(s.Margins, other.Margins...)
	s.SumScore += other.SumScore
	s.SumOpponentScore += other.SumOpponentScore
	s.Generalas += other.Generalas
	s.GeneralasHero += other.GeneralasHero
	for i := range s.SeatResults {
		s.SeatResults[i].Games += other.SeatResults[i].Games
		s.SeatResults[i].Wins += other.SeatResults[i].Wins
		s.SeatResults[i].SumMargin += other.SeatResults[i].SumMargin
	}
	s.TotalTurns += other.TotalTurns
	s.TotalDuration += other.TotalDuration
	s.LongestMatch = max(s.LongestMatch, other.LongestMatch)
}

// Mean returns the mean margin per match.
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumM / float64(s.Games)
}

// Variance returns the sample variance of the margins.
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumM2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of the margins.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(0, s.Variance()))
}

// StdError returns the standard error of the mean margin.
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean margin.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the hero's share of matches won, counting ties as half.
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Ties)) / float64(s.Games)
}

// WinRateCI95 returns a normal-approximation 95% interval for WinRate,
// clamped to [0,1].
func (s *Statistics) WinRateCI95() (float64, float64) {
	if s.Games == 0 {
		return 0, 0
	}
	p := s.WinRate()
	se := math.Sqrt(p * (1 - p) / float64(s.Games))
	return math.Max(0, p-1.96*se), math.Min(1, p+1.96*se)
}

// MeanScore returns the hero's mean final total.
func (s *Statistics) MeanScore() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumScore / float64(s.Games)
}

// MeanOpponentScore returns the opponent's mean final total.
func (s *Statistics) MeanOpponentScore() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumOpponentScore / float64(s.Games)
}

// MeanDuration returns the average wall time per match.
func (s *Statistics) MeanDuration() time.Duration {
	if s.Games == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Games)
}

// Median returns the median margin.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the margin at the given percentile (0.0 to 1.0),
// interpolating linearly between neighbours.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Margins) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Margins))
	copy(sorted, s.Margins)
	sort.Float64s(sorted)

	p = math.Min(1, math.Max(0, p))
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean margin for seat 0 or 1.
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat > 1 {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Games == 0 {
		return 0
	}
	return ss.SumMargin / float64(ss.Games)
}

// IsLedgerBalanced checks that summed margins equal the score difference.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.SumM-(s.SumScore-s.SumOpponentScore)) <= 1e-6
}

// Validate checks the internal consistency of the aggregate.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: margins=%.3f, score=%.3f, opponent=%.3f",
			s.SumM, s.SumScore, s.SumOpponentScore)
	}
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Margins) != s.Games {
		return fmt.Errorf("margins length (%d) does not match games count (%d)", len(s.Margins), s.Games)
	}
	if s.Wins+s.Losses+s.Ties != s.Games {
		return fmt.Errorf("wins+losses+ties (%d+%d+%d) does not match games count (%d)",
			s.Wins, s.Losses, s.Ties, s.Games)
	}
	if s.GeneralasHero > s.Generalas {
		return fmt.Errorf("hero generalas (%d) exceeds generalas (%d)", s.GeneralasHero, s.Generalas)
	}
	if seats := s.SeatResults[0].Games + s.SeatResults[1].Games; seats != s.Games {
		return fmt.Errorf("seat games total (%d) does not match games count (%d)", seats, s.Games)
	}
	return nil
}

// Summary is the machine-readable digest of a Statistics, as written to
// stats files.
type Summary struct {
	Games             int        `json:"games"`
	Wins              int        `json:"wins"`
	Losses            int        `json:"losses"`
	Ties              int        `json:"ties"`
	WinRate           float64    `json:"win_rate"`
	WinRateCI95       [2]float64 `json:"win_rate_ci95"`
	MeanScore         float64    `json:"mean_score"`
	MeanOpponentScore float64    `json:"mean_opponent_score"`
	MeanMargin        float64    `json:"mean_margin"`
	MedianMargin      float64    `json:"median_margin"`
	StdDev            float64    `json:"std_dev"`
	StdError          float64    `json:"std_error"`
	MarginCI95        [2]float64 `json:"margin_ci95"`
	Generalas         int        `json:"first_roll_generalas"`
	GeneralasHero     int        `json:"first_roll_generalas_hero"`
	SeatMeans         [2]float64 `json:"seat_mean_margin"`
	MeanDurationMS    float64    `json:"mean_duration_ms"`
}

// Summary returns the digest of s.
func (s *Statistics) Summary() Summary {
	wl, wh := s.WinRateCI95()
	ml, mh := s.ConfidenceInterval95()
	return Summary{
		Games:             s.Games,
		Wins:              s.Wins,
		Losses:            s.Losses,
		Ties:              s.Ties,
		WinRate:           s.WinRate(),
		WinRateCI95:       [2]float64{wl, wh},
		MeanScore:         s.MeanScore(),
		MeanOpponentScore: s.MeanOpponentScore(),
		MeanMargin:        s.Mean(),
		MedianMargin:      s.Median(),
		StdDev:            s.StdDev(),
		StdError:          s.StdError(),
		MarginCI95:        [2]float64{ml, mh},
		Generalas:         s.Generalas,
		GeneralasHero:     s.GeneralasHero,
		SeatMeans:         [2]float64{s.SeatMean(0), s.SeatMean(1)},
		MeanDurationMS:    float64(s.MeanDuration()) / float64(time.Millisecond),
	}
}
