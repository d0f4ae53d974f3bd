package ai

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/randutil"
	"github.com/lox/generala/internal/scorecard"
	"github.com/lox/generala/internal/scoring"
)

// constSource always rolls the same face.
type constSource int

func (c constSource) IntN(n int) int { return int(c) % n }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestEngine(t *testing.T, src dice.Source, d Difficulty) *Engine {
	t.Helper()
	e, err := NewEngine(src, d, quietLogger())
	require.NoError(t, err)
	return e
}

func cardWith(t *testing.T, cats ...scoring.Category) *scorecard.Card {
	t.Helper()
	card := scorecard.New()
	for _, c := range cats {
		require.NoError(t, card.Set(c, 0))
	}
	return card
}

func TestPlayTurnProperties(t *testing.T) {
	rng := randutil.New(2024)
	engine := newTestEngine(t, rng, Easy)

	for turn := 0; turn < 60; turn++ {
		// Fill a pseudo-random subset of the card, always leaving one open.
		own := scorecard.New()
		for _, c := range scoring.Categories[:turn%scoring.NumCategories] {
			require.NoError(t, own.Set(c, 0))
		}
		opp := scorecard.New()

		turnLog, err := engine.PlayTurn(own, opp)
		require.NoError(t, err)

		require.Len(t, turnLog.Steps, 1+RerollsPerTurn)
		assert.Equal(t, RerollsPerTurn, turnLog.Rerolls())
		assert.Equal(t, dice.NoneHeld(dice.Count), turnLog.Steps[0].Hold)
		assert.Equal(t, "Initial roll", turnLog.Steps[0].Note)
		assert.Equal(t, turnLog.Steps[0].Hand, turnLog.FirstRoll())
		assert.Equal(t, turnLog.Steps[len(turnLog.Steps)-1].Hand, turnLog.Final)

		for s := 1; s < len(turnLog.Steps); s++ {
			prev, step := turnLog.Steps[s-1], turnLog.Steps[s]
			require.Len(t, step.Hold, dice.Count)
			require.NoError(t, dice.Validate(step.Hand))
			assert.Contains(t, step.Note, "mask EV=")
			for i, held := range step.Hold {
				if held {
					assert.Equal(t, prev.Hand[i], step.Hand[i], "held die %d changed", i)
				}
			}
		}

		assert.False(t, own.IsUsed(turnLog.Category), "chose used category %v", turnLog.Category)
		assert.Equal(t, scoring.Score(turnLog.Category, turnLog.Final, false), turnLog.Score)
		assert.Equal(t, turn%scoring.NumCategories, own.Used().Len(), "engine must not mutate the card")
	}
}

func TestPlayTurnDeterministicWithSeed(t *testing.T) {
	a := newTestEngine(t, randutil.New(99), Medium)
	b := newTestEngine(t, randutil.New(99), Medium)

	for i := 0; i < 5; i++ {
		la, err := a.PlayTurn(scorecard.New(), scorecard.New())
		require.NoError(t, err)
		lb, err := b.PlayTurn(scorecard.New(), scorecard.New())
		require.NoError(t, err)
		assert.Equal(t, la, lb)
	}
}

func TestPlayTurnTiesKeepFirstCandidate(t *testing.T) {
	// Every die is a one, so every candidate has the same EV and the
	// re-roll-everything mask, generated first, wins each tie.
	engine := newTestEngine(t, constSource(0), Hard)

	turnLog, err := engine.PlayTurn(scorecard.New(), scorecard.New())
	require.NoError(t, err)

	for _, step := range turnLog.Steps[1:] {
		assert.Equal(t, dice.NoneHeld(dice.Count), step.Hold)
		assert.InDelta(t, 50.0, step.EV, 1e-9)
	}
	assert.Equal(t, scoring.Generala, turnLog.Category)
	assert.Equal(t, 50, turnLog.Score)
	assert.False(t, turnLog.Fallback)
}

func TestPlayTurnFallbackWhenNothingScores(t *testing.T) {
	engine := newTestEngine(t, constSource(0), Easy)

	// Five ones; only Twos and Straight remain, and both score zero.
	own := cardWith(t,
		scoring.Ones, scoring.Threes, scoring.Fours, scoring.Fives, scoring.Sixes,
		scoring.FullHouse, scoring.FourOfAKind, scoring.Generala)

	turnLog, err := engine.PlayTurn(own, scorecard.New())
	require.NoError(t, err)
	assert.Equal(t, scoring.Twos, turnLog.Category)
	assert.Equal(t, 0, turnLog.Score)
	assert.True(t, turnLog.Fallback)
}

func TestPlayTurnLastCategory(t *testing.T) {
	engine := newTestEngine(t, randutil.New(5), Easy)
	own := cardWith(t, scoring.Categories[:scoring.NumCategories-1]...)

	turnLog, err := engine.PlayTurn(own, scorecard.New())
	require.NoError(t, err)
	assert.Equal(t, scoring.Generala, turnLog.Category)
}

func TestPlayTurnCompleteCard(t *testing.T) {
	engine := newTestEngine(t, randutil.New(5), Easy)
	own := cardWith(t, scoring.Categories...)

	_, err := engine.PlayTurn(own, scorecard.New())
	require.ErrorIs(t, err, ErrCardComplete)
}

func TestChooseCategory(t *testing.T) {
	tests := []struct {
		name     string
		hand     dice.Hand
		used     scoring.CategorySet
		want     scoring.Category
		fallback bool
	}{
		{
			name: "highest score",
			hand: dice.Hand{2, 2, 2, 5, 5},
			want: scoring.FullHouse,
		},
		{
			name: "tie goes to enumeration order",
			hand: dice.Hand{3, 3, 1, 1, 1},
			used: scoring.NewCategorySet(scoring.FullHouse),
			want: scoring.Threes,
		},
		{
			name: "all remaining score zero",
			hand: dice.Hand{1, 2, 3, 4, 6},
			used: scoring.NewCategorySet(
				scoring.Ones, scoring.Twos, scoring.Threes, scoring.Fours, scoring.Sixes, scoring.Straight),
			want:     scoring.Fives,
			fallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback := chooseCategory(tt.hand, tt.used)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fallback, fallback)
		})
	}
}

func TestDecidePrefersHoldingGenerala(t *testing.T) {
	engine := newTestEngine(t, randutil.New(11), Hard)

	d, err := engine.Decide(dice.Hand{6, 6, 6, 6, 6}, 2, 0)
	require.NoError(t, err)

	require.NotEmpty(t, d.Candidates)
	assert.Equal(t, dice.AllHeld(dice.Count), d.Best.Hold)
	assert.InDelta(t, 50.0, d.Best.EV, 1e-9)
	assert.Less(t, d.Candidates[0].EV, d.Best.EV)
}

func TestDifficulty(t *testing.T) {
	engine := newTestEngine(t, randutil.New(1), Easy)
	assert.Equal(t, Easy, engine.Difficulty())
	assert.Equal(t, Params{Simulations: 60, MaxMasks: 6}, engine.Params())

	require.NoError(t, engine.SetDifficulty(Hard))
	assert.Equal(t, Hard, engine.Difficulty())
	assert.Equal(t, Params{Simulations: 800, MaxMasks: 20}, engine.Params())

	err := engine.SetDifficulty(Difficulty(7))
	require.ErrorIs(t, err, ErrUnknownDifficulty)
	assert.Equal(t, Hard, engine.Difficulty(), "failed switch keeps the old tier")
}

func TestWithPresets(t *testing.T) {
	presets := DefaultPresets().Merge(Presets{Easy: {Simulations: 10, MaxMasks: 3}})
	engine, err := NewEngine(randutil.New(1), Easy, quietLogger(), WithPresets(presets))
	require.NoError(t, err)
	assert.Equal(t, 3, engine.Params().MaxMasks)
	assert.Equal(t, MinSimulations, engine.Params().Samples())

	_, err = NewEngine(randutil.New(1), Easy, quietLogger(), WithPresets(Presets{Easy: {}}))
	assert.Error(t, err)
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range Difficulties {
		got, err := ParseDifficulty(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	got, err := ParseDifficulty(" HARD ")
	require.NoError(t, err)
	assert.Equal(t, Hard, got)

	_, err = ParseDifficulty("nightmare")
	require.ErrorIs(t, err, ErrUnknownDifficulty)
}
