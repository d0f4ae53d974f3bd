package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/randutil"
	"github.com/lox/generala/internal/scoring"
)

func TestCandidateMasks(t *testing.T) {
	const (
		T = true
		F = false
	)
	tests := []struct {
		name     string
		hand     dice.Hand
		maxMasks int
		want     []dice.Mask
	}{
		{
			name:     "full house",
			hand:     dice.Hand{2, 2, 2, 5, 5},
			maxMasks: 20,
			want: []dice.Mask{
				{F, F, F, F, F},
				{T, T, T, F, F}, // most frequent
				{T, T, T, F, F}, // triple
				{F, F, F, T, T}, // first pair
				{T, T, T, T, T}, // hold all
			},
		},
		{
			name:     "full house below hold-all tier",
			hand:     dice.Hand{2, 2, 2, 5, 5},
			maxMasks: 12,
			want: []dice.Mask{
				{F, F, F, F, F},
				{T, T, T, F, F},
				{T, T, T, F, F},
				{F, F, F, T, T},
			},
		},
		{
			name:     "two pairs",
			hand:     dice.Hand{1, 3, 1, 3, 6},
			maxMasks: 12,
			want: []dice.Mask{
				{F, F, F, F, F},
				{T, F, T, F, F}, // most frequent, lowest face wins the tie
				{T, F, T, F, F}, // first pair
				{T, T, T, T, F}, // both pairs
			},
		},
		{
			name:     "straight draw",
			hand:     dice.Hand{1, 2, 3, 4, 4},
			maxMasks: 12,
			want: []dice.Mask{
				{F, F, F, F, F},
				{F, F, F, T, T},
				{F, F, F, T, T},
				{T, T, T, T, T}, // core 1-2-3-4
			},
		},
		{
			name:     "two straight cores",
			hand:     dice.Hand{6, 2, 3, 4, 5},
			maxMasks: 12,
			want: []dice.Mask{
				{F, F, F, F, F},
				{F, T, T, T, T}, // core 2-3-4-5
				{T, F, T, T, T}, // core 3-4-5-6
			},
		},
		{
			name:     "truncated",
			hand:     dice.Hand{2, 2, 2, 5, 5},
			maxMasks: 2,
			want: []dice.Mask{
				{F, F, F, F, F},
				{T, T, T, F, F},
			},
		},
		{
			name:     "no room falls back to re-roll everything",
			hand:     dice.Hand{2, 2, 2, 5, 5},
			maxMasks: 0,
			want: []dice.Mask{
				{F, F, F, F, F},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, candidateMasks(tt.hand, tt.maxMasks))
		})
	}
}

func TestCandidateMasksAlwaysStartWithRerollAll(t *testing.T) {
	rng := randutil.New(8)
	for i := 0; i < 500; i++ {
		h := dice.RollFresh(rng, dice.Count)
		for _, maxMasks := range []int{1, 6, 12, 20} {
			masks := candidateMasks(h, maxMasks)
			require.NotEmpty(t, masks)
			require.LessOrEqual(t, len(masks), maxMasks)
			assert.Equal(t, dice.NoneHeld(dice.Count), masks[0])
			for _, m := range masks {
				assert.Len(t, m, dice.Count)
			}
		}
	}
}

func TestGreedyMask(t *testing.T) {
	m, count := greedyMask(dice.Hand{4, 1, 4, 2, 4})
	assert.Equal(t, 3, count)
	assert.Equal(t, dice.Mask{true, false, true, false, true}, m)
}

func TestEstimateEV(t *testing.T) {
	rng := randutil.New(3)
	generala := dice.Hand{6, 6, 6, 6, 6}

	ev, err := estimateEV(rng, generala, dice.AllHeld(dice.Count), 2, 0, 100)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, ev, 1e-9)

	// With Generala used the same hand is worth a four of a kind.
	ev, err = estimateEV(rng, generala, dice.AllHeld(dice.Count), 1, scoring.NewCategorySet(scoring.Generala), 100)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, ev, 1e-9)

	_, err = estimateEV(rng, generala, dice.Mask{true}, 1, 0, 10)
	require.ErrorIs(t, err, dice.ErrMaskLength)
}

func TestEstimateEVMoreRollsNeverHurtGreedyHold(t *testing.T) {
	rng := randutil.New(4)
	h := dice.Hand{5, 5, 5, 1, 2}
	hold := dice.HoldFace(h, 5)

	one, err := estimateEV(rng, h, hold, 1, 0, 4000)
	require.NoError(t, err)
	two, err := estimateEV(rng, h, hold, 2, 0, 4000)
	require.NoError(t, err)
	assert.Greater(t, two, one)
}
