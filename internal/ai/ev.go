package ai

import (
	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/scoring"
)

// estimateEV averages, over samples rollouts, the best unused-category score
// reached by applying hold once and then following greedyMask for the
// remaining rolls. rollsLeft counts the roll made with hold.
func estimateEV(src dice.Source, h dice.Hand, hold dice.Mask, rollsLeft int, used scoring.CategorySet, samples int) (float64, error) {
	if samples <= 0 {
		return 0, nil
	}

	sum := 0
	for s := 0; s < samples; s++ {
		d, err := dice.RollWithMask(src, h, hold)
		if err != nil {
			return 0, err
		}
		for left := rollsLeft - 1; left > 0; left-- {
			m, _ := greedyMask(d)
			if d, err = dice.RollWithMask(src, d, m); err != nil {
				return 0, err
			}
		}
		// served is false: a rollout has always re-rolled at least once.
		if _, best, ok := scoring.Best(d, false, used); ok {
			sum += best
		}
	}
	return float64(sum) / float64(samples), nil
}
