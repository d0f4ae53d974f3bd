// Package scorecard records which categories a player has claimed and the
// points locked in for each.
package scorecard

import (
	"errors"
	"fmt"

	"github.com/lox/generala/internal/scoring"
)

// ErrCategoryUsed indicates a second claim on an already scored category.
var ErrCategoryUsed = errors.New("category already used")

// ErrUnknownCategory indicates a category outside the scoring enumeration.
var ErrUnknownCategory = errors.New("unknown category")

// ErrNegativeScore indicates an attempt to record a score below zero.
var ErrNegativeScore = errors.New("score cannot be negative")

// Card is one player's score card. The zero value is an empty card.
type Card struct {
	scores [scoring.NumCategories]int
	used   scoring.CategorySet
}

// New returns an empty card.
func New() *Card {
	return &Card{}
}

// IsUsed reports whether c has been claimed.
func (sc *Card) IsUsed(c scoring.Category) bool {
	return sc.used.Has(c)
}

// Get returns the score recorded for c. ok is false when c has not been
// played, which is distinct from a legitimate zero.
func (sc *Card) Get(c scoring.Category) (score int, ok bool) {
	if !sc.used.Has(c) {
		return 0, false
	}
	return sc.scores[c], true
}

// Set records value for c and marks it used. A category can be set once.
func (sc *Card) Set(c scoring.Category, value int) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	if sc.used.Has(c) {
		return fmt.Errorf("%w: %s", ErrCategoryUsed, c)
	}
	if value < 0 {
		return fmt.Errorf("%w: %s = %d", ErrNegativeScore, c, value)
	}
	sc.scores[c] = value
	sc.used = sc.used.With(c)
	return nil
}

// Used returns a copy of the used category set.
func (sc *Card) Used() scoring.CategorySet {
	return sc.used
}

// Remaining returns the unclaimed categories in enumeration order.
func (sc *Card) Remaining() []scoring.Category {
	out := make([]scoring.Category, 0, scoring.NumCategories-sc.used.Len())
	for _, c := range scoring.Categories {
		if !sc.used.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Total returns the sum of every recorded score.
func (sc *Card) Total() int {
	total := 0
	for _, c := range scoring.Categories {
		if sc.used.Has(c) {
			total += sc.scores[c]
		}
	}
	return total
}

// Completed reports whether all ten categories have been claimed.
func (sc *Card) Completed() bool {
	return sc.used.Full()
}

// Clone returns an independent copy of the card.
func (sc *Card) Clone() *Card {
	cp := *sc
	return &cp
}
