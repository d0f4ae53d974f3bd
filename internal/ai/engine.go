// Package ai implements the computer opponent: Monte-Carlo search over which
// dice to hold, followed by a greedy choice of scoring category.
//
// An Engine is not safe for concurrent use. Each PlayTurn call assumes
// exclusive access to the engine's random source for its duration.
package ai

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/scoring"
)

// RerollsPerTurn is the number of re-rolls after the forced initial roll.
const RerollsPerTurn = 2

// ErrCardComplete indicates PlayTurn was asked to move for a player whose
// card has no unused category left.
var ErrCardComplete = errors.New("score card is complete")

// fallbackOrder picks the category to sacrifice when nothing scores.
var fallbackOrder = []scoring.Category{
	scoring.Ones, scoring.Twos, scoring.Threes, scoring.Fours, scoring.Fives, scoring.Sixes,
	scoring.Straight, scoring.FullHouse, scoring.FourOfAKind, scoring.Generala,
}

// CardReader is the read-only view of a score card the engine needs.
type CardReader interface {
	Used() scoring.CategorySet
	Total() int
}

// Candidate is a hold mask with its estimated value.
type Candidate struct {
	Hold dice.Mask
	EV   float64
}

// Decision is the outcome of one re-roll decision. Best is the first
// candidate with the strictly greatest EV.
type Decision struct {
	Best       Candidate
	Candidates []Candidate
}

// Engine plays computer turns.
type Engine struct {
	src        dice.Source
	logger     *log.Logger
	presets    Presets
	difficulty Difficulty
	params     Params
}

// Option configures an Engine.
type Option func(*Engine)

// WithPresets replaces the built-in difficulty table.
func WithPresets(p Presets) Option {
	return func(e *Engine) {
		e.presets = p
	}
}

// NewEngine creates an engine drawing dice from src.
func NewEngine(src dice.Source, difficulty Difficulty, logger *log.Logger, opts ...Option) (*Engine, error) {
	e := &Engine{
		src:     src,
		logger:  logger.WithPrefix("ai"),
		presets: DefaultPresets(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.SetDifficulty(difficulty); err != nil {
		return nil, err
	}
	return e, nil
}

// SetDifficulty switches tiers. It affects later turns only.
func (e *Engine) SetDifficulty(d Difficulty) error {
	params, err := e.presets.Lookup(d)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("difficulty %s: %w", d, err)
	}
	e.difficulty = d
	e.params = params
	e.logger.Debug("Difficulty set", "difficulty", d, "simulations", params.Samples(), "maxMasks", params.MaxMasks)
	return nil
}

// Difficulty returns the current tier.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Params returns the parameters of the current tier.
func (e *Engine) Params() Params {
	return e.params
}

// Decide evaluates the candidate masks for h with rollsLeft re-rolls still
// available (including the one being decided) against the used categories.
func (e *Engine) Decide(h dice.Hand, rollsLeft int, used scoring.CategorySet) (Decision, error) {
	return e.decide(h, rollsLeft, used, e.params)
}

func (e *Engine) decide(h dice.Hand, rollsLeft int, used scoring.CategorySet, params Params) (Decision, error) {
	masks := candidateMasks(h, params.MaxMasks)
	d := Decision{
		Best:       Candidate{Hold: masks[0], EV: math.Inf(-1)},
		Candidates: make([]Candidate, 0, len(masks)),
	}

	for _, m := range masks {
		ev, err := estimateEV(e.src, h, m, rollsLeft, used, params.Samples())
		if err != nil {
			return Decision{}, fmt.Errorf("estimate %s: %w", m, err)
		}
		e.logger.Debug("Candidate evaluated", "hand", h, "hold", m, "ev", ev)

		c := Candidate{Hold: m, EV: ev}
		d.Candidates = append(d.Candidates, c)
		if ev > d.Best.EV {
			d.Best = c
		}
	}
	return d, nil
}

// PlayTurn plays one full computer turn for the owner of own. Neither card is
// modified; the caller applies the returned category and score.
func (e *Engine) PlayTurn(own, opp CardReader) (*TurnLog, error) {
	used := own.Used()
	if used.Full() {
		return nil, ErrCardComplete
	}
	params := e.params

	var b turnBuilder
	hand := dice.RollFresh(e.src, dice.Count)
	b.add(dice.NoneHeld(dice.Count), hand, 0, "Initial roll")

	for rollsLeft := RerollsPerTurn; rollsLeft > 0; rollsLeft-- {
		d, err := e.decide(hand, rollsLeft, used, params)
		if err != nil {
			return nil, err
		}
		next, err := dice.RollWithMask(e.src, hand, d.Best.Hold)
		if err != nil {
			return nil, err
		}
		hand = next
		b.add(d.Best.Hold, hand, d.Best.EV, fmt.Sprintf("mask EV=%.1f", d.Best.EV))
	}

	category, fallback := chooseCategory(hand, used)
	score := scoring.Score(category, hand, false)

	e.logger.Info("Computer turn complete",
		"difficulty", e.difficulty,
		"hand", hand,
		"category", category,
		"score", score,
		"fallback", fallback,
		"ownTotal", own.Total(),
		"opponentTotal", opp.Total())

	return b.finish(hand, category, score, fallback), nil
}

// chooseCategory picks the highest unserved score, first in enumeration order
// on ties. When nothing scores, the first unused category in fallbackOrder
// is sacrificed instead.
func chooseCategory(h dice.Hand, used scoring.CategorySet) (scoring.Category, bool) {
	scores := scoring.AllScores(h, false, used)

	chosen, top := scoring.Ones, 0
	found := false
	for _, c := range scoring.Categories {
		s, ok := scores[c]
		if !ok {
			continue
		}
		if !found || s > top {
			chosen, top, found = c, s, true
		}
	}

	if top > 0 {
		return chosen, false
	}
	for _, c := range fallbackOrder {
		if !used.Has(c) {
			return c, true
		}
	}
	return chosen, true
}
