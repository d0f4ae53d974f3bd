package ai

import (
	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/scoring"
)

// Step is one roll of a computer turn.
type Step struct {
	// Hold is the mask applied before this roll. The initial roll holds
	// nothing.
	Hold dice.Mask
	// Hand is the result of the roll.
	Hand dice.Hand
	// EV is the estimated value that selected Hold. Zero for the initial roll.
	EV float64
	// Note is a short human-readable description for playback.
	Note string
}

// TurnLog is the complete record of one computer turn. It is built once by
// the engine and not modified after PlayTurn returns it.
type TurnLog struct {
	Steps    []Step
	Final    dice.Hand
	Category scoring.Category
	Score    int
	// Fallback is set when every unused category scored zero and the
	// category came from the fixed fallback order.
	Fallback bool
}

// FirstRoll returns the hand produced by the initial roll.
func (l *TurnLog) FirstRoll() dice.Hand {
	if len(l.Steps) == 0 {
		return nil
	}
	return l.Steps[0].Hand
}

// Rerolls returns how many re-rolls the turn used.
func (l *TurnLog) Rerolls() int {
	return max(0, len(l.Steps)-1)
}

// turnBuilder appends steps during a turn and freezes them into a TurnLog.
type turnBuilder struct {
	steps []Step
}

func (b *turnBuilder) add(hold dice.Mask, hand dice.Hand, ev float64, note string) {
	held := make(dice.Mask, len(hold))
	copy(held, hold)
	b.steps = append(b.steps, Step{Hold: held, Hand: hand.Copy(), EV: ev, Note: note})
}

func (b *turnBuilder) finish(final dice.Hand, c scoring.Category, score int, fallback bool) *TurnLog {
	steps := b.steps
	b.steps = nil
	return &TurnLog{
		Steps:    steps,
		Final:    final.Copy(),
		Category: c,
		Score:    score,
		Fallback: fallback,
	}
}
