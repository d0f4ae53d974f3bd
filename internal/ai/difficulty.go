package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects how much search the engine spends per decision.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// ErrUnknownDifficulty indicates a difficulty outside Easy, Medium and Hard.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// String returns the lower-case difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses "easy", "medium" or "hard" case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Difficulties lists every tier from weakest to strongest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Params are the two tunables a difficulty fixes together.
type Params struct {
	// Simulations is the number of rollouts per candidate mask. Values
	// below MinSimulations are raised to it.
	Simulations int
	// MaxMasks caps how many candidate hold masks are evaluated.
	MaxMasks int
}

// MinSimulations is the floor on rollouts per candidate.
const MinSimulations = 40

// holdAllMinMasks is the MaxMasks at which holding every die becomes a
// candidate.
const holdAllMinMasks = 20

// Samples returns Simulations raised to the MinSimulations floor.
func (p Params) Samples() int {
	return max(MinSimulations, p.Simulations)
}

// Validate checks that both parameters are positive.
func (p Params) Validate() error {
	if p.Simulations <= 0 {
		return fmt.Errorf("simulations must be positive, got %d", p.Simulations)
	}
	if p.MaxMasks <= 0 {
		return fmt.Errorf("max masks must be positive, got %d", p.MaxMasks)
	}
	return nil
}

// Presets maps each difficulty to its parameters.
type Presets map[Difficulty]Params

// DefaultPresets returns the built-in tiers.
func DefaultPresets() Presets {
	return Presets{
		Easy:   {Simulations: 60, MaxMasks: 6},
		Medium: {Simulations: 260, MaxMasks: 12},
		Hard:   {Simulations: 800, MaxMasks: 20},
	}
}

// Lookup returns the parameters for d.
func (p Presets) Lookup(d Difficulty) (Params, error) {
	params, ok := p[d]
	if !ok {
		return Params{}, fmt.Errorf("%w: %s", ErrUnknownDifficulty, d)
	}
	return params, nil
}

// Merge returns a copy of p with every entry of overrides applied.
func (p Presets) Merge(overrides Presets) Presets {
	out := make(Presets, len(p))
	for d, params := range p {
		out[d] = params
	}
	for d, params := range overrides {
		out[d] = params
	}
	return out
}
