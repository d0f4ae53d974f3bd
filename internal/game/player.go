package game

import "github.com/lox/generala/internal/scorecard"

// Kind says who decides for a player.
type Kind int

const (
	Human Kind = iota
	Computer
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Human:
		return "human"
	case Computer:
		return "computer"
	default:
		return "unknown"
	}
}

// Player is a match participant and their score card.
type Player struct {
	Name string
	Kind Kind
	Card *scorecard.Card
}

// NewPlayer creates a player with an empty card.
func NewPlayer(name string, kind Kind) *Player {
	return &Player{
		Name: name,
		Kind: kind,
		Card: scorecard.New(),
	}
}
