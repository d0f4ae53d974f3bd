package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/generala/internal/ai"
	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/scoring"
)

// MaxRolls is the number of rolls a player may make in one turn.
const MaxRolls = 1 + ai.RerollsPerTurn

// GeneralaBonus is the score recorded for five equal dice on the first roll.
const GeneralaBonus = 60

var (
	// ErrMatchOver is returned by every action once the match has ended.
	ErrMatchOver = errors.New("match is over")
	// ErrNotHumanTurn is returned when Roll or Claim is called on the computer's turn.
	ErrNotHumanTurn = errors.New("not a human player's turn")
	// ErrNotComputerTurn is returned when PlayComputer is called on a human's turn.
	ErrNotComputerTurn = errors.New("not a computer player's turn")
	// ErrNoRollsLeft is returned by Roll after MaxRolls rolls in a turn.
	ErrNoRollsLeft = errors.New("no rolls left this turn")
	// ErrNotRolled is returned by Claim before the first roll of a turn.
	ErrNotRolled = errors.New("dice have not been rolled this turn")
)

// Reason says why a match ended.
type Reason int

const (
	InProgress Reason = iota
	Completed
	FirstRollGenerala
)

func (r Reason) String() string {
	switch r {
	case InProgress:
		return "in progress"
	case Completed:
		return "completed"
	case FirstRollGenerala:
		return "first roll generala"
	default:
		return "unknown"
	}
}

// Outcome summarises the state of a match. Winner is the player index, or -1
// while the match is running or when it ended in a draw.
type Outcome struct {
	Over   bool
	Reason Reason
	Winner int
	Totals [2]int
}

// Tie reports whether a finished match was drawn.
func (o Outcome) Tie() bool {
	return o.Over && o.Winner < 0
}

// TurnPlayer plays a whole computer turn without touching either card.
// *ai.Engine satisfies it.
type TurnPlayer interface {
	PlayTurn(own, opp ai.CardReader) (*ai.TurnLog, error)
}

// ComputerTurn is what PlayComputer applied to the card.
type ComputerTurn struct {
	Log      *ai.TurnLog
	Category scoring.Category
	Score    int
	Served   bool
	Rolls    int
	// Generala is set when the first roll ended the match.
	Generala bool
}

// Match is a two-player game. It is not safe for concurrent use.
type Match struct {
	id      uuid.UUID
	players [2]*Player
	current int
	turn    int
	hand    dice.Hand
	rolls   int

	over   bool
	reason Reason
	winner int

	src           dice.Source
	logger        *log.Logger
	bus           EventBus
	clock         quartz.Clock
	firstRollWins bool
	startedAt     time.Time
}

// MatchOption configures a Match.
type MatchOption func(*Match)

// WithClock sets the clock used for event timestamps and durations.
func WithClock(clock quartz.Clock) MatchOption {
	return func(m *Match) {
		m.clock = clock
	}
}

// WithEventBus publishes match events on bus.
func WithEventBus(bus EventBus) MatchOption {
	return func(m *Match) {
		m.bus = bus
	}
}

// WithFirstRollGeneralaWins toggles the first-roll Generala rule.
func WithFirstRollGeneralaWins(enabled bool) MatchOption {
	return func(m *Match) {
		m.firstRollWins = enabled
	}
}

// NewMatch creates a match in which first moves first. Human rolls draw dice
// from src; computer turns use the engine's own source.
func NewMatch(first, second *Player, src dice.Source, logger *log.Logger, opts ...MatchOption) *Match {
	m := &Match{
		id:            uuid.New(),
		players:       [2]*Player{first, second},
		turn:          1,
		winner:        -1,
		src:           src,
		bus:           NewEventBus(),
		clock:         quartz.NewReal(),
		firstRollWins: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logger.WithPrefix("game").With("match", m.id.String()[:8])
	m.startedAt = m.clock.Now()
	m.logger.Debug("Match created", "first", first.Name, "second", second.Name, "firstRollWins", m.firstRollWins)
	return m
}

// ID returns the match identifier.
func (m *Match) ID() uuid.UUID { return m.id }

// Players returns both players in seat order.
func (m *Match) Players() [2]*Player { return m.players }

// Current returns the player whose turn it is.
func (m *Match) Current() *Player { return m.players[m.current] }

// CurrentIndex returns the seat of the player whose turn it is.
func (m *Match) CurrentIndex() int { return m.current }

// Opponent returns the player waiting for their turn.
func (m *Match) Opponent() *Player { return m.players[1-m.current] }

// Turn returns the 1-based turn counter across both players.
func (m *Match) Turn() int { return m.turn }

// Hand returns a copy of the live hand, or nil before the first roll.
func (m *Match) Hand() dice.Hand {
	if m.hand == nil {
		return nil
	}
	return m.hand.Copy()
}

// RollsUsed returns how many rolls the current turn has used.
func (m *Match) RollsUsed() int { return m.rolls }

// RollsLeft returns how many rolls the current turn has left.
func (m *Match) RollsLeft() int { return MaxRolls - m.rolls }

// Elapsed returns the time since the match was created.
func (m *Match) Elapsed() time.Duration { return m.clock.Since(m.startedAt) }

// Roll rolls for the human player. The first roll of a turn rolls all five
// dice and ignores hold; later rolls keep the dice hold marks. A nil hold
// re-rolls everything.
func (m *Match) Roll(hold dice.Mask) (dice.Hand, error) {
	if err := m.guard(Human); err != nil {
		return nil, err
	}
	if m.rolls >= MaxRolls {
		return nil, ErrNoRollsLeft
	}

	if m.rolls == 0 {
		m.publishTurnStart()
		hold = dice.NoneHeld(dice.Count)
		m.hand = dice.RollFresh(m.src, dice.Count)
	} else {
		if hold == nil {
			hold = dice.NoneHeld(dice.Count)
		}
		next, err := dice.RollWithMask(m.src, m.hand, hold)
		if err != nil {
			return nil, err
		}
		m.hand = next
	}
	m.rolls++

	player := m.Current()
	m.logger.Debug("Roll", "player", player.Name, "roll", m.rolls, "hold", hold, "hand", m.hand)
	m.publish(RollEvent{Player: player.Name, Roll: m.rolls, Hold: hold, Hand: m.hand.Copy(), timestamp: m.clock.Now()})

	if m.rolls == 1 && m.firstRollGenerala(m.hand) {
		if err := m.claim(scoring.Generala, GeneralaBonus, true, true); err != nil {
			return nil, err
		}
	}
	return m.Hand(), nil
}

// Claim scores category for the human player and ends their turn. The claim
// is served when only one roll was used.
func (m *Match) Claim(category scoring.Category) (int, error) {
	if err := m.guard(Human); err != nil {
		return 0, err
	}
	if m.rolls == 0 {
		return 0, ErrNotRolled
	}
	served := m.rolls == 1
	points := scoring.Score(category, m.hand, served)
	if err := m.claim(category, points, served, false); err != nil {
		return 0, err
	}
	return points, nil
}

// Potential returns what every unused category would score for the current
// player right now. It is nil before the first roll.
func (m *Match) Potential() map[scoring.Category]int {
	if m.rolls == 0 || m.over {
		return nil
	}
	return scoring.AllScores(m.hand, m.rolls == 1, m.Current().Card.Used())
}

// PlayComputer plays the current computer player's turn with p and applies
// the result to their card.
func (m *Match) PlayComputer(p TurnPlayer) (ComputerTurn, error) {
	if err := m.guard(Computer); err != nil {
		return ComputerTurn{}, err
	}
	player, opp := m.Current(), m.Opponent()

	tl, err := p.PlayTurn(player.Card, opp.Card)
	if err != nil {
		return ComputerTurn{}, fmt.Errorf("computer turn for %s: %w", player.Name, err)
	}

	m.publishTurnStart()
	first := tl.FirstRoll()
	if m.firstRollGenerala(first) {
		m.hand = first.Copy()
		m.rolls = 1
		m.publish(RollEvent{Player: player.Name, Roll: 1, Hold: tl.Steps[0].Hold, Hand: first.Copy(), Note: tl.Steps[0].Note, timestamp: m.clock.Now()})
		if err := m.claim(scoring.Generala, GeneralaBonus, true, true); err != nil {
			return ComputerTurn{}, err
		}
		return ComputerTurn{Log: tl, Category: scoring.Generala, Score: GeneralaBonus, Served: true, Rolls: 1, Generala: true}, nil
	}

	for i, step := range tl.Steps {
		m.publish(RollEvent{Player: player.Name, Roll: i + 1, Hold: step.Hold, Hand: step.Hand.Copy(), Note: step.Note, timestamp: m.clock.Now()})
	}
	m.hand = tl.Final.Copy()
	m.rolls = len(tl.Steps)

	if err := m.claim(tl.Category, tl.Score, false, false); err != nil {
		return ComputerTurn{}, err
	}
	return ComputerTurn{Log: tl, Category: tl.Category, Score: tl.Score, Rolls: len(tl.Steps)}, nil
}

// Outcome reports whether the match is over and who won.
func (m *Match) Outcome() Outcome {
	o := Outcome{
		Over:   m.over,
		Reason: m.reason,
		Winner: m.winner,
	}
	for i, p := range m.players {
		o.Totals[i] = p.Card.Total()
	}
	return o
}

func (m *Match) guard(kind Kind) error {
	if m.over {
		return ErrMatchOver
	}
	if m.Current().Kind != kind {
		if kind == Human {
			return ErrNotHumanTurn
		}
		return ErrNotComputerTurn
	}
	return nil
}

func (m *Match) firstRollGenerala(h dice.Hand) bool {
	return m.firstRollWins && len(h) == dice.Count && dice.AllEqual(h) && !m.Current().Card.IsUsed(scoring.Generala)
}

// claim records the score, publishes it and either ends the match or passes
// the turn. generala ends the match in favour of the current player.
func (m *Match) claim(category scoring.Category, points int, served, generala bool) error {
	player := m.Current()
	if err := player.Card.Set(category, points); err != nil {
		return err
	}
	m.logger.Info("Category claimed", "player", player.Name, "category", category, "score", points, "served", served, "total", player.Card.Total())
	m.publish(ClaimEvent{Player: player.Name, Category: category, Score: points, Served: served, Hand: m.hand.Copy(), timestamp: m.clock.Now()})

	switch {
	case generala:
		m.finish(FirstRollGenerala, m.current)
	case m.players[0].Card.Completed() && m.players[1].Card.Completed():
		m.finish(Completed, m.leader())
	default:
		m.current = 1 - m.current
		m.turn++
		m.rolls = 0
		m.hand = nil
	}
	return nil
}

func (m *Match) leader() int {
	a, b := m.players[0].Card.Total(), m.players[1].Card.Total()
	switch {
	case a > b:
		return 0
	case b > a:
		return 1
	default:
		return -1
	}
}

func (m *Match) finish(reason Reason, winner int) {
	m.over = true
	m.reason = reason
	m.winner = winner
	o := m.Outcome()
	m.logger.Info("Match over", "reason", reason, "winner", winner, "totals", o.Totals, "turns", m.turn, "elapsed", m.Elapsed())
	m.publish(MatchEndEvent{Outcome: o, Players: [2]string{m.players[0].Name, m.players[1].Name}, timestamp: m.clock.Now()})
}

func (m *Match) publishTurnStart() {
	p := m.Current()
	m.publish(TurnStartEvent{Turn: m.turn, Player: p.Name, Kind: p.Kind, timestamp: m.clock.Now()})
}

func (m *Match) publish(e GameEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}
