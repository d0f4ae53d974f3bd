package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/scoring"
)

// EventType identifies a match event.
type EventType string

const (
	EventTypeTurnStart EventType = "turn_start"
	EventTypeRoll      EventType = "roll"
	EventTypeClaim     EventType = "claim"
	EventTypeMatchEnd  EventType = "match_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent is anything that happens during a match.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// TurnStartEvent is published when a player's turn begins.
type TurnStartEvent struct {
	Turn      int
	Player    string
	Kind      Kind
	timestamp time.Time
}

func (e TurnStartEvent) EventType() EventType { return EventTypeTurnStart }
func (e TurnStartEvent) Timestamp() time.Time { return e.timestamp }

// RollEvent is published after every roll, human or computer.
type RollEvent struct {
	Player    string
	Roll      int // 1-based within the turn
	Hold      dice.Mask
	Hand      dice.Hand
	Note      string
	timestamp time.Time
}

func (e RollEvent) EventType() EventType { return EventTypeRoll }
func (e RollEvent) Timestamp() time.Time { return e.timestamp }

// ClaimEvent is published when a category is scored.
type ClaimEvent struct {
	Player    string
	Category  scoring.Category
	Score     int
	Served    bool
	Hand      dice.Hand
	timestamp time.Time
}

func (e ClaimEvent) EventType() EventType { return EventTypeClaim }
func (e ClaimEvent) Timestamp() time.Time { return e.timestamp }

// MatchEndEvent is published once, when the match is decided.
type MatchEndEvent struct {
	Outcome   Outcome
	Players   [2]string
	timestamp time.Time
}

func (e MatchEndEvent) EventType() EventType { return EventTypeMatchEnd }
func (e MatchEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// FormattingOptions controls how events are rendered.
type FormattingOptions struct {
	ShowNotes   bool   // Include engine notes such as "mask EV=23.4"
	Perspective string // Player name rendered as "You"
}

// EventFormatter renders events as single human-readable lines.
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format dispatches on the event type. Unknown events render as "".
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case TurnStartEvent:
		return ef.FormatTurnStart(e)
	case RollEvent:
		return ef.FormatRoll(e)
	case ClaimEvent:
		return ef.FormatClaim(e)
	case MatchEndEvent:
		return ef.FormatMatchEnd(e)
	}
	return ""
}

// FormatTurnStart formats a turn start, e.g. "*** Turn 3: Computer ***".
func (ef *EventFormatter) FormatTurnStart(e TurnStartEvent) string {
	return fmt.Sprintf("*** Turn %d: %s ***", e.Turn, ef.name(e.Player))
}

// FormatRoll formats a roll, e.g. "Computer rolls ⚅⚅⚂⚅⚀ holding HH...".
func (ef *EventFormatter) FormatRoll(e RollEvent) string {
	var b strings.Builder
	name := ef.name(e.Player)
	fmt.Fprintf(&b, "%s %s %s", name, verb(name, "roll"), e.Hand)
	if e.Hold.Held() > 0 {
		fmt.Fprintf(&b, " holding %s", e.Hold)
	}
	if ef.opts.ShowNotes && e.Note != "" {
		fmt.Fprintf(&b, " (%s)", e.Note)
	}
	return b.String()
}

// FormatClaim formats a claim, e.g. "You score 35 in FullHouse (served)".
func (ef *EventFormatter) FormatClaim(e ClaimEvent) string {
	name := ef.name(e.Player)
	line := fmt.Sprintf("%s %s %d in %s", name, verb(name, "score"), e.Score, e.Category)
	if e.Served {
		line += " (served)"
	}
	return line
}

// FormatMatchEnd formats the result line.
func (ef *EventFormatter) FormatMatchEnd(e MatchEndEvent) string {
	o := e.Outcome
	score := fmt.Sprintf("%d:%d", o.Totals[0], o.Totals[1])
	switch {
	case o.Reason == FirstRollGenerala:
		name := ef.name(e.Players[o.Winner])
		return fmt.Sprintf("%s rolled Generala on the first roll and %s (%s)", name, verb(name, "win"), score)
	case o.Winner < 0:
		return fmt.Sprintf("Game over. Draw %s", score)
	default:
		name := ef.name(e.Players[o.Winner])
		return fmt.Sprintf("Game over. %s %s %s", name, verb(name, "win"), score)
	}
}

func (ef *EventFormatter) name(player string) string {
	if ef.opts.Perspective != "" && player == ef.opts.Perspective {
		return "You"
	}
	return player
}

func verb(name, v string) string {
	if name == "You" {
		return v
	}
	return v + "s"
}
