// Package tui is the terminal front end for playing Generala against the
// computer.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/generala/internal/ai"
	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/game"
	"github.com/lox/generala/internal/scoring"
)

// DefaultStepDelay is the pause between replayed computer rolls.
const DefaultStepDelay = 700 * time.Millisecond

// Opponent plays computer turns and gives hints to the human.
// *ai.Engine satisfies it.
type Opponent interface {
	game.TurnPlayer
	Decide(h dice.Hand, rollsLeft int, used scoring.CategorySet) (ai.Decision, error)
}

// computerTurnMsg asks the model to play the computer's turn.
type computerTurnMsg struct{}

// playbackMsg reveals the next queued event of a computer turn.
type playbackMsg struct{}

// Model is the Bubble Tea model for a match against the computer.
type Model struct {
	match    *game.Match
	opponent Opponent
	logger   *log.Logger
	fmt      *game.EventFormatter

	// UI components
	logViewport viewport.Model
	help        help.Model
	keys        keyMap

	// State
	holds     dice.Mask
	cursor    int // index into scoring.Categories
	gameLog   []string
	pending   []game.GameEvent
	playing   bool // computer turn replay in progress
	shown     dice.Hand
	shownHold dice.Mask
	status    string
	statusErr bool
	hint      string
	quitting  bool
	stepDelay time.Duration

	// Dimensions
	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithStepDelay sets the pause between replayed computer rolls.
func WithStepDelay(d time.Duration) Option {
	return func(m *Model) {
		m.stepDelay = d
	}
}

// NewModel creates a model over match. bus must be the event bus the match
// publishes on.
func NewModel(match *game.Match, bus game.EventBus, opponent Opponent, logger *log.Logger, opts ...Option) *Model {
	human := ""
	for _, p := range match.Players() {
		if p.Kind == game.Human {
			human = p.Name
		}
	}

	m := &Model{
		match:       match,
		opponent:    opponent,
		logger:      logger.WithPrefix("tui"),
		fmt:         game.NewEventFormatter(game.FormattingOptions{Perspective: human}),
		logViewport: viewport.New(40, 10),
		help:        help.New(),
		keys:        defaultKeyMap(),
		holds:       dice.NoneHeld(dice.Count),
		stepDelay:   DefaultStepDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	bus.Subscribe(m)
	return m
}

// OnEvent queues match events for display.
func (m *Model) OnEvent(event game.GameEvent) {
	m.pending = append(m.pending, event)
}

// Init starts the computer's turn when it moves first.
func (m *Model) Init() tea.Cmd {
	return m.nextTurn()
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case computerTurnMsg:
		return m, m.playComputer()

	case playbackMsg:
		return m, m.reveal()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.HalfPageUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	}

	if !m.humanToMove() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Hold):
		m.toggleHold(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Roll):
		m.roll()
	case key.Matches(msg, m.keys.Hint):
		m.showHint()
	case key.Matches(msg, m.keys.Claim):
		return m, m.claim()
	}
	return m, nil
}

func (m *Model) humanToMove() bool {
	return !m.playing && !m.match.Outcome().Over && m.match.Current().Kind == game.Human
}

func (m *Model) moveCursor(delta int) {
	n := len(scoring.Categories)
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) toggleHold(i int) {
	if m.match.RollsUsed() == 0 {
		m.setError("Roll first")
		return
	}
	if i < 0 || i >= len(m.holds) {
		return
	}
	m.holds[i] = !m.holds[i]
	m.hint = ""
}

func (m *Model) roll() {
	hand, err := m.match.Roll(m.holds)
	if err != nil {
		m.setError(describe(err))
		return
	}
	m.hint = ""
	m.flush()
	if m.match.Outcome().Over {
		return
	}
	m.setStatus(fmt.Sprintf("Rolled %s, %d rolls left", hand, m.match.RollsLeft()))
}

func (m *Model) claim() tea.Cmd {
	category := scoring.Categories[m.cursor]
	points, err := m.match.Claim(category)
	if err != nil {
		m.setError(describe(err))
		return nil
	}
	m.flush()
	m.holds = dice.NoneHeld(dice.Count)
	m.hint = ""
	m.setStatus(fmt.Sprintf("Scored %d in %s", points, category))
	return m.nextTurn()
}

func (m *Model) showHint() {
	hand := m.match.Hand()
	if hand == nil {
		m.hint = "Roll the dice first"
		return
	}
	used := m.match.Current().Card.Used()
	if m.match.RollsLeft() > 0 {
		d, err := m.opponent.Decide(hand, m.match.RollsLeft(), used)
		if err != nil {
			m.setError(err.Error())
			return
		}
		m.hint = fmt.Sprintf("Hold %s (EV %.1f)", d.Best.Hold, d.Best.EV)
		return
	}
	c, score, ok := scoring.Best(hand, false, used)
	if !ok {
		m.hint = "Nothing left to score"
		return
	}
	m.hint = fmt.Sprintf("Score %s for %d", c, score)
}

// nextTurn schedules the computer when it is next to move.
func (m *Model) nextTurn() tea.Cmd {
	if m.match.Outcome().Over || m.match.Current().Kind != game.Computer {
		return nil
	}
	m.playing = true
	return tea.Tick(m.stepDelay, func(time.Time) tea.Msg { return computerTurnMsg{} })
}

func (m *Model) playComputer() tea.Cmd {
	turn, err := m.match.PlayComputer(m.opponent)
	if err != nil {
		m.playing = false
		m.setError(err.Error())
		m.logger.Error("Computer turn failed", "error", err)
		return nil
	}
	m.logger.Debug("Computer turn played", "category", turn.Category, "score", turn.Score, "rolls", turn.Rolls)
	return m.reveal()
}

// reveal shows the next queued event and schedules the one after it.
func (m *Model) reveal() tea.Cmd {
	if len(m.pending) == 0 {
		m.playing = false
		m.shown, m.shownHold = nil, nil
		return nil
	}
	event := m.pending[0]
	m.pending = m.pending[1:]
	if roll, ok := event.(game.RollEvent); ok {
		m.shown, m.shownHold = roll.Hand, roll.Hold
	}
	m.appendLog(event)

	if len(m.pending) == 0 {
		m.playing = false
		if claim, ok := event.(game.ClaimEvent); ok && !m.match.Outcome().Over {
			m.setStatus(fmt.Sprintf("%s scored %d in %s. Your turn", claim.Player, claim.Score, claim.Category))
		}
		return m.nextTurn()
	}
	return tea.Tick(m.stepDelay, func(time.Time) tea.Msg { return playbackMsg{} })
}

// flush moves every queued event straight into the log.
func (m *Model) flush() {
	for _, e := range m.pending {
		m.appendLog(e)
	}
	m.pending = nil
}

func (m *Model) appendLog(e game.GameEvent) {
	line := m.fmt.Format(e)
	if line == "" {
		return
	}
	if _, ok := e.(game.MatchEndEvent); ok {
		m.setStatus(line)
	}
	m.gameLog = append(m.gameLog, line)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// Log returns the lines written to the game log so far.
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

// Status returns the current status line.
func (m *Model) Status() string {
	return m.status
}

// Hint returns the last hint, if any.
func (m *Model) Hint() string {
	return m.hint
}

// Holds returns the current hold marks.
func (m *Model) Holds() dice.Mask {
	out := make(dice.Mask, len(m.holds))
	copy(out, m.holds)
	return out
}

// Selected returns the category under the cursor.
func (m *Model) Selected() scoring.Category {
	return scoring.Categories[m.cursor]
}

// Run starts the interactive program and blocks until it exits.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func describe(err error) string {
	switch {
	case errors.Is(err, game.ErrNoRollsLeft):
		return "No rolls left, choose a category"
	case errors.Is(err, game.ErrNotRolled):
		return "Roll the dice first"
	default:
		return err.Error()
	}
}
