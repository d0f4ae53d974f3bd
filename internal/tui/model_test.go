package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/generala/internal/ai"
	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/game"
	"github.com/lox/generala/internal/randutil"
	"github.com/lox/generala/internal/scoring"
)

type scripted struct {
	faces []int
	i     int
}

func (s *scripted) IntN(n int) int {
	f := s.faces[s.i%len(s.faces)]
	s.i++
	return (f - 1) % n
}

func newTestModel(t *testing.T, src dice.Source, humanFirst bool) (*Model, *game.Match) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	human := game.NewPlayer("You", game.Human)
	computer := game.NewPlayer("Computer", game.Computer)
	first, second := human, computer
	if !humanFirst {
		first, second = computer, human
	}

	bus := game.NewEventBus()
	match := game.NewMatch(first, second, src, logger, game.WithClock(quartz.NewMock(t)), game.WithEventBus(bus))
	engine, err := ai.NewEngine(randutil.New(7), ai.Easy, logger)
	require.NoError(t, err)

	return NewModel(match, bus, engine, logger, WithStepDelay(0)), match
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// playBack drives a scheduled computer turn to completion.
func playBack(t *testing.T, m *Model) {
	t.Helper()
	m.Update(computerTurnMsg{})
	for i := 0; m.playing; i++ {
		require.Less(t, i, 20, "playback did not finish")
		m.Update(playbackMsg{})
	}
}

func TestInitHumanFirst(t *testing.T) {
	m, _ := newTestModel(t, &scripted{faces: []int{1, 2, 3, 4, 6}}, true)
	assert.Nil(t, m.Init())
	assert.False(t, m.playing)
}

func TestInitComputerFirst(t *testing.T) {
	m, match := newTestModel(t, &scripted{faces: []int{1, 2, 3, 4, 6}}, false)
	require.NotNil(t, m.Init())
	assert.True(t, m.playing)

	playBack(t, m)
	assert.Equal(t, game.Human, match.Current().Kind)
	assert.Contains(t, m.Status(), "Your turn")
}

func TestHoldBeforeRoll(t *testing.T) {
	m, _ := newTestModel(t, &scripted{faces: []int{1, 2, 3, 4, 6}}, true)

	press(m, "1")
	assert.Equal(t, "Roll first", m.Status())
	assert.Equal(t, dice.NoneHeld(dice.Count), m.Holds())
}

func TestRollAndHold(t *testing.T) {
	m, match := newTestModel(t, &scripted{faces: []int{6, 2, 3, 4, 1}}, true)

	press(m, "r")
	assert.Equal(t, 2, match.RollsLeft())
	log := m.Log()
	require.Len(t, log, 2)
	assert.Equal(t, "*** Turn 1: You ***", log[0])
	assert.True(t, strings.HasPrefix(log[1], "You roll "), log[1])

	press(m, "1")
	assert.Equal(t, dice.Mask{true, false, false, false, false}, m.Holds())

	press(m, "r")
	assert.Equal(t, 6, match.Hand()[0])
	assert.Contains(t, m.Log()[2], "holding H....")

	press(m, "r")
	press(m, "r")
	assert.Equal(t, "No rolls left, choose a category", m.Status())
}

func TestClaimBeforeRoll(t *testing.T) {
	m, _ := newTestModel(t, &scripted{faces: []int{1, 2, 3, 4, 6}}, true)

	assert.Nil(t, press(m, "enter"))
	assert.Equal(t, "Roll the dice first", m.Status())
}

func TestClaimThenComputerTurn(t *testing.T) {
	m, match := newTestModel(t, &scripted{faces: []int{2, 2, 3, 4, 6}}, true)

	press(m, "r")
	press(m, "down")
	assert.Equal(t, scoring.Twos, m.Selected())

	cmd := press(m, "enter")
	require.NotNil(t, cmd, "computer turn is scheduled")
	score, ok := match.Players()[0].Card.Get(scoring.Twos)
	require.True(t, ok)
	assert.Equal(t, scoring.Score(scoring.Twos, dice.Hand{2, 2, 3, 4, 6}, true), score)
	assert.Contains(t, m.Status(), "Scored")

	// Human keys are ignored while the computer plays.
	press(m, "r")
	assert.Equal(t, 0, match.RollsUsed())

	playBack(t, m)
	joined := strings.Join(m.Log(), "\n")
	assert.Contains(t, joined, "Computer rolls")
	assert.Contains(t, joined, "Computer scores")
	assert.Equal(t, game.Human, match.Current().Kind)
	assert.Equal(t, 3, match.Turn())
}

func TestClaimUsedCategory(t *testing.T) {
	m, match := newTestModel(t, &scripted{faces: []int{2, 2, 3, 4, 6}}, true)

	press(m, "r")
	press(m, "enter")
	playBack(t, m)

	press(m, "r")
	press(m, "enter")
	assert.Contains(t, m.Status(), "already used")
	assert.Equal(t, game.Human, match.Current().Kind)
}

func TestHint(t *testing.T) {
	m, _ := newTestModel(t, &scripted{faces: []int{5, 5, 5, 2, 1}}, true)

	press(m, "h")
	assert.Equal(t, "Roll the dice first", m.Hint())

	press(m, "r")
	press(m, "h")
	assert.Contains(t, m.Hint(), "EV")

	press(m, "r")
	press(m, "r")
	press(m, "h")
	assert.True(t, strings.HasPrefix(m.Hint(), "Score "), m.Hint())
}

func TestFirstRollGenerala(t *testing.T) {
	m, match := newTestModel(t, &scripted{faces: []int{3}}, true)

	press(m, "r")
	assert.True(t, match.Outcome().Over)
	assert.Equal(t, "You rolled Generala on the first roll and win (60:0)", m.Status())

	press(m, "r")
	assert.Equal(t, 1, match.RollsUsed(), "no input after the match ends")
}

func TestCursorWraps(t *testing.T) {
	m, _ := newTestModel(t, &scripted{faces: []int{1}}, true)

	press(m, "up")
	assert.Equal(t, scoring.Generala, m.Selected())
	press(m, "down")
	assert.Equal(t, scoring.Ones, m.Selected())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, &scripted{faces: []int{1}}, true)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t, &scripted{faces: []int{1, 2, 3, 4, 6}}, true)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "Generala  turn 1")
	assert.Contains(t, view, "FourOfAKind")
	assert.Contains(t, view, "Total")
	assert.Contains(t, view, "Rolls left: 3")
	assert.Contains(t, view, "No dice rolled")

	press(m, "r")
	view = m.View()
	assert.Contains(t, view, "Rolls left: 2")
	assert.Contains(t, view, "1: ")
}
