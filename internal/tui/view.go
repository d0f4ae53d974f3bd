package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/game"
	"github.com/lox/generala/internal/scoring"
)

const cardWidth = 36

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	header := HeaderStyle.Render(fmt.Sprintf("Generala  turn %d", m.match.Turn()))

	card := m.renderScoreCard()
	cardPane := paneStyle.Width(cardWidth).Render(card)

	logWidth := max(20, m.width-cardWidth-6)
	logHeight := max(5, lipgloss.Height(cardPane)-2)
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	logPane := paneStyle.Width(logWidth).Height(logHeight).Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, cardPane, logPane)

	actionStyle := paneStyle
	if m.humanToMove() {
		actionStyle = activePaneStyle
	}
	action := actionStyle.Width(max(cardWidth, m.width-2)).Render(m.renderActionPane())

	return lipgloss.JoinVertical(lipgloss.Left, header, top, action, m.help.View(m.keys))
}

// renderScoreCard shows both cards side by side with the live potential of
// the player to move.
func (m *Model) renderScoreCard() string {
	players := m.match.Players()
	current := m.match.CurrentIndex()
	potential := m.match.Potential()

	var b strings.Builder
	fmt.Fprintf(&b, "  %-14s %7s %7s\n", "", truncate(players[0].Name, 7), truncate(players[1].Name, 7))
	for i, c := range scoring.Categories {
		cells := [2]string{}
		for seat, p := range players {
			score, ok := p.Card.Get(c)
			switch {
			case ok:
				cells[seat] = fmt.Sprintf("%7d", score)
			case seat == current && potential != nil:
				cells[seat] = PotentialStyle.Render(fmt.Sprintf("%6d?", potential[c]))
			default:
				cells[seat] = UsedStyle.Render(fmt.Sprintf("%7s", "-"))
			}
		}

		name := fmt.Sprintf("%-14s", c)
		marker := "  "
		if i == m.cursor {
			marker = "> "
			name = SelectedStyle.Render(name)
		} else if players[current].Card.IsUsed(c) {
			name = UsedStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", marker, name, cells[0], cells[1])
	}
	fmt.Fprintf(&b, "  %-14s %7d %7d", "Total", players[0].Card.Total(), players[1].Card.Total())
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	hand, hold := m.match.Hand(), m.holds
	if m.playing || m.match.Current().Kind != game.Human {
		hand, hold = m.shown, m.shownHold
	}
	b.WriteString(renderDice(hand, hold))
	b.WriteString("\n")

	switch {
	case m.match.Outcome().Over:
		b.WriteString(WarningStyle.Render("Game over"))
	case m.playing:
		b.WriteString(InfoStyle.Render(m.match.Current().Name + " is playing..."))
	default:
		b.WriteString(fmt.Sprintf("Rolls left: %d", m.match.RollsLeft()))
	}
	b.WriteString("\n")

	if m.status != "" {
		style := SuccessStyle
		if m.statusErr {
			style = ErrorStyle
		}
		b.WriteString(style.Render(m.status))
	}
	if m.hint != "" {
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render("Hint: " + m.hint))
	}
	return b.String()
}

// renderDice draws the five dice with their positions; held dice are
// highlighted.
func renderDice(hand dice.Hand, hold dice.Mask) string {
	if len(hand) == 0 {
		return InfoStyle.Render("No dice rolled")
	}
	cells := make([]string, len(hand))
	for i, face := range hand {
		label := fmt.Sprintf("%d: %s %d", i+1, dice.Hand{face}, face)
		if i < len(hold) && hold[i] {
			cells[i] = HeldDieStyle.Render(label)
		} else {
			cells[i] = DieStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
