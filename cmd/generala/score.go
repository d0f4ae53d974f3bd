package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/generala/internal/dice"
	"github.com/lox/generala/internal/scoring"
)

type ScoreCmd struct {
	Hand   string   `arg:"" help:"Five dice, e.g. 2,2,2,5,5 or 22255"`
	Served bool     `short:"s" help:"Score as served (made on the first roll)"`
	Used   []string `short:"u" help:"Categories to leave out"`
}

var bestStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))

func (c *ScoreCmd) Run(g *Globals) error {
	if _, _, err := g.load(); err != nil {
		return err
	}

	hand, err := dice.Parse(c.Hand)
	if err != nil {
		return err
	}
	used, err := usedCategories(c.Used)
	if err != nil {
		return err
	}

	scores := scoring.AllScores(hand, c.Served, used)
	best, _, ok := scoring.Best(hand, c.Served, used)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Category", "Score")
	for _, cat := range scoring.Categories {
		s, open := scores[cat]
		if !open {
			continue
		}
		name, value := cat.String(), strconv.Itoa(s)
		if ok && cat == best {
			name, value = bestStyle.Render(name+" *"), bestStyle.Render(value)
		}
		t.Row(name, value)
	}

	title := fmt.Sprintf("%s %v", hand, []int(hand))
	if c.Served {
		title += " served"
	}
	fmt.Println(title)
	fmt.Println(t.Render())
	return nil
}
