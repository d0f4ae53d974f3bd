package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/generala/cmd/generala/shared"
	"github.com/lox/generala/internal/ai"
	"github.com/lox/generala/internal/game"
	"github.com/lox/generala/internal/randutil"
	"github.com/lox/generala/internal/tui"
)

type PlayCmd struct {
	Difficulty     string `short:"d" help:"Computer difficulty (easy|medium|hard), overrides the config file"`
	Seed           int64  `help:"RNG seed (0 uses the config file, then a random seed)"`
	Name           string `help:"Your name in the score card"`
	ComputerFirst  bool   `help:"Let the computer move first"`
	NoFirstRollWin bool   `help:"Disable the first-roll Generala instant win"`
	LogFile        string `type:"path" help:"Write logs to this file (the terminal is taken by the game)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}

	// The game owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := shared.NewLogger(out, cfg.LogLevel(), cfg.Log.JSON)

	diff, err := computerDifficulty(cfg, c.Difficulty)
	if err != nil {
		return err
	}
	presets, err := cfg.Presets()
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = cfg.Match.Seed
	}
	seed, err = randutil.Resolve(seed)
	if err != nil {
		return err
	}

	engine, err := ai.NewEngine(randutil.New(randutil.Derive(seed, 1)), diff, logger, ai.WithPresets(presets))
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = cfg.Match.PlayerName
	}
	human := game.NewPlayer(name, game.Human)
	computer := game.NewPlayer("Computer", game.Computer)
	first, second := human, computer
	if c.ComputerFirst {
		first, second = computer, human
	}

	bus := game.NewEventBus()
	match := game.NewMatch(first, second, randutil.New(seed), logger,
		game.WithEventBus(bus),
		game.WithFirstRollGeneralaWins(cfg.FirstRollGeneralaWins() && !c.NoFirstRollWin))

	logger.Info("Starting match", "match", match.ID(), "seed", seed, "difficulty", diff)

	if err := tui.Run(tui.NewModel(match, bus, engine, logger)); err != nil {
		return err
	}

	o := match.Outcome()
	if !o.Over {
		logger.Info("Match abandoned", "turn", match.Turn())
		fmt.Printf("Match abandoned on turn %d at %d:%d (seed %d)\n", match.Turn(), o.Totals[0], o.Totals[1], seed)
		return nil
	}
	ef := game.NewEventFormatter(game.FormattingOptions{Perspective: name})
	fmt.Printf("%s (seed %d)\n", ef.FormatMatchEnd(game.MatchEndEvent{
		Outcome: o,
		Players: [2]string{first.Name, second.Name},
	}), seed)
	return nil
}
