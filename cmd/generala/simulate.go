package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/generala/cmd/generala/shared"
	"github.com/lox/generala/internal/fileutil"
	"github.com/lox/generala/internal/randutil"
	"github.com/lox/generala/internal/simulator"
)

type SimulateCmd struct {
	Games          int           `short:"n" help:"Number of matches (0 uses the config file)"`
	Workers        int           `short:"w" help:"Parallel matches (0 uses the config file, then GOMAXPROCS)"`
	Seed           int64         `help:"Base RNG seed (0 uses the config file, then a random seed)"`
	Timeout        time.Duration `help:"Per-match timeout (0 uses the config file)"`
	First          string        `help:"Difficulty the statistics are reported for"`
	Second         string        `help:"Opponent difficulty"`
	NoFirstRollWin bool          `help:"Disable the first-roll Generala instant win"`
	Verbose        bool          `help:"Log every computer turn"`
	StatsFile      string        `type:"path" help:"Write a JSON summary to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}

	hero, err := difficulty(c.First, cfg.Simulation.First)
	if err != nil {
		return err
	}
	opponent, err := difficulty(c.Second, cfg.Simulation.Second)
	if err != nil {
		return err
	}
	presets, err := cfg.Presets()
	if err != nil {
		return err
	}

	games := c.Games
	if games == 0 {
		games = cfg.Simulation.Games
	}
	workers := c.Workers
	if workers == 0 {
		workers = cfg.Simulation.Workers
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = cfg.SimulationTimeout()
	}
	seed := c.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	seed, err = randutil.Resolve(seed)
	if err != nil {
		return err
	}

	simCfg := simulator.Config{
		Games:                 games,
		Workers:               workers,
		Seed:                  seed,
		Timeout:               timeout,
		Hero:                  hero,
		Opponent:              opponent,
		Presets:               presets,
		FirstRollGeneralaWins: cfg.FirstRollGeneralaWins() && !c.NoFirstRollWin,
		Logger:                logger,
	}
	if c.Verbose {
		simCfg.GameLogger = logger
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	stats, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, stats, hero, opponent)

	if c.StatsFile != "" {
		if err := fileutil.WriteJSON(c.StatsFile, stats.Summary()); err != nil {
			return fmt.Errorf("write stats file: %w", err)
		}
		logger.Info("Stats written to file", "file", c.StatsFile)
	}
	logger.Info("Replay with", "seed", seed)
	return nil
}
