package main

import (
	"fmt"

	"github.com/lox/generala/internal/ai"
	"github.com/lox/generala/internal/randutil"
	"github.com/lox/generala/internal/scorecard"
	"github.com/lox/generala/internal/scoring"
)

type TurnCmd struct {
	Difficulty string   `short:"d" help:"Engine difficulty (easy|medium|hard)"`
	Seed       int64    `help:"RNG seed (0 for random)"`
	Used       []string `short:"u" help:"Categories already used, e.g. --used ones,generala"`
}

func (c *TurnCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}

	diff, err := computerDifficulty(cfg, c.Difficulty)
	if err != nil {
		return err
	}
	presets, err := cfg.Presets()
	if err != nil {
		return err
	}
	used, err := usedCategories(c.Used)
	if err != nil {
		return err
	}
	seed, err := randutil.Resolve(c.Seed)
	if err != nil {
		return err
	}

	own := scorecard.New()
	for _, cat := range used.Slice() {
		if err := own.Set(cat, 0); err != nil {
			return err
		}
	}

	engine, err := ai.NewEngine(randutil.New(seed), diff, logger, ai.WithPresets(presets))
	if err != nil {
		return err
	}
	tl, err := engine.PlayTurn(own, scorecard.New())
	if err != nil {
		return err
	}

	fmt.Printf("Difficulty %s, seed %d\n", diff, seed)
	for i, step := range tl.Steps {
		fmt.Printf("Roll %d: %s %v hold %s  %s\n", i+1, step.Hand, []int(step.Hand), step.Hold, step.Note)
	}
	line := fmt.Sprintf("Scored %d in %s", tl.Score, tl.Category)
	if tl.Fallback {
		line += " (nothing scored, category sacrificed)"
	}
	fmt.Println(line)
	fmt.Printf("%d categories left\n", scoring.NumCategories-used.Len()-1)
	return nil
}
