package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/generala/cmd/generala/shared"
	"github.com/lox/generala/internal/ai"
	"github.com/lox/generala/internal/config"
	"github.com/lox/generala/internal/scoring"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"${config_file}" type:"path" help:"HCL configuration file (missing file uses defaults)"`
	LogLevel string `help:"Log level (debug|info|warn|error), overrides the config file"`
	LogJSON  bool   `help:"Output JSON logs instead of console format"`
}

// load reads the configuration, applies flag overrides and builds the logger.
func (g *Globals) load() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogJSON {
		cfg.Log.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config %s: %w", g.Config, err)
	}

	logger := shared.SetupLogger(cfg.LogLevel(), cfg.Log.JSON)
	logger.Debug("Configuration loaded", "file", g.Config)
	return cfg, logger, nil
}

// computerDifficulty resolves the interactive opponent, letting name override
// the config file.
func computerDifficulty(cfg *config.Config, name string) (ai.Difficulty, error) {
	if name != "" {
		cfg.Match.Computer = name
	}
	return cfg.ComputerDifficulty()
}

// difficulty parses name, falling back to fallback when name is empty.
func difficulty(name, fallback string) (ai.Difficulty, error) {
	if name == "" {
		name = fallback
	}
	return ai.ParseDifficulty(name)
}

// usedCategories parses category names into a set.
func usedCategories(names []string) (scoring.CategorySet, error) {
	var used scoring.CategorySet
	for _, name := range names {
		c, err := scoring.ParseCategory(name)
		if err != nil {
			return 0, err
		}
		used = used.With(c)
	}
	return used, nil
}
