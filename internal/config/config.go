// Package config loads the HCL configuration shared by the generala
// commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/generala/internal/ai"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "generala.hcl"

// Config represents the complete configuration
type Config struct {
	Log          *LogSettings        `hcl:"log,block"`
	Match        *MatchSettings      `hcl:"match,block"`
	Simulation   *SimulationSettings `hcl:"simulation,block"`
	Difficulties []DifficultyConfig  `hcl:"difficulty,block"`
}

// LogSettings controls the CLI logger.
type LogSettings struct {
	Level string `hcl:"level,optional"`
	JSON  bool   `hcl:"json,optional"`
}

// MatchSettings configures interactive play.
type MatchSettings struct {
	Seed                  int64  `hcl:"seed,optional"`
	FirstRollGeneralaWins *bool  `hcl:"first_roll_generala_wins,optional"`
	PlayerName            string `hcl:"player_name,optional"`
	Computer              string `hcl:"computer,optional"`
}

// SimulationSettings configures batch simulation.
type SimulationSettings struct {
	Games     int    `hcl:"games,optional"`
	Workers   int    `hcl:"workers,optional"`
	Seed      int64  `hcl:"seed,optional"`
	TimeoutMS int    `hcl:"timeout_ms,optional"`
	First     string `hcl:"first,optional"`
	Second    string `hcl:"second,optional"`
}

// DifficultyConfig overrides the search parameters of one difficulty.
type DifficultyConfig struct {
	Name        string `hcl:"name,label"`
	Simulations int    `hcl:"simulations"`
	MaxMasks    int    `hcl:"max_masks"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields
// Default().
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Match == nil {
		c.Match = &MatchSettings{}
	}
	if c.Match.FirstRollGeneralaWins == nil {
		enabled := true
		c.Match.FirstRollGeneralaWins = &enabled
	}
	if c.Match.PlayerName == "" {
		c.Match.PlayerName = "You"
	}
	if c.Match.Computer == "" {
		c.Match.Computer = ai.Medium.String()
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationSettings{}
	}
	if c.Simulation.Games == 0 {
		c.Simulation.Games = 1000
	}
	if c.Simulation.TimeoutMS == 0 {
		c.Simulation.TimeoutMS = 5000
	}
	if c.Simulation.First == "" {
		c.Simulation.First = ai.Hard.String()
	}
	if c.Simulation.Second == "" {
		c.Simulation.Second = ai.Easy.String()
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if _, err := ai.ParseDifficulty(c.Match.Computer); err != nil {
		return fmt.Errorf("match: computer: %w", err)
	}

	if c.Simulation.Games <= 0 {
		return fmt.Errorf("simulation: games must be positive, got %d", c.Simulation.Games)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation: workers cannot be negative, got %d", c.Simulation.Workers)
	}
	if c.Simulation.TimeoutMS <= 0 {
		return fmt.Errorf("simulation: timeout_ms must be positive, got %d", c.Simulation.TimeoutMS)
	}
	if _, err := ai.ParseDifficulty(c.Simulation.First); err != nil {
		return fmt.Errorf("simulation: first: %w", err)
	}
	if _, err := ai.ParseDifficulty(c.Simulation.Second); err != nil {
		return fmt.Errorf("simulation: second: %w", err)
	}

	_, err := c.Presets()
	return err
}

// Presets returns the built-in difficulty table with every difficulty block
// applied over it.
func (c *Config) Presets() (ai.Presets, error) {
	overrides := make(ai.Presets, len(c.Difficulties))
	for _, dc := range c.Difficulties {
		d, err := ai.ParseDifficulty(dc.Name)
		if err != nil {
			return nil, fmt.Errorf("difficulty %q: %w", dc.Name, err)
		}
		if _, dup := overrides[d]; dup {
			return nil, fmt.Errorf("difficulty %q: declared more than once", dc.Name)
		}
		params := ai.Params{Simulations: dc.Simulations, MaxMasks: dc.MaxMasks}
		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("difficulty %q: %w", dc.Name, err)
		}
		overrides[d] = params
	}
	return ai.DefaultPresets().Merge(overrides), nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ComputerDifficulty returns the opponent difficulty for interactive play.
func (c *Config) ComputerDifficulty() (ai.Difficulty, error) {
	return ai.ParseDifficulty(c.Match.Computer)
}

// FirstRollGeneralaWins reports whether the first-roll Generala rule is on.
func (c *Config) FirstRollGeneralaWins() bool {
	return c.Match.FirstRollGeneralaWins == nil || *c.Match.FirstRollGeneralaWins
}

// SimulationTimeout returns the per-game timeout.
func (c *Config) SimulationTimeout() time.Duration {
	return time.Duration(c.Simulation.TimeoutMS) * time.Millisecond
}
