package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/generala/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play Generala against the computer"`
	Simulate SimulateCmd      `cmd:"" help:"Play computer-vs-computer matches and report statistics"`
	Turn     TurnCmd          `cmd:"" help:"Play a single computer turn and print its log"`
	Score    ScoreCmd         `cmd:"" help:"Score a hand in every category"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("generala"),
		kong.Description("Generala dice game with a Monte-Carlo computer opponent"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		vars(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

func vars() kong.Vars {
	return kong.Vars{
		"version":     version,
		"config_file": config.DefaultFile,
	}
}
