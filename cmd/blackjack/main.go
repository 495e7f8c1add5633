package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-cli/internal/blackjack"
	"github.com/lox/blackjack-cli/internal/config"
	"github.com/lox/blackjack-cli/internal/randutil"
	"github.com/lox/blackjack-cli/internal/simulator"
	"github.com/lox/blackjack-cli/internal/tui"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play blackjack in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Estimate the house edge over many rounds"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player casino blackjack for the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

type PlayCmd struct {
	Config   string `help:"Path to HCL config file" default:"blackjack.hcl" type:"path"`
	Seed     int64  `help:"RNG seed for the shuffle (0 picks one)" default:"0"`
	Bankroll int    `help:"Override the starting bankroll"`
	Bet      int    `help:"Override the base bet"`
	Debug    bool   `help:"Log at debug level"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.Bankroll > 0 {
		cfg.Game.StartingBankroll = c.Bankroll
	}
	if c.Bet > 0 {
		cfg.Game.BaseBet = c.Bet
	}
	if c.Debug {
		cfg.UI.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The terminal belongs to the TUI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
		Level:           parseLevel(cfg.UI.LogLevel),
	})

	rng, seed := randutil.NewSeed(c.Seed)
	logger.Info("starting session",
		"seed", seed,
		"bankroll", cfg.Game.StartingBankroll,
		"baseBet", cfg.Game.BaseBet)

	game := blackjack.NewGame(rng,
		blackjack.WithLogger(logger.WithPrefix("game")),
		blackjack.WithBankroll(cfg.Game.StartingBankroll),
		blackjack.WithBaseBet(cfg.Game.BaseBet),
		blackjack.WithMaxSplitHands(cfg.Game.MaxSplitHands))

	if err := tui.Run(game, logger); err != nil {
		return err
	}

	fmt.Printf("You leave the table with %d.\n", game.Bankroll())
	return nil
}

type SimulateCmd struct {
	Rounds  int   `default:"100000" help:"Number of rounds to simulate"`
	Workers int   `default:"4" help:"Parallel simulation workers"`
	Seed    int64 `help:"RNG seed (0 picks one)" default:"0"`
	Bet     int   `default:"10" help:"Bet per round"`
	Verbose bool  `short:"V" help:"Verbose logging"`
}

func (c *SimulateCmd) Run() error {
	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	_, seed := randutil.NewSeed(c.Seed)

	sim := simulator.New(simulator.Config{
		Rounds:  c.Rounds,
		Workers: c.Workers,
		Seed:    seed,
		Bet:     c.Bet,
		Logger:  logger,
	})

	results, err := sim.Run(context.Background())
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Printf("Seed:       %d\n", seed)
	fmt.Print(results.Report())
	return nil
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
