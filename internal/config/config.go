package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete game configuration
type Config struct {
	Game GameSettings `hcl:"game,block"`
	UI   UISettings   `hcl:"ui,block"`
}

// GameSettings contains the table rules and stakes
type GameSettings struct {
	StartingBankroll int `hcl:"starting_bankroll,optional"`
	BaseBet          int `hcl:"base_bet,optional"`
	MaxSplitHands    int `hcl:"max_split_hands,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogFile  string `hcl:"log_file,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Game: GameSettings{
			StartingBankroll: 100,
			BaseBet:          10,
			MaxSplitHands:    4,
		},
		UI: UISettings{
			LogFile:  "blackjack.log",
			LogLevel: "warn",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults; fields omitted from the file are filled in per-field.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := Default()

	if config.Game.StartingBankroll == 0 {
		config.Game.StartingBankroll = defaults.Game.StartingBankroll
	}
	if config.Game.BaseBet == 0 {
		config.Game.BaseBet = defaults.Game.BaseBet
	}
	if config.Game.MaxSplitHands == 0 {
		config.Game.MaxSplitHands = defaults.Game.MaxSplitHands
	}

	if config.UI.LogFile == "" {
		config.UI.LogFile = defaults.UI.LogFile
	}
	if config.UI.LogLevel == "" {
		config.UI.LogLevel = defaults.UI.LogLevel
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Game.StartingBankroll <= 0 {
		return fmt.Errorf("starting bankroll must be positive")
	}

	if c.Game.BaseBet <= 0 {
		return fmt.Errorf("base bet must be positive")
	}

	if c.Game.BaseBet > c.Game.StartingBankroll {
		return fmt.Errorf("base bet %d exceeds starting bankroll %d", c.Game.BaseBet, c.Game.StartingBankroll)
	}

	if c.Game.MaxSplitHands < 1 {
		return fmt.Errorf("max split hands must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	return nil
}
