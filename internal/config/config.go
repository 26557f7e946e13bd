// Package config loads the shell configuration: logging, display, and
// simulation defaults. Game model parameters are fixed in the engine and
// deliberately absent from the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Game     GameConfig     `yaml:"game"`
	Simulate SimulateConfig `yaml:"simulate"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

type GameConfig struct {
	Currency string `yaml:"currency"`
}

type SimulateConfig struct {
	Sessions   int     `yaml:"sessions"`
	MaxRounds  int     `yaml:"max_rounds"`
	Bet        float64 `yaml:"bet"`
	Multiplier float64 `yaml:"multiplier"`
	Workers    int     `yaml:"workers"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Game: GameConfig{
			Currency: "$",
		},
		Simulate: SimulateConfig{
			Sessions:   1000,
			MaxRounds:  500,
			Bet:        10,
			Multiplier: 2.0,
			Workers:    4,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Set defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Game.Currency == "" {
		c.Game.Currency = def.Game.Currency
	}
	if c.Simulate.Sessions == 0 {
		c.Simulate.Sessions = def.Simulate.Sessions
	}
	if c.Simulate.MaxRounds == 0 {
		c.Simulate.MaxRounds = def.Simulate.MaxRounds
	}
	if c.Simulate.Bet == 0 {
		c.Simulate.Bet = def.Simulate.Bet
	}
	if c.Simulate.Multiplier == 0 {
		c.Simulate.Multiplier = def.Simulate.Multiplier
	}
	if c.Simulate.Workers == 0 {
		c.Simulate.Workers = def.Simulate.Workers
	}
}

// Validate checks field ranges. Simulation values double as guards for the
// engine's caller contract.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json; got %q", c.Logging.Format)
	}
	if c.Simulate.Sessions < 1 {
		return fmt.Errorf("simulate.sessions must be at least 1, got %d", c.Simulate.Sessions)
	}
	if c.Simulate.MaxRounds < 1 {
		return fmt.Errorf("simulate.max_rounds must be at least 1, got %d", c.Simulate.MaxRounds)
	}
	if c.Simulate.Bet <= 0 {
		return fmt.Errorf("simulate.bet must be positive, got %v", c.Simulate.Bet)
	}
	if c.Simulate.Multiplier < 1 {
		return fmt.Errorf("simulate.multiplier must be at least 1, got %v", c.Simulate.Multiplier)
	}
	if c.Simulate.Workers < 1 {
		return fmt.Errorf("simulate.workers must be at least 1, got %d", c.Simulate.Workers)
	}
	return nil
}
