package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode     string   `yaml:"mode"`
	Exchange string   `yaml:"exchange"`
	Universe []string `yaml:"universe"`

	Strategy struct {
		TargetDrop      float64 `yaml:"target_drop"`
		TrailingDelta   float64 `yaml:"trailing_delta"`
		MaxPositions    int     `yaml:"max_positions"`
		CapitalPerTrade float64 `yaml:"capital_per_trade"`
	} `yaml:"strategy"`

	Backtest struct {
		Interval string `yaml:"interval"`
		Days     int    `yaml:"days"`
	} `yaml:"backtest"`

	Journal struct {
		Path string `yaml:"path"`
	} `yaml:"journal"`

	EOD struct {
		CloseTime      string `yaml:"close_time"`
		SummarySeconds int    `yaml:"summary_seconds"`
	} `yaml:"eod"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Exchange == "" {
		return errors.New("exchange cannot be empty")
	}
	if c.Strategy.TargetDrop <= 0 || c.Strategy.TargetDrop >= 1 {
		return fmt.Errorf("strategy.target_drop must be in (0, 1), got %g", c.Strategy.TargetDrop)
	}
	if c.Strategy.TrailingDelta <= 0 {
		return fmt.Errorf("strategy.trailing_delta must be positive, got %g", c.Strategy.TrailingDelta)
	}
	if c.Strategy.CapitalPerTrade <= 0 {
		return fmt.Errorf("strategy.capital_per_trade must be positive, got %g", c.Strategy.CapitalPerTrade)
	}
	if c.Strategy.MaxPositions < 0 {
		return fmt.Errorf("strategy.max_positions cannot be negative, got %d", c.Strategy.MaxPositions)
	}
	if _, err := time.Parse("15:04", c.EOD.CloseTime); err != nil {
		return fmt.Errorf("eod.close_time must be HH:MM, got '%s'", c.EOD.CloseTime)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.Backtest.Interval == "" {
		c.Backtest.Interval = "minute"
	}
	if c.Backtest.Days == 0 {
		c.Backtest.Days = 30
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "data/trades.db"
	}
	if c.EOD.CloseTime == "" {
		c.EOD.CloseTime = "15:20"
	}
	if c.EOD.SummarySeconds == 0 {
		c.EOD.SummarySeconds = 10
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
