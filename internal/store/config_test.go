package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func validConfig() *Config {
	c := &Config{Mode: "DRY_RUN", Exchange: "NSE"}
	c.Strategy.TargetDrop = 0.002
	c.Strategy.TrailingDelta = 0.001
	c.Strategy.CapitalPerTrade = 500000
	c.EOD.CloseTime = "15:20"
	return c
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	p := writeConfig(t, `
mode: DRY_RUN
strategy:
  target_drop: 0.002
  trailing_delta: 0.001
  capital_per_trade: 500000
`)
	c, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Exchange != "NSE" {
		t.Errorf("exchange = %q, want NSE default", c.Exchange)
	}
	if c.Backtest.Interval != "minute" || c.Backtest.Days != 30 {
		t.Errorf("backtest defaults = %q/%d, want minute/30", c.Backtest.Interval, c.Backtest.Days)
	}
	if c.Journal.Path != "data/trades.db" {
		t.Errorf("journal path = %q, want data/trades.db default", c.Journal.Path)
	}
	if c.EOD.CloseTime != "15:20" || c.EOD.SummarySeconds != 10 {
		t.Errorf("eod defaults = %q/%d, want 15:20/10", c.EOD.CloseTime, c.EOD.SummarySeconds)
	}
}

func TestLoadConfigFullFile(t *testing.T) {
	p := writeConfig(t, `
mode: LIVE
exchange: NSE
universe: [RELIANCE, TCS]
strategy:
  target_drop: 0.005
  trailing_delta: 0.002
  max_positions: 3
  capital_per_trade: 100000
backtest:
  interval: 5minute
  days: 60
journal:
  path: /tmp/t.db
eod:
  close_time: "15:15"
  summary_seconds: 30
`)
	c, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Mode != "LIVE" || len(c.Universe) != 2 {
		t.Errorf("mode=%q universe=%v", c.Mode, c.Universe)
	}
	if c.Strategy.TargetDrop != 0.005 || c.Strategy.MaxPositions != 3 {
		t.Errorf("strategy = %+v", c.Strategy)
	}
	if c.Backtest.Interval != "5minute" || c.Backtest.Days != 60 {
		t.Errorf("backtest = %+v", c.Backtest)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	p := writeConfig(t, "mode: [unclosed")
	if _, err := LoadConfig(p); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidateRejectsInvalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Mode = "PAPER" }},
		{"empty exchange", func(c *Config) { c.Exchange = "" }},
		{"zero target drop", func(c *Config) { c.Strategy.TargetDrop = 0 }},
		{"target drop of one", func(c *Config) { c.Strategy.TargetDrop = 1 }},
		{"zero trailing delta", func(c *Config) { c.Strategy.TrailingDelta = 0 }},
		{"zero capital", func(c *Config) { c.Strategy.CapitalPerTrade = 0 }},
		{"negative max positions", func(c *Config) { c.Strategy.MaxPositions = -1 }},
		{"bad close time", func(c *Config) { c.EOD.CloseTime = "25:99" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestValidateAcceptsValid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
