package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"short-trading-bot/internal/logger"
	"short-trading-bot/internal/store"
	"short-trading-bot/internal/trace"
)

var (
	cfgPath string
	cfg     *store.Config

	btSymbol string
	btDays   int

	liveSymbols string
	liveDryRun  bool
)

var rootCmd = &cobra.Command{
	Use:           "bot",
	Short:         "Intraday short-selling bot with a trailing-stop exit engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		if err := logger.Init(); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		if err := trace.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize tracer: %v\n", err)
		}

		var err error
		cfg, err = store.LoadConfig(cfgPath)
		return err
	},
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the strategy over historical intraday data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if btSymbol == "" {
			return fmt.Errorf("--symbol is required")
		}
		days := btDays
		if days <= 0 {
			days = cfg.Backtest.Days
		}
		return runBacktest(cmd.Context(), btSymbol, days)
	},
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Trade the live tick stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		if liveDryRun {
			cfg.Mode = "DRY_RUN"
		}
		return runLive(cmd.Context(), liveUniverse())
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Paper-trade the live tick stream (orders are simulated)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Mode = "DRY_RUN"
		return runLive(cmd.Context(), liveUniverse())
	},
}

func liveUniverse() []string {
	if liveSymbols == "" {
		return cfg.Universe
	}
	parts := strings.Split(liveSymbols, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")

	backtestCmd.Flags().StringVar(&btSymbol, "symbol", "", "trading symbol to backtest")
	backtestCmd.Flags().IntVar(&btDays, "days", 0, "days to backtest (default from config)")

	liveCmd.Flags().StringVar(&liveSymbols, "symbols", "", "comma-separated symbols (default: config universe)")
	liveCmd.Flags().BoolVar(&liveDryRun, "dry-run", false, "simulate orders instead of placing them")

	simulateCmd.Flags().StringVar(&liveSymbols, "symbols", "", "comma-separated symbols (default: config universe)")

	rootCmd.AddCommand(backtestCmd, liveCmd, simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
