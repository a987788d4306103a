package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"short-trading-bot/internal/backtest"
	"short-trading-bot/internal/broker/brokerobs"
	"short-trading-bot/internal/broker/zerodha"
	"short-trading-bot/internal/engine"
	"short-trading-bot/internal/journal"
	"short-trading-bot/internal/live"
	"short-trading-bot/internal/logger"
	"short-trading-bot/internal/store"
	"short-trading-bot/internal/trace"
)

func newBroker(cfg *store.Config) *zerodha.Client {
	return zerodha.NewClient(zerodha.Params{
		Mode:        cfg.Mode,
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Exchange,
		Interval:    cfg.Backtest.Interval,
	})
}

func strategyConfig(cfg *store.Config) engine.Config {
	return engine.Config{
		TargetDrop:    cfg.Strategy.TargetDrop,
		TrailingDelta: cfg.Strategy.TrailingDelta,
	}
}

func openJournal(ctx context.Context, cfg *store.Config) *journal.Journal {
	jrnl, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		logger.Warn(ctx, "Trade journal unavailable, continuing without persistence", "path", cfg.Journal.Path, "error", err)
		return nil
	}
	return jrnl
}

func runBacktest(ctx context.Context, symbol string, days int) error {
	sim, err := backtest.New(brokerobs.Wrap(newBroker(cfg)), strategyConfig(cfg), cfg.Strategy.CapitalPerTrade)
	if err != nil {
		return err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	logger.Info(ctx, "Backtest starting", "symbol", symbol,
		"from", start.Format("2006-01-02"), "to", end.Format("2006-01-02"))

	records, err := sim.BacktestSymbol(ctx, symbol, start, end)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logger.Warn(ctx, "No trades executed", "symbol", symbol)
		return nil
	}

	for _, rec := range records {
		b, _ := json.Marshal(rec)
		fmt.Println(string(b))
	}

	metrics := backtest.Calculate(records)
	b, _ := json.MarshalIndent(metrics, "", "  ")
	fmt.Println(string(b))

	if jrnl := openJournal(ctx, cfg); jrnl != nil {
		defer jrnl.Close()
		if err := jrnl.RecordAll(records); err != nil {
			logger.Warn(ctx, "Failed to persist backtest trades", "error", err)
		}
	}
	return nil
}

func runLive(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to trade: set universe in config or pass --symbols")
	}
	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "DRY_RUN mode: orders will be simulated")
	}

	brk := newBroker(cfg)
	stream := brk.NewTickStream()

	pf := engine.NewPortfolio()
	tracker, err := engine.NewTracker(strategyConfig(cfg), pf)
	if err != nil {
		return err
	}

	jrnl := openJournal(ctx, cfg)
	if jrnl != nil {
		defer jrnl.Close()
	}

	updater := live.New(live.Config{
		CapitalPerTrade: cfg.Strategy.CapitalPerTrade,
		MaxPositions:    cfg.Strategy.MaxPositions,
	}, brokerobs.Wrap(brk), stream, tracker, pf, jrnl)

	if err := stream.Start(ctx); err != nil {
		return err
	}
	if err := stream.Subscribe(ctx, symbols); err != nil {
		stream.Stop(ctx)
		return err
	}

	for _, symbol := range symbols {
		if err := updater.EnterShort(ctx, symbol); err != nil {
			logger.Warn(ctx, "Entry skipped", "symbol", symbol, "error", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- updater.Run(runCtx) }()

	summaryTick := time.NewTicker(time.Duration(cfg.EOD.SummarySeconds) * time.Second)
	defer summaryTick.Stop()
	eodTick := time.NewTicker(30 * time.Second)
	defer eodTick.Stop()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	logger.Info(ctx, "Live session started", "symbols", symbols, "mode", cfg.Mode)

	shutdown := func(reason string) {
		logger.Info(ctx, "Shutting down", "reason", reason)
		stream.Stop(ctx)
		cancel()
		<-done
		updater.CloseAllEOD(ctx)

		s := updater.Summary()
		logger.Info(ctx, "Final summary",
			"total", s.TotalPositions, "open", s.OpenPositions,
			"closed", s.ClosedPositions, "pnl", s.TotalPnl)
		_ = trace.Shutdown(ctx)
	}

	for {
		select {
		case <-summaryTick.C:
			s := updater.Summary()
			logger.Info(ctx, "Portfolio",
				"open", s.OpenPositions, "closed", s.ClosedPositions, "pnl", s.TotalPnl)
		case <-eodTick.C:
			if pastCloseTime(cfg.EOD.CloseTime) {
				shutdown("eod")
				return nil
			}
		case <-sigc:
			shutdown("signal")
			return nil
		case err := <-done:
			// Stream ended on its own; sweep whatever is still open.
			updater.CloseAllEOD(ctx)
			_ = trace.Shutdown(ctx)
			return err
		}
	}
}

// pastCloseTime reports whether the exchange clock (IST) has reached the
// configured HH:MM close time.
func pastCloseTime(closeTime string) bool {
	ist := time.FixedZone("IST", 19800)
	now := time.Now().In(ist)
	t, err := time.Parse("15:04", closeTime)
	if err != nil {
		return false
	}
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, ist)
	return !now.Before(cutoff)
}
