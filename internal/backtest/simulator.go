package backtest

import (
	"context"
	"errors"
	"time"

	"short-trading-bot/internal/engine"
	"short-trading-bot/internal/interfaces"
	"short-trading-bot/internal/logger"
	"short-trading-bot/internal/types"
)

// BarSource is the slice of the broker contract the simulator needs.
type BarSource interface {
	HistoricalBars(ctx context.Context, symbol string, day time.Time) ([]types.Bar, error)
}

// Simulator replays historical days through the same position engine the
// live updater drives. One trade per trading day: short at the first bar's
// open, exit on target, trailing stop, or forced close at the day's end.
type Simulator struct {
	data     BarSource
	strategy engine.Config
	capital  float64
}

// New validates the strategy config once, up front.
func New(data BarSource, strategy engine.Config, capitalPerTrade float64) (*Simulator, error) {
	if _, err := engine.NewTracker(strategy, engine.NewPortfolio()); err != nil {
		return nil, err
	}
	return &Simulator{data: data, strategy: strategy, capital: capitalPerTrade}, nil
}

// BacktestSymbol walks the calendar days of [start, end], skipping
// weekends and days without data, and returns one trade record per
// simulated day in chronological order.
func (s *Simulator) BacktestSymbol(ctx context.Context, symbol string, start, end time.Time) ([]types.TradeRecord, error) {
	var records []types.TradeRecord

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if err := ctx.Err(); err != nil {
			return records, err
		}

		bars, err := s.data.HistoricalBars(ctx, symbol, day)
		if err != nil {
			if errors.Is(err, interfaces.ErrDataUnavailable) {
				logger.Debug(ctx, "No data for day, skipping", "symbol", symbol, "day", day.Format("2006-01-02"))
			} else {
				logger.Warn(ctx, "Failed to fetch bars, skipping day", "symbol", symbol, "day", day.Format("2006-01-02"), "error", err)
			}
			continue
		}
		if len(bars) == 0 {
			continue
		}

		rec, err := s.simulateDay(symbol, day, bars)
		if err != nil {
			logger.Warn(ctx, "Day simulation failed", "symbol", symbol, "day", day.Format("2006-01-02"), "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// simulateDay runs one day's bars through a fresh tracker. The entry bar is
// fed through Update as well: its range can legitimately contain an exit.
func (s *Simulator) simulateDay(symbol string, day time.Time, bars []types.Bar) (types.TradeRecord, error) {
	tracker, err := engine.NewTracker(s.strategy, engine.NewPortfolio())
	if err != nil {
		return types.TradeRecord{}, err
	}

	entry := bars[0].Open
	if _, err := tracker.Open(symbol, entry, s.quantity(entry), bars[0].Time); err != nil {
		return types.TradeRecord{}, err
	}

	var exit *engine.ExitEvent
	for _, bar := range bars {
		ev, err := tracker.Update(symbol, bar)
		if err != nil {
			return types.TradeRecord{}, err
		}
		if ev != nil {
			exit = ev
			break
		}
	}

	if exit == nil {
		last := bars[len(bars)-1]
		ev, err := tracker.ForceClose(symbol, last.Close, last.Time)
		if err != nil {
			return types.TradeRecord{}, err
		}
		exit = &ev
	}

	pos, _ := tracker.Position(symbol)
	return pos.Record(day), nil
}

func (s *Simulator) quantity(entryPrice float64) int {
	if s.capital <= 0 {
		return 1
	}
	qty := int(s.capital / entryPrice)
	if qty < 1 {
		qty = 1
	}
	return qty
}
