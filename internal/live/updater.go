package live

import (
	"context"
	"errors"
	"fmt"
	"time"

	"short-trading-bot/internal/engine"
	"short-trading-bot/internal/interfaces"
	"short-trading-bot/internal/journal"
	"short-trading-bot/internal/logger"
	"short-trading-bot/internal/tradelog"
	"short-trading-bot/internal/types"
)

// Config holds the live-session parameters.
type Config struct {
	CapitalPerTrade float64
	MaxPositions    int
}

// Updater drives the position engine from a live tick stream. Each tick is
// normalized to a degenerate bar and fed through Tracker.Update, which
// serializes per symbol; order placement always happens after the tracking
// lock is released, so broker latency never stalls tick processing.
type Updater struct {
	cfg     Config
	brk     interfaces.Broker
	stream  interfaces.TickStream
	tracker *engine.Tracker
	pf      *engine.Portfolio
	jrnl    *journal.Journal // optional
}

func New(cfg Config, brk interfaces.Broker, stream interfaces.TickStream, tracker *engine.Tracker, pf *engine.Portfolio, jrnl *journal.Journal) *Updater {
	return &Updater{cfg: cfg, brk: brk, stream: stream, tracker: tracker, pf: pf, jrnl: jrnl}
}

// EnterShort opens a short position at the latest quote: SELL order first,
// tracked position only once the broker accepted it. No state is created
// when the quote or the order fails.
func (u *Updater) EnterShort(ctx context.Context, symbol string) error {
	if pos, ok := u.pf.Position(symbol); ok && pos.Status == engine.StatusOpen {
		logger.Warn(ctx, "Position already open, skipping entry", "symbol", symbol)
		return fmt.Errorf("%w: %s", engine.ErrDuplicatePosition, symbol)
	}
	if u.cfg.MaxPositions > 0 && u.pf.OpenCount() >= u.cfg.MaxPositions {
		return fmt.Errorf("max positions reached (%d), not entering %s", u.cfg.MaxPositions, symbol)
	}

	quote, err := u.brk.Quote(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Cannot quote entry, aborting", err, "symbol", symbol)
		return err
	}

	entry := quote.LastPrice
	qty := int(u.cfg.CapitalPerTrade / entry)
	if qty < 1 {
		return fmt.Errorf("capital %.0f buys no shares of %s at %.2f", u.cfg.CapitalPerTrade, symbol, entry)
	}

	resp, err := u.brk.PlaceOrder(ctx, types.OrderReq{
		Symbol: symbol,
		Side:   "SELL",
		Qty:    qty,
		Tag:    "ENTRY",
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Entry order failed, no position opened", err, "symbol", symbol, "qty", qty)
		return err
	}

	if _, err := u.tracker.Open(symbol, entry, qty, time.Now()); err != nil {
		// Order went through but tracking refused; operator must
		// reconcile the unmatched SELL.
		logger.ErrorWithErr(ctx, "Order placed but position not tracked", err, "symbol", symbol, "order_id", resp.OrderID)
		return err
	}
	u.tracker.SetOrderID(symbol, resp.OrderID)

	logger.Trade(ctx, symbol, "SELL", qty, entry, resp.OrderID, "reason", "ENTRY")
	_ = tradelog.Append(tradelog.Entry{
		Symbol: symbol, Side: "SELL", Qty: qty, Price: entry,
		OrderID: resp.OrderID, Reason: "ENTRY",
	})
	return nil
}

// Run consumes the tick stream until the context is cancelled or the
// stream closes its channel.
func (u *Updater) Run(ctx context.Context) error {
	ticks := u.stream.Ticks()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tick, ok := <-ticks:
			if !ok {
				return nil
			}
			u.handleTick(ctx, tick)
		}
	}
}

func (u *Updater) handleTick(ctx context.Context, tick types.Tick) {
	if tick.Symbol == "" {
		return
	}

	ev, err := u.tracker.Update(tick.Symbol, types.BarFromTick(tick))
	if err != nil {
		if errors.Is(err, engine.ErrUnknownSymbol) {
			// Stream can deliver instruments we never entered.
			logger.Debug(ctx, "Tick for untracked symbol", "symbol", tick.Symbol)
			return
		}
		logger.Warn(ctx, "Tick update failed", "symbol", tick.Symbol, "error", err)
		return
	}
	if ev != nil {
		u.cover(ctx, *ev)
	}
}

// cover places the BUY order matching an exit event. The tracker already
// recorded the CLOSED transition; a rejected cover is surfaced loudly for
// operator intervention rather than retried.
func (u *Updater) cover(ctx context.Context, ev engine.ExitEvent) {
	logger.Exit(ctx, ev.Symbol, string(ev.Reason), ev.Price, ev.PnlPercent, ev.PnlAmount)

	resp, err := u.brk.PlaceOrder(ctx, types.OrderReq{
		Symbol: ev.Symbol,
		Side:   "BUY",
		Qty:    ev.Quantity,
		Tag:    string(ev.Reason),
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Cover order rejected, manual intervention required", err,
			"symbol", ev.Symbol, "qty", ev.Quantity, "reason", string(ev.Reason))
		return
	}

	logger.Trade(ctx, ev.Symbol, "BUY", ev.Quantity, ev.Price, resp.OrderID, "reason", string(ev.Reason))
	_ = tradelog.Append(tradelog.Entry{
		Symbol: ev.Symbol, Side: "BUY", Qty: ev.Quantity, Price: ev.Price,
		OrderID: resp.OrderID, Reason: string(ev.Reason),
	})

	if u.jrnl != nil {
		if pos, ok := u.pf.Position(ev.Symbol); ok {
			if _, err := u.jrnl.Record(pos.Record(ev.Time)); err != nil {
				logger.Warn(ctx, "Failed to journal trade", "symbol", ev.Symbol, "error", err)
			}
		}
	}
}

// CloseAllEOD force-closes every remaining open position at its latest
// quote. The sweep is idempotent: positions that already closed are
// skipped, and per-symbol failures never abort the batch.
func (u *Updater) CloseAllEOD(ctx context.Context) {
	for _, symbol := range u.pf.OpenSymbols() {
		quote, err := u.brk.Quote(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "No quote for EOD close, skipping", "symbol", symbol, "error", err)
			continue
		}

		ev, err := u.tracker.ForceClose(symbol, quote.LastPrice, time.Now())
		if err != nil {
			if errors.Is(err, engine.ErrInvalidState) {
				continue
			}
			logger.Warn(ctx, "EOD close failed", "symbol", symbol, "error", err)
			continue
		}
		u.cover(ctx, ev)
	}
}

// Summary exposes the portfolio rollup for periodic reporting.
func (u *Updater) Summary() types.PortfolioSummary {
	return u.pf.Summary()
}
