package zerodha

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zerodha/gokiteconnect/v4/models"
	kiteticker "github.com/zerodha/gokiteconnect/v4/ticker"

	"short-trading-bot/internal/interfaces"
	"short-trading-bot/internal/logger"
	"short-trading-bot/internal/types"
)

const tickBuffer = 1024

// TickerManager bridges the Kite websocket to a typed tick channel. Token
// resolution happens here, so consumers only ever see symbols.
type TickerManager struct {
	client *Client
	ticker *kiteticker.Ticker

	mu     sync.RWMutex
	closed bool
	ticks  chan types.Tick
}

var _ interfaces.TickStream = (*TickerManager)(nil)

func newTickerManager(c *Client) *TickerManager {
	return &TickerManager{
		client: c,
		ticks:  make(chan types.Tick, tickBuffer),
	}
}

func (tm *TickerManager) Start(ctx context.Context) error {
	tm.ticker = kiteticker.New(tm.client.p.APIKey, tm.client.p.AccessToken)

	tm.ticker.OnConnect(tm.onConnect)
	tm.ticker.OnError(tm.onError)
	tm.ticker.OnClose(tm.onClose)
	tm.ticker.OnReconnect(tm.onReconnect)
	tm.ticker.OnNoReconnect(tm.onNoReconnect)
	tm.ticker.OnTick(tm.onTick)

	go func() {
		logger.Info(ctx, "Starting websocket ticker")
		tm.ticker.Serve()
	}()
	return nil
}

// Stop closes the tick channel and the websocket. No ticks are delivered
// after Stop returns; in-flight handler calls drop their tick.
func (tm *TickerManager) Stop(ctx context.Context) {
	tm.mu.Lock()
	if !tm.closed {
		tm.closed = true
		close(tm.ticks)
	}
	tm.mu.Unlock()

	if tm.ticker != nil {
		logger.Info(ctx, "Stopping websocket ticker")
		tm.ticker.Stop()
	}
}

func (tm *TickerManager) Subscribe(ctx context.Context, symbols []string) error {
	tokens := make([]uint32, 0, len(symbols))
	for _, symbol := range symbols {
		inst, err := tm.client.LookupInstrument(ctx, symbol)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", symbol, err)
		}
		tokens = append(tokens, inst.Token)
	}

	if err := tm.ticker.Subscribe(tokens); err != nil {
		return fmt.Errorf("subscribe to %d instruments: %w", len(tokens), err)
	}
	if err := tm.ticker.SetMode(kiteticker.ModeFull, tokens); err != nil {
		return fmt.Errorf("set ticker mode: %w", err)
	}

	logger.Info(ctx, "Subscribed to live ticks", "symbols", symbols, "count", len(symbols))
	return nil
}

func (tm *TickerManager) Ticks() <-chan types.Tick {
	return tm.ticks
}

func (tm *TickerManager) onTick(mt models.Tick) {
	symbol := tm.client.mapper.symbol(mt.InstrumentToken)
	if symbol == "" {
		return
	}

	ts := mt.Timestamp.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if tm.closed {
		return
	}

	select {
	case tm.ticks <- types.Tick{
		InstrumentToken: mt.InstrumentToken,
		Symbol:          symbol,
		LastPrice:       mt.LastPrice,
		Time:            ts,
	}:
	default:
		// Consumer is behind; dropping one tick is preferable to
		// stalling the websocket read loop.
		logger.Warn(context.Background(), "Tick buffer full, dropping tick", "symbol", symbol)
	}
}

func (tm *TickerManager) onConnect() {
	logger.Info(context.Background(), "Websocket connected")
}

func (tm *TickerManager) onError(err error) {
	logger.ErrorWithErr(context.Background(), "Websocket error", err)
}

func (tm *TickerManager) onClose(code int, reason string) {
	logger.Warn(context.Background(), "Websocket closed", "code", code, "reason", reason)
}

func (tm *TickerManager) onReconnect(attempt int, delay time.Duration) {
	logger.Info(context.Background(), "Websocket reconnecting", "attempt", attempt, "delay", delay)
}

func (tm *TickerManager) onNoReconnect(attempt int) {
	logger.Warn(context.Background(), "Websocket reconnection failed", "attempt", attempt)
}
