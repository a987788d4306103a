package interfaces

import (
	"context"
	"errors"
	"time"

	"short-trading-bot/internal/types"
)

// Collaborator failures the engine's callers dispatch on.
var (
	// ErrDataUnavailable means the provider has no bars for the requested
	// day. Batch callers skip the day and continue.
	ErrDataUnavailable = errors.New("historical data unavailable")

	// ErrQuoteUnavailable means no live quote could be obtained. The
	// attempted entry or forced close is aborted without touching state.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrOrderRejected means the broker refused an order. Position state
	// must not be advanced on the strength of a rejected order.
	ErrOrderRejected = errors.New("order rejected")
)

type Broker interface {
	// LookupInstrument resolves a trading symbol to its exchange instrument.
	LookupInstrument(ctx context.Context, symbol string) (types.Instrument, error)

	// Quote returns the latest quote for a symbol, or ErrQuoteUnavailable.
	Quote(ctx context.Context, symbol string) (types.Quote, error)

	// HistoricalBars returns the ordered intraday bar sequence for one
	// trading day, or ErrDataUnavailable when the day has no data.
	HistoricalBars(ctx context.Context, symbol string, day time.Time) ([]types.Bar, error)

	// PlaceOrder submits an order and returns the broker's response, or
	// ErrOrderRejected.
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}
