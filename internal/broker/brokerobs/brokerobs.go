package brokerobs

import (
	"context"
	"time"

	"short-trading-bot/internal/interfaces"
	"short-trading-bot/internal/logger"
	"short-trading-bot/internal/trace"
	"short-trading-bot/internal/types"
)

// observableBroker wraps a Broker with logging and tracing.
type observableBroker struct {
	broker interfaces.Broker
}

var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap adds observability middleware around a broker.
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{broker: broker}
}

func (ob *observableBroker) LookupInstrument(ctx context.Context, symbol string) (types.Instrument, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LookupInstrument")
	defer span.End()

	inst, err := ob.broker.LookupInstrument(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to resolve instrument", err, "symbol", symbol)
		return types.Instrument{}, err
	}
	return inst, nil
}

func (ob *observableBroker) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Quote")
	defer span.End()

	logger.Debug(ctx, "Fetching quote", "symbol", symbol)

	quote, err := ob.broker.Quote(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch quote", err, "symbol", symbol)
		return types.Quote{}, err
	}

	logger.Debug(ctx, "Quote fetched", "symbol", symbol, "ltp", quote.LastPrice)
	return quote, nil
}

func (ob *observableBroker) HistoricalBars(ctx context.Context, symbol string, day time.Time) ([]types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "broker.HistoricalBars")
	defer span.End()

	logger.Debug(ctx, "Fetching historical bars", "symbol", symbol, "day", day.Format("2006-01-02"))

	bars, err := ob.broker.HistoricalBars(ctx, symbol, day)
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "Bars fetched", "symbol", symbol, "count", len(bars))
	return bars, nil
}

func (ob *observableBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	logger.Info(ctx, "Placing order",
		"symbol", req.Symbol, "side", req.Side, "qty", req.Qty, "tag", req.Tag)

	resp, err := ob.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place order", err,
			"symbol", req.Symbol, "side", req.Side, "qty", req.Qty)
		return types.OrderResp{}, err
	}

	logger.Info(ctx, "Order placed", "symbol", req.Symbol, "order_id", resp.OrderID, "status", resp.Status)
	return resp, nil
}
