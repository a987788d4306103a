package types

import "time"

// ExitReason says why a short position was covered.
type ExitReason string

const (
	ExitTargetHit ExitReason = "TARGET_HIT"
	ExitStopLoss  ExitReason = "STOP_LOSS"
	ExitEODClose  ExitReason = "EOD_CLOSE"
)

// Bar is one OHLC price observation. Historical candles and live ticks are
// both normalized to this shape before they reach the engine.
type Bar struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Time   time.Time
}

// Tick is a single live price update, already resolved to a trading symbol.
type Tick struct {
	InstrumentToken uint32
	Symbol          string
	LastPrice       float64
	Time            time.Time
}

// BarFromTick maps a tick to a degenerate bar: all four prices equal the
// last traded price. Feeding these through the engine yields the same
// decisions a historical replay of the same prices would.
func BarFromTick(t Tick) Bar {
	return Bar{
		Open:  t.LastPrice,
		High:  t.LastPrice,
		Low:   t.LastPrice,
		Close: t.LastPrice,
		Time:  t.Time,
	}
}

// OHLC holds the day-level open/high/low/close attached to a quote.
type OHLC struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Quote is a validated live quote from the market-data provider.
type Quote struct {
	Symbol    string
	LastPrice float64
	Volume    int64
	OHLC      OHLC
}

// Instrument identifies a tradable on the exchange.
type Instrument struct {
	Symbol   string
	Token    uint32
	Exchange string
	Segment  string
	Type     string
}

type OrderReq struct {
	Symbol    string
	Side      string // BUY or SELL
	Qty       int
	OrderType string // MARKET when empty
	Product   string // MIS when empty
	Tag       string
}

type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TradeRecord is one completed short trade, as emitted by the backtest
// simulator and the live updater.
type TradeRecord struct {
	Date             time.Time  `json:"date"`
	Symbol           string     `json:"symbol"`
	Quantity         int        `json:"quantity"`
	EntryPrice       float64    `json:"entry_price"`
	ExitPrice        float64    `json:"exit_price"`
	EntryTime        time.Time  `json:"entry_time"`
	ExitTime         time.Time  `json:"exit_time"`
	ExitReason       ExitReason `json:"exit_reason"`
	PnlPercent       float64    `json:"pnl_percent"`
	PnlAmount        float64    `json:"pnl_amount"`
	MaxProfitPercent float64    `json:"max_profit_percent"`
}

// Metrics summarizes a finished batch of closed trades.
type Metrics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	AvgProfit     float64 `json:"avg_profit"`
	AvgLoss       float64 `json:"avg_loss"`
	TotalPnl      float64 `json:"total_pnl"`
	MaxProfit     float64 `json:"max_profit"`
	MaxLoss       float64 `json:"max_loss"`
	ProfitFactor  float64 `json:"profit_factor"`
}

// PortfolioSummary is the read-side rollup over all positions of a session.
type PortfolioSummary struct {
	TotalPositions  int     `json:"total_positions"`
	OpenPositions   int     `json:"open_positions"`
	ClosedPositions int     `json:"closed_positions"`
	TotalPnl        float64 `json:"total_pnl"`
}
