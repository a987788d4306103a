package engine

import (
	"sync"
	"time"

	"short-trading-bot/internal/types"
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Position is one short position. EntryPrice, EntryTime, Quantity and
// TargetPrice are fixed at creation. LowestSeen only ever decreases and
// StopLossPrice, recomputed from it, only ever tightens toward the entry.
// Exit fields are written exactly once, at the CLOSED transition.
//
// Position is a plain value; the Tracker mutates it under a per-symbol
// lock and hands out copies, so readers never observe a partial update.
type Position struct {
	Symbol     string
	EntryPrice float64
	EntryTime  time.Time
	Quantity   int
	OrderID    string

	TargetPrice   float64
	StopLossPrice float64
	LowestSeen    float64
	MaxProfitPct  float64

	Status     Status
	ExitPrice  float64
	ExitTime   time.Time
	ExitReason types.ExitReason
	PnlPercent float64
	PnlAmount  float64
}

// close records the terminal transition. Short P&L: profit when the exit
// price is below the entry.
func (p *Position) close(price float64, at time.Time, reason types.ExitReason) ExitEvent {
	p.Status = StatusClosed
	p.ExitPrice = price
	p.ExitTime = at
	p.ExitReason = reason
	p.PnlPercent = (p.EntryPrice - price) / p.EntryPrice * 100
	p.PnlAmount = (p.EntryPrice - price) * float64(p.Quantity)

	return ExitEvent{
		Symbol:     p.Symbol,
		Reason:     reason,
		Price:      price,
		Time:       at,
		Quantity:   p.Quantity,
		EntryPrice: p.EntryPrice,
		PnlPercent: p.PnlPercent,
		PnlAmount:  p.PnlAmount,
	}
}

// Record converts a closed position into the trade record shape consumed
// by the journal and reporting.
func (p Position) Record(day time.Time) types.TradeRecord {
	return types.TradeRecord{
		Date:             day,
		Symbol:           p.Symbol,
		Quantity:         p.Quantity,
		EntryPrice:       p.EntryPrice,
		ExitPrice:        p.ExitPrice,
		EntryTime:        p.EntryTime,
		ExitTime:         p.ExitTime,
		ExitReason:       p.ExitReason,
		PnlPercent:       p.PnlPercent,
		PnlAmount:        p.PnlAmount,
		MaxProfitPercent: p.MaxProfitPct,
	}
}

// ExitEvent is raised when a position transitions to CLOSED. Live callers
// use it to place the covering BUY order outside the tracking lock.
type ExitEvent struct {
	Symbol     string
	Reason     types.ExitReason
	Price      float64
	Time       time.Time
	Quantity   int
	EntryPrice float64
	PnlPercent float64
	PnlAmount  float64
}

// tracked pairs a position with its lock. Two updates for the same symbol
// never interleave; updates for different symbols may run in parallel.
type tracked struct {
	mu  sync.Mutex
	pos Position
}

func (t *tracked) snapshot() Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}
