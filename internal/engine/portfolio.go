package engine

import (
	"sync"

	"short-trading-bot/internal/types"
)

// Portfolio owns the symbol→position mapping for one session. The Tracker
// writes through it; everything else only reads. Closed positions stay
// queryable: the latest generation per symbol lives in the map, earlier
// closed generations move to an archive when the symbol is reopened.
type Portfolio struct {
	mu      sync.RWMutex
	current map[string]*tracked
	archive []Position
}

func NewPortfolio() *Portfolio {
	return &Portfolio{current: make(map[string]*tracked)}
}

func (pf *Portfolio) lookup(symbol string) *tracked {
	pf.mu.RLock()
	defer pf.mu.RUnlock()
	return pf.current[symbol]
}

// Position returns a snapshot of the latest position for a symbol.
func (pf *Portfolio) Position(symbol string) (Position, bool) {
	tr := pf.lookup(symbol)
	if tr == nil {
		return Position{}, false
	}
	return tr.snapshot(), true
}

// Positions returns snapshots of every position created this session,
// archived generations first.
func (pf *Portfolio) Positions() []Position {
	pf.mu.RLock()
	defer pf.mu.RUnlock()

	out := make([]Position, 0, len(pf.archive)+len(pf.current))
	out = append(out, pf.archive...)
	for _, tr := range pf.current {
		out = append(out, tr.snapshot())
	}
	return out
}

// OpenSymbols lists the symbols with a currently open position.
func (pf *Portfolio) OpenSymbols() []string {
	pf.mu.RLock()
	defer pf.mu.RUnlock()

	var out []string
	for sym, tr := range pf.current {
		if tr.snapshot().Status == StatusOpen {
			out = append(out, sym)
		}
	}
	return out
}

func (pf *Portfolio) OpenCount() int {
	n := 0
	for _, p := range pf.Positions() {
		if p.Status == StatusOpen {
			n++
		}
	}
	return n
}

func (pf *Portfolio) ClosedCount() int {
	n := 0
	for _, p := range pf.Positions() {
		if p.Status == StatusClosed {
			n++
		}
	}
	return n
}

// TotalRealizedPnl sums PnlAmount over closed positions.
func (pf *Portfolio) TotalRealizedPnl() float64 {
	total := 0.0
	for _, p := range pf.Positions() {
		if p.Status == StatusClosed {
			total += p.PnlAmount
		}
	}
	return total
}

func (pf *Portfolio) Summary() types.PortfolioSummary {
	s := types.PortfolioSummary{}
	for _, p := range pf.Positions() {
		s.TotalPositions++
		switch p.Status {
		case StatusOpen:
			s.OpenPositions++
		case StatusClosed:
			s.ClosedPositions++
			s.TotalPnl += p.PnlAmount
		}
	}
	return s
}
