package engine

import (
	"fmt"
	"time"

	"short-trading-bot/internal/types"
)

// TargetBeforeStop fixes the tie-break for a bar whose range satisfies both
// exit conditions at once: the low reaches the target and the high reaches
// the stop. Aggregated OHLC cannot reveal which side traded first, so the
// ordering is a policy choice, not a derived fact. Target wins.
const TargetBeforeStop = true

// Config holds the strategy parameters shared by every position a Tracker
// manages. Both deltas are fractions: 0.002 means 0.2%.
type Config struct {
	TargetDrop    float64
	TrailingDelta float64
}

func (c Config) validate() error {
	if c.TargetDrop <= 0 || c.TargetDrop >= 1 {
		return fmt.Errorf("target_drop must be in (0, 1), got %g", c.TargetDrop)
	}
	if c.TrailingDelta <= 0 {
		return fmt.Errorf("trailing_delta must be positive, got %g", c.TrailingDelta)
	}
	return nil
}

// Tracker is the short-position state machine. It is driven identically by
// the historical simulator (sequential bars) and the live updater
// (degenerate tick bars); mutual exclusion is per symbol.
type Tracker struct {
	cfg Config
	pf  *Portfolio
}

// NewTracker validates the strategy config up front, before any position
// can be opened.
func NewTracker(cfg Config, pf *Portfolio) (*Tracker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tracker{cfg: cfg, pf: pf}, nil
}

// Open creates a short position for the symbol. The target price is fixed
// at entry×(1−targetDrop) and never recomputed; the initial stop sits at
// entry×(1+trailingDelta). Fails with ErrDuplicatePosition while a position
// for the symbol is still open; a closed prior generation is archived and
// replaced.
func (t *Tracker) Open(symbol string, entryPrice float64, qty int, at time.Time) (Position, error) {
	if entryPrice <= 0 {
		return Position{}, fmt.Errorf("open %s: entry price must be positive, got %g", symbol, entryPrice)
	}
	if qty <= 0 {
		return Position{}, fmt.Errorf("open %s: quantity must be positive, got %d", symbol, qty)
	}

	t.pf.mu.Lock()
	defer t.pf.mu.Unlock()

	if prev, ok := t.pf.current[symbol]; ok {
		prev.mu.Lock()
		open := prev.pos.Status == StatusOpen
		prior := prev.pos
		prev.mu.Unlock()
		if open {
			return Position{}, fmt.Errorf("%w: %s", ErrDuplicatePosition, symbol)
		}
		t.pf.archive = append(t.pf.archive, prior)
	}

	pos := Position{
		Symbol:        symbol,
		EntryPrice:    entryPrice,
		EntryTime:     at,
		Quantity:      qty,
		TargetPrice:   entryPrice * (1 - t.cfg.TargetDrop),
		StopLossPrice: entryPrice * (1 + t.cfg.TrailingDelta),
		LowestSeen:    entryPrice,
		Status:        StatusOpen,
	}
	t.pf.current[symbol] = &tracked{pos: pos}
	return pos, nil
}

// SetOrderID attaches the broker order that opened the position.
func (t *Tracker) SetOrderID(symbol, orderID string) {
	if tr := t.pf.lookup(symbol); tr != nil {
		tr.mu.Lock()
		tr.pos.OrderID = orderID
		tr.mu.Unlock()
	}
}

// Update feeds one price observation through the position for the symbol.
// Returns a non-nil ExitEvent when the bar closed the position, nil when it
// stays open, and nil when the position was already closed (no-op). Fails
// with ErrUnknownSymbol when the symbol was never opened this session.
//
// Exit checks run against the stop price in force when the bar opened: a
// new low printed by this bar tightens the stop effective from the next
// observation, never against the same bar's high. For single-price tick
// bars the two orderings are indistinguishable, which keeps live and
// historical decisions identical.
func (t *Tracker) Update(symbol string, bar types.Bar) (*ExitEvent, error) {
	tr := t.pf.lookup(symbol)
	if tr == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	p := &tr.pos
	if p.Status == StatusClosed {
		return nil, nil
	}

	hitTarget := bar.Low <= p.TargetPrice
	hitStop := bar.High >= p.StopLossPrice

	if hitTarget && hitStop {
		if TargetBeforeStop {
			hitStop = false
		} else {
			hitTarget = false
		}
	}

	switch {
	case hitTarget:
		ev := p.close(p.TargetPrice, bar.Time, types.ExitTargetHit)
		return &ev, nil
	case hitStop:
		ev := p.close(p.StopLossPrice, bar.Time, types.ExitStopLoss)
		return &ev, nil
	}

	if bar.Low < p.LowestSeen {
		p.LowestSeen = bar.Low
		p.StopLossPrice = p.LowestSeen * (1 + t.cfg.TrailingDelta)
	}

	// Max favorable excursion, reporting only.
	if mfe := (p.EntryPrice - bar.Low) / p.EntryPrice * 100; mfe > p.MaxProfitPct {
		p.MaxProfitPct = mfe
	}

	return nil, nil
}

// ForceClose covers an open position at the given price with reason
// EOD_CLOSE. Fails with ErrInvalidState when there is no open position;
// the exit fields of an already-closed position are never touched.
func (t *Tracker) ForceClose(symbol string, price float64, at time.Time) (ExitEvent, error) {
	tr := t.pf.lookup(symbol)
	if tr == nil {
		return ExitEvent{}, fmt.Errorf("%w: %s", ErrInvalidState, symbol)
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.pos.Status == StatusClosed {
		return ExitEvent{}, fmt.Errorf("%w: %s already closed", ErrInvalidState, symbol)
	}
	return tr.pos.close(price, at, types.ExitEODClose), nil
}

// Position returns a snapshot of the tracked position for the symbol.
func (t *Tracker) Position(symbol string) (Position, bool) {
	return t.pf.Position(symbol)
}
