package zerodha

import (
	"context"
	"testing"

	"short-trading-bot/internal/types"
)

func TestInstrumentMapperBidirectional(t *testing.T) {
	m := newInstrumentMapper()
	m.add("RELIANCE", 738561)
	m.add("TCS", 2953217)

	tok, ok := m.token("RELIANCE")
	if !ok || tok != 738561 {
		t.Errorf("token(RELIANCE) = %d/%v, want 738561/true", tok, ok)
	}
	if sym := m.symbol(2953217); sym != "TCS" {
		t.Errorf("symbol(2953217) = %q, want TCS", sym)
	}
	if m.size() != 2 {
		t.Errorf("size = %d, want 2", m.size())
	}
}

func TestInstrumentMapperMisses(t *testing.T) {
	m := newInstrumentMapper()
	if _, ok := m.token("NOPE"); ok {
		t.Error("expected miss for unknown symbol")
	}
	if sym := m.symbol(42); sym != "" {
		t.Errorf("symbol(42) = %q, want empty", sym)
	}
}

func TestDryRunOrdersAreSimulated(t *testing.T) {
	c := NewClient(Params{Mode: "DRY_RUN", Exchange: "NSE"})

	resp, err := c.PlaceOrder(context.Background(), types.OrderReq{Symbol: "RELIANCE", Side: "SELL", Qty: 10})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if resp.Status != "SIMULATED" || resp.OrderID == "" {
		t.Errorf("resp = %+v, want SIMULATED with an id", resp)
	}
}

func TestPlaceOrderRejectsBadSide(t *testing.T) {
	c := NewClient(Params{Mode: "DRY_RUN", Exchange: "NSE"})
	if _, err := c.PlaceOrder(context.Background(), types.OrderReq{Symbol: "RELIANCE", Side: "HOLD", Qty: 10}); err == nil {
		t.Error("expected error for invalid side")
	}
}
