package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"short-trading-bot/internal/types"
)

func rec(pnlPct float64) types.TradeRecord {
	return types.TradeRecord{Symbol: "X", PnlPercent: pnlPct}
}

func TestCalculateMixedBatch(t *testing.T) {
	m := Calculate([]types.TradeRecord{rec(0.2), rec(0.3), rec(-0.1)})

	assert.Equal(t, 3, m.TotalTrades)
	assert.Equal(t, 2, m.WinningTrades)
	assert.Equal(t, 1, m.LosingTrades)
	assert.InDelta(t, 66.666, m.WinRate, 0.001)
	assert.InDelta(t, 0.25, m.AvgProfit, 1e-9)
	assert.InDelta(t, -0.1, m.AvgLoss, 1e-9)
	assert.InDelta(t, 0.4, m.TotalPnl, 1e-9)
	assert.InDelta(t, 0.3, m.MaxProfit, 1e-9)
	assert.InDelta(t, -0.1, m.MaxLoss, 1e-9)
	assert.InDelta(t, 2.5, m.ProfitFactor, 1e-9)
}

func TestCalculateEmptyBatch(t *testing.T) {
	m := Calculate(nil)
	assert.Equal(t, 0, m.TotalTrades)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.ProfitFactor)
}

func TestCalculateNoLosers(t *testing.T) {
	m := Calculate([]types.TradeRecord{rec(0.1), rec(0.2)})
	assert.Equal(t, 2, m.WinningTrades)
	assert.Equal(t, 0, m.LosingTrades)
	assert.InDelta(t, 100.0, m.WinRate, 1e-9)
	assert.Zero(t, m.AvgLoss)
	// Undefined without losers; reported as zero, not infinity.
	assert.Zero(t, m.ProfitFactor)
}

func TestCalculateAllLosers(t *testing.T) {
	m := Calculate([]types.TradeRecord{rec(-0.2), rec(-0.4)})
	assert.Equal(t, 0, m.WinningTrades)
	assert.Equal(t, 2, m.LosingTrades)
	assert.Zero(t, m.WinRate)
	assert.InDelta(t, -0.3, m.AvgLoss, 1e-9)
	assert.InDelta(t, -0.2, m.MaxProfit, 1e-9)
	assert.InDelta(t, -0.4, m.MaxLoss, 1e-9)
	assert.Zero(t, m.ProfitFactor)
}

func TestCalculateBreakevenNotCounted(t *testing.T) {
	m := Calculate([]types.TradeRecord{rec(0.0), rec(0.1)})
	assert.Equal(t, 2, m.TotalTrades)
	assert.Equal(t, 1, m.WinningTrades)
	assert.Equal(t, 0, m.LosingTrades)
	assert.InDelta(t, 50.0, m.WinRate, 1e-9)
}
