package backtest

import "short-trading-bot/internal/types"

// Calculate derives backtest statistics from a batch of closed trades.
// Percent P&L is used throughout; profit factor is |avgProfit/avgLoss| and
// zero when there are no losing trades.
func Calculate(records []types.TradeRecord) types.Metrics {
	m := types.Metrics{TotalTrades: len(records)}
	if len(records) == 0 {
		return m
	}

	var winSum, lossSum float64
	for i, rec := range records {
		pnl := rec.PnlPercent
		m.TotalPnl += pnl
		if pnl > 0 {
			m.WinningTrades++
			winSum += pnl
		} else if pnl < 0 {
			m.LosingTrades++
			lossSum += pnl
		}
		if i == 0 || pnl > m.MaxProfit {
			m.MaxProfit = pnl
		}
		if i == 0 || pnl < m.MaxLoss {
			m.MaxLoss = pnl
		}
	}

	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	if m.WinningTrades > 0 {
		m.AvgProfit = winSum / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = lossSum / float64(m.LosingTrades)
	}
	if m.AvgLoss != 0 {
		m.ProfitFactor = m.AvgProfit / m.AvgLoss
		if m.ProfitFactor < 0 {
			m.ProfitFactor = -m.ProfitFactor
		}
	}
	return m
}
