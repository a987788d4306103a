package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"short-trading-bot/internal/types"
)

func tempJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "data", "trades.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleRecord(day time.Time, symbol string, pnlPct float64) types.TradeRecord {
	entry := day.Add(9*time.Hour + 15*time.Minute)
	return types.TradeRecord{
		Date:             day,
		Symbol:           symbol,
		Quantity:         100,
		EntryPrice:       100.0,
		ExitPrice:        100.0 * (1 - pnlPct/100),
		EntryTime:        entry,
		ExitTime:         entry.Add(30 * time.Minute),
		ExitReason:       types.ExitTargetHit,
		PnlPercent:       pnlPct,
		PnlAmount:        pnlPct * 100,
		MaxProfitPercent: pnlPct,
	}
}

func TestJournalRoundTrip(t *testing.T) {
	j := tempJournal(t)
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	id, err := j.Record(sampleRecord(day, "RELIANCE", 0.2))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	recs, err := j.TradesOn(day)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	got := recs[0]
	assert.Equal(t, "RELIANCE", got.Symbol)
	assert.Equal(t, 100, got.Quantity)
	assert.Equal(t, types.ExitTargetHit, got.ExitReason)
	assert.InDelta(t, 100.0, got.EntryPrice, 1e-9)
	assert.InDelta(t, 0.2, got.PnlPercent, 1e-9)
	assert.Equal(t, "2026-08-03", got.Date.Format("2006-01-02"))
}

func TestJournalRecordAllAndDayFilter(t *testing.T) {
	j := tempJournal(t)
	mon := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	tue := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)

	err := j.RecordAll([]types.TradeRecord{
		sampleRecord(mon, "TCS", 0.2),
		sampleRecord(mon, "INFY", -0.1),
		sampleRecord(tue, "TCS", 0.3),
	})
	require.NoError(t, err)

	monTrades, err := j.TradesOn(mon)
	require.NoError(t, err)
	assert.Len(t, monTrades, 2)

	tueTrades, err := j.TradesOn(tue)
	require.NoError(t, err)
	require.Len(t, tueTrades, 1)
	assert.Equal(t, "TCS", tueTrades[0].Symbol)
}

func TestJournalEmptyDay(t *testing.T) {
	j := tempJournal(t)
	recs, err := j.TradesOn(time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestJournalUniqueIDs(t *testing.T) {
	j := tempJournal(t)
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	id1, err := j.Record(sampleRecord(day, "A", 0.1))
	require.NoError(t, err)
	id2, err := j.Record(sampleRecord(day, "A", 0.1))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}
