package journal

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"short-trading-bot/internal/types"
)

// Journal persists closed trades to SQLite so they survive the session and
// stay queryable by day.
type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Record inserts one closed trade and returns its generated ID.
func (j *Journal) Record(rec types.TradeRecord) (string, error) {
	id := ulid.Make().String()
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, day, symbol, quantity, entry_price, exit_price, entry_time, exit_time, exit_reason, pnl_percent, pnl_amount, max_profit_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Date.Format("2006-01-02"), rec.Symbol, rec.Quantity,
		rec.EntryPrice, rec.ExitPrice, rec.EntryTime, rec.ExitTime,
		string(rec.ExitReason), rec.PnlPercent, rec.PnlAmount, rec.MaxProfitPercent,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecordAll inserts a batch of closed trades, stopping at the first error.
func (j *Journal) RecordAll(recs []types.TradeRecord) error {
	for _, rec := range recs {
		if _, err := j.Record(rec); err != nil {
			return err
		}
	}
	return nil
}

// TradesOn returns the trades closed on the given calendar day.
func (j *Journal) TradesOn(day time.Time) ([]types.TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT day, symbol, quantity, entry_price, exit_price, entry_time, exit_time, exit_reason, pnl_percent, pnl_amount, max_profit_percent
		FROM trades WHERE day = ? ORDER BY exit_time`,
		day.Format("2006-01-02"),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []types.TradeRecord
	for rows.Next() {
		var rec types.TradeRecord
		var dayStr, reason string
		if err := rows.Scan(&dayStr, &rec.Symbol, &rec.Quantity, &rec.EntryPrice, &rec.ExitPrice,
			&rec.EntryTime, &rec.ExitTime, &reason, &rec.PnlPercent, &rec.PnlAmount, &rec.MaxProfitPercent); err != nil {
			return nil, err
		}
		rec.Date, _ = time.Parse("2006-01-02", dayStr)
		rec.ExitReason = types.ExitReason(reason)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
