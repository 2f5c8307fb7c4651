package data

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"momentumbot/internal/core"
)

// TradeLog is a CSV journal of executed opens and closes.
type TradeLog struct {
	path string
	mu   sync.Mutex
}

func NewTradeLog(path string) (*TradeLog, error) {
	if path == "" {
		return nil, errors.New("empty trades path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	// ensure file exists with header
	if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, err
		}
		f, err := os.Create(abs)
		if err != nil {
			return nil, err
		}
		w := csv.NewWriter(f)
		_ = w.Write([]string{"ts", "ticker", "event", "side", "size", "leverage", "price", "pnl", "reason"})
		w.Flush()
		_ = f.Close()
	}
	return &TradeLog{path: abs}, nil
}

func (t *TradeLog) Append(r core.TradeLogEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	rec := []string{
		r.TS.Format(time.RFC3339), r.Ticker, r.Event, string(r.Side),
		formatF(r.Size), strconv.Itoa(r.Leverage), formatF(r.Price), formatF(r.PnL), r.Reason,
	}
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (t *TradeLog) LastN(n int) ([]core.TradeLogEntry, error) {
	if n <= 0 {
		n = 10
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	f, err := os.Open(t.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	// skip header
	var out []core.TradeLogEntry
	for i := 1; i < len(rows); i++ {
		out = append(out, parseRow(rows[i]))
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func parseRow(rec []string) core.TradeLogEntry {
	ts, _ := time.Parse(time.RFC3339, rec[0])
	size, _ := strconv.ParseFloat(rec[4], 64)
	lev, _ := strconv.Atoi(rec[5])
	price, _ := strconv.ParseFloat(rec[6], 64)
	pnl, _ := strconv.ParseFloat(rec[7], 64)
	return core.TradeLogEntry{
		TS: ts, Ticker: rec[1], Event: rec[2], Side: core.Side(rec[3]),
		Size: size, Leverage: lev, Price: price, PnL: pnl, Reason: rec[8],
	}
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }
