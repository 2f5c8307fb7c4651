package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"momentumbot/internal/backtest"
)

func WriteTradesCSV(path string, trades []backtest.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"ticker", "side", "entry_time", "exit_time", "entry_price", "exit_price", "size", "leverage", "pnl", "pnl_pct", "reason"})
	for _, t := range trades {
		w.Write([]string{
			t.Ticker, string(t.Side),
			t.EntryTime.Format(time.RFC3339), t.ExitTime.Format(time.RFC3339),
			ftoa(t.EntryPrice), ftoa(t.ExitPrice), ftoa(t.Size),
			itoa(t.Leverage), ftoa(t.PnL), ftoa(t.PnLPct), t.Reason,
		})
	}
	return nil
}

func WriteEquityCSV(path string, points []backtest.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"ts", "equity"})
	for _, p := range points {
		w.Write([]string{itoa64(p.Time.Unix()), ftoa(p.Equity)})
	}
	return nil
}

func WriteDailyCSV(path string, daily []backtest.DailyResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"day", "date", "initial_balance", "final_balance", "pnl", "return_pct", "trades"})
	for _, d := range daily {
		w.Write([]string{itoa(d.Day), d.Date, ftoa(d.InitialBalance), ftoa(d.FinalBalance), ftoa(d.PnL), ftoa(d.ReturnPct), itoa(len(d.Trades))})
	}
	return nil
}

func itoa(x int) string     { return fmt.Sprintf("%d", x) }
func itoa64(x int64) string { return fmt.Sprintf("%d", x) }
func ftoa(x float64) string { return fmt.Sprintf("%.8f", x) }
