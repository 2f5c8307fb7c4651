package backtest

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// PrintSummary writes the human-readable run summary.
func PrintSummary(w io.Writer, res *BacktestResult) {
	fmt.Fprintf(w, "Backtest: %d days, %d trades\n", len(res.Daily), res.TotalTrades)
	fmt.Fprintf(w, "Balance:  %.2f -> %.2f (%+.2f%%)\n", res.InitialBalance, res.FinalBalance, res.TotalReturnPct)
	fmt.Fprintf(w, "WinRate:  %.1f%% (%d/%d)\n", res.WinRatePct, res.Wins, res.TotalTrades)
	fmt.Fprintf(w, "PF:       %s | MaxDD: %.2f%% | Sharpe: %.2f\n", pfString(res.ProfitFactor), res.MaxDrawdownPct, res.Sharpe)
	for _, d := range res.Daily {
		fmt.Fprintf(w, "  day %d (%s): %+.2f (%+.2f%%), %d trades\n", d.Day, d.Date, d.PnL, d.ReturnPct, len(d.Trades))
	}
}

// HTMLReport renders the run as a single self-contained page.
func HTMLReport(title string, res *BacktestResult, zipName string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", title)
	b.WriteString("<style>body{font-family:Inter,system-ui,sans-serif;padding:16px;background:#0b0f17;color:#e6edf3}table{border-collapse:collapse}td,th{border:1px solid #1f2837;padding:6px 8px}</style>")
	b.WriteString("</head><body>")
	fmt.Fprintf(&b, "<h2>%s</h2>", title)
	fmt.Fprintf(&b, "<p>Balance: <b>%.2f &rarr; %.2f</b> (%+.2f%%) | Trades: <b>%d</b> | WinRate: <b>%.1f%%</b> | PF: <b>%s</b> | MaxDD: <b>%.2f%%</b> | Sharpe: <b>%.2f</b></p>",
		res.InitialBalance, res.FinalBalance, res.TotalReturnPct, res.TotalTrades, res.WinRatePct, pfString(res.ProfitFactor), res.MaxDrawdownPct, res.Sharpe)
	if zipName != "" {
		fmt.Fprintf(&b, "<p><a href='%s'>Download ZIP</a></p>", zipName)
	}

	b.WriteString("<h3>Daily</h3><table><tr><th>Day</th><th>Date</th><th>Start</th><th>End</th><th>PnL</th><th>Return</th><th>Trades</th></tr>")
	for _, d := range res.Daily {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%.2f</td><td>%.2f</td><td>%+.2f</td><td>%+.2f%%</td><td>%d</td></tr>",
			d.Day, d.Date, d.InitialBalance, d.FinalBalance, d.PnL, d.ReturnPct, len(d.Trades))
	}
	b.WriteString("</table>")

	b.WriteString("<h3>Trades</h3><table><tr><th>Ticker</th><th>Side</th><th>Entry</th><th>Exit</th><th>Lev</th><th>PnL</th><th>PnL%</th><th>Reason</th></tr>")
	for _, t := range res.Trades {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%.4f</td><td>%.4f</td><td>%dx</td><td>%+.2f</td><td>%+.2f%%</td><td>%s</td></tr>",
			t.Ticker, t.Side, t.EntryPrice, t.ExitPrice, t.Leverage, t.PnL, t.PnLPct, t.Reason)
	}
	b.WriteString("</table></body></html>")
	return b.Bytes()
}

func pfString(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}
