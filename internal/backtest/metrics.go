package backtest

import "math"

// fillMetrics derives the aggregate statistics from trades, daily results
// and the equity curve already populated on res.
func fillMetrics(res *BacktestResult) {
	if res.InitialBalance > 0 {
		res.TotalReturnPct = (res.FinalBalance - res.InitialBalance) / res.InitialBalance * 100
	}
	res.TotalTrades = len(res.Trades)

	var grossWin, grossLoss float64
	for _, t := range res.Trades {
		if t.PnL > 0 {
			res.Wins++
			grossWin += t.PnL
		} else {
			res.Losses++
			grossLoss += t.PnL
		}
	}
	if res.TotalTrades > 0 {
		res.WinRatePct = float64(res.Wins) / float64(res.TotalTrades) * 100
	}
	if grossLoss == 0 {
		if grossWin > 0 {
			res.ProfitFactor = math.Inf(1)
		}
	} else {
		res.ProfitFactor = math.Abs(grossWin / grossLoss)
	}

	// Drawdown is tracked in dollars; the percentage is taken once against
	// the run's peak equity.
	peak := res.InitialBalance
	for _, p := range res.Equity {
		if p.Equity > peak {
			peak = p.Equity
		}
	}
	if peak > 0 {
		res.MaxDrawdownPct = res.MaxDrawdown / peak * 100
	}

	res.Sharpe = sharpe(res.Daily)
}

// sharpe annualizes the mean/stdev of daily percentage returns. Population
// stdev; undefined (0) below two days.
func sharpe(daily []DailyResult) float64 {
	if len(daily) < 2 {
		return 0
	}
	rets := make([]float64, len(daily))
	var sum float64
	for i, d := range daily {
		rets[i] = d.ReturnPct
		sum += d.ReturnPct
	}
	mean := sum / float64(len(rets))
	var variance float64
	for _, r := range rets {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(rets))
	stdev := math.Sqrt(variance)
	if stdev == 0 {
		return 0
	}
	return mean / stdev * math.Sqrt(365)
}
