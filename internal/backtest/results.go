package backtest

import (
	"time"

	"momentumbot/internal/core"
)

// Trade is one completed round trip.
type Trade struct {
	Ticker     string    `json:"ticker"`
	Side       core.Side `json:"side"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Size       float64   `json:"size"`
	Leverage   int       `json:"leverage"`
	PnL        float64   `json:"pnl"`
	PnLPct     float64   `json:"pnl_pct"`
	Reason     string    `json:"reason"`
}

// DailyResult summarizes one simulated trading day. Every closed trade
// belongs to exactly one day's list.
type DailyResult struct {
	Day            int     `json:"day"`
	Date           string  `json:"date"`
	InitialBalance float64 `json:"initial_balance"`
	FinalBalance   float64 `json:"final_balance"`
	PnL            float64 `json:"pnl"`
	ReturnPct      float64 `json:"return_pct"`
	Trades         []Trade `json:"trades"`
}

// Point is one equity curve sample.
type Point struct {
	Time   time.Time `json:"time"`
	Equity float64   `json:"equity"`
}

// BacktestResult is the full output of a run.
type BacktestResult struct {
	InitialBalance float64       `json:"initial_balance"`
	FinalBalance   float64       `json:"final_balance"`
	TotalReturnPct float64       `json:"total_return_pct"`
	TotalTrades    int           `json:"total_trades"`
	Wins           int           `json:"wins"`
	Losses         int           `json:"losses"`
	WinRatePct     float64       `json:"win_rate_pct"`
	ProfitFactor   float64       `json:"profit_factor"`
	MaxDrawdown    float64       `json:"max_drawdown"`
	MaxDrawdownPct float64       `json:"max_drawdown_pct"`
	Sharpe         float64       `json:"sharpe"`
	Trades         []Trade       `json:"trades"`
	Daily          []DailyResult `json:"daily"`
	Equity         []Point       `json:"equity"`
}
