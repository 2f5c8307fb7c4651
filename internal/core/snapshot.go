package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action values the decision engine may emit. Anything else is treated as
// HOLD at the boundary.
type Action string

const (
	Hold      Action = "HOLD"
	OpenLong  Action = "OPEN_LONG"
	OpenShort Action = "OPEN_SHORT"
	Close     Action = "CLOSE"
)

func (a Action) Opens() bool { return a == OpenLong || a == OpenShort }

// Decision is the engine's answer for one tick.
type Decision struct {
	Action   Action `json:"action"`
	Ticker   string `json:"ticker,omitempty"`
	Leverage int    `json:"leverage,omitempty"`
	SizePct  int    `json:"size_pct,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type AccountState struct {
	Balance       float64 `json:"balance"`
	Equity        float64 `json:"equity"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

type PositionState struct {
	IsOpen           bool    `json:"is_open"`
	Ticker           string  `json:"ticker,omitempty"`
	Side             Side    `json:"side,omitempty"`
	EntryPrice       float64 `json:"entry_price,omitempty"`
	EntryTime        string  `json:"entry_time,omitempty"`
	Size             float64 `json:"size,omitempty"`
	Leverage         int     `json:"leverage,omitempty"`
	CurrentPrice     float64 `json:"current_price,omitempty"`
	UnrealizedPnL    float64 `json:"unrealized_pnl,omitempty"`
	UnrealizedPnLPct float64 `json:"unrealized_pnl_pct,omitempty"`
}

// MarketData is the current candle of one ticker plus its 24h change.
type MarketData struct {
	Open         float64 `json:"open"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Close        float64 `json:"close"`
	Volume       float64 `json:"volume"`
	Change24hPct float64 `json:"change_24h_pct"`
}

// TickSnapshot is the full per-minute snapshot the decision engine consumes.
// History rows are oldest first.
type TickSnapshot struct {
	Timestamp         string                `json:"timestamp"`
	Day               int                   `json:"day"`
	MinuteOfDay       int                   `json:"minute_of_day"`
	MinutesRemaining  int                   `json:"minutes_remaining"`
	Account           AccountState          `json:"account"`
	Position          PositionState         `json:"position"`
	QualifyingTickers []string              `json:"qualifying_tickers"`
	MarketData        map[string]MarketData `json:"market_data"`
	History           map[string][]Candle   `json:"history"`
}

// Candles serialize as [timestamp, open, high, low, close, volume] rows on
// the wire.
func (c Candle) MarshalJSON() ([]byte, error) {
	row := [6]any{c.Ts.Format(TimeLayout), c.Open, c.High, c.Low, c.Close, c.Volume}
	return json.Marshal(row)
}

func (c *Candle) UnmarshalJSON(b []byte) error {
	var row [6]json.RawMessage
	if err := json.Unmarshal(b, &row); err != nil {
		return fmt.Errorf("candle row: %w", err)
	}
	var tsStr string
	if err := json.Unmarshal(row[0], &tsStr); err != nil {
		return fmt.Errorf("candle timestamp: %w", err)
	}
	ts, err := time.Parse(TimeLayout, tsStr)
	if err != nil {
		return fmt.Errorf("candle timestamp: %w", err)
	}
	vals := [5]float64{}
	for i := 1; i < 6; i++ {
		if err := json.Unmarshal(row[i], &vals[i-1]); err != nil {
			return fmt.Errorf("candle field %d: %w", i, err)
		}
	}
	c.Ts = ts
	c.Open, c.High, c.Low, c.Close, c.Volume = vals[0], vals[1], vals[2], vals[3], vals[4]
	return nil
}
