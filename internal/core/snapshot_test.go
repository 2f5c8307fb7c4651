package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandleWireFormat(t *testing.T) {
	c := Candle{
		Ts:   time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
		Open: 1.25, High: 1.30, Low: 1.20, Close: 1.28, Volume: 12345,
	}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `["2025-06-01T14:30:00",1.25,1.3,1.2,1.28,12345]`, string(b))

	var back Candle
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, c, back)
}

func TestCandleUnmarshalRejectsBadRows(t *testing.T) {
	var c Candle
	assert.Error(t, json.Unmarshal([]byte(`["not-a-time",1,2,3,4,5]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"open":1}`), &c))
}

func TestSnapshotJSONShape(t *testing.T) {
	snap := TickSnapshot{
		Timestamp:         "2025-06-01T14:30:00",
		Day:               1,
		MinuteOfDay:       870,
		MinutesRemaining:  570,
		Account:           AccountState{Balance: 1000, Equity: 1000},
		Position:          PositionState{IsOpen: false},
		QualifyingTickers: []string{"MOONX"},
		MarketData: map[string]MarketData{
			"MOONX": {Open: 1.2, High: 1.3, Low: 1.1, Close: 1.25, Volume: 500, Change24hPct: 25},
		},
	}
	b, err := json.Marshal(snap)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Contains(t, raw, "minute_of_day")
	assert.Contains(t, raw, "minutes_remaining")
	assert.Contains(t, raw, "qualifying_tickers")

	var md map[string]map[string]float64
	require.NoError(t, json.Unmarshal(raw["market_data"], &md))
	assert.Equal(t, 25.0, md["MOONX"]["change_24h_pct"])
}

func TestSignalStrings(t *testing.T) {
	assert.Equal(t, "STRONG_BUY", StrongBuy.String())
	assert.Equal(t, "NEUTRAL", Neutral.String())
	assert.Equal(t, "STRONG_SELL", StrongSell.String())
	assert.True(t, Buy.Bullish())
	assert.True(t, StrongSell.Bearish())
	assert.False(t, Neutral.Bullish())
}
