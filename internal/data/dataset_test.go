package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentumbot/internal/core"
)

var t0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func mkSeries(n int, price float64) []core.Candle {
	out := make([]core.Candle, n)
	for i := 0; i < n; i++ {
		out[i] = core.Candle{Ts: t0.Add(time.Duration(i) * time.Minute), Open: price, High: price, Low: price, Close: price, Volume: 100}
	}
	return out
}

func TestCandleLookup(t *testing.T) {
	ds := New(map[string][]core.Candle{"STABL": mkSeries(100, 50)})

	c, ok := ds.Candle("STABL", t0.Add(30*time.Minute))
	require.True(t, ok)
	assert.Equal(t, 50.0, c.Close)

	_, ok = ds.Candle("STABL", t0.Add(100*time.Minute))
	assert.False(t, ok, "past the end of the series")
	_, ok = ds.Candle("STABL", t0.Add(30*time.Minute+30*time.Second))
	assert.False(t, ok, "unaligned timestamp")
	_, ok = ds.Candle("NOPE", t0)
	assert.False(t, ok)
}

func TestHistoryBounds(t *testing.T) {
	ds := New(map[string][]core.Candle{"STABL": mkSeries(100, 50)})

	hist := ds.History("STABL", t0.Add(99*time.Minute), 1440)
	assert.Len(t, hist, 100, "clips to series start")

	hist = ds.History("STABL", t0.Add(49*time.Minute), 10)
	require.Len(t, hist, 10)
	assert.Equal(t, t0.Add(40*time.Minute), hist[0].Ts, "oldest first")
	assert.Equal(t, t0.Add(49*time.Minute), hist[9].Ts)

	assert.Nil(t, ds.History("STABL", t0.Add(200*time.Minute), 10))
}

func TestChange24hFixedOffset(t *testing.T) {
	series := mkSeries(1500, 100)
	for i := 1440; i < 1500; i++ {
		series[i].Close = 125
	}
	ds := New(map[string][]core.Candle{"MOONX": series})

	_, ok := ds.Change24h("MOONX", t0.Add(1439*time.Minute))
	assert.False(t, ok, "no baseline inside the first 24h")

	change, ok := ds.Change24h("MOONX", t0.Add(1440*time.Minute))
	require.True(t, ok)
	assert.InDelta(t, 25.0, change, 1e-9)
}

func TestQualifyingSortedByAbsChange(t *testing.T) {
	up := mkSeries(1500, 100)
	down := mkSeries(1500, 100)
	flat := mkSeries(1500, 100)
	for i := 1440; i < 1500; i++ {
		up[i].Close = 125   // +25%
		down[i].Close = 70  // -30%
		flat[i].Close = 110 // +10%, below threshold
	}
	ds := New(map[string][]core.Candle{"UPPER": up, "DOWNER": down, "STABL": flat})

	q := ds.Qualifying(t0.Add(1450 * time.Minute))
	require.Len(t, q, 2)
	assert.Equal(t, "DOWNER", q[0].Ticker, "largest absolute move first")
	assert.InDelta(t, -30.0, q[0].ChangePct, 1e-9)
	assert.Equal(t, "UPPER", q[1].Ticker)

	assert.Empty(t, ds.Qualifying(t0.Add(10*time.Minute)), "nothing defined inside the first day")
}

func TestGenerateDeterministic(t *testing.T) {
	specs := []GenSpec{{Ticker: "MOONX", Price: 1.0, Vol: 0.004, Drift: 0.0002}}
	a := Generate(t0, 200, 7, specs)
	b := Generate(t0, 200, 7, specs)

	ca, _ := a.Candle("MOONX", t0.Add(150*time.Minute))
	cb, _ := b.Candle("MOONX", t0.Add(150*time.Minute))
	assert.Equal(t, ca, cb)

	hist := a.History("MOONX", t0.Add(199*time.Minute), 200)
	require.Len(t, hist, 200)
	for i := 1; i < len(hist); i++ {
		assert.Equal(t, hist[i-1].Close, hist[i].Open, "gap-free walk")
		assert.GreaterOrEqual(t, hist[i].High, hist[i].Low)
	}
}
