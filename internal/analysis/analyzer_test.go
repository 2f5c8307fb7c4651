package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentumbot/internal/core"
)

func candleSeries(n int, step func(i int, prev float64) float64) []core.Candle {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]core.Candle, n)
	price := 1.0
	for i := 0; i < n; i++ {
		next := step(i, price)
		hi, lo := price, next
		if lo > hi {
			hi, lo = lo, hi
		}
		out[i] = core.Candle{
			Ts: start.Add(time.Duration(i) * time.Minute), Open: price,
			High: hi, Low: lo, Close: next, Volume: 1000,
		}
		price = next
	}
	return out
}

func risingSeries(n int, pct float64) []core.Candle {
	return candleSeries(n, func(_ int, prev float64) float64 { return prev * (1 + pct/100) })
}

func fallingSeries(n int, pct float64) []core.Candle {
	return candleSeries(n, func(_ int, prev float64) float64 { return prev * (1 - pct/100) })
}

func TestEMA_SeedsWithSimpleAverage(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	ema := EMA(x, 3)

	assert.True(t, math.IsNaN(ema[0]))
	assert.True(t, math.IsNaN(ema[1]))
	assert.Equal(t, 2.0, ema[2], "seed should be SMA of first 3")
	// k = 0.5: 4*0.5 + 2*0.5 = 3, then 5*0.5 + 3*0.5 = 4
	assert.Equal(t, 3.0, ema[3])
	assert.Equal(t, 4.0, ema[4])
}

func TestEMA_TooShortIsAllNaN(t *testing.T) {
	for _, v := range EMA([]float64{1, 2}, 5) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestEMA_IdenticalPricesStayPut(t *testing.T) {
	x := make([]float64, 9)
	for i := range x {
		x[i] = 42.0
	}
	ema := EMA(x, 9)
	assert.Equal(t, 42.0, ema[8])
}

func TestATRPercent_DefaultOnShortHistory(t *testing.T) {
	assert.Equal(t, 2.0, ATRPercent([]float64{1}, []float64{1}, []float64{1}, 14))
}

func TestATRPercent_ConstantRange(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := range highs {
		highs[i], lows[i], closes[i] = 102, 98, 100
	}
	// TR is 4 on every bar, close 100 -> 4%
	assert.InDelta(t, 4.0, ATRPercent(highs, lows, closes, 14), 1e-9)
}

func TestMomentum(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 110}
	assert.InDelta(t, 10.0, Momentum(closes, 4), 1e-9)
	assert.Equal(t, 0.0, Momentum(closes, 10), "short history is flat, not an error")
}

func TestVolumeRatio(t *testing.T) {
	vols := []float64{100, 100, 100, 100, 300}
	assert.InDelta(t, 3.0, VolumeRatio(vols, 4), 1e-9)
	assert.Equal(t, 1.0, VolumeRatio(vols, 10))
}

func TestTrendStrength_Discrete(t *testing.T) {
	rising := make([]float64, 60)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	assert.Equal(t, 0.8, TrendStrength(rising))

	falling := make([]float64, 60)
	for i := range falling {
		falling[i] = 160 - float64(i)
	}
	assert.Equal(t, -0.8, TrendStrength(falling))

	assert.Equal(t, 0.0, TrendStrength(rising[:40]), "needs 50 bars")
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	a := New()
	hist := risingSeries(MinHistory-1, 0.1)
	res := a.Analyze("MOONX", hist, core.MarketData{Close: 1.1}, 25.0)

	assert.Equal(t, core.Neutral, res.Signal)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, 1.0, res.VolumeRatio)
	assert.Equal(t, 0.0, res.ATRPct)
	assert.Equal(t, 25.0, res.Change24hPct)
}

func TestAnalyze_StrongUptrendGoesLong(t *testing.T) {
	a := New()
	hist := risingSeries(150, 0.1)
	last := hist[len(hist)-1]
	res := a.Analyze("MOONX", hist, core.MarketData{Close: last.Close, Volume: last.Volume}, 25.0)

	require.True(t, res.Signal.Bullish(), "signal was %s", res.Signal)
	assert.GreaterOrEqual(t, res.Confidence, 0.55)
	assert.Greater(t, res.LongScore, res.ShortScore)
	assert.True(t, res.MakingNewHighs)
	assert.Greater(t, res.ShortMomentum, 1.0)

	// A volume spike on the last bar must reinforce, not flip, the verdict.
	hist[len(hist)-1].Volume = 2500
	res = a.Analyze("MOONX", hist, core.MarketData{Close: last.Close, Volume: 2500}, 25.0)
	require.True(t, res.Signal.Bullish())
	assert.False(t, res.Signal.Bearish())
}

func TestAnalyze_StrongDowntrendGoesShort(t *testing.T) {
	a := New()
	hist := fallingSeries(150, 0.1)
	last := hist[len(hist)-1]
	res := a.Analyze("DUMPY", hist, core.MarketData{Close: last.Close, Volume: last.Volume}, -25.0)

	require.True(t, res.Signal.Bearish(), "signal was %s", res.Signal)
	assert.GreaterOrEqual(t, res.Confidence, 0.55)
	assert.True(t, res.MakingNewLows)
	assert.Less(t, res.ShortMomentum, -1.0)
}

func TestClassify_CounterTrendGuard(t *testing.T) {
	// Short edge under 0.3 against a +20% day is suppressed entirely.
	m := &core.MomentumAnalysis{Change24hPct: 25, LongScore: 0.4, ShortScore: 0.6}
	sig, conf := classify(m)
	assert.Equal(t, core.Neutral, sig)
	assert.Equal(t, 0.0, conf)

	// With a full 0.3+ edge the short fires.
	m.ShortScore = 0.75
	sig, conf = classify(m)
	assert.Equal(t, core.StrongSell, sig)
	assert.InDelta(t, 0.75, conf, 1e-9)

	// Mirrored for longs against a -20% day.
	m = &core.MomentumAnalysis{Change24hPct: -25, LongScore: 0.6, ShortScore: 0.4}
	sig, _ = classify(m)
	assert.Equal(t, core.Neutral, sig)
}

func TestClassify_Thresholds(t *testing.T) {
	m := &core.MomentumAnalysis{LongScore: 0.45, ShortScore: 0.1}
	sig, conf := classify(m)
	assert.Equal(t, core.StrongBuy, sig)
	assert.InDelta(t, 0.45, conf, 1e-9)

	m = &core.MomentumAnalysis{LongScore: 0.38, ShortScore: 0.2}
	sig, conf = classify(m)
	assert.Equal(t, core.Buy, sig)
	assert.InDelta(t, 0.38*0.9, conf, 1e-9)

	m = &core.MomentumAnalysis{LongScore: 0.3, ShortScore: 0.3}
	sig, _ = classify(m)
	assert.Equal(t, core.Neutral, sig)
}

func TestScores_VolumeFollowsMomentumDirection(t *testing.T) {
	m := &core.MomentumAnalysis{Change24hPct: 25, ShortMomentum: -2, VolumeRatio: 3.0}
	long, short := scores(m)
	assert.Equal(t, 0.35*0.8, long, "volume surge must not credit the long side on falling momentum")
	assert.Greater(t, short, 0.0)
}
