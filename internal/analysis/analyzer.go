package analysis

import (
	"math"

	"momentumbot/internal/core"
)

// MinHistory is the number of candles required before the analyzer produces
// a non-neutral assessment.
const MinHistory = 100

// Analyzer scores momentum continuation for assets that already moved 20%+
// in 24h. All methods are pure; the struct only carries lookback periods.
type Analyzer struct {
	ShortPeriod  int // short momentum, minutes
	MediumPeriod int // medium momentum, minutes
	VolPeriod    int // volume average window
	ATRPeriod    int
	Lookback     int // price action window
}

func New() *Analyzer {
	return &Analyzer{ShortPeriod: 30, MediumPeriod: 120, VolPeriod: 60, ATRPeriod: 14, Lookback: 60}
}

// EMA returns the exponential moving average series. Indices before the
// window fills are NaN; index n-1 seeds with the simple average.
func EMA(x []float64, n int) []float64 {
	res := make([]float64, len(x))
	if len(x) < n {
		for i := range res {
			res[i] = math.NaN()
		}
		return res
	}
	k := 2.0 / (float64(n) + 1)
	sum := 0.0
	for i := 0; i < n; i++ {
		res[i] = math.NaN()
		sum += x[i]
	}
	res[n-1] = sum / float64(n)
	for i := n; i < len(x); i++ {
		res[i] = x[i]*k + res[i-1]*(1-k)
	}
	return res
}

// ATRPercent is the average true range over the trailing n bars as a
// percentage of the latest close. With fewer than n+1 bars it falls back to
// 2.0, and that default must reach leverage/stop sizing in the live and
// backtest paths alike.
func ATRPercent(highs, lows, closes []float64, n int) float64 {
	if len(closes) < n+1 {
		return 2.0
	}
	tr := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		m := highs[i] - lows[i]
		if v := math.Abs(highs[i] - closes[i-1]); v > m {
			m = v
		}
		if v := math.Abs(lows[i] - closes[i-1]); v > m {
			m = v
		}
		tr = append(tr, m)
	}
	if len(tr) < n {
		return 2.0
	}
	sum := 0.0
	for _, v := range tr[len(tr)-n:] {
		sum += v
	}
	atr := sum / float64(n)
	return atr / closes[len(closes)-1] * 100
}

// Momentum is the percentage change from the close n+1 bars back to the
// latest close.
func Momentum(closes []float64, n int) float64 {
	if len(closes) < n+1 {
		return 0
	}
	start := closes[len(closes)-n-1]
	if start == 0 {
		return 0
	}
	return (closes[len(closes)-1] - start) / start * 100
}

// VolumeRatio compares the latest volume to the mean of the preceding n
// volumes, excluding the latest bar.
func VolumeRatio(volumes []float64, n int) float64 {
	if len(volumes) < n+1 {
		return 1.0
	}
	sum := 0.0
	for _, v := range volumes[len(volumes)-n-1 : len(volumes)-1] {
		sum += v
	}
	avg := sum / float64(n)
	if avg == 0 {
		return 1.0
	}
	return volumes[len(volumes)-1] / avg
}

type priceAction struct {
	newHighs bool
	newLows  bool
	fromHigh float64
	fromLow  float64
}

func checkPriceAction(highs, lows, closes []float64, lookback int) priceAction {
	var pa priceAction
	if len(closes) < lookback {
		return pa
	}
	recentHigh := maxOf(highs[len(highs)-lookback:])
	recentLow := minOf(lows[len(lows)-lookback:])
	cur := closes[len(closes)-1]

	// New extremes count if the last 10 bars got within 0.2% of the window
	// extreme.
	pa.newHighs = maxOf(highs[len(highs)-10:]) >= recentHigh*0.998
	pa.newLows = minOf(lows[len(lows)-10:]) <= recentLow*1.002
	pa.fromHigh = (recentHigh - cur) / cur * 100
	pa.fromLow = (cur - recentLow) / cur * 100
	return pa
}

// TrendStrength positions the current price against the 9/21 EMA pair and
// returns a discrete score in [-0.8, 0.8]. Needs at least 50 bars.
func TrendStrength(closes []float64) float64 {
	if len(closes) < 50 {
		return 0
	}
	fast := EMA(closes, 9)
	slow := EMA(closes, 21)
	cur := closes[len(closes)-1]
	f := fast[len(fast)-1]
	s := slow[len(slow)-1]
	if math.IsNaN(f) || math.IsNaN(s) {
		return 0
	}
	switch {
	case cur > f && f > s:
		return 0.8
	case cur > f && cur > s:
		return 0.5
	case cur > s:
		return 0.2
	case cur < f && f < s:
		return -0.8
	case cur < f && cur < s:
		return -0.5
	case cur < s:
		return -0.2
	}
	return 0
}

// Analyze builds the momentum assessment for one ticker at one instant.
// History must be oldest first; fewer than MinHistory candles yields the
// zeroed NEUTRAL result rather than an error.
func (a *Analyzer) Analyze(ticker string, history []core.Candle, current core.MarketData, change24h float64) core.MomentumAnalysis {
	res := core.MomentumAnalysis{
		Ticker:       ticker,
		CurrentPrice: current.Close,
		Change24hPct: change24h,
		VolumeRatio:  1.0,
		Signal:       core.Neutral,
	}
	if len(history) < MinHistory {
		return res
	}

	closes := make([]float64, len(history))
	highs := make([]float64, len(history))
	lows := make([]float64, len(history))
	volumes := make([]float64, len(history))
	for i, c := range history {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	res.ShortMomentum = Momentum(closes, a.ShortPeriod)
	res.MediumMomentum = Momentum(closes, a.MediumPeriod)
	res.VolumeRatio = VolumeRatio(volumes, a.VolPeriod)
	res.ATRPct = ATRPercent(highs, lows, closes, a.ATRPeriod)

	pa := checkPriceAction(highs, lows, closes, a.Lookback)
	res.MakingNewHighs = pa.newHighs
	res.MakingNewLows = pa.newLows
	res.DistFromHigh = pa.fromHigh
	res.DistFromLow = pa.fromLow

	res.TrendStrength = TrendStrength(closes)

	res.LongScore, res.ShortScore = scores(&res)
	res.Signal, res.Confidence = classify(&res)
	return res
}

// scores applies the momentum-continuation weighting: trade with the 24h
// direction, confirmed by recent momentum, volume, price action and trend.
func scores(m *core.MomentumAnalysis) (long, short float64) {
	// 24h direction, 35% weight.
	switch {
	case m.Change24hPct > 30:
		long += 0.35
	case m.Change24hPct > 20:
		long += 0.35 * 0.8
	case m.Change24hPct < -30:
		short += 0.35
	case m.Change24hPct < -20:
		short += 0.35 * 0.8
	}

	// Momentum confirmation, 25% split 15/10.
	if m.ShortMomentum > 1.0 {
		long += 0.15 * math.Min(m.ShortMomentum/3, 1.0)
	} else if m.ShortMomentum < -1.0 {
		short += 0.15 * math.Min(math.Abs(m.ShortMomentum)/3, 1.0)
	}
	if m.MediumMomentum > 2.0 {
		long += 0.10 * math.Min(m.MediumMomentum/5, 1.0)
	} else if m.MediumMomentum < -2.0 {
		short += 0.10 * math.Min(math.Abs(m.MediumMomentum)/5, 1.0)
	}

	// Volume confirms whichever way price is currently moving, 20% weight.
	if m.VolumeRatio > 2.0 {
		if m.ShortMomentum > 0 {
			long += 0.20 * math.Min(m.VolumeRatio/3, 1.0)
		} else if m.ShortMomentum < 0 {
			short += 0.20 * math.Min(m.VolumeRatio/3, 1.0)
		}
	} else if m.VolumeRatio > 1.2 {
		if m.ShortMomentum > 0 {
			long += 0.10 * math.Min(m.VolumeRatio/2, 0.8)
		} else if m.ShortMomentum < 0 {
			short += 0.10 * math.Min(m.VolumeRatio/2, 0.8)
		}
	}

	// Price action, 15% weight.
	if m.MakingNewHighs && m.Change24hPct > 0 {
		long += 0.15
	} else if m.MakingNewLows && m.Change24hPct < 0 {
		short += 0.15
	}
	// Buying the dip in an uptrend, selling the bounce in a downtrend.
	if m.Change24hPct > 20 && m.DistFromLow < 2.0 {
		long += 0.10
	}
	if m.Change24hPct < -20 && m.DistFromHigh < 2.0 {
		short += 0.10
	}

	// Trend alignment, 5% weight.
	if m.TrendStrength > 0.5 {
		long += 0.05 * m.TrendStrength
	} else if m.TrendStrength < -0.5 {
		short += 0.05 * math.Abs(m.TrendStrength)
	}

	return long, short
}

// classify turns scores into the final signal. Counter-trend signals against
// a 20%+ 24h move need a 0.3 score edge before they count at all.
func classify(m *core.MomentumAnalysis) (core.Signal, float64) {
	long, short := m.LongScore, m.ShortScore

	if m.Change24hPct > 20 && short > long && short < long+0.3 {
		return core.Neutral, 0
	}
	if m.Change24hPct < -20 && long > short && long < short+0.3 {
		return core.Neutral, 0
	}

	diff := long - short
	switch {
	case diff > 0.3 && long > 0.4:
		return core.StrongBuy, math.Min(long, 1.0)
	case diff > 0.15 && long > 0.35:
		return core.Buy, math.Min(long*0.9, 0.9)
	case diff < -0.3 && short > 0.4:
		return core.StrongSell, math.Min(short, 1.0)
	case diff < -0.15 && short > 0.35:
		return core.Sell, math.Min(short*0.9, 0.9)
	}
	return core.Neutral, 0
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, v := range xs {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, v := range xs {
		if v < m {
			m = v
		}
	}
	return m
}
