package data

import (
	"math/rand"
	"time"

	"momentumbot/internal/core"
)

// GenSpec parameterizes one synthetic ticker. Drift is the per-minute return
// bias; a strong positive drift produces a 24h mover that qualifies.
type GenSpec struct {
	Ticker string
	Price  float64
	Vol    float64
	Drift  float64
}

// Generate builds a seeded random-walk minute dataset. Deterministic for a
// given seed, so tests and CLI runs are repeatable.
func Generate(start time.Time, minutes int, seed int64, specs []GenSpec) *Dataset {
	r := rand.New(rand.NewSource(seed))
	series := make(map[string][]core.Candle, len(specs))
	for _, spec := range specs {
		series[spec.Ticker] = randomWalk(r, start, minutes, spec)
	}
	return New(series)
}

func randomWalk(r *rand.Rand, start time.Time, minutes int, spec GenSpec) []core.Candle {
	candles := make([]core.Candle, 0, minutes)
	price := spec.Price
	ts := start
	for i := 0; i < minutes; i++ {
		open := price
		ret := (r.Float64()-0.5)*2.0*spec.Vol + spec.Drift
		cls := open * (1.0 + ret)
		high := maxf(open, cls) * (1.0 + r.Float64()*spec.Vol*0.5)
		low := minf(open, cls) * (1.0 - r.Float64()*spec.Vol*0.5)
		vol := 10_000 + r.Float64()*5_000
		candles = append(candles, core.Candle{Ts: ts, Open: open, High: high, Low: low, Close: cls, Volume: vol})
		price = cls
		ts = ts.Add(time.Minute)
	}
	return candles
}

func maxf(a, b float64) float64 {
	if a < b {
		return b
	}
	return a
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
