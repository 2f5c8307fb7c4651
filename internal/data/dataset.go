package data

import (
	"sort"
	"time"

	"momentumbot/internal/core"
)

// QualifyingChangePct is the absolute 24h change that makes a ticker
// tradeable. The same constant feeds the live and simulated filters.
const QualifyingChangePct = 20.0

// day24h is the fixed index offset for the "24h ago" close. Series are
// assumed 1-minute spaced with no gaps, so this is an index lookup, not
// timestamp arithmetic.
const day24h = 1440

// Series is one ticker's chronologically ordered candle table.
type Series struct {
	start   time.Time
	candles []core.Candle
}

func (s *Series) index(ts time.Time) (int, bool) {
	if len(s.candles) == 0 || ts.Before(s.start) {
		return 0, false
	}
	i := int(ts.Sub(s.start) / time.Minute)
	if i >= len(s.candles) || !s.candles[i].Ts.Equal(ts) {
		return 0, false
	}
	return i, true
}

// Dataset holds the full historical table, keyed by ticker.
type Dataset struct {
	series  map[string]*Series
	tickers []string
}

func New(series map[string][]core.Candle) *Dataset {
	d := &Dataset{series: make(map[string]*Series, len(series))}
	for ticker, candles := range series {
		if len(candles) == 0 {
			continue
		}
		d.series[ticker] = &Series{start: candles[0].Ts, candles: candles}
		d.tickers = append(d.tickers, ticker)
	}
	sort.Strings(d.tickers)
	return d
}

func (d *Dataset) Tickers() []string { return d.tickers }

func (d *Dataset) Candle(ticker string, ts time.Time) (core.Candle, bool) {
	s, ok := d.series[ticker]
	if !ok {
		return core.Candle{}, false
	}
	i, ok := s.index(ts)
	if !ok {
		return core.Candle{}, false
	}
	return s.candles[i], true
}

// History returns up to the last `minutes` candles ending at ts, oldest
// first. Empty when ts is not in the series.
func (d *Dataset) History(ticker string, ts time.Time, minutes int) []core.Candle {
	s, ok := d.series[ticker]
	if !ok {
		return nil
	}
	end, ok := s.index(ts)
	if !ok {
		return nil
	}
	start := end - minutes + 1
	if start < 0 {
		start = 0
	}
	return s.candles[start : end+1]
}

// Change24h is the percentage change of the close at ts versus the close
// exactly 1440 candles earlier. Not defined near the start of the series or
// when the reference close is 0.
func (d *Dataset) Change24h(ticker string, ts time.Time) (float64, bool) {
	s, ok := d.series[ticker]
	if !ok {
		return 0, false
	}
	i, ok := s.index(ts)
	if !ok || i < day24h {
		return 0, false
	}
	past := s.candles[i-day24h].Close
	if past == 0 {
		return 0, false
	}
	return (s.candles[i].Close - past) / past * 100, true
}

type TickerChange struct {
	Ticker    string
	ChangePct float64
}

// Qualifying lists tickers whose |24h change| meets the threshold at ts,
// most volatile first.
func (d *Dataset) Qualifying(ts time.Time) []TickerChange {
	var out []TickerChange
	for _, ticker := range d.tickers {
		change, ok := d.Change24h(ticker, ts)
		if ok && abs(change) >= QualifyingChangePct {
			out = append(out, TickerChange{Ticker: ticker, ChangePct: change})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return abs(out[i].ChangePct) > abs(out[j].ChangePct)
	})
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
