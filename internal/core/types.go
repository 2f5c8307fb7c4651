package core

import "time"

// TimeLayout is the wire format for candle and position timestamps.
const TimeLayout = "2006-01-02T15:04:05"

type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// Signal is the discrete analyzer verdict. The numeric values give the
// ordering used when comparing candidates.
type Signal int

const (
	StrongSell Signal = -2
	Sell       Signal = -1
	Neutral    Signal = 0
	Buy        Signal = 1
	StrongBuy  Signal = 2
)

func (s Signal) String() string {
	switch s {
	case StrongBuy:
		return "STRONG_BUY"
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	case StrongSell:
		return "STRONG_SELL"
	default:
		return "NEUTRAL"
	}
}

func (s Signal) Bullish() bool { return s == Buy || s == StrongBuy }
func (s Signal) Bearish() bool { return s == Sell || s == StrongSell }

// Candle is one minute of one ticker's market data.
type Candle struct {
	Ts     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// MomentumAnalysis is the per-ticker assessment recomputed every tick.
// Scores are additive and unnormalized; clamp at use sites.
type MomentumAnalysis struct {
	Ticker       string
	CurrentPrice float64
	Change24hPct float64

	ShortMomentum  float64 // last 30 min
	MediumMomentum float64 // last 2 h
	VolumeRatio    float64
	TrendStrength  float64

	MakingNewHighs bool
	MakingNewLows  bool
	DistFromHigh   float64 // % from current price up to the recent high
	DistFromLow    float64 // % from current price down to the recent low

	ATRPct float64

	LongScore  float64
	ShortScore float64
	Signal     Signal
	Confidence float64
}

type TradeLogEntry struct {
	TS       time.Time
	Ticker   string
	Event    string // OPEN | CLOSE
	Side     Side
	Size     float64
	Leverage int
	Price    float64
	PnL      float64
	Reason   string
}

type TradeLogger interface {
	Append(TradeLogEntry) error
	LastN(n int) ([]TradeLogEntry, error)
}
