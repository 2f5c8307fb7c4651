package strategy

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"momentumbot/internal/analysis"
	"momentumbot/internal/cfg"
	"momentumbot/internal/core"
	"momentumbot/internal/state"
)

// noTradeMinute keeps the first entry of a day clear of the cooldown check.
const noTradeMinute = -999

// Strategy is the momentum-continuation decision state machine. One instance
// serves one session; Decide serializes internally so a multiplexing caller
// cannot break the single-open-position bookkeeping.
type Strategy struct {
	cfg      cfg.Config
	analyzer *analysis.Analyzer
	notify   func(string)

	mu              sync.Mutex
	day             int
	date            string
	initialBalance  float64
	peakPnL         float64 // peak unrealized dollar PnL since entry
	lastTradeMinute int
	tradesToday     int
}

type Opts struct {
	Config   cfg.Config
	Analyzer *analysis.Analyzer
	Notify   func(string)
}

func New(opts Opts) *Strategy {
	if opts.Analyzer == nil {
		opts.Analyzer = analysis.New()
	}
	if opts.Notify == nil {
		opts.Notify = func(string) {}
	}
	return &Strategy{
		cfg:             opts.Config,
		analyzer:        opts.Analyzer,
		notify:          opts.Notify,
		lastTradeMinute: noTradeMinute,
	}
}

// Reset clears all mutable state to initial defaults.
func (s *Strategy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.day = 0
	s.date = ""
	s.initialBalance = 0
	s.peakPnL = 0
	s.lastTradeMinute = noTradeMinute
	s.tradesToday = 0
	log.Info().Msg("strategy state reset")
}

// StartDay reinitializes the day-scoped fields.
func (s *Strategy) StartDay(day int, date string, initialBalance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.day = day
	s.date = date
	s.initialBalance = initialBalance
	s.peakPnL = 0
	s.lastTradeMinute = noTradeMinute
	s.tradesToday = 0
	log.Info().Int("day", day).Str("date", date).Float64("balance", initialBalance).Msg("day started")
}

// EndDay is a notification only; daily bookkeeping belongs to the caller.
func (s *Strategy) EndDay(day int, finalBalance, dailyPnL float64) {
	s.mu.Lock()
	initial := s.initialBalance
	s.mu.Unlock()
	pct := 0.0
	if initial > 0 {
		pct = dailyPnL / initial * 100
	}
	log.Info().Int("day", day).
		Float64("final", finalBalance).
		Float64("pnl", dailyPnL).
		Float64("return_pct", pct).
		Msg("day ended")
}

// ExportState snapshots the mutable state for explicit persistence.
func (s *Strategy) ExportState() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.State{
		Day:             s.day,
		Date:            s.date,
		InitialBalance:  s.initialBalance,
		PeakPnL:         s.peakPnL,
		LastTradeMinute: s.lastTradeMinute,
		TradesToday:     s.tradesToday,
	}
}

func (s *Strategy) Restore(st state.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.day = st.Day
	s.date = st.Date
	s.initialBalance = st.InitialBalance
	s.peakPnL = st.PeakPnL
	s.lastTradeMinute = st.LastTradeMinute
	s.tradesToday = st.TradesToday
}

// Decide is the per-tick entry point. Any per-ticker fault degrades to a
// skipped ticker; the worst case for the whole call is HOLD with state
// untouched.
func (s *Strategy) Decide(snap core.TickSnapshot) core.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Position.IsOpen {
		dec := s.managePosition(snap)
		if dec.Action == core.Close {
			s.lastTradeMinute = snap.MinuteOfDay
			s.tradesToday++
		}
		return dec
	}
	dec := s.findEntry(snap)
	if dec.Action.Opens() {
		s.lastTradeMinute = snap.MinuteOfDay
	}
	return dec
}

func (s *Strategy) managePosition(snap core.TickSnapshot) core.Decision {
	pos := snap.Position
	leverage := pos.Leverage
	if leverage == 0 {
		leverage = s.cfg.DefaultLeverage
	}

	// Peak tracking feeds the trailing stop; it updates before any exit rule
	// runs, every tick.
	if pos.UnrealizedPnL > s.peakPnL {
		s.peakPnL = pos.UnrealizedPnL
	}

	atrPct := 2.0
	if hist, ok := snap.History[pos.Ticker]; ok {
		highs, lows, closes := extract(hist)
		atrPct = analysis.ATRPercent(highs, lows, closes, s.analyzer.ATRPeriod)
	}

	// Wider stop for more volatile assets, capped at 20%.
	dynamicStop := math.Max(s.cfg.StopLossPct, atrPct*float64(leverage)*1.5)
	dynamicStop = math.Min(dynamicStop, 20.0)

	closeReason := ""
	switch {
	case pos.UnrealizedPnLPct < -dynamicStop:
		closeReason = fmt.Sprintf("Stop loss at %.2f%% (dynamic stop: %.1f%%)", pos.UnrealizedPnLPct, dynamicStop)
	case pos.UnrealizedPnLPct > s.cfg.TakeProfitPct:
		closeReason = fmt.Sprintf("Take profit at %.2f%%", pos.UnrealizedPnLPct)
	case s.peakPnL > 0 && pos.UnrealizedPnLPct > 10.0:
		trail := s.peakPnL * s.cfg.TrailingStopPct / 100
		if pos.UnrealizedPnL < trail {
			closeReason = fmt.Sprintf("Trailing stop: PnL %.2f below trail level %.2f", pos.UnrealizedPnL, trail)
		}
	}

	// EOD overrides whatever fired above: take profits into the close, and
	// force out near the very end regardless of PnL.
	if snap.MinutesRemaining < s.cfg.MinMinutesBeforeEOD {
		if pos.UnrealizedPnLPct > 0 || snap.MinutesRemaining < s.cfg.ForceCloseMinutes {
			closeReason = fmt.Sprintf("EOD approaching (%d min)", snap.MinutesRemaining)
		}
	}

	if closeReason == "" {
		if md, ok := snap.MarketData[pos.Ticker]; ok {
			if hist, ok := snap.History[pos.Ticker]; ok {
				a := s.analyzer.Analyze(pos.Ticker, hist, md, md.Change24hPct)
				switch {
				case pos.Side == core.Long && a.Signal.Bearish() && a.Confidence > 0.6 && a.ShortMomentum < -2.0:
					closeReason = fmt.Sprintf("Momentum reversal (short_mom: %.2f%%)", a.ShortMomentum)
				case pos.Side == core.Short && a.Signal.Bullish() && a.Confidence > 0.6 && a.ShortMomentum > 2.0:
					closeReason = fmt.Sprintf("Momentum reversal (short_mom: %.2f%%)", a.ShortMomentum)
				}
			}
		}
	}

	if closeReason != "" {
		log.Info().Str("ticker", pos.Ticker).Str("side", string(pos.Side)).Str("reason", closeReason).Msg("closing position")
		s.notify(fmt.Sprintf("CLOSE %s %s | %s", pos.Side, pos.Ticker, closeReason))
		return core.Decision{Action: core.Close, Reason: closeReason}
	}
	return core.Decision{
		Action: core.Hold,
		Reason: fmt.Sprintf("Holding %s %s at %+.2f%%", pos.Side, pos.Ticker, pos.UnrealizedPnLPct),
	}
}

func (s *Strategy) findEntry(snap core.TickSnapshot) core.Decision {
	if snap.MinutesRemaining < s.cfg.MinMinutesBeforeEOD {
		return hold(fmt.Sprintf("Too close to EOD (%d min)", snap.MinutesRemaining))
	}
	if elapsed := snap.MinuteOfDay - s.lastTradeMinute; elapsed < s.cfg.TradeCooldownMinutes {
		return hold(fmt.Sprintf("Cooldown (%d min remaining)", s.cfg.TradeCooldownMinutes-elapsed))
	}
	if s.tradesToday >= s.cfg.MaxTradesPerDay {
		return hold(fmt.Sprintf("Daily limit reached (%d)", s.cfg.MaxTradesPerDay))
	}

	var analyses []core.MomentumAnalysis
	for _, ticker := range snap.QualifyingTickers {
		hist, okH := snap.History[ticker]
		md, okM := snap.MarketData[ticker]
		if !okH || !okM {
			continue
		}
		analyses = append(analyses, s.analyzer.Analyze(ticker, hist, md, md.Change24hPct))
	}
	if len(analyses) == 0 {
		return hold("No tickers with sufficient data")
	}

	var bestLong, bestShort *core.MomentumAnalysis
	for i := range analyses {
		a := &analyses[i]
		if a.Signal.Bullish() && (bestLong == nil || a.LongScore > bestLong.LongScore) {
			bestLong = a
		}
		if a.Signal.Bearish() && (bestShort == nil || a.ShortScore > bestShort.ShortScore) {
			bestShort = a
		}
	}

	var candidate *core.MomentumAnalysis
	var action core.Action
	switch {
	case bestLong != nil && bestShort != nil:
		// Strict > on the comparison: an exact score tie takes the short
		// branch. Deliberate; covered by a boundary-case test.
		if bestLong.LongScore > bestShort.ShortScore {
			candidate, action = bestLong, core.OpenLong
		} else {
			candidate, action = bestShort, core.OpenShort
		}
	case bestLong != nil:
		candidate, action = bestLong, core.OpenLong
	case bestShort != nil:
		candidate, action = bestShort, core.OpenShort
	}

	if candidate == nil || candidate.Confidence < s.cfg.MinConfidence {
		return hold("No signals meet confidence threshold")
	}

	leverage := s.leverageFor(candidate)
	sizePct := s.sizeFor(candidate)
	log.Info().
		Str("action", string(action)).
		Str("ticker", candidate.Ticker).
		Float64("change_24h", candidate.Change24hPct).
		Float64("short_mom", candidate.ShortMomentum).
		Float64("vol_ratio", candidate.VolumeRatio).
		Float64("confidence", candidate.Confidence).
		Int("leverage", leverage).
		Int("size_pct", sizePct).
		Msg("opening position")
	s.notify(fmt.Sprintf("%s %s | conf %.2f | lev %dx | size %d%%", action, candidate.Ticker, candidate.Confidence, leverage, sizePct))

	s.peakPnL = 0

	return core.Decision{
		Action:   action,
		Ticker:   candidate.Ticker,
		Leverage: leverage,
		SizePct:  sizePct,
		Reason:   fmt.Sprintf("Momentum: %s, 24h: %+.1f%%", candidate.Signal, candidate.Change24hPct),
	}
}

// leverageFor scales with confidence and backs off on extreme volatility.
func (s *Strategy) leverageFor(a *core.MomentumAnalysis) int {
	lev := s.cfg.DefaultLeverage
	if a.Confidence > 0.85 {
		lev += 2
	} else if a.Confidence > 0.7 {
		lev++
	}
	abs24 := math.Abs(a.Change24hPct)
	if abs24 > 50 {
		lev = maxInt(lev-2, s.cfg.MinLeverage)
	} else if abs24 > 35 {
		lev = maxInt(lev-1, s.cfg.MinLeverage)
	}
	if a.ATRPct > 3.0 {
		lev = maxInt(lev-1, s.cfg.MinLeverage)
	}
	return minInt(lev, s.cfg.MaxLeverage)
}

func (s *Strategy) sizeFor(a *core.MomentumAnalysis) int {
	var sizePct int
	switch {
	case a.Confidence > 0.85:
		sizePct = s.cfg.DefaultSizePct
	case a.Confidence > 0.7:
		sizePct = int(float64(s.cfg.DefaultSizePct) * 0.8)
	default:
		sizePct = int(float64(s.cfg.DefaultSizePct) * 0.6)
	}
	if math.Abs(a.Change24hPct) > 40 {
		sizePct = int(float64(sizePct) * 0.8)
	}
	return minInt(maxInt(sizePct, s.cfg.MinSizePct), s.cfg.MaxSizePct)
}

func hold(reason string) core.Decision {
	return core.Decision{Action: core.Hold, Reason: reason}
}

func extract(hist []core.Candle) (highs, lows, closes []float64) {
	highs = make([]float64, len(hist))
	lows = make([]float64, len(hist))
	closes = make([]float64, len(hist))
	for i, c := range hist {
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
	}
	return highs, lows, closes
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
