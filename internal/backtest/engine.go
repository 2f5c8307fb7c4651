package backtest

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"momentumbot/internal/cfg"
	"momentumbot/internal/core"
	"momentumbot/internal/data"
	"momentumbot/internal/risk"
	"momentumbot/internal/strategy"
)

const (
	minutesPerDay = 1440
	// Simulated trading starts at 08:00; the first 8 hours of each day only
	// feed history and the 24h baseline.
	sessionStartMinute = 480
	historyMinutes     = 1440
)

// Position is the engine's open-position bookkeeping.
type Position struct {
	Ticker     string
	Side       core.Side
	EntryPrice float64
	EntryTime  time.Time
	Size       float64 // dollar notional at entry
	Leverage   int
}

// PnL returns the unrealized dollar and leveraged percentage PnL at the
// given price.
func (p *Position) PnL(current float64) (dollar, pct float64) {
	if p.EntryPrice == 0 {
		return 0, 0
	}
	move := (current - p.EntryPrice) / p.EntryPrice
	if p.Side == core.Short {
		move = -move
	}
	pct = move * float64(p.Leverage) * 100
	return p.Size * pct / 100, pct
}

// Engine replays a historical dataset minute by minute against the strategy.
type Engine struct {
	data    *data.Dataset
	strat   *strategy.Strategy
	cfg     cfg.Config
	journal core.TradeLogger

	balance     float64
	position    *Position
	trades      []Trade
	daily       []DailyResult
	equity      []Point
	peakEquity  float64
	maxDrawdown float64 // dollars below peak equity
}

func NewEngine(ds *data.Dataset, strat *strategy.Strategy, c cfg.Config, journal core.TradeLogger) *Engine {
	return &Engine{data: ds, strat: strat, cfg: c, journal: journal}
}

// Run simulates `days` trading days beginning at the midnight of start.
// Fills happen at the NEXT minute's open, so a decision never sees the price
// it executes at.
func (e *Engine) Run(start time.Time, days int) *BacktestResult {
	e.balance = e.cfg.InitialBalance
	e.position = nil
	e.trades = nil
	e.daily = nil
	e.equity = nil
	e.peakEquity = e.balance
	e.maxDrawdown = 0

	for day := 0; day < days; day++ {
		e.runDay(start.AddDate(0, 0, day), day+1)
	}

	res := &BacktestResult{
		InitialBalance: e.cfg.InitialBalance,
		FinalBalance:   e.balance,
		Trades:         e.trades,
		Daily:          e.daily,
		Equity:         e.equity,
		MaxDrawdown:    e.maxDrawdown,
	}
	fillMetrics(res)
	return res
}

func (e *Engine) runDay(dayStart time.Time, day int) {
	date := dayStart.Format("2006-01-02")
	dayInitial := e.balance
	tradesBefore := len(e.trades)
	e.strat.StartDay(day, date, dayInitial)

	for minute := sessionStartMinute; minute < minutesPerDay; minute++ {
		ts := dayStart.Add(time.Duration(minute) * time.Minute)
		qualifying := e.data.Qualifying(ts)
		if len(qualifying) == 0 && e.position == nil {
			continue
		}

		snap, ok := e.buildTick(ts, day, minute, qualifying)
		if !ok {
			continue
		}
		dec := e.strat.Decide(snap)
		dec = risk.Validate(dec, snap, e.cfg)
		e.execute(dec, ts, minute)
		e.sampleEquity(ts)
	}

	// Whatever survived the force-close window exits at the day's last close.
	if e.position != nil {
		if c, ok := e.data.Candle(e.position.Ticker, dayStart.Add(time.Duration(minutesPerDay-1)*time.Minute)); ok {
			e.closePosition(c.Ts, c.Close, "EOD force close")
		} else {
			log.Error().Str("ticker", e.position.Ticker).Msg("no closing candle at end of day, discarding position")
			e.position = nil
		}
	}

	pnl := e.balance - dayInitial
	pct := 0.0
	if dayInitial > 0 {
		pct = pnl / dayInitial * 100
	}
	e.daily = append(e.daily, DailyResult{
		Day:            day,
		Date:           date,
		InitialBalance: dayInitial,
		FinalBalance:   e.balance,
		PnL:            pnl,
		ReturnPct:      pct,
		Trades:         append([]Trade(nil), e.trades[tradesBefore:]...),
	})
	e.strat.EndDay(day, e.balance, pnl)
}

func (e *Engine) buildTick(ts time.Time, day, minute int, qualifying []data.TickerChange) (core.TickSnapshot, bool) {
	snap := core.TickSnapshot{
		Timestamp:        ts.Format(core.TimeLayout),
		Day:              day,
		MinuteOfDay:      minute,
		MinutesRemaining: minutesPerDay - minute,
		MarketData:       make(map[string]core.MarketData),
		History:          make(map[string][]core.Candle),
	}

	tickers := make([]string, 0, len(qualifying)+1)
	for _, q := range qualifying {
		snap.QualifyingTickers = append(snap.QualifyingTickers, q.Ticker)
		tickers = append(tickers, q.Ticker)
	}
	if e.position != nil && !contains(tickers, e.position.Ticker) {
		tickers = append(tickers, e.position.Ticker)
	}
	for _, ticker := range tickers {
		c, ok := e.data.Candle(ticker, ts)
		if !ok {
			continue
		}
		change, _ := e.data.Change24h(ticker, ts)
		snap.MarketData[ticker] = core.MarketData{
			Open: c.Open, High: c.High, Low: c.Low, Close: c.Close,
			Volume: c.Volume, Change24hPct: change,
		}
		snap.History[ticker] = e.data.History(ticker, ts, historyMinutes)
	}

	unrealized := 0.0
	if e.position != nil {
		c, ok := e.data.Candle(e.position.Ticker, ts)
		if !ok {
			return snap, false
		}
		dollar, pct := e.position.PnL(c.Close)
		unrealized = dollar
		snap.Position = core.PositionState{
			IsOpen:           true,
			Ticker:           e.position.Ticker,
			Side:             e.position.Side,
			EntryPrice:       e.position.EntryPrice,
			EntryTime:        e.position.EntryTime.Format(core.TimeLayout),
			Size:             e.position.Size,
			Leverage:         e.position.Leverage,
			CurrentPrice:     c.Close,
			UnrealizedPnL:    dollar,
			UnrealizedPnLPct: pct,
		}
	}
	snap.Account = core.AccountState{
		Balance:       e.balance,
		Equity:        e.balance + unrealized,
		UnrealizedPnL: unrealized,
	}
	return snap, true
}

func (e *Engine) execute(dec core.Decision, ts time.Time, minute int) {
	switch dec.Action {
	case core.OpenLong, core.OpenShort:
		if e.position != nil {
			log.Warn().Str("ticker", dec.Ticker).Msg("open while position held, ignoring")
			return
		}
		if minute+1 >= minutesPerDay {
			return
		}
		next, ok := e.data.Candle(dec.Ticker, ts.Add(time.Minute))
		if !ok {
			return
		}
		side := core.Long
		if dec.Action == core.OpenShort {
			side = core.Short
		}
		e.openPosition(dec, side, next.Ts, next.Open)
	case core.Close:
		if e.position == nil {
			return
		}
		// A close whose fill would land outside the day is skipped; the
		// forced liquidation at 23:59 picks the position up instead.
		if minute+1 >= minutesPerDay {
			return
		}
		next, ok := e.data.Candle(e.position.Ticker, ts.Add(time.Minute))
		if !ok {
			return
		}
		e.closePosition(next.Ts, next.Open, dec.Reason)
	}
}

func (e *Engine) openPosition(dec core.Decision, side core.Side, ts time.Time, price float64) {
	size := e.balance * float64(dec.SizePct) / 100
	e.position = &Position{
		Ticker:     dec.Ticker,
		Side:       side,
		EntryPrice: price,
		EntryTime:  ts,
		Size:       size,
		Leverage:   dec.Leverage,
	}
	log.Info().Str("ticker", dec.Ticker).Str("side", string(side)).
		Float64("price", price).Float64("size", size).Int("leverage", dec.Leverage).
		Msg("position opened")
	if e.journal != nil {
		_ = e.journal.Append(core.TradeLogEntry{
			TS: ts, Ticker: dec.Ticker, Event: "OPEN", Side: side,
			Size: size, Leverage: dec.Leverage, Price: price, Reason: dec.Reason,
		})
	}
}

func (e *Engine) closePosition(ts time.Time, price float64, reason string) {
	pos := e.position
	dollar, pct := pos.PnL(price)
	e.balance += dollar
	e.position = nil

	e.trades = append(e.trades, Trade{
		Ticker:     pos.Ticker,
		Side:       pos.Side,
		EntryTime:  pos.EntryTime,
		ExitTime:   ts,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  price,
		Size:       pos.Size,
		Leverage:   pos.Leverage,
		PnL:        dollar,
		PnLPct:     pct,
		Reason:     reason,
	})
	log.Info().Str("ticker", pos.Ticker).Str("side", string(pos.Side)).
		Float64("pnl", dollar).Float64("pnl_pct", pct).Str("reason", reason).
		Msg("position closed")
	if e.journal != nil {
		_ = e.journal.Append(core.TradeLogEntry{
			TS: ts, Ticker: pos.Ticker, Event: "CLOSE", Side: pos.Side,
			Size: pos.Size, Leverage: pos.Leverage, Price: price, PnL: dollar, Reason: reason,
		})
	}
}

func (e *Engine) sampleEquity(ts time.Time) {
	eq := e.balance
	if e.position != nil {
		if c, ok := e.data.Candle(e.position.Ticker, ts); ok {
			dollar, _ := e.position.PnL(c.Close)
			eq += dollar
		}
	}
	e.equity = append(e.equity, Point{Time: ts, Equity: eq})
	if eq > e.peakEquity {
		e.peakEquity = eq
	}
	e.maxDrawdown = math.Max(e.maxDrawdown, e.peakEquity-eq)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
