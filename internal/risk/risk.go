package risk

import (
	"github.com/rs/zerolog/log"

	"momentumbot/internal/cfg"
	"momentumbot/internal/core"
)

// Validate sanitizes a decision before execution. Unknown actions and opens
// on non-qualifying tickers degrade to HOLD; zero leverage or size fall back
// to defaults, then everything clamps to configured bounds.
func Validate(dec core.Decision, snap core.TickSnapshot, c cfg.Config) core.Decision {
	switch dec.Action {
	case core.Hold, core.Close:
		return dec
	case core.OpenLong, core.OpenShort:
	default:
		log.Warn().Str("action", string(dec.Action)).Msg("unknown action, holding")
		return core.Decision{Action: core.Hold, Reason: "invalid action"}
	}

	if !contains(snap.QualifyingTickers, dec.Ticker) {
		log.Warn().Str("ticker", dec.Ticker).Msg("open on non-qualifying ticker rejected")
		return core.Decision{Action: core.Hold, Reason: "ticker not qualifying"}
	}

	if dec.Leverage == 0 {
		dec.Leverage = c.DefaultLeverage
	}
	if dec.SizePct == 0 {
		dec.SizePct = c.DefaultSizePct
	}
	dec.Leverage = clamp(dec.Leverage, c.MinLeverage, c.MaxLeverage)
	dec.SizePct = clamp(dec.SizePct, c.MinSizePct, c.MaxSizePct)
	return dec
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
