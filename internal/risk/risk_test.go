package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"momentumbot/internal/cfg"
	"momentumbot/internal/core"
)

func snapWith(qualifying ...string) core.TickSnapshot {
	return core.TickSnapshot{QualifyingTickers: qualifying}
}

func TestValidate_PassesHoldAndClose(t *testing.T) {
	c := cfg.Default()
	dec := Validate(core.Decision{Action: core.Hold, Reason: "nothing"}, snapWith(), c)
	assert.Equal(t, core.Hold, dec.Action)

	dec = Validate(core.Decision{Action: core.Close, Reason: "tp"}, snapWith(), c)
	assert.Equal(t, core.Close, dec.Action)
	assert.Equal(t, "tp", dec.Reason)
}

func TestValidate_UnknownActionHolds(t *testing.T) {
	dec := Validate(core.Decision{Action: "LIQUIDATE_EVERYTHING"}, snapWith("MOONX"), cfg.Default())
	assert.Equal(t, core.Hold, dec.Action)
}

func TestValidate_OpenRequiresQualifyingTicker(t *testing.T) {
	c := cfg.Default()
	dec := Validate(core.Decision{Action: core.OpenLong, Ticker: "STABL", Leverage: 4, SizePct: 50}, snapWith("MOONX"), c)
	assert.Equal(t, core.Hold, dec.Action)

	dec = Validate(core.Decision{Action: core.OpenLong, Ticker: "MOONX", Leverage: 4, SizePct: 50}, snapWith("MOONX"), c)
	assert.Equal(t, core.OpenLong, dec.Action)
}

func TestValidate_DefaultsAndClamps(t *testing.T) {
	c := cfg.Default()

	dec := Validate(core.Decision{Action: core.OpenShort, Ticker: "MOONX"}, snapWith("MOONX"), c)
	assert.Equal(t, c.DefaultLeverage, dec.Leverage)
	assert.Equal(t, c.DefaultSizePct, dec.SizePct)

	dec = Validate(core.Decision{Action: core.OpenLong, Ticker: "MOONX", Leverage: 50, SizePct: 95}, snapWith("MOONX"), c)
	assert.Equal(t, c.MaxLeverage, dec.Leverage)
	assert.Equal(t, c.MaxSizePct, dec.SizePct)

	dec = Validate(core.Decision{Action: core.OpenLong, Ticker: "MOONX", Leverage: 1, SizePct: 5}, snapWith("MOONX"), c)
	assert.Equal(t, c.MinLeverage, dec.Leverage)
	assert.Equal(t, c.MinSizePct, dec.SizePct)
}
