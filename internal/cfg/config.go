package cfg

import (
	"github.com/spf13/viper"
)

type Config struct {
	InitialBalance float64

	// Leverage settings. 20x is allowed upstream; lower survives volatility.
	MinLeverage     int
	DefaultLeverage int
	MaxLeverage     int

	// Position sizing, percentage of balance.
	MinSizePct     int
	DefaultSizePct int
	MaxSizePct     int

	// Risk management. Stops are wide: assets that moved 20%+ in 24h can
	// swing 5% in minutes.
	StopLossPct     float64
	TakeProfitPct   float64
	TrailingStopPct float64 // fraction of peak profit, percent

	MinMinutesBeforeEOD int // no entries / take profits inside this window
	ForceCloseMinutes   int // close regardless of PnL inside this window

	TradeCooldownMinutes int
	MaxTradesPerDay      int
	MinConfidence        float64

	LogLevel  string
	TgToken   string
	TgChatID  int64
	StatePath string
	OutDir    string
}

// Default returns the tuned parameter set without touching the environment.
func Default() Config {
	return Config{
		InitialBalance:       1000.0,
		MinLeverage:          2,
		DefaultLeverage:      4,
		MaxLeverage:          8,
		MinSizePct:           30,
		DefaultSizePct:       60,
		MaxSizePct:           80,
		StopLossPct:          12.0,
		TakeProfitPct:        30.0,
		TrailingStopPct:      50.0,
		MinMinutesBeforeEOD:  45,
		ForceCloseMinutes:    30,
		TradeCooldownMinutes: 10,
		MaxTradesPerDay:      8,
		MinConfidence:        0.55,
		LogLevel:             "info",
		OutDir:               "out",
	}
}

func Load() Config {
	v := viper.New()
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("INITIAL_BALANCE", d.InitialBalance)
	v.SetDefault("MIN_LEVERAGE", d.MinLeverage)
	v.SetDefault("DEFAULT_LEVERAGE", d.DefaultLeverage)
	v.SetDefault("MAX_LEVERAGE", d.MaxLeverage)
	v.SetDefault("MIN_SIZE_PCT", d.MinSizePct)
	v.SetDefault("DEFAULT_SIZE_PCT", d.DefaultSizePct)
	v.SetDefault("MAX_SIZE_PCT", d.MaxSizePct)
	v.SetDefault("STOP_LOSS_PCT", d.StopLossPct)
	v.SetDefault("TAKE_PROFIT_PCT", d.TakeProfitPct)
	v.SetDefault("TRAILING_STOP_PCT", d.TrailingStopPct)
	v.SetDefault("MIN_MINUTES_BEFORE_EOD", d.MinMinutesBeforeEOD)
	v.SetDefault("FORCE_CLOSE_MINUTES", d.ForceCloseMinutes)
	v.SetDefault("TRADE_COOLDOWN_MINUTES", d.TradeCooldownMinutes)
	v.SetDefault("MAX_TRADES_PER_DAY", d.MaxTradesPerDay)
	v.SetDefault("MIN_CONFIDENCE", d.MinConfidence)
	v.SetDefault("LOG_LEVEL", d.LogLevel)
	v.SetDefault("STATE_PATH", "")
	v.SetDefault("OUT_DIR", d.OutDir)

	return Config{
		InitialBalance:       v.GetFloat64("INITIAL_BALANCE"),
		MinLeverage:          v.GetInt("MIN_LEVERAGE"),
		DefaultLeverage:      v.GetInt("DEFAULT_LEVERAGE"),
		MaxLeverage:          v.GetInt("MAX_LEVERAGE"),
		MinSizePct:           v.GetInt("MIN_SIZE_PCT"),
		DefaultSizePct:       v.GetInt("DEFAULT_SIZE_PCT"),
		MaxSizePct:           v.GetInt("MAX_SIZE_PCT"),
		StopLossPct:          v.GetFloat64("STOP_LOSS_PCT"),
		TakeProfitPct:        v.GetFloat64("TAKE_PROFIT_PCT"),
		TrailingStopPct:      v.GetFloat64("TRAILING_STOP_PCT"),
		MinMinutesBeforeEOD:  v.GetInt("MIN_MINUTES_BEFORE_EOD"),
		ForceCloseMinutes:    v.GetInt("FORCE_CLOSE_MINUTES"),
		TradeCooldownMinutes: v.GetInt("TRADE_COOLDOWN_MINUTES"),
		MaxTradesPerDay:      v.GetInt("MAX_TRADES_PER_DAY"),
		MinConfidence:        v.GetFloat64("MIN_CONFIDENCE"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		TgToken:              v.GetString("TG_TOKEN"),
		TgChatID:             v.GetInt64("TG_CHAT_ID"),
		StatePath:            v.GetString("STATE_PATH"),
		OutDir:               v.GetString("OUT_DIR"),
	}
}
