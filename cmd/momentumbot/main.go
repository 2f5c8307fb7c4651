package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"momentumbot/internal/backtest"
	"momentumbot/internal/cfg"
	"momentumbot/internal/data"
	"momentumbot/internal/export"
	"momentumbot/internal/logx"
	"momentumbot/internal/state"
	"momentumbot/internal/strategy"
	"momentumbot/internal/tg"
)

// warmupDays of candles precede the simulated window so the 24h-change
// baseline and indicator history exist from the first session minute.
const warmupDays = 2

func main() {
	config := cfg.Load()

	var (
		startStr = flag.String("start", "2025-06-01", "first simulated day (YYYY-MM-DD)")
		days     = flag.Int("days", 3, "number of days to simulate")
		seed     = flag.Int64("seed", 42, "dataset generator seed")
		outDir   = flag.String("out", config.OutDir, "output directory")
	)
	flag.Parse()
	logx.Setup(config.LogLevel)

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatal().Err(err).Str("start", *startStr).Msg("bad start date")
	}
	if err := export.EnsureDir(*outDir); err != nil {
		log.Fatal().Err(err).Msg("output dir")
	}

	genStart := start.AddDate(0, 0, -warmupDays)
	minutes := (*days + warmupDays) * 1440
	ds := data.Generate(genStart, minutes, *seed, []data.GenSpec{
		{Ticker: "MOONX", Price: 1.20, Vol: 0.004, Drift: 0.00018},
		{Ticker: "DUMPY", Price: 8.50, Vol: 0.004, Drift: -0.00020},
		{Ticker: "CHOPZ", Price: 0.35, Vol: 0.006, Drift: 0.00008},
		{Ticker: "STABL", Price: 100.0, Vol: 0.001, Drift: 0},
	})

	journal, err := data.NewTradeLog(export.Join(*outDir, "journal.csv"))
	if err != nil {
		log.Fatal().Err(err).Msg("trade journal init")
	}

	notifier := tg.New(config.TgToken, config.TgChatID)
	strat := strategy.New(strategy.Opts{
		Config: config,
		Notify: notifier.Notify,
	})

	engine := backtest.NewEngine(ds, strat, config, journal)
	res := engine.Run(start, *days)

	backtest.PrintSummary(os.Stdout, res)

	tradesPath := export.Join(*outDir, "trades.csv")
	equityPath := export.Join(*outDir, "equity.csv")
	dailyPath := export.Join(*outDir, "daily.csv")
	if err := export.WriteTradesCSV(tradesPath, res.Trades); err != nil {
		log.Error().Err(err).Msg("trades csv")
	}
	if err := export.WriteEquityCSV(equityPath, res.Equity); err != nil {
		log.Error().Err(err).Msg("equity csv")
	}
	if err := export.WriteDailyCSV(dailyPath, res.Daily); err != nil {
		log.Error().Err(err).Msg("daily csv")
	}
	svg := export.EquityChart(900, 300, res, fmt.Sprintf("Equity %s +%dd", *startStr, *days))
	if err := os.WriteFile(export.Join(*outDir, "equity.svg"), svg, 0o644); err != nil {
		log.Error().Err(err).Msg("equity svg")
	}
	zipPath := export.Join(*outDir, "report.zip")
	if err := export.ZipFiles(zipPath, map[string]string{
		"trades.csv": tradesPath,
		"equity.csv": equityPath,
		"daily.csv":  dailyPath,
	}); err != nil {
		log.Error().Err(err).Msg("report zip")
	}
	html := backtest.HTMLReport("Momentum backtest", res, "report.zip")
	if err := os.WriteFile(export.Join(*outDir, "report.html"), html, 0o644); err != nil {
		log.Error().Err(err).Msg("report html")
	}

	if config.StatePath != "" {
		store := state.New(config.StatePath)
		if err := store.Save(strat.ExportState()); err != nil {
			log.Error().Err(err).Msg("state save")
		}
	}

	notifier.Notify(fmt.Sprintf("Backtest done: %.2f -> %.2f (%+.2f%%), %d trades, win rate %.1f%%",
		res.InitialBalance, res.FinalBalance, res.TotalReturnPct, res.TotalTrades, res.WinRatePct))
}
