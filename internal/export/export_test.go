package export

import (
	"archive/zip"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentumbot/internal/backtest"
	"momentumbot/internal/core"
)

func sampleResult() *backtest.BacktestResult {
	t0 := time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC)
	trades := []backtest.Trade{
		{Ticker: "MOONX", Side: core.Long, EntryTime: t0, ExitTime: t0.Add(time.Hour), EntryPrice: 1.0, ExitPrice: 1.06, Size: 600, Leverage: 4, PnL: 144, PnLPct: 24, Reason: "Take profit at 24.00%"},
		{Ticker: "DUMPY", Side: core.Short, EntryTime: t0.Add(2 * time.Hour), ExitTime: t0.Add(3 * time.Hour), EntryPrice: 8.0, ExitPrice: 8.1, Size: 500, Leverage: 4, PnL: -24, PnLPct: -5, Reason: "Stop loss"},
	}
	return &backtest.BacktestResult{
		InitialBalance: 1000,
		FinalBalance:   1120,
		Trades:         trades,
		Daily:          []backtest.DailyResult{{Day: 1, Date: "2025-06-03", InitialBalance: 1000, FinalBalance: 1120, PnL: 120, ReturnPct: 12, Trades: trades}},
		Equity: []backtest.Point{
			{Time: t0, Equity: 1000},
			{Time: t0.Add(time.Hour), Equity: 1144},
			{Time: t0.Add(3 * time.Hour), Equity: 1120},
		},
	}
}

func TestWriteCSVs(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	tradesPath := filepath.Join(dir, "trades.csv")
	require.NoError(t, WriteTradesCSV(tradesPath, res.Trades))
	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 3, "header plus two trades")
	assert.Equal(t, "ticker", rows[0][0])
	assert.Equal(t, "MOONX", rows[1][0])
	assert.Equal(t, "SHORT", rows[2][1])

	equityPath := filepath.Join(dir, "equity.csv")
	require.NoError(t, WriteEquityCSV(equityPath, res.Equity))
	assert.Len(t, readCSV(t, equityPath), 4)

	dailyPath := filepath.Join(dir, "daily.csv")
	require.NoError(t, WriteDailyCSV(dailyPath, res.Daily))
	rows = readCSV(t, dailyPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-06-03", rows[1][1])
}

func TestEquityChartRenders(t *testing.T) {
	svg := string(EquityChart(900, 300, sampleResult(), "Equity"))
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "polyline")
	assert.Contains(t, svg, "#8bff9b", "winning exit marker")
	assert.Contains(t, svg, "#ff7a7a", "losing exit marker")
}

func TestZipFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	zipPath := filepath.Join(dir, "bundle.zip")
	require.NoError(t, ZipFiles(zipPath, map[string]string{"a.txt": src}))

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "a.txt", zr.File[0].Name)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
