package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/config"
	"MarketBulletin/internal/model"
	"MarketBulletin/internal/recorder"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

func testEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.PCR.HistoryFile = filepath.Join(dir, "pcr_history.csv")
	cfg.Report.Constituents = []string{"AAA.NS", "BBB.NS", "CCC.NS"}
	cfg.Report.MoversTop = 2

	return &Env{
		Config:   cfg,
		Registry: collector.NewRegistry(collector.RetryPolicy{MaxAttempts: 1}),
		History:  recorder.NewPCRHistory(cfg.PCR.HistoryFile),
		Now:      func() time.Time { return testNow },
	}
}

// chartFetcher serves Yahoo-style bar rows keyed by symbol.
type chartFetcher struct {
	bars map[string][]model.RawRow
	errs map[string]error
}

func (f *chartFetcher) Name() string { return collector.SourceYahoo }

func (f *chartFetcher) Fetch(_ context.Context, q collector.Query) ([]model.RawRow, error) {
	if err, ok := f.errs[q.Symbol]; ok {
		return nil, err
	}
	rows, ok := f.bars[q.Symbol]
	if !ok {
		return nil, &collector.FetchError{Source: collector.SourceYahoo, URL: q.Symbol, Status: 404, Err: collector.ErrHTTPStatus}
	}
	return rows, nil
}

// barRows builds one daily bar per close, oldest first, ending the day before testNow.
func barRows(symbol string, closes ...float64) []model.RawRow {
	start := testNow.AddDate(0, 0, -len(closes))
	rows := make([]model.RawRow, 0, len(closes))
	for i, c := range closes {
		ts := start.AddDate(0, 0, i).Truncate(24 * time.Hour)
		rows = append(rows, model.RawRow{
			Source: collector.SourceYahoo,
			Kind:   model.RowBar,
			Cells: []string{
				strconv.FormatInt(ts.Unix(), 10),
				ff(c - 1), ff(c + 5), ff(c - 5), ff(c), "1000000",
			},
			Attrs: map[string]string{"symbol": symbol},
		})
	}
	return rows
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// flowRows builds FII/DII rows, newest first, with constant net values.
func flowRows(days int, fiiNet, diiNet float64) []model.RawRow {
	rows := make([]model.RawRow, 0, days)
	for i := 0; i < days; i++ {
		d := testNow.AddDate(0, 0, -1-i)
		rows = append(rows, model.RawRow{
			Source: collector.SourceFIIDII,
			Kind:   model.RowFlow,
			Cells: []string{
				d.Format("02 Jan 2006"),
				"10,000.00", "9,000.00", fmt.Sprintf("%.2f", fiiNet),
				"8,000.00", "", fmt.Sprintf("%.2f", diiNet),
			},
		})
	}
	return rows
}

func goldRows() []model.RawRow {
	return []model.RawRow{
		{Kind: model.RowPriceBox, Cells: []string{"24K", "₹7,245", "+ ₹10"}},
		{Kind: model.RowPriceBox, Cells: []string{"22K", "₹6,641", "- ₹5"}},
		{Kind: model.RowPriceHistory, Cells: []string{"Mar 05, 2024", "₹7,245", "₹6,641"},
			Attrs: map[string]string{"change_1": "10", "dir_1": "up", "change_2": "9", "dir_2": "up"}},
		{Kind: model.RowPriceHistory, Cells: []string{"Mar 04, 2024", "₹7,235", "₹6,632"},
			Attrs: map[string]string{"change_1": "15", "dir_1": "down", "change_2": "14", "dir_2": "down"}},
		{Kind: model.RowPriceHistory, Cells: []string{"Mar 01, 2024", "₹7,250", "₹6,646"}},
	}
}

func silverRows() []model.RawRow {
	return []model.RawRow{
		{Kind: model.RowPriceBox, Cells: []string{"1 gram", "₹76.50", "+ ₹0.50"}},
		{Kind: model.RowPriceBox, Cells: []string{"1 kg", "₹76,500", "+ ₹500"}},
		{Kind: model.RowPriceHistory, Cells: []string{"Mar 05, 2024", "₹765", "₹7,650", "₹76,500"}},
		{Kind: model.RowPriceHistory, Cells: []string{"Mar 04, 2024", "₹760", "₹7,600", "₹76,000"}},
	}
}

func newsRows() []model.RawRow {
	return []model.RawRow{
		{Kind: model.RowNews, Cells: []string{"Sensex rallies 500 points", "Banks lead gains.", "https://example.com/a"}},
		{Kind: model.RowNews, Cells: []string{"Download the Moneycontrol app", "Self promotion.", "https://example.com/p"}},
		{Kind: model.RowNews, Cells: []string{"Rupee steady", "Flat against the dollar.", "https://example.com/b"}},
	}
}

func optionRows() []model.RawRow {
	return []model.RawRow{
		{Kind: model.RowOptionStrike, Cells: []string{"22000", "07-Mar-2024", "1200", "800"}},
		{Kind: model.RowOptionStrike, Cells: []string{"22100", "07-Mar-2024", "300", ""}},
		{Kind: model.RowOptionStrike, Cells: []string{"22200", "07-Mar-2024", "", "400"}},
	}
}
