package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"MarketBulletin/internal/config"
	"MarketBulletin/internal/model"

	"github.com/go-resty/resty/v2"
)

// YahooFetcher reads OHLCV bars from the Yahoo Finance chart API.
type YahooFetcher struct {
	Client  *resty.Client
	BaseURL string
}

// NewYahooFetcher creates a chart API fetcher from its source config.
func NewYahooFetcher(src config.SourceConfig, userAgent, proxy string) *YahooFetcher {
	return &YahooFetcher{
		Client:  NewClient(src, userAgent, proxy),
		BaseURL: strings.TrimSuffix(src.URL, "/"),
	}
}

func (f *YahooFetcher) Name() string { return SourceYahoo }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// toFloat reports false when the value is null or missing.
func toFloat(vs []interface{}, i int) (float64, bool) {
	if i >= len(vs) || vs[i] == nil {
		return 0, false
	}
	switch n := vs[i].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// Chart fetches bars for symbol at the given interval ("1d", "1h") and range ("5d", "1y").
func (f *YahooFetcher) Chart(ctx context.Context, symbol, interval, rng string) (*model.PriceHistory, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s", f.BaseURL, url.PathEscape(symbol), interval, rng)
	source := SourceYahoo + ":" + symbol

	body, err := get(ctx, f.Client, source, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, &FetchError{Source: source, URL: u, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	if chart.Chart.Error != nil {
		return nil, &FetchError{Source: source, URL: u, Err: fmt.Errorf("%w: %s", ErrNoData, chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &FetchError{Source: source, URL: u, Err: ErrNoData}
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c, ok := toFloat(quote.Close, i)
		if !ok || c <= 0 {
			continue // null bars (holidays, unfinished candles)
		}
		o, _ := toFloat(quote.Open, i)
		h, _ := toFloat(quote.High, i)
		l, _ := toFloat(quote.Low, i)
		v, _ := toFloat(quote.Volume, i)
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}
	if len(bars) == 0 {
		return nil, &FetchError{Source: source, URL: u, Err: ErrNoData}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	prev := result.Meta.ChartPreviousClose
	if result.Meta.PreviousClose != 0 {
		prev = result.Meta.PreviousClose
	}
	return &model.PriceHistory{
		Symbol:    symbol,
		Interval:  interval,
		Currency:  result.Meta.Currency,
		Price:     result.Meta.RegularMarketPrice,
		PrevClose: prev,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}

// RangeForDays picks the smallest chart range covering days daily bars.
func RangeForDays(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

// Fetch returns one RowBar per bar with cells unix time, open, high, low, close, volume.
func (f *YahooFetcher) Fetch(ctx context.Context, q Query) ([]model.RawRow, error) {
	if q.Symbol == "" {
		return nil, &FetchError{Source: SourceYahoo, URL: f.BaseURL, Err: fmt.Errorf("%w: symbol required", ErrNoData)}
	}
	interval, rng := q.Interval, q.Range
	if interval == "" {
		interval = "1d"
	}
	if rng == "" {
		rng = "5d"
	}
	h, err := f.Chart(ctx, q.Symbol, interval, rng)
	if err != nil {
		return nil, err
	}
	rows := make([]model.RawRow, 0, len(h.Bars))
	for _, b := range h.Bars {
		rows = append(rows, model.RawRow{
			Source: SourceYahoo,
			Kind:   model.RowBar,
			Cells: []string{
				fmt.Sprintf("%d", b.Time.Unix()),
				formatFloat(b.Open), formatFloat(b.High), formatFloat(b.Low),
				formatFloat(b.Close), formatFloat(b.Volume),
			},
			Attrs: map[string]string{
				"symbol":     q.Symbol,
				"price":      formatFloat(h.Price),
				"prev_close": formatFloat(h.PrevClose),
			},
		})
	}
	return rows, nil
}
