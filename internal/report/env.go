package report

import (
	"context"
	"time"

	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/config"
	"MarketBulletin/internal/model"
	"MarketBulletin/internal/normalize"
	"MarketBulletin/internal/recorder"
	"MarketBulletin/internal/series"
)

// Env is everything a section needs to run.
type Env struct {
	Config   *config.Config
	Registry *collector.Registry
	History  *recorder.PCRHistory
	Now      func() time.Time
}

// NewEnv wires the default sources for cfg.
func NewEnv(cfg *config.Config) *Env {
	return &Env{
		Config:   cfg,
		Registry: collector.NewDefaultRegistry(cfg),
		History:  recorder.NewPCRHistory(cfg.PCR.HistoryFile),
		Now:      time.Now,
	}
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) outDir() string {
	return e.Config.Output.Dir
}

// chart fetches and normalizes a Yahoo price history.
func (e *Env) chart(ctx context.Context, symbol, interval, rng string) (*model.PriceHistory, error) {
	rows, err := e.Registry.Fetch(ctx, collector.SourceYahoo, collector.Query{
		Symbol:   symbol,
		Interval: interval,
		Range:    rng,
	})
	if err != nil {
		return nil, err
	}
	h, err := normalize.PriceHistory(symbol, rows)
	if err != nil {
		return nil, err
	}
	h.Interval = interval
	return h, nil
}

// quote builds a last-price quote from the last two daily bars.
func (e *Env) quote(ctx context.Context, name, symbol string) (model.Quote, error) {
	h, err := e.chart(ctx, symbol, "1d", "5d")
	if err != nil {
		return model.Quote{}, err
	}
	return quoteFromHistory(name, h)
}

func quoteFromHistory(name string, h *model.PriceHistory) (model.Quote, error) {
	last, ok := h.Last()
	if !ok {
		return model.Quote{}, &series.InsufficientDataError{Series: h.Symbol, Need: 1}
	}
	prev := h.PrevClose
	if n := len(h.Bars); n >= 2 {
		prev = h.Bars[n-2].Close
	}
	if prev == 0 {
		return model.Quote{}, &series.InsufficientDataError{Series: h.Symbol, Need: 2, Have: len(h.Bars)}
	}
	return model.Quote{
		Symbol:    h.Symbol,
		Name:      name,
		Price:     last.Close,
		PrevClose: prev,
		Open:      last.Open,
		DayHigh:   last.High,
		DayLow:    last.Low,
		Volume:    last.Volume,
		Change:    series.ChangeBetween(last.Close, prev),
		AsOf:      last.Time,
	}, nil
}
