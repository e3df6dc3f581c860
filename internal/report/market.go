package report

import (
	"context"
	"errors"
	"fmt"

	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/config"
	"MarketBulletin/internal/model"
	"MarketBulletin/internal/normalize"
	"MarketBulletin/internal/recorder"
	"MarketBulletin/internal/render"
	"MarketBulletin/internal/series"

	"go.uber.org/zap"
)

const pcrHistorySessions = 2

func runNiftyPCR(ctx context.Context, env *Env) (*Output, error) {
	rows, err := env.Registry.Fetch(ctx, collector.SourceOptionChain, collector.Query{Symbol: "NIFTY"})
	if err != nil {
		return nil, err
	}
	now := env.now()
	reading, err := normalize.PutCallRatio(rows, now)
	if err != nil {
		return nil, err
	}

	doc := render.NewDocument("NIFTY PCR Analysis")
	doc.Date = now
	pcr := "undefined (total call OI is zero)"
	if reading.Defined {
		pcr = fmt.Sprintf("%.2f", reading.Value)
	}
	doc.Add(render.KeyValues{Pairs: []render.KV{
		{Key: "Total put OI", Value: amount(reading.PutOI)},
		{Key: "Total call OI", Value: amount(reading.CallOI)},
		{Key: fmt.Sprintf("Current PCR (%s)", reading.Date.Format("02-01-2006")), Value: pcr},
	}})

	doc.Add(render.Heading{Text: "Previous Sessions"})
	prev, err := env.History.PreviousSessions(now, pcrHistorySessions)
	switch {
	case errors.Is(err, recorder.ErrNoHistory):
		doc.Add(render.Paragraph{Text: "No PCR history recorded yet.", Italic: true})
	case err != nil:
		return nil, fmt.Errorf("pcr history: %w", err)
	case len(prev) == 0:
		doc.Add(render.Paragraph{Text: "Not enough historical data to show previous sessions.", Italic: true})
	default:
		t := render.Table{Header: []string{"Date", "PCR"}}
		for _, r := range prev {
			t.Rows = append(t.Rows, []string{r.Date.Format("02-01-2006"), fmt.Sprintf("%.2f", r.Value)})
		}
		doc.Add(t)
	}

	path, err := render.WriteFile(env.outDir(), "Nifty_PCR", render.TextRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	out := &Output{Artifacts: []string{path}, Summary: "Nifty PCR " + pcr}
	if reading.Defined {
		out.indicator(SectionNiftyPCR, "pcr", reading.Date, reading.Value)
	}
	return out, nil
}

// quotes fetches every symbol, skipping the ones that fail. It errors only
// when none could be quoted.
func quotes(ctx context.Context, env *Env, symbols []config.Symbol) ([]model.Quote, error) {
	var (
		out     []model.Quote
		lastErr error
	)
	for _, s := range symbols {
		q, err := env.quote(ctx, s.Name, s.Ticker)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			zap.L().Warn("quote skipped", zap.String("symbol", s.Ticker), zap.Error(err))
			lastErr = err
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("no quotes for %d symbols: %w", len(symbols), lastErr)
		}
		return nil, &series.InsufficientDataError{Series: "quotes", Need: 1}
	}
	return out, nil
}

func runGlobalIndices(ctx context.Context, env *Env) (*Output, error) {
	qs, err := quotes(ctx, env, env.Config.Report.GlobalIndices)
	if err != nil {
		return nil, err
	}
	doc := render.NewDocument("Key Global Indices")
	doc.Date = env.now()
	t := render.Table{Header: []string{"Name", "LTP", "Change", "Change %"}}
	out := &Output{}
	for _, q := range qs {
		t.Rows = append(t.Rows, []string{q.Name, amount(q.Price), signed(q.Change.Absolute), percent(q.Change)})
		out.indicator(SectionGlobalIndices, q.Symbol, normalize.Day(q.AsOf), q.Price)
	}
	doc.Add(t)

	path, err := render.WriteFile(env.outDir(), "Global_Markets", render.TextRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	out.Artifacts = []string{path}
	out.Summary = fmt.Sprintf("%d of %d global indices quoted", len(qs), len(env.Config.Report.GlobalIndices))
	return out, nil
}

func runIndiaVIX(ctx context.Context, env *Env) (*Output, error) {
	ticker := env.Config.Report.VIXTicker
	h, err := env.chart(ctx, ticker, "1d", "5d")
	if err != nil {
		return nil, err
	}
	q, err := quoteFromHistory("India VIX", h)
	if err != nil {
		return nil, err
	}
	if q.Open == 0 {
		return nil, &series.InsufficientDataError{Series: ticker + " open", Need: 1}
	}
	vsOpen := series.ChangeBetween(q.Price, q.Open)

	doc := render.NewDocument("India VIX")
	doc.Date = env.now()
	doc.Subtitle = "Session of " + q.AsOf.Format(dateLayout)
	doc.Add(render.KeyValues{Pairs: []render.KV{
		{Key: "Current", Value: fmt.Sprintf("%.2f", q.Price)},
		{Key: "Previous close", Value: fmt.Sprintf("%.2f", q.PrevClose)},
		{Key: "Open", Value: fmt.Sprintf("%.2f", q.Open)},
		{Key: "Change vs open", Value: change(vsOpen)},
		{Key: "Change vs previous close", Value: change(q.Change)},
	}})

	path, err := render.WriteFile(env.outDir(), "India_VIX", render.TextRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	out := &Output{
		Artifacts: []string{path},
		Summary:   fmt.Sprintf("India VIX %.2f %s", q.Price, change(vsOpen)),
	}
	out.indicator(SectionIndiaVIX, "vix", normalize.Day(q.AsOf), q.Price)
	return out, nil
}

func runCurrency(ctx context.Context, env *Env) (*Output, error) {
	qs, err := quotes(ctx, env, env.Config.Report.Currencies)
	if err != nil {
		return nil, err
	}
	doc := render.NewDocument("Popular Currencies vs. INR")
	doc.Date = env.now()
	t := render.Table{Header: []string{"Code", "Value (1 unit in INR)", "Change"}}
	out := &Output{}
	for _, q := range qs {
		t.Rows = append(t.Rows, []string{q.Name, fmt.Sprintf("₹%.2f", q.Price), fmt.Sprintf("%+.4f (%s)", q.Change.Absolute, percent(q.Change))})
		out.indicator(SectionCurrency, q.Name+"INR", normalize.Day(q.AsOf), q.Price)
	}
	doc.Add(t)

	path, err := render.WriteFile(env.outDir(), "Currency_Rates", render.TextRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	out.Artifacts = []string{path}
	out.Summary = fmt.Sprintf("%s/INR %.2f", qs[0].Name, qs[0].Price)
	return out, nil
}

// RecordPCR fetches the live put/call ratio and appends it to the history
// file. It reports whether a new row was written.
func RecordPCR(ctx context.Context, env *Env) (model.PCRReading, bool, error) {
	rows, err := env.Registry.Fetch(ctx, collector.SourceOptionChain, collector.Query{Symbol: "NIFTY"})
	if err != nil {
		return model.PCRReading{}, false, err
	}
	reading, err := normalize.PutCallRatio(rows, env.now())
	if err != nil {
		return model.PCRReading{}, false, err
	}
	written, err := env.History.Append(reading)
	if err != nil {
		return reading, false, fmt.Errorf("append pcr history: %w", err)
	}
	return reading, written, nil
}
