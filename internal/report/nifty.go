package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"MarketBulletin/internal/calculator"
	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/model"
	"MarketBulletin/internal/normalize"
	"MarketBulletin/internal/render"
	"MarketBulletin/internal/series"

	"go.uber.org/zap"
)

const (
	rsiPeriod = 14
	maPeriod  = 50
)

func runNiftySummary(ctx context.Context, env *Env) (*Output, error) {
	cfg := env.Config.Report
	h, err := env.chart(ctx, cfg.NiftyTicker, "1d", collector.RangeForDays(365))
	if err != nil {
		return nil, fmt.Errorf("nifty history: %w", err)
	}
	q, err := quoteFromHistory("Nifty 50", h)
	if err != nil {
		return nil, err
	}
	high52, low52, err := calculator.Calculate52WeekRange(h.Bars)
	if err != nil {
		return nil, fmt.Errorf("52-week range: %w", err)
	}
	pos52, err := calculator.CalculatePosition(q.Price, high52, low52)
	if err != nil {
		return nil, fmt.Errorf("52-week position: %w", err)
	}
	posDay, err := calculator.CalculatePosition(q.Price, q.DayHigh, q.DayLow)
	if err != nil {
		return nil, fmt.Errorf("intraday position: %w", err)
	}

	doc := render.NewDocument("Nifty 50 Summary")
	doc.Date = env.now()
	doc.Subtitle = "Session of " + q.AsOf.Format(dateLayout)
	doc.Add(
		render.KeyValues{Pairs: []render.KV{
			{Key: "Last price", Value: amount(q.Price)},
			{Key: "Previous close", Value: amount(q.PrevClose)},
			{Key: "Change", Value: change(q.Change)},
			{Key: "Open", Value: amount(q.Open)},
			{Key: "Day high", Value: amount(q.DayHigh)},
			{Key: "Day low", Value: amount(q.DayLow)},
			{Key: "Volume", Value: fmt.Sprintf("%.2f lakh", q.Volume/1e5)},
		}},
		render.Heading{Text: "Ranges"},
		render.Table{
			Header: []string{"Range", "Low", "High", "Position"},
			Rows: [][]string{
				{"Intraday", amount(q.DayLow), amount(q.DayHigh), fmt.Sprintf("%.0f%%", posDay*100)},
				{"52-week", amount(low52), amount(high52), fmt.Sprintf("%.0f%%", pos52*100)},
			},
		},
	)

	path, err := render.WriteFile(env.outDir(), "Nifty_Summary", render.PDFRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	out := &Output{
		Artifacts: []string{path},
		Summary:   fmt.Sprintf("Nifty 50 %s %s", amount(q.Price), change(q.Change)),
	}
	day := normalize.Day(q.AsOf)
	out.indicator(SectionNiftySummary, "close", day, q.Price)
	out.indicator(SectionNiftySummary, "change_pct", day, q.Change.Percent)
	out.indicator(SectionNiftySummary, "position_52w", day, pos52)
	return out, nil
}

func runNiftyTechnical(ctx context.Context, env *Env) (*Output, error) {
	cfg := env.Config.Report
	daily, err := env.chart(ctx, cfg.NiftyTicker, "1d", collector.RangeForDays(180))
	if err != nil {
		return nil, fmt.Errorf("nifty daily history: %w", err)
	}
	if len(daily.Bars) < maPeriod {
		return nil, &series.InsufficientDataError{Series: cfg.NiftyTicker, Need: maPeriod, Have: len(daily.Bars)}
	}
	ma50, err := calculator.CalculateMA50(daily.Bars)
	if err != nil {
		return nil, fmt.Errorf("ma50: %w", err)
	}
	levels, err := calculator.CalculateLevels(daily.Bars, cfg.LevelLookback, cfg.LevelBand)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	rsi, err := calculator.CalculateRSI(daily.Bars, rsiPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	last, _ := daily.Last()

	hourly, err := env.chart(ctx, cfg.NiftyTicker, "1h", "5d")
	if err != nil {
		return nil, fmt.Errorf("nifty hourly history: %w", err)
	}
	spec := technicalChart(hourly, levels, ma50)
	png, err := render.ChartPNG(spec)
	if err != nil {
		return nil, err
	}
	chartPath, err := render.WriteChart(env.outDir(), "Nifty_Technical", spec)
	if err != nil {
		return nil, err
	}

	doc := render.NewDocument("Nifty 50 Technical View")
	doc.Date = env.now()
	doc.Subtitle = "Daily close " + last.Time.Format(dateLayout)
	doc.Add(
		render.KeyValues{Pairs: []render.KV{
			{Key: "Close", Value: amount(last.Close)},
			{Key: "50-day SMA", Value: amount(ma50)},
			{Key: fmt.Sprintf("RSI(%d)", rsiPeriod), Value: fmt.Sprintf("%.1f (%s)", rsi, calculator.RSIZone(rsi))},
		}},
		render.Table{
			Caption: fmt.Sprintf("Levels from the last %d sessions", cfg.LevelLookback),
			Header:  []string{"Level", "Value", "Distance"},
			Rows: [][]string{
				{"Resistance 2", amount(levels.Resistance2), distance(last.Close, levels.Resistance2)},
				{"Resistance 1", amount(levels.Resistance1), distance(last.Close, levels.Resistance1)},
				{"Support 1", amount(levels.Support1), distance(last.Close, levels.Support1)},
				{"Support 2", amount(levels.Support2), distance(last.Close, levels.Support2)},
			},
		},
		render.Image{Name: "hourly", PNG: png, Caption: "Hourly closes with support and resistance"},
		render.Heading{Text: "Analysis"},
	)
	for _, p := range technicalAnalysis(last.Close, ma50, rsi, levels) {
		doc.Add(render.Paragraph{Text: p})
	}

	path, err := render.WriteFile(env.outDir(), "Nifty_Technical", render.PDFRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	out := &Output{
		Artifacts: []string{path, chartPath},
		Summary:   fmt.Sprintf("Nifty RSI %.1f, SMA50 %s, R1 %s, S1 %s", rsi, amount(ma50), amount(levels.Resistance1), amount(levels.Support1)),
	}
	day := normalize.Day(last.Time)
	out.indicator(SectionNiftyTechnical, "sma50", day, ma50)
	out.indicator(SectionNiftyTechnical, "rsi14", day, rsi)
	out.indicator(SectionNiftyTechnical, "resistance1", day, levels.Resistance1)
	out.indicator(SectionNiftyTechnical, "support1", day, levels.Support1)
	return out, nil
}

func technicalChart(h *model.PriceHistory, lv calculator.Levels, ma50 float64) render.ChartSpec {
	line := render.Line{Name: "Nifty 50"}
	for _, b := range h.Bars {
		line.Times = append(line.Times, b.Time)
		line.Values = append(line.Values, b.Close)
	}
	return render.ChartSpec{
		Title:      "Nifty 50 hourly",
		TimeFormat: "02 Jan 15:04",
		Lines:      []render.Line{line},
		Levels: []render.Level{
			{Name: "R2", Value: lv.Resistance2, Color: render.ColorResistance},
			{Name: "R1", Value: lv.Resistance1, Color: render.ColorResistance},
			{Name: "SMA50", Value: ma50, Color: render.ColorAverage},
			{Name: "S1", Value: lv.Support1, Color: render.ColorSupport},
			{Name: "S2", Value: lv.Support2, Color: render.ColorSupport},
		},
	}
}

func distance(price, level float64) string {
	if price == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", (level-price)/price*100)
}

func technicalAnalysis(last, ma50, rsi float64, lv calculator.Levels) []string {
	var out []string
	if last >= ma50 {
		out = append(out, fmt.Sprintf("The index closed at %s, above its 50-day average of %s. The short-term trend remains positive while it holds that average.", amount(last), amount(ma50)))
	} else {
		out = append(out, fmt.Sprintf("The index closed at %s, below its 50-day average of %s. The average now acts as overhead supply.", amount(last), amount(ma50)))
	}

	upside := math.Abs(lv.Resistance1-last) / last * 100
	downside := math.Abs(last-lv.Support1) / last * 100
	switch {
	case upside <= 0.5:
		out = append(out, fmt.Sprintf("Price is testing resistance at %s. A close above it opens %s.", amount(lv.Resistance1), amount(lv.Resistance2)))
	case downside <= 0.5:
		out = append(out, fmt.Sprintf("Price is testing support at %s. A close below it exposes %s.", amount(lv.Support1), amount(lv.Support2)))
	default:
		out = append(out, fmt.Sprintf("Immediate resistance is %s (%.2f%% away) and support is %s (%.2f%% away).", amount(lv.Resistance1), upside, amount(lv.Support1), downside))
	}

	out = append(out, fmt.Sprintf("RSI(%d) reads %.1f, in the %s zone.", rsiPeriod, rsi, calculator.RSIZone(rsi)))
	return out
}

func runNiftyMovers(ctx context.Context, env *Env) (*Output, error) {
	cfg := env.Config.Report
	var (
		movers  []model.Mover
		lastErr error
	)
	for _, sym := range cfg.Constituents {
		q, err := env.quote(ctx, displaySymbol(sym), sym)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			zap.L().Warn("constituent skipped", zap.String("symbol", sym), zap.Error(err))
			lastErr = err
			continue
		}
		if !q.Change.PercentDefined {
			continue
		}
		movers = append(movers, model.Mover{Symbol: q.Name, Price: q.Price, PrevClose: q.PrevClose, Change: q.Change})
	}
	if len(movers) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all %d constituents failed: %w", len(cfg.Constituents), lastErr)
	}
	if len(movers) < 2 {
		return nil, &series.InsufficientDataError{Series: "nifty constituents", Need: 2, Have: len(movers)}
	}

	gainers, losers := rankMovers(movers, cfg.MoversTop)
	doc := render.NewDocument("Nifty 50 Top Gainers and Losers")
	doc.Date = env.now()
	doc.Add(
		moverTable(fmt.Sprintf("Top %d Gainers", len(gainers)), gainers),
		moverTable(fmt.Sprintf("Top %d Losers", len(losers)), losers),
	)
	path, err := render.WriteFile(env.outDir(), "Nifty_Movers", render.TextRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	return &Output{
		Artifacts: []string{path},
		Summary: fmt.Sprintf("Top gainer %s %s, top loser %s %s",
			gainers[0].Symbol, percent(gainers[0].Change), losers[0].Symbol, percent(losers[0].Change)),
	}, nil
}

// rankMovers sorts by percent change and takes the best n and the worst n,
// the losers listed worst first.
func rankMovers(movers []model.Mover, n int) (gainers, losers []model.Mover) {
	sorted := make([]model.Mover, len(movers))
	copy(sorted, movers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Change.Percent > sorted[j].Change.Percent
	})
	if n < 1 {
		n = 1
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	gainers = sorted[:n]
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		losers = append(losers, sorted[i])
	}
	return gainers, losers
}

func moverTable(caption string, ms []model.Mover) render.Table {
	t := render.Table{Caption: caption, Header: []string{"Stock", "Price", "Change", "% Change"}}
	for _, m := range ms {
		t.Rows = append(t.Rows, []string{m.Symbol, amount(m.Price), signed(m.Change.Absolute), percent(m.Change)})
	}
	return t
}

func displaySymbol(ticker string) string {
	return strings.TrimSuffix(ticker, ".NS")
}
