package report

import (
	"context"
	"fmt"
	"strings"

	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/model"
	"MarketBulletin/internal/normalize"
	"MarketBulletin/internal/render"
	"MarketBulletin/internal/series"
)

const metalWindow = 7

// metalKind ties a rate page to its layout and presentation.
type metalKind struct {
	section  string
	source   string
	layout   collector.MetalLayout
	title    string
	artifact string
	trendCol int // history column plotted and summarised
}

var (
	goldKind = metalKind{
		section:  SectionGold,
		source:   collector.SourceGold,
		layout:   collector.GoldLayout,
		title:    "Gold Rates (per gram)",
		artifact: "Gold_Rates",
		trendCol: 0,
	}
	silverKind = metalKind{
		section:  SectionSilver,
		source:   collector.SourceSilver,
		layout:   collector.SilverLayout,
		title:    "Silver Rates",
		artifact: "Silver_Rates",
		trendCol: 2,
	}
)

// metalReport is the rendered state of one metal page, shared by the metal
// sections and the daily digest.
type metalReport struct {
	rates model.MetalRates
	doc   *render.Document
	chart render.ChartSpec
	out   *Output
}

func buildMetal(ctx context.Context, env *Env, k metalKind) (*metalReport, error) {
	rows, err := env.Registry.Fetch(ctx, k.source, collector.Query{})
	if err != nil {
		return nil, err
	}
	columns := k.layout.Headers[1:]
	rates, err := normalize.MetalRates(k.layout.Metal, columns, rows)
	if err != nil {
		return nil, err
	}

	doc := render.NewDocument(k.title)
	doc.Date = env.now()
	out := &Output{}
	today := normalize.Day(env.now())

	if len(rates.Today) > 0 {
		kv := render.KeyValues{}
		for _, r := range rates.Today {
			kv.Pairs = append(kv.Pairs, render.KV{
				Key:   r.Label,
				Value: fmt.Sprintf("₹%s (%s)", amount(r.Price), metalChange(r.Change)),
			})
			out.indicator(k.section, slug(r.Label), today, r.Price)
		}
		doc.Add(render.Heading{Text: "Today"}, kv)
	}

	days := env.Config.Report.MetalDays
	hist := render.Table{
		Caption: fmt.Sprintf("Last %d days", days),
		Header:  append([]string{"Date"}, columns...),
	}
	for i, d := range rates.History {
		if i >= days {
			break
		}
		row := []string{d.Date.Format(dateLayout)}
		for c := range columns {
			row = append(row, fmt.Sprintf("₹%s (%s)", amount(d.Prices[c]), metalChange(d.Changes[c])))
		}
		hist.Rows = append(hist.Rows, row)
	}
	if len(hist.Rows) > 0 {
		doc.Add(hist)
	}

	trendName := fmt.Sprintf("%s %s", k.layout.Metal, columns[k.trendCol])
	trend := series.New(trendName, rates.Points(k.trendCol))
	var spec render.ChartSpec
	if trend.Len() >= 2 {
		stats, err := metalStats(trend)
		if err != nil {
			return nil, err
		}
		doc.Add(stats)
		spec = metalChart(trendName, trend, days)
	}

	return &metalReport{rates: rates, doc: doc, chart: spec, out: out}, nil
}

func metalStats(s *series.Series) (render.Table, error) {
	t := render.Table{
		Caption: fmt.Sprintf("%s, %d-day window", s.Name(), metalWindow),
		Header:  []string{"Measure", "Value"},
	}
	mean, err := s.Mean(metalWindow)
	if err != nil {
		return t, err
	}
	lo, err := s.Min(metalWindow)
	if err != nil {
		return t, err
	}
	hi, err := s.Max(metalWindow)
	if err != nil {
		return t, err
	}
	oldest := s.Head(metalWindow)
	delta, err := s.ChangeAgainst(oldest[len(oldest)-1].Value)
	if err != nil {
		return t, err
	}
	t.Rows = [][]string{
		{"Average (" + windowLabel(mean) + ")", "₹" + amount(mean.Value)},
		{"Low", "₹" + amount(lo.Value)},
		{"High", "₹" + amount(hi.Value)},
		{"Change over window", change(delta)},
	}
	return t, nil
}

func metalChart(name string, s *series.Series, days int) render.ChartSpec {
	pts := s.Head(days)
	line := render.Line{Name: name}
	for i := len(pts) - 1; i >= 0; i-- {
		line.Times = append(line.Times, pts[i].Date)
		line.Values = append(line.Values, pts[i].Value)
	}
	return render.ChartSpec{
		Title:      strings.ToUpper(name[:1]) + name[1:] + " trend",
		TimeFormat: "02 Jan",
		Lines:      []render.Line{line},
	}
}

func metalChange(v float64) string {
	switch {
	case v > 0:
		return "₹" + amount(v) + " ↑"
	case v < 0:
		return "₹" + amount(-v) + " ↓"
	default:
		return "no change"
	}
}

func slug(label string) string {
	return strings.ToLower(strings.ReplaceAll(label, " ", "_"))
}

func runMetal(k metalKind) func(context.Context, *Env) (*Output, error) {
	return func(ctx context.Context, env *Env) (*Output, error) {
		m, err := buildMetal(ctx, env, k)
		if err != nil {
			return nil, err
		}
		path, err := render.WriteFile(env.outDir(), k.artifact, render.TextRenderer{}, m.doc)
		if err != nil {
			return nil, err
		}
		m.out.Artifacts = []string{path}
		if len(m.chart.Lines) > 0 {
			chartPath, err := render.WriteChart(env.outDir(), k.artifact, m.chart)
			if err != nil {
				return nil, err
			}
			m.out.Artifacts = append(m.out.Artifacts, chartPath)
		}
		if len(m.rates.Today) > 0 {
			r := m.rates.Today[0]
			m.out.Summary = fmt.Sprintf("%s %s ₹%s (%s)", k.layout.Metal, r.Label, amount(r.Price), metalChange(r.Change))
		}
		return m.out, nil
	}
}
