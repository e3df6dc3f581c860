package report

import (
	"context"
	"fmt"

	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/normalize"
	"MarketBulletin/internal/render"
	"MarketBulletin/internal/series"

	"go.uber.org/zap"
)

func runFIIDII(ctx context.Context, env *Env) (*Output, error) {
	cfg := env.Config.Report
	rows, err := env.Registry.Fetch(ctx, collector.SourceFIIDII, collector.Query{})
	if err != nil {
		return nil, err
	}
	days, err := normalize.FlowDays(rows)
	if err != nil {
		return nil, err
	}
	fiiPts, diiPts := normalize.FlowPoints(days)
	fii := series.New("fii_net", fiiPts)
	dii := series.New("dii_net", diiPts)
	if err := fii.RequireAtLeast(cfg.FlowRecentDays); err != nil {
		return nil, err
	}

	doc := render.NewDocument("FII / DII Activity")
	doc.Date = env.now()
	doc.Subtitle = "Cash market, ₹ crore"

	minDays := env.Config.Sources.FIIDII.MinUniqueDays
	if err := fii.RequireAtLeast(minDays); err != nil {
		zap.L().Warn("fewer flow days than wanted", zap.Int("have", fii.Len()), zap.Int("want", minDays))
		doc.Add(render.Paragraph{
			Text:   fmt.Sprintf("Warning: only %d trading days available, %d wanted.", fii.Len(), minDays),
			Italic: true,
		})
	}

	recent := render.Table{Caption: "Recent sessions", Header: []string{"Date", "FII", "DII"}}
	diiByDay := make(map[string]float64, dii.Len())
	for _, p := range dii.Points() {
		diiByDay[p.Date.Format(dateLayout)] = p.Value
	}
	for _, p := range fii.Head(cfg.FlowRecentDays) {
		d := p.Date.Format(dateLayout)
		recent.Rows = append(recent.Rows, []string{d, flowArrow(p.Value), flowArrow(diiByDay[d])})
	}

	windows := render.Table{Caption: "Cumulative net flows", Header: []string{"Window", "FII", "DII"}}
	out := &Output{}
	latest, _ := fii.Latest()
	for _, n := range cfg.FlowWindows {
		fs, err := fii.Sum(n)
		if err != nil {
			return nil, err
		}
		ds, err := dii.Sum(n)
		if err != nil {
			return nil, err
		}
		windows.Rows = append(windows.Rows, []string{windowLabel(fs), flowArrow(fs.Value), flowArrow(ds.Value)})
		out.indicator(SectionFIIDII, fmt.Sprintf("fii_sum_%d", n), latest.Date, fs.Value)
		out.indicator(SectionFIIDII, fmt.Sprintf("dii_sum_%d", n), latest.Date, ds.Value)
	}
	doc.Add(recent, windows)

	path, err := render.WriteFile(env.outDir(), "FII_DII", render.TextRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	out.Artifacts = []string{path}

	if fii.Len() >= 2 {
		chartPath, err := render.WriteChart(env.outDir(), "FII_DII", flowChart(fii, dii))
		if err != nil {
			return nil, err
		}
		out.Artifacts = append(out.Artifacts, chartPath)
	}

	latestDII, _ := dii.Latest()
	out.Summary = fmt.Sprintf("FII %s, DII %s on %s", flowArrow(latest.Value), flowArrow(latestDII.Value), latest.Date.Format(dateLayout))
	out.indicator(SectionFIIDII, "fii_net", latest.Date, latest.Value)
	out.indicator(SectionFIIDII, "dii_net", latestDII.Date, latestDII.Value)
	return out, nil
}

func flowChart(fii, dii *series.Series) render.ChartSpec {
	spec := render.ChartSpec{Title: "FII / DII net flows", TimeFormat: "02 Jan"}
	for _, l := range []struct {
		name string
		s    *series.Series
	}{{"FII", fii}, {"DII", dii}} {
		pts := l.s.Points()
		line := render.Line{Name: l.name}
		for i := len(pts) - 1; i >= 0; i-- {
			line.Times = append(line.Times, pts[i].Date)
			line.Values = append(line.Values, pts[i].Value)
		}
		spec.Lines = append(spec.Lines, line)
	}
	spec.Levels = []render.Level{{Name: "zero", Value: 0, Color: render.ColorAverage}}
	return spec
}
