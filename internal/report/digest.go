package report

import (
	"context"
	"fmt"

	"MarketBulletin/internal/render"
)

// runDailyDigest combines the metal tables and charts with the headlines
// into one PDF.
func runDailyDigest(ctx context.Context, env *Env) (*Output, error) {
	doc := render.NewDocument("Daily Market Report")
	doc.Date = env.now()
	doc.Subtitle = doc.Date.Format("02 January 2006")
	out := &Output{}

	for _, k := range []metalKind{goldKind, silverKind} {
		m, err := buildMetal(ctx, env, k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.layout.Metal, err)
		}
		doc.Append(m.doc)
		if len(m.chart.Lines) > 0 {
			png, err := render.ChartPNG(m.chart)
			if err != nil {
				return nil, err
			}
			doc.Add(render.Image{Name: k.artifact, PNG: png, Caption: m.chart.Title})
		}
		out.Indicators = append(out.Indicators, m.out.Indicators...)
	}

	items, err := headlines(ctx, env)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	doc.Add(render.Heading{Text: "Market Bulletin"}, render.NewsList{Items: items})

	path, err := render.WriteFile(env.outDir(), "Daily_Report", render.PDFRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	out.Artifacts = []string{path}
	out.Summary = fmt.Sprintf("Daily report with %d headlines", len(items))
	return out, nil
}
