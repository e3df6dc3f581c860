package report

import (
	"context"
	"fmt"

	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/model"
	"MarketBulletin/internal/normalize"
	"MarketBulletin/internal/render"
	"MarketBulletin/internal/series"
)

// headlines fetches the news listing and applies the configured filter and limit.
func headlines(ctx context.Context, env *Env) ([]model.NewsItem, error) {
	rows, err := env.Registry.Fetch(ctx, collector.SourceNews, collector.Query{})
	if err != nil {
		return nil, err
	}
	cfg := env.Config.Report
	items := normalize.NewsItems(rows, cfg.NewsExclude, cfg.NewsLimit)
	if len(items) == 0 {
		return nil, &series.InsufficientDataError{Series: "headlines", Need: 1}
	}
	return items, nil
}

func runMarketNews(ctx context.Context, env *Env) (*Output, error) {
	items, err := headlines(ctx, env)
	if err != nil {
		return nil, err
	}
	doc := render.NewDocument("Market Bulletin")
	doc.Date = env.now()
	doc.Subtitle = doc.Date.Format("Monday, 02 January 2006")
	doc.Add(render.NewsList{Items: items})

	path, err := render.WriteFile(env.outDir(), "Market_Bulletin", render.DocxRenderer{}, doc)
	if err != nil {
		return nil, err
	}
	return &Output{
		Artifacts: []string{path},
		Summary:   fmt.Sprintf("%d headlines, lead: %s", len(items), items[0].Title),
	}, nil
}
