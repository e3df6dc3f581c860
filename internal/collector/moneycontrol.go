package collector

import (
	"context"
	"fmt"
	"strings"

	"MarketBulletin/internal/config"
	"MarketBulletin/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// maxNewsItems caps how many list items are read from the page.
const maxNewsItems = 20

// NewsFetcher scrapes a market news listing. Selectors are tried in order
// and the first that matches is used.
type NewsFetcher struct {
	Client    *resty.Client
	URL       string
	WarmupURL string
	Selectors []string
}

// NewNewsFetcher creates a news fetcher from its source config.
func NewNewsFetcher(src config.SourceConfig, userAgent, proxy string) *NewsFetcher {
	c := NewClient(src, userAgent, proxy).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return &NewsFetcher{
		Client:    c,
		URL:       src.URL,
		WarmupURL: src.WarmupURL,
		Selectors: src.Selectors,
	}
}

func (f *NewsFetcher) Name() string { return SourceNews }

// Fetch returns one RowNews per item with cells headline, summary, link.
// Items missing a headline link or a summary are dropped.
func (f *NewsFetcher) Fetch(ctx context.Context, _ Query) ([]model.RawRow, error) {
	warmUp(ctx, f.Client, SourceNews, f.WarmupURL)

	doc, err := getDocument(ctx, f.Client, SourceNews, f.URL)
	if err != nil {
		return nil, err
	}

	list, matched := FirstMatch(doc.Selection, f.Selectors)
	if list == nil {
		return nil, &FetchError{
			Source: SourceNews,
			URL:    f.URL,
			Err:    fmt.Errorf("%w: tried %s", ErrSelectorNotFound, strings.Join(f.Selectors, ", ")),
		}
	}
	zap.L().Debug("news list located", zap.String("selector", matched))

	var rows []model.RawRow
	list.Find("li.clearfix").EachWithBreak(func(i int, li *goquery.Selection) bool {
		if i >= maxNewsItems {
			return false
		}
		a := li.Find("h2 a").First()
		p := li.Find("p").First()
		if a.Length() == 0 || p.Length() == 0 {
			return true
		}
		link, _ := a.Attr("href")
		rows = append(rows, model.RawRow{
			Source: SourceNews,
			Kind:   model.RowNews,
			Cells:  []string{strings.TrimSpace(a.Text()), strings.TrimSpace(p.Text()), link},
		})
		return true
	})
	if len(rows) == 0 {
		return nil, &FetchError{Source: SourceNews, URL: f.URL, Err: ErrNoData}
	}
	return rows, nil
}

// FirstMatch returns the first selection matched by selectors, in order,
// together with the selector that matched.
func FirstMatch(root *goquery.Selection, selectors []string) (*goquery.Selection, string) {
	for _, s := range selectors {
		if sel := root.Find(s).First(); sel.Length() > 0 {
			return sel, s
		}
	}
	return nil, ""
}
