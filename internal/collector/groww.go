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

// flowColumns is the minimum cell count of a FII/DII table row:
// date, FII buy, FII sell, FII net, DII buy, DII sell, DII net.
const flowColumns = 7

// GrowwFlowFetcher scrapes the paginated FII/DII cash-market activity table.
type GrowwFlowFetcher struct {
	Client        *resty.Client
	BaseURL       string
	MaxPages      int
	MinUniqueDays int
}

// NewGrowwFlowFetcher creates a FII/DII fetcher from its source config.
func NewGrowwFlowFetcher(src config.SourceConfig, userAgent, proxy string) *GrowwFlowFetcher {
	return &GrowwFlowFetcher{
		Client:        NewClient(src, userAgent, proxy),
		BaseURL:       src.URL,
		MaxPages:      src.MaxPages,
		MinUniqueDays: src.MinUniqueDays,
	}
}

func (f *GrowwFlowFetcher) Name() string { return SourceFIIDII }

func (f *GrowwFlowFetcher) pageURL(page int) string {
	if page == 1 {
		return f.BaseURL
	}
	sep := "?"
	if strings.Contains(f.BaseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", f.BaseURL, sep, page)
}

// Fetch walks pages until MaxPages or until MinUniqueDays distinct dates
// have been collected. A failure on the first page is an error; a failure on
// a later page ends pagination and keeps what was collected.
func (f *GrowwFlowFetcher) Fetch(ctx context.Context, _ Query) ([]model.RawRow, error) {
	var rows []model.RawRow
	seen := make(map[string]struct{})

	for page := 1; page <= f.MaxPages; page++ {
		url := f.pageURL(page)
		pageRows, err := f.fetchPage(ctx, url)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			zap.L().Warn("stopping FII/DII pagination", zap.Int("page", page), zap.Error(err))
			break
		}
		for _, r := range pageRows {
			seen[r.Cell(0)] = struct{}{}
		}
		rows = append(rows, pageRows...)
		zap.L().Debug("FII/DII page fetched",
			zap.Int("page", page),
			zap.Int("rows", len(pageRows)),
			zap.Int("unique_days", len(seen)))

		if f.MinUniqueDays > 0 && len(seen) >= f.MinUniqueDays {
			break
		}
	}
	return rows, nil
}

func (f *GrowwFlowFetcher) fetchPage(ctx context.Context, url string) ([]model.RawRow, error) {
	doc, err := getDocument(ctx, f.Client, SourceFIIDII, url)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &FetchError{Source: SourceFIIDII, URL: url, Err: fmt.Errorf("%w: table", ErrSelectorNotFound)}
	}

	var rows []model.RawRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := cellTexts(tr.Find("td"))
		if len(cells) < flowColumns {
			return
		}
		rows = append(rows, model.RawRow{Source: SourceFIIDII, Kind: model.RowFlow, Cells: cells})
	})
	if len(rows) == 0 {
		return nil, &FetchError{Source: SourceFIIDII, URL: url, Err: ErrNoData}
	}
	return rows, nil
}

func cellTexts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
