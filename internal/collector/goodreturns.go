package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"MarketBulletin/internal/config"
	"MarketBulletin/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// MetalLayout describes how one metal page is laid out.
type MetalLayout struct {
	Metal     string
	BoxLabels []string // labels for the price boxes, in page order
	Headers   []string // headers identifying the history table
}

var (
	GoldLayout = MetalLayout{
		Metal:     "gold",
		BoxLabels: []string{"24K", "22K"},
		Headers:   []string{"Date", "24K", "22K"},
	}
	SilverLayout = MetalLayout{
		Metal:     "silver",
		BoxLabels: []string{"1 gram", "1 kg"},
		Headers:   []string{"Date", "10 gram", "100 gram", "1 Kg"},
	}
)

// Direction hints attached to history cells, taken from the change span class.
const (
	DirUp   = "up"
	DirDown = "down"
)

// GoodReturnsFetcher scrapes today's price boxes and the recent history
// table from a goodreturns.in rate page.
type GoodReturnsFetcher struct {
	Client *resty.Client
	URL    string
	Layout MetalLayout
	id     string
}

// NewGoldFetcher creates the gold rate fetcher.
func NewGoldFetcher(src config.SourceConfig, userAgent, proxy string) *GoodReturnsFetcher {
	return &GoodReturnsFetcher{Client: NewClient(src, userAgent, proxy), URL: src.URL, Layout: GoldLayout, id: SourceGold}
}

// NewSilverFetcher creates the silver rate fetcher.
func NewSilverFetcher(src config.SourceConfig, userAgent, proxy string) *GoodReturnsFetcher {
	return &GoodReturnsFetcher{Client: NewClient(src, userAgent, proxy), URL: src.URL, Layout: SilverLayout, id: SourceSilver}
}

func (f *GoodReturnsFetcher) Name() string { return f.id }

// Fetch returns one RowPriceBox per configured box label followed by the
// history table rows. Price box cells are label, price, change. History
// cells are the date then one price per column, with the change text and
// direction of column i in Attrs "change_i" and "dir_i".
func (f *GoodReturnsFetcher) Fetch(ctx context.Context, _ Query) ([]model.RawRow, error) {
	doc, err := getDocument(ctx, f.Client, f.id, f.URL)
	if err != nil {
		return nil, err
	}

	boxes, err := f.priceBoxes(doc)
	if err != nil {
		return nil, err
	}
	history, err := f.history(doc)
	if err != nil {
		return nil, err
	}
	return append(boxes, history...), nil
}

func (f *GoodReturnsFetcher) notFound(what string) error {
	return &FetchError{Source: f.id, URL: f.URL, Err: fmt.Errorf("%w: %s", ErrSelectorNotFound, what)}
}

func (f *GoodReturnsFetcher) priceBoxes(doc *goquery.Document) ([]model.RawRow, error) {
	container := doc.Find("div.gold-rate-container").First()
	if container.Length() == 0 {
		return nil, f.notFound("div.gold-rate-container")
	}
	boxes := container.Find("div.gold-each-container")
	if boxes.Length() < len(f.Layout.BoxLabels) {
		return nil, f.notFound(fmt.Sprintf("%d price boxes, found %d", len(f.Layout.BoxLabels), boxes.Length()))
	}

	rows := make([]model.RawRow, 0, len(f.Layout.BoxLabels))
	for i, label := range f.Layout.BoxLabels {
		ps := boxes.Eq(i).Find("div.gold-bottom p")
		price := strings.TrimSpace(ps.Eq(0).Text())
		change := strings.TrimSpace(ps.Eq(1).Text())
		rows = append(rows, model.RawRow{
			Source: f.id,
			Kind:   model.RowPriceBox,
			Cells:  []string{label, price, change},
		})
	}
	return rows, nil
}

func (f *GoodReturnsFetcher) historyTable(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		headers := make(map[string]bool)
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			headers[strings.TrimSpace(th.Text())] = true
		})
		for _, h := range f.Layout.Headers {
			if !headers[h] {
				return true
			}
		}
		found = table
		return false
	})
	return found
}

func (f *GoodReturnsFetcher) history(doc *goquery.Document) ([]model.RawRow, error) {
	table := f.historyTable(doc)
	if table == nil {
		return nil, f.notFound("history table " + strings.Join(f.Layout.Headers, "/"))
	}

	var rows []model.RawRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() != len(f.Layout.Headers) {
			return
		}
		row := model.RawRow{Source: f.id, Kind: model.RowPriceHistory, Attrs: map[string]string{}}
		tds.Each(func(i int, td *goquery.Selection) {
			text := strings.Join(strings.Fields(td.Text()), " ")
			if i == 0 {
				row.Cells = append(row.Cells, text)
				return
			}
			price := text
			if idx := strings.Index(text, "("); idx >= 0 {
				price = strings.TrimSpace(text[:idx])
			}
			row.Cells = append(row.Cells, price)

			if span := td.Find("span").First(); span.Length() > 0 {
				key := strconv.Itoa(i)
				row.Attrs["change_"+key] = strings.Trim(strings.TrimSpace(span.Text()), "()")
				switch {
				case span.HasClass("green-span"):
					row.Attrs["dir_"+key] = DirUp
				case span.HasClass("red-span"):
					row.Attrs["dir_"+key] = DirDown
				}
			}
		})
		if row.Cells[0] == "" {
			return
		}
		rows = append(rows, row)
	})
	return rows, nil
}
