package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketBulletin/internal/model"

	"github.com/stretchr/testify/require"
)

func TestGrowwFlowFetcherPaginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "":
			w.Write([]byte(flowPage("05 Mar 2024", "04 Mar 2024")))
		case "2":
			w.Write([]byte(flowPage("04 Mar 2024", "01 Mar 2024")))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f := NewGrowwFlowFetcher(testSource(srv.URL+"/fii-dii-data"), "test", "")
	rows, err := f.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "05 Mar 2024", rows[0].Cell(0))
	require.Equal(t, "-1,000.50", rows[0].Cell(3))
	require.Equal(t, "+2,000.25", rows[0].Cell(6))
	require.Equal(t, model.RowFlow, rows[0].Kind)
}

func TestGrowwFlowFetcherStopsAtMinUniqueDays(t *testing.T) {
	var pages int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		w.Write([]byte(flowPage("05 Mar 2024", "04 Mar 2024", "01 Mar 2024")))
	}))
	defer srv.Close()

	src := testSource(srv.URL)
	src.MinUniqueDays = 3
	rows, err := NewGrowwFlowFetcher(src, "test", "").Fetch(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, 1, pages)
}

func TestGrowwFlowFetcherFirstPage404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewGrowwFlowFetcher(testSource(srv.URL), "test", "").Fetch(context.Background(), Query{})
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, SourceFIIDII, fe.Source)
	require.Equal(t, http.StatusNotFound, fe.Status)
	require.ErrorIs(t, err, ErrHTTPStatus)
	require.False(t, fe.Transient())
}

func TestGrowwFlowFetcherMissingTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>maintenance</p></body></html>"))
	}))
	defer srv.Close()

	_, err := NewGrowwFlowFetcher(testSource(srv.URL), "test", "").Fetch(context.Background(), Query{})
	require.ErrorIs(t, err, ErrSelectorNotFound)
}

func TestGoldFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(goldPage))
	}))
	defer srv.Close()

	rows, err := NewGoldFetcher(testSource(srv.URL), "test", "").Fetch(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	require.Equal(t, model.RowPriceBox, rows[0].Kind)
	require.Equal(t, []string{"24K", "₹7,245", "+ ₹10"}, rows[0].Cells)
	require.Equal(t, []string{"22K", "₹6,641", "- ₹5"}, rows[1].Cells)

	require.Equal(t, model.RowPriceHistory, rows[2].Kind)
	require.Equal(t, []string{"Mar 05, 2024", "₹7,245", "₹6,641"}, rows[2].Cells)
	require.Equal(t, "+10", rows[2].Attr("change_1"))
	require.Equal(t, DirUp, rows[2].Attr("dir_1"))
	require.Equal(t, "15", rows[3].Attr("change_1"))
	require.Equal(t, DirDown, rows[3].Attr("dir_1"))
}

func TestSilverFetcherMissingHistoryTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(goldPage))
	}))
	defer srv.Close()

	_, err := NewSilverFetcher(testSource(srv.URL), "test", "").Fetch(context.Background(), Query{})
	require.ErrorIs(t, err, ErrSelectorNotFound)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, SourceSilver, fe.Source)
}

func TestNewsFetcherSelectorFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
			return
		}
		w.Write([]byte(newsPage))
	}))
	defer srv.Close()

	src := testSource(srv.URL + "/news")
	src.WarmupURL = srv.URL + "/"
	src.Selectors = []string{"ul#cagetory", "ul.article_listing", "div.article-list"}

	rows, err := NewNewsFetcher(src, "test", "").Fetch(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"Sensex rallies 500 points", "Banks lead gains.", "https://example.com/a"}, rows[0].Cells)
}

func TestNewsFetcherAllSelectorsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(newsPage))
	}))
	defer srv.Close()

	src := testSource(srv.URL)
	src.Selectors = []string{"ul#cagetory", "div.article-list"}
	_, err := NewNewsFetcher(src, "test", "").Fetch(context.Background(), Query{})
	require.ErrorIs(t, err, ErrSelectorNotFound)
	require.False(t, IsTransient(err))
}

func TestOptionChainFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(optionChainJSON))
	}))
	defer srv.Close()

	rows, err := NewOptionChainFetcher(testSource(srv.URL), "test", "").Fetch(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"22000", "07-Mar-2024", "1200", "800"}, rows[0].Cells)
	require.Equal(t, "", rows[1].Cell(3))
	require.Equal(t, "", rows[2].Cell(2))
}

func TestOptionChainFetcherBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>blocked</html>"))
	}))
	defer srv.Close()

	_, err := NewOptionChainFetcher(testSource(srv.URL), "test", "").Fetch(context.Background(), Query{})
	require.ErrorIs(t, err, ErrDecode)
}

func TestYahooChartSkipsNullBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("interval") != "1d" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(yahooJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher(testSource(srv.URL+"/"), "test", "")
	h, err := f.Chart(context.Background(), "^NSEI", "1d", "5d")
	require.NoError(t, err)
	require.Len(t, h.Bars, 2)
	require.Equal(t, 22450.5, h.Price)
	require.Equal(t, 22300.0, h.PrevClose)
	require.True(t, h.Bars[0].Time.Before(h.Bars[1].Time))

	rows, err := f.Fetch(context.Background(), Query{Symbol: "^NSEI"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "22450.5", rows[1].Cell(4))
}

func TestYahooChartSkipsBarsWithoutClose(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"currency":"INR","symbol":"^NSEI","regularMarketPrice":22450.5},
"timestamp":[1709510400,1709596800,1709683200],
"indicators":{"quote":[{"open":[22000,22300,22460],"high":[22100,22400,22500],"low":[21900,22250,22440],"close":[22050,22380,null],"volume":[1000,1500,null]}]}}],"error":null}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	h, err := NewYahooFetcher(testSource(srv.URL+"/"), "test", "").Chart(context.Background(), "^NSEI", "1d", "5d")
	require.NoError(t, err)
	require.Len(t, h.Bars, 2)
	for _, b := range h.Bars {
		require.Greater(t, b.Close, 0.0)
	}
	require.Equal(t, 22380.0, h.Bars[1].Close)
}

func TestRangeForDays(t *testing.T) {
	require.Equal(t, "5d", RangeForDays(2))
	require.Equal(t, "1mo", RangeForDays(20))
	require.Equal(t, "1y", RangeForDays(300))
	require.Equal(t, "2y", RangeForDays(500))
}

func TestRegistryRetriesTransientFailures(t *testing.T) {
	transient := &FetchError{Source: "s", Status: http.StatusBadGateway, Err: ErrHTTPStatus}
	f := &StaticFetcher{
		ID:   "s",
		Rows: []model.RawRow{{Cells: []string{"x"}}},
		Errs: []error{transient, transient},
	}
	reg := NewRegistry(NewRetryPolicy(3, time.Millisecond))
	reg.Register(f)

	rows, err := reg.Fetch(context.Background(), "s", Query{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 3, f.Calls())
}

func TestRegistryDoesNotRetryPermanentFailures(t *testing.T) {
	f := &StaticFetcher{ID: "s", Errs: []error{&FetchError{Source: "s", Status: 404, Err: ErrHTTPStatus}}}
	reg := NewRegistry(NewRetryPolicy(3, time.Millisecond))
	reg.Register(f)

	_, err := reg.Fetch(context.Background(), "s", Query{})
	require.ErrorIs(t, err, ErrHTTPStatus)
	require.Equal(t, 1, f.Calls())
}

func TestRegistryUnknownSource(t *testing.T) {
	reg := NewRegistry(NewRetryPolicy(1, 0))
	reg.Register(&StaticFetcher{ID: "b"})
	reg.Register(&StaticFetcher{ID: "a"})
	require.Equal(t, []string{"a", "b"}, reg.Names())

	_, err := reg.Fetch(context.Background(), "missing", Query{})
	require.ErrorIs(t, err, ErrUnknownSource)
}

func TestRetryPolicyCapsAttempts(t *testing.T) {
	calls := 0
	p := NewRetryPolicy(10, time.Millisecond)
	err := p.Do(context.Background(), "x", func(context.Context) error {
		calls++
		return &FetchError{Source: "x", Err: errors.New("connection reset")}
	})
	require.Error(t, err)
	require.Equal(t, MaxRetryAttempts, calls)
}

func TestRetryPolicyHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := NewRetryPolicy(3, time.Hour)
	err := p.Do(ctx, "x", func(context.Context) error {
		calls++
		cancel()
		return &FetchError{Source: "x", Err: errors.New("timeout")}
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestDoublingBackoff(t *testing.T) {
	require.Equal(t, time.Second, DoublingBackoff(1, time.Second))
	require.Equal(t, 2*time.Second, DoublingBackoff(2, time.Second))
	require.Equal(t, 4*time.Second, DoublingBackoff(3, time.Second))
}
