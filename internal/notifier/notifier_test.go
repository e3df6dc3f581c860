package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MarketBulletin/internal/collector"
	"MarketBulletin/internal/recorder"
	"MarketBulletin/internal/report"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func testNotifier(url string) *TelegramNotifier {
	return &TelegramNotifier{BotToken: "tok", ChatID: "42", APIBase: url, Client: resty.New()}
}

func TestSend(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, testNotifier(srv.URL).Send(context.Background(), "<b>hi</b>"))
	require.Equal(t, "/bottok/sendMessage", path)
	require.Equal(t, "42", got["chat_id"])
	require.Equal(t, "HTML", got["parse_mode"])
	require.Equal(t, "<b>hi</b>", got["text"])
}

func TestSendWithRetryRecovers(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, testNotifier(srv.URL).SendWithRetry(context.Background(), "x", 2))
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestSendWithRetryHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := testNotifier(srv.URL).SendWithRetry(ctx, "x", 3)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestFormatRunSummary(t *testing.T) {
	start := time.Date(2024, 3, 6, 8, 30, 0, 0, time.UTC)
	sum := &report.Summary{
		StartedAt:  start,
		FinishedAt: start.Add(42 * time.Second),
		Results: []report.Result{
			{Section: "gold", Title: "Gold rates", OK: true, Summary: "gold 24K ₹7,245.00"},
			{Section: "fii-dii", Title: "FII / DII flows", Err: &collector.FetchError{Source: "groww-fii-dii", Status: 404, Err: collector.ErrHTTPStatus}},
		},
	}
	msg := FormatRunSummary(sum)
	require.Contains(t, msg, "06 Mar 2024")
	require.Contains(t, msg, "✅ Gold rates: gold 24K ₹7,245.00")
	require.Contains(t, msg, "❌ FII / DII flows (fetch)")
	require.True(t, strings.HasSuffix(msg, "<b>1 / 2 sections executed successfully</b> in 42s"))
}

func TestFormatLastRun(t *testing.T) {
	run := &recorder.RunRecord{ID: 7, StartedAt: time.Date(2024, 3, 6, 8, 30, 0, 0, time.UTC), Total: 2, Succeeded: 1}
	msg := FormatLastRun(run, []recorder.SectionRecord{
		{Section: "gold", OK: true, Artifacts: []string{"a.txt", "a.png"}},
		{Section: "silver", ErrorKind: "parse"},
	})
	require.Contains(t, msg, "Last run #7")
	require.Contains(t, msg, "✅ gold (2 files)")
	require.Contains(t, msg, "❌ silver: parse")
	require.Contains(t, msg, "1 / 2 sections executed successfully")
}

func TestFormatSections(t *testing.T) {
	msg := FormatSections(report.DefaultSections())
	require.Contains(t, msg, "<code>nifty-summary</code>")
	require.Contains(t, msg, "<code>daily-digest</code>")
}
