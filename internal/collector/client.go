package collector

import (
	"bytes"
	"context"
	"net/http/cookiejar"

	"MarketBulletin/internal/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// NewClient builds a resty client for one source: timeout, headers, proxy
// and a cookie jar so warm-up requests can seed session cookies.
func NewClient(src config.SourceConfig, userAgent, proxy string) *resty.Client {
	c := resty.New().
		SetTimeout(src.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9")
	if len(src.Headers) > 0 {
		c.SetHeaders(src.Headers)
	}
	if jar, err := cookiejar.New(nil); err == nil {
		c.SetCookieJar(jar)
	}
	if proxy != "" {
		c.SetProxy(proxy)
	}
	return c
}

func get(ctx context.Context, c *resty.Client, source, url string) ([]byte, error) {
	res, err := c.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &FetchError{Source: source, URL: url, Err: err}
	}
	if res.IsError() {
		return nil, &FetchError{Source: source, URL: url, Status: res.StatusCode(), Err: ErrHTTPStatus}
	}
	return res.Body(), nil
}

func getDocument(ctx context.Context, c *resty.Client, source, url string) (*goquery.Document, error) {
	body, err := get(ctx, c, source, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, &FetchError{Source: source, URL: url, Err: ErrDecode}
	}
	return doc, nil
}

// warmUp visits a landing page so the jar holds the cookies the data
// endpoint expects. Failure is logged and otherwise ignored.
func warmUp(ctx context.Context, c *resty.Client, source, url string) {
	if url == "" {
		return
	}
	if _, err := get(ctx, c, source, url); err != nil {
		zap.L().Warn("warm-up request failed", zap.String("source", source), zap.Error(err))
	}
}
