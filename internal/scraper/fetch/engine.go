package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"SkuScraper/internal/scraper"

	"github.com/gocolly/colly/v2"
)

// Engine downloads storefront pages over plain HTTP.
type Engine struct {
	// parent collector, cloned for every request
	collector *colly.Collector
}

var _ scraper.Engine = (*Engine)(nil)

// New creates an engine that identifies itself with userAgent and gives up on a request after timeout.
func New(userAgent string, timeout time.Duration) *Engine {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	)
	if userAgent != "" {
		c.UserAgent = userAgent
	}
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}
	return &Engine{collector: c}
}

// Open fetches url once. Statuses outside 2xx come back as *scraper.StatusError.
func (e *Engine) Open(ctx context.Context, url string) (scraper.Page, error) {
	collector := e.collector.Clone()
	collector.Context = ctx

	var (
		body     []byte
		finalURL string
		status   int
	)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "es-MX,es;q=0.9")
		slog.Debug("fetching storefront page", "url", r.URL.String())
	})

	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		finalURL = r.Request.URL.String()
		body = r.Body
	})

	if err := collector.Visit(url); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if status < 200 || status > 299 {
		return nil, &scraper.StatusError{URL: url, StatusCode: status}
	}

	return NewPage(finalURL, bytes.NewReader(body))
}

// Close is a no-op; the engine holds no connections of its own.
func (e *Engine) Close() error { return nil }
