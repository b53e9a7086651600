package homedepot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"SkuScraper/internal/models"
	"SkuScraper/internal/observability"
	"SkuScraper/internal/scraper"
	"SkuScraper/pkg/config"
)

// IdentifierResolver finds the marketplace listing matching a query.
type IdentifierResolver interface {
	Resolve(ctx context.Context, query string) (string, bool)
}

// HomeDepotScraper scrapes one product per call. Calls are serialized because the
// engine behind it drives a single page.
type HomeDepotScraper struct {
	mu        sync.Mutex
	engine    scraper.Engine
	locator   *Locator
	extractor *Extractor
	resolver  IdentifierResolver

	// Now stamps LastUpdated; replaceable in tests.
	Now func() time.Time
}

var _ scraper.Scraper = (*HomeDepotScraper)(nil)

// New wires a scraper around engine. resolver may be nil, in which case no record gets an item id.
func New(engine scraper.Engine, resolver IdentifierResolver, locatorMode string, conf config.StorefrontConfig) *HomeDepotScraper {
	sel := DefaultSelectors()
	return &HomeDepotScraper{
		engine:    engine,
		locator:   NewLocator(engine, locatorMode, conf, sel),
		extractor: NewExtractor(sel),
		resolver:  resolver,
		Now:       time.Now,
	}
}

// ScrapeProduct runs locate, extract, resolve and assemble for sku.
// A page the storefront refuses yields (nil, nil); a code with no search result
// yields the not-found record.
func (s *HomeDepotScraper) ScrapeProduct(ctx context.Context, sku string) (*models.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.locator.Locate(ctx, sku)
	var statusErr *scraper.StatusError
	switch {
	case errors.As(err, &statusErr):
		slog.Warn("storefront refused product page", "sku", sku, "url", statusErr.URL, "status", statusErr.StatusCode)
		observability.ScrapeResults.WithLabelValues("unavailable").Inc()
		return nil, nil
	case err != nil:
		observability.ScrapeResults.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("locate product %s: %w", sku, err)
	case !loc.Found:
		observability.ScrapeResults.WithLabelValues("not_found").Inc()
		rec := models.NotFoundRecord(sku, loc.SearchURL, s.Now())
		return &rec, nil
	}

	fields := s.extractor.Extract(ctx, loc.Page)
	slog.Info("extracted product fields", "sku", sku, "name", fields.Name, "price", fields.Price, "stock", fields.Stock.String())

	var (
		itemID  string
		matched bool
	)
	if s.resolver != nil {
		itemID, matched = s.resolver.Resolve(ctx, sku)
	}

	observability.ScrapeResults.WithLabelValues("found").Inc()
	rec := Assemble(sku, fields, loc.Page.URL(), itemID, matched, s.Now())
	return &rec, nil
}

func (s *HomeDepotScraper) Close() error {
	return s.engine.Close()
}
