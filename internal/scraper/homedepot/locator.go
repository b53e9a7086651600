package homedepot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"SkuScraper/internal/scraper"
	"SkuScraper/pkg/config"
)

// Location is where the locator ended up for a product code.
type Location struct {
	// Page is the product page; nil when Found is false.
	Page  scraper.Page
	Found bool
	// SearchURL is set in search mode, whether or not a product was found.
	SearchURL string
}

// Locator finds the product page for a code, either by building its URL or by searching.
type Locator struct {
	engine scraper.Engine
	mode   string
	conf   config.StorefrontConfig
	sel    Selectors
}

func NewLocator(engine scraper.Engine, mode string, conf config.StorefrontConfig, sel Selectors) *Locator {
	return &Locator{engine: engine, mode: mode, conf: conf, sel: sel}
}

func (l *Locator) buildURL(pathFormat, sku string) string {
	return strings.TrimRight(l.conf.BaseURL, "/") + fmt.Sprintf(pathFormat, url.PathEscape(sku))
}

// Locate returns the product page for sku. A storefront status error is returned as is
// so the caller can tell a refused page from a broken connection.
func (l *Locator) Locate(ctx context.Context, sku string) (Location, error) {
	var (
		loc Location
		err error
	)
	if l.mode == config.LocatorDirect {
		loc, err = l.direct(ctx, sku)
	} else {
		loc, err = l.search(ctx, sku)
	}
	if err != nil || !loc.Found {
		return loc, err
	}

	loc.Page.Dismiss(ctx, l.sel.Overlay, l.conf.Timeouts.Overlay)
	return loc, nil
}

func (l *Locator) direct(ctx context.Context, sku string) (Location, error) {
	productURL := l.buildURL(l.conf.ProductPath, sku)
	slog.Info("opening product page", "sku", sku, "url", productURL)

	page, err := l.engine.Open(ctx, productURL)
	if err != nil {
		return Location{}, err
	}
	page.WaitText(ctx, l.sel.Name, l.conf.Timeouts.Product)
	return Location{Page: page, Found: true}, nil
}

func (l *Locator) search(ctx context.Context, sku string) (Location, error) {
	searchURL := l.buildURL(l.conf.SearchPath, sku)
	slog.Info("searching storefront", "sku", sku, "url", searchURL)

	page, err := l.engine.Open(ctx, searchURL)
	if err != nil {
		return Location{SearchURL: searchURL}, err
	}

	// The search redirects straight to the product when the code is exact.
	if _, ok := page.WaitText(ctx, l.sel.Name, l.conf.Timeouts.Redirect); ok {
		slog.Info("search redirected to product page", "sku", sku, "url", page.URL())
		return Location{Page: page, Found: true, SearchURL: searchURL}, nil
	}

	link, ok := page.WaitLink(ctx, l.sel.ProductLink, l.conf.Timeouts.Search)
	if !ok {
		slog.Warn("no product result on search page", "sku", sku, "url", searchURL)
		return Location{SearchURL: searchURL}, nil
	}

	slog.Info("opening first search result", "sku", sku, "url", link)
	page, err = l.engine.Open(ctx, link)
	if err != nil {
		return Location{SearchURL: searchURL}, err
	}
	page.WaitText(ctx, l.sel.Name, l.conf.Timeouts.Product)
	return Location{Page: page, Found: true, SearchURL: searchURL}, nil
}
