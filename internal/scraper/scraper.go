package scraper

import (
	"context"
	"fmt"
	"time"

	"SkuScraper/internal/models"
)

// Scraper defines the basic behavior for all storefront scrapers.
type Scraper interface {
	// ScrapeProduct locates the product page for sku and returns the assembled record.
	// It returns a nil record and a nil error when the storefront refused the page.
	ScrapeProduct(ctx context.Context, sku string) (*models.ProductRecord, error)

	// Close releases the page engine behind the scraper.
	Close() error
}

// Engine loads storefront pages. One engine serves one caller at a time.
type Engine interface {
	// Open loads url and returns the resulting page. A non-2xx response is reported
	// as a *StatusError.
	Open(ctx context.Context, url string) (Page, error)
	Close() error
}

// Page is a loaded storefront page. Lookups never fail: a missing element
// is reported through the boolean result.
type Page interface {
	// URL is the address of the page after redirects.
	URL() string

	// Text returns the trimmed text of the first element matching selector.
	Text(ctx context.Context, selector string) (string, bool)

	// WaitText is Text, but waits up to timeout for the element to appear.
	WaitText(ctx context.Context, selector string, timeout time.Duration) (string, bool)

	// WaitLink waits up to timeout for an anchor matching selector and returns its absolute href.
	WaitLink(ctx context.Context, selector string, timeout time.Duration) (string, bool)

	// SplitPrice rebuilds a price rendered as loose text nodes plus <sup> children:
	// the direct text nodes joined, then "." and the second <sup>, commas removed.
	SplitPrice(ctx context.Context, selector string) (string, bool)

	// FindText returns the trimmed text of the first element satisfying m.
	FindText(ctx context.Context, m TextMatch) (string, bool)

	// Dismiss clicks the element matching selector if it shows up within timeout.
	Dismiss(ctx context.Context, selector string, timeout time.Duration)
}

// TextMatch locates an element by the words it contains, ignoring case.
// With a Tag the first such element of that tag in document order matches.
// Without one the innermost element containing a marker matches.
type TextMatch struct {
	Tag     string
	Markers []string
}

// StatusError is a storefront response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront returned status %d for %s", e.StatusCode, e.URL)
}
