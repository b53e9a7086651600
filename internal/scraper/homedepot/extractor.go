package homedepot

import (
	"context"
	"log/slog"

	"SkuScraper/internal/models"
	"SkuScraper/internal/scraper"
	"SkuScraper/utils"
)

// Fields are the values pulled off a product page.
type Fields struct {
	Name        string
	Description string
	Price       string
	Stock       models.Stock
}

// strategy is one way of reading a field; it reports false when it has nothing.
type strategy struct {
	label string
	read  func(ctx context.Context, page scraper.Page) (string, bool)
}

func bySelector(selector string) strategy {
	return strategy{
		label: selector,
		read: func(ctx context.Context, page scraper.Page) (string, bool) {
			text, ok := page.Text(ctx, selector)
			return text, ok && text != ""
		},
	}
}

func bySplitPrice(selector string) strategy {
	return strategy{
		label: "split-price " + selector,
		read: func(ctx context.Context, page scraper.Page) (string, bool) {
			return page.SplitPrice(ctx, selector)
		},
	}
}

// Extractor reads product fields with ordered fallback chains.
type Extractor struct {
	name        []strategy
	description []strategy
	price       []strategy
	inStock     scraper.TextMatch
	outOfStock  scraper.TextMatch
}

func NewExtractor(sel Selectors) *Extractor {
	e := &Extractor{
		name:       []strategy{bySelector(sel.Name), bySelector(sel.AnyHeading)},
		inStock:    sel.InStock,
		outOfStock: sel.OutOfStock,
	}
	for _, s := range sel.Description {
		e.description = append(e.description, bySelector(s))
	}
	for _, s := range sel.Price {
		e.price = append(e.price, bySelector(s))
	}
	if sel.SplitPrice != "" {
		e.price = append(e.price, bySplitPrice(sel.SplitPrice))
	}
	return e
}

// firstOf runs the chain in order and returns the first value found, or fallback.
func firstOf(ctx context.Context, page scraper.Page, field string, chain []strategy, fallback string) string {
	for _, s := range chain {
		if value, ok := s.read(ctx, page); ok {
			slog.Debug("extracted field", "field", field, "via", s.label)
			return value
		}
	}
	slog.Debug("field not found", "field", field)
	return fallback
}

func (e *Extractor) Name(ctx context.Context, page scraper.Page) string {
	return firstOf(ctx, page, "name", e.name, models.NoName)
}

func (e *Extractor) Description(ctx context.Context, page scraper.Page) string {
	return firstOf(ctx, page, "description", e.description, models.NotFound)
}

func (e *Extractor) Price(ctx context.Context, page scraper.Page) string {
	return firstOf(ctx, page, "price", e.price, models.NotFound)
}

// Stock prefers an "available" label, counting its units when it has any,
// then an out-of-stock phrase, reported as zero units.
func (e *Extractor) Stock(ctx context.Context, page scraper.Page) models.Stock {
	if text, ok := page.FindText(ctx, e.inStock); ok {
		if n, ok := utils.ParseStockCount(text); ok {
			return models.StockCount(n)
		}
		return models.StockNote(text)
	}
	if phrase, ok := page.FindText(ctx, e.outOfStock); ok {
		return models.OutOfStock(phrase)
	}
	return models.StockNote(models.NotFound)
}

// Extract reads every field. It never fails; missing values become placeholders.
func (e *Extractor) Extract(ctx context.Context, page scraper.Page) Fields {
	return Fields{
		Name:        e.Name(ctx, page),
		Description: e.Description(ctx, page),
		Price:       e.Price(ctx, page),
		Stock:       e.Stock(ctx, page),
	}
}
