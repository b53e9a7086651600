package homedepot

import "SkuScraper/internal/scraper"

// Selectors lists, per field, the candidates tried in order against a product page.
type Selectors struct {
	Name        string
	AnyHeading  string
	ProductLink string
	Overlay     string
	Description []string
	Price       []string
	SplitPrice  string
	InStock     scraper.TextMatch
	OutOfStock  scraper.TextMatch
}

// DefaultSelectors matches the current homedepot.com.mx markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Name:        "h1.product-name",
		AnyHeading:  "h1",
		ProductLink: "a[href*='/p/']",
		Overlay:     ".dialogStore--icon--highlightOff",
		Description: []string{
			"div.product-description",
			"div#product-description",
			"div[itemprop='description']",
			"p.MuiTypography-root",
		},
		Price: []string{
			"p.product-price",
			"span.price-format__main-price",
			"span.price",
			"div.price",
		},
		SplitPrice: "p.product-price",
		InStock:    scraper.TextMatch{Tag: "p", Markers: []string{"disponible"}},
		OutOfStock: scraper.TextMatch{Markers: []string{"agotado", "no disponible"}},
	}
}
