package homedepot

import (
	"time"

	"SkuScraper/internal/models"
)

// Assemble combines the extracted fields, the page URL and the marketplace match into one record.
func Assemble(sku string, f Fields, pageURL, itemID string, matched bool, now time.Time) models.ProductRecord {
	rec := models.ProductRecord{
		SKU:            sku,
		Name:           f.Name,
		Description:    f.Description,
		Price:          f.Price,
		StockAvailable: f.Stock,
		URL:            pageURL,
		LastUpdated:    now.Format(models.TimestampLayout),
	}
	if matched {
		rec.ItemID = &itemID
	}
	return rec
}
