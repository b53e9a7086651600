package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Placeholders written into a record when a field could not be extracted.
const (
	NotFound = "not found"
	NoName   = "no name"
)

// TimestampLayout is the format of ProductRecord.LastUpdated.
const TimestampLayout = "2006-01-02 15:04:05"

// CSVHeader is the stable column order of the dataset.
var CSVHeader = []string{
	"SKU", "Name", "Description", "Price", "Stock Available", "URL", "Last Updated", "item_id",
}

// ProductRecord is one scraped product, cross-referenced with the marketplace.
type ProductRecord struct {
	SKU            string  `json:"sku" db:"sku"`
	Name           string  `json:"name" db:"name"`
	Description    string  `json:"description" db:"description"`
	Price          string  `json:"price" db:"price"`
	StockAvailable Stock   `json:"stock_available" db:"stock_available"`
	URL            string  `json:"url" db:"url"`
	LastUpdated    string  `json:"last_updated" db:"last_updated"`
	ItemID         *string `json:"item_id" db:"item_id"`
}

// NotFoundRecord is the record produced when the search page never offered a product link.
func NotFoundRecord(sku, searchURL string, now time.Time) ProductRecord {
	return ProductRecord{
		SKU:         sku,
		Name:        NotFound,
		URL:         searchURL,
		LastUpdated: now.Format(TimestampLayout),
	}
}

// Row renders the record in CSVHeader order.
func (r ProductRecord) Row() []string {
	itemID := ""
	if r.ItemID != nil {
		itemID = *r.ItemID
	}
	return []string{
		r.SKU, r.Name, r.Description, r.Price, r.StockAvailable.String(), r.URL, r.LastUpdated, itemID,
	}
}

// RecordFromRow is the inverse of Row.
func RecordFromRow(row []string) (ProductRecord, error) {
	if len(row) != len(CSVHeader) {
		return ProductRecord{}, fmt.Errorf("expected %d columns, got %d", len(CSVHeader), len(row))
	}
	r := ProductRecord{
		SKU:            row[0],
		Name:           row[1],
		Description:    row[2],
		Price:          row[3],
		StockAvailable: ParseStock(row[4]),
		URL:            row[5],
		LastUpdated:    row[6],
	}
	if row[7] != "" {
		id := row[7]
		r.ItemID = &id
	}
	return r, nil
}

// Stock is the availability of a product: a unit count, a descriptive note, or both.
type Stock struct {
	Count *int
	Note  string
}

// StockCount is a bare unit count.
func StockCount(n int) Stock { return Stock{Count: &n} }

// StockNote is descriptive text without a count.
func StockNote(note string) Stock { return Stock{Note: note} }

// OutOfStock is a zero count annotated with the phrase that said so.
func OutOfStock(phrase string) Stock {
	zero := 0
	return Stock{Count: &zero, Note: phrase}
}

// Known reports whether the stock carries a numeric count.
func (s Stock) Known() bool { return s.Count != nil }

func (s Stock) String() string {
	switch {
	case s.Count != nil && s.Note != "":
		return fmt.Sprintf("%d (%s)", *s.Count, s.Note)
	case s.Count != nil:
		return strconv.Itoa(*s.Count)
	default:
		return s.Note
	}
}

var annotatedStockRe = regexp.MustCompile(`^(\d+) \((.*)\)$`)

// ParseStock reads back the value written by Stock.String.
func ParseStock(s string) Stock {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return StockCount(n)
	}
	if m := annotatedStockRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Stock{Count: &n, Note: m[2]}
	}
	return StockNote(s)
}

// MarshalJSON encodes a bare count as a number and anything else as text.
func (s Stock) MarshalJSON() ([]byte, error) {
	if s.Count != nil && s.Note == "" {
		return json.Marshal(*s.Count)
	}
	return json.Marshal(s.String())
}

func (s *Stock) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = StockCount(n)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("stock must be a number or a string: %w", err)
	}
	*s = ParseStock(text)
	return nil
}

// ProductFilters holds the pagination parameters for listing records.
type ProductFilters struct {
	Limit  int
	Offset int
}
