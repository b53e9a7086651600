package database

import (
	"context"
	"fmt"

	"SkuScraper/internal/models"
	"SkuScraper/pkg/config"
)

// Store is an append-only dataset of product records. Records are never
// updated or removed, and appending the same SKU twice keeps both rows.
type Store interface {
	Append(ctx context.Context, rec models.ProductRecord) error
	// List returns records in insertion order. A zero Limit means no limit.
	List(ctx context.Context, filters models.ProductFilters) ([]models.ProductRecord, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Open builds the store selected by conf.Driver.
func Open(ctx context.Context, conf config.StorageConfig) (Store, error) {
	switch conf.Driver {
	case config.DriverCSV:
		return NewCSVStore(conf.Path), nil
	case config.DriverSQLite:
		return InitDB(ctx, conf.Path)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, conf.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Driver)
	}
}

// window applies offset/limit pagination to an already loaded slice.
func window(recs []models.ProductRecord, filters models.ProductFilters) []models.ProductRecord {
	if filters.Offset >= len(recs) {
		return []models.ProductRecord{}
	}
	if filters.Offset > 0 {
		recs = recs[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(recs) {
		recs = recs[:filters.Limit]
	}
	return recs
}
