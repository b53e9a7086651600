package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"SkuScraper/internal/models"

	_ "modernc.org/sqlite"
)

// DBRepository is a layer around the SQLite connection.
type DBRepository struct {
	DB *sql.DB
}

// No UNIQUE constraint on sku: repeated scrapes of one code are separate rows.
const createRecordsTableSQL = `
	CREATE TABLE IF NOT EXISTS product_records (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"sku" TEXT NOT NULL,
		"name" TEXT,
		"description" TEXT,
		"price" TEXT,
		"stock_available" TEXT,
		"url" TEXT,
		"last_updated" TEXT,
		"item_id" TEXT
	);`

// InitDB opens (or creates) the SQLite dataset at filepath.
func InitDB(ctx context.Context, filepath string) (*DBRepository, error) {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", filepath, err)
	}
	// One writer at a time; sqlite serializes them anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", filepath, err)
	}
	if _, err := db.ExecContext(ctx, createRecordsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create product_records table: %w", err)
	}

	slog.Info("sqlite dataset initialized", "path", filepath)
	return &DBRepository{DB: db}, nil
}

func (repo *DBRepository) Close() error {
	return repo.DB.Close()
}

// Append inserts one record.
func (repo *DBRepository) Append(ctx context.Context, rec models.ProductRecord) error {
	_, err := repo.DB.ExecContext(ctx, `
		INSERT INTO product_records (
			sku, name, description, price, stock_available, url, last_updated, item_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SKU, rec.Name, rec.Description, rec.Price, rec.StockAvailable.String(),
		rec.URL, rec.LastUpdated, rec.ItemID,
	)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", rec.SKU, err)
	}
	return nil
}

// List returns stored records oldest first.
func (repo *DBRepository) List(ctx context.Context, filters models.ProductFilters) ([]models.ProductRecord, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := repo.DB.QueryContext(ctx, `
		SELECT sku, name, description, price, stock_available, url, last_updated, item_id
		FROM product_records
		ORDER BY id ASC
		LIMIT ? OFFSET ?`, limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	recs := []models.ProductRecord{}
	for rows.Next() {
		var (
			rec    models.ProductRecord
			stock  string
			itemID sql.NullString
		)
		if err := rows.Scan(&rec.SKU, &rec.Name, &rec.Description, &rec.Price, &stock, &rec.URL, &rec.LastUpdated, &itemID); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.StockAvailable = models.ParseStock(stock)
		if itemID.Valid {
			id := itemID.String
			rec.ItemID = &id
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Count returns the number of stored records.
func (repo *DBRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repo.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM product_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}
