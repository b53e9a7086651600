package database

import (
	"context"
	"fmt"
	"log/slog"

	"SkuScraper/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the dataset in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const createRecordsTablePG = `
	CREATE TABLE IF NOT EXISTS product_records (
		id BIGSERIAL PRIMARY KEY,
		sku TEXT NOT NULL,
		name TEXT,
		description TEXT,
		price TEXT,
		stock_available TEXT,
		url TEXT,
		last_updated TEXT,
		item_id TEXT
	)`

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createRecordsTablePG); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create product_records table: %w", err)
	}
	slog.Info("postgres dataset initialized")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Append(ctx context.Context, rec models.ProductRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO product_records (
			sku, name, description, price, stock_available, url, last_updated, item_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.SKU, rec.Name, rec.Description, rec.Price, rec.StockAvailable.String(),
		rec.URL, rec.LastUpdated, rec.ItemID,
	)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", rec.SKU, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filters models.ProductFilters) ([]models.ProductRecord, error) {
	var limit *int
	if filters.Limit > 0 {
		limit = &filters.Limit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT sku, name, description, price, stock_available, url, last_updated, item_id
		FROM product_records
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`, limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	recs := []models.ProductRecord{}
	for rows.Next() {
		var (
			rec   models.ProductRecord
			stock string
		)
		if err := rows.Scan(&rec.SKU, &rec.Name, &rec.Description, &rec.Price, &stock, &rec.URL, &rec.LastUpdated, &rec.ItemID); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.StockAvailable = models.ParseStock(stock)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM product_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
