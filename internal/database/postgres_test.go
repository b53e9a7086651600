package database

import (
	"context"
	"os"
	"testing"
)

// Runs against a throwaway database named by TEST_DATABASE_URL.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	defer store.Close()
	if _, err := store.pool.Exec(ctx, "TRUNCATE product_records"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	exerciseStore(t, store)
}
