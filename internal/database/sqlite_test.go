package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"SkuScraper/pkg/config"
)

func TestSQLiteStore(t *testing.T) {
	repo, err := InitDB(context.Background(), filepath.Join(t.TempDir(), "products.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer repo.Close()

	exerciseStore(t, repo)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.db")

	repo, err := InitDB(ctx, path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := repo.Append(ctx, sampleRecord("100", "")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	repo.Close()

	repo, err = InitDB(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if n, err := repo.Count(ctx); err != nil || n != 1 {
		t.Errorf("Count after reopen = %d, %v; want 1", n, err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "excel"})
	if err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}

func TestOpenCSV(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{
		Driver: config.DriverCSV,
		Path:   filepath.Join(t.TempDir(), "productos.csv"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := store.(*CSVStore); !ok {
		t.Errorf("Open returned %T; want *CSVStore", store)
	}
}

func TestSQLiteStoreCountWrapsError(t *testing.T) {
	repo, err := InitDB(context.Background(), filepath.Join(t.TempDir(), "products.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	repo.Close()

	_, err = repo.Count(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "count records: ") {
		t.Errorf("Count on closed db = %v; want a wrapped count error", err)
	}
}
