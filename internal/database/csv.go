package database

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"SkuScraper/internal/models"
)

// CSVStore keeps records in a delimited file with the models.CSVHeader header,
// the format the dataset has always been downloaded in.
type CSVStore struct {
	path string
	// mu only orders writers inside this process; other processes are not coordinated.
	mu sync.Mutex
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Append adds one row, writing the header first when the file is new or empty.
func (s *CSVStore) Append(_ context.Context, rec models.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat dataset %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(models.CSVHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(rec.Row()); err != nil {
		return fmt.Errorf("write record %s: %w", rec.SKU, err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) readAll() ([]models.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.ProductRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(models.CSVHeader)
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.ProductRecord{}, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}

	recs := []models.ProductRecord{}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		rec, err := models.RecordFromRow(row)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *CSVStore) List(_ context.Context, filters models.ProductFilters) ([]models.ProductRecord, error) {
	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return window(recs, filters), nil
}

func (s *CSVStore) Count(_ context.Context) (int, error) {
	recs, err := s.readAll()
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (s *CSVStore) Close() error { return nil }
