package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"SkuScraper/internal/database"
	"SkuScraper/internal/marketplace"
	"SkuScraper/internal/models"
	"SkuScraper/internal/observability"
	"SkuScraper/internal/scraper"
	"SkuScraper/internal/scraper/browser"
	"SkuScraper/internal/scraper/fetch"
	"SkuScraper/internal/scraper/homedepot"
	"SkuScraper/pkg/config"
	"SkuScraper/utils"

	"github.com/lmittmann/tint"
)

// ErrEmptySKU is returned when a task is given a blank product code.
var ErrEmptySKU = errors.New("empty product code")

// App is the main application structure holding all dependencies.
type App struct {
	Config *config.Config
	Store  database.Store

	// NewScraper builds a scraper with its own engine. Each batch worker gets one.
	NewScraper func() scraper.Scraper
}

// New loads the store selected in cfg and wires the configured engine.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := database.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	return &App{
		Config:     cfg,
		Store:      store,
		NewScraper: func() scraper.Scraper { return NewScraper(cfg) },
	}, nil
}

// NewScraper builds a storefront scraper on the engine named by cfg.Scraper.Engine.
func NewScraper(cfg *config.Config) scraper.Scraper {
	var engine scraper.Engine
	switch cfg.Scraper.Engine {
	case config.EngineHTTP:
		engine = fetch.New(cfg.Storefront.UserAgent, cfg.Storefront.Timeouts.Request)
	default:
		engine = browser.New(browser.Options{
			Headless:          cfg.Scraper.Headless,
			UserAgent:         cfg.Storefront.UserAgent,
			NavigationTimeout: cfg.Storefront.Timeouts.Request,
		})
	}
	resolver := marketplace.NewResolver(cfg.Marketplace.SearchURL, cfg.Marketplace.AccessToken, cfg.Marketplace.Timeout)
	return homedepot.New(engine, resolver, cfg.Scraper.Locator, cfg.Storefront)
}

func (a *App) Close() error {
	return a.Store.Close()
}

// scrapeAndAppend scrapes one code and appends the result. A nil record means the
// storefront refused the page and nothing was stored.
func (a *App) scrapeAndAppend(ctx context.Context, s scraper.Scraper, sku string) (*models.ProductRecord, error) {
	rec, err := s.ScrapeProduct(ctx, sku)
	if err != nil || rec == nil {
		return nil, err
	}
	if err := a.Store.Append(ctx, *rec); err != nil {
		return nil, err
	}
	observability.RecordsAppended.Inc()
	return rec, nil
}

// RunAdd scrapes a single product code with a scraper built for this call and appends its record.
func (a *App) RunAdd(ctx context.Context, sku string) (*models.ProductRecord, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, ErrEmptySKU
	}
	s := a.NewScraper()
	defer s.Close()
	return a.AddProduct(ctx, s, sku)
}

// AddProduct scrapes sku with s and appends its record, leaving s open for reuse.
// A nil record with a nil error means the storefront refused the page.
func (a *App) AddProduct(ctx context.Context, s scraper.Scraper, sku string) (*models.ProductRecord, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, ErrEmptySKU
	}
	slog.Info("--- Starting Add Task ---", "sku", sku)

	rec, err := a.scrapeAndAppend(ctx, s, sku)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", sku, err)
	}
	if rec == nil {
		slog.Warn("product page unavailable, nothing stored", "sku", sku)
		return nil, nil
	}
	slog.Info("record appended", "sku", rec.SKU, "name", rec.Name)
	return rec, nil
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Appended    int
	Unavailable int
	Failed      map[string]error
}

type batchOutcome struct {
	sku string
	rec *models.ProductRecord
	err error
}

// RunBatch scrapes every code with a pool of workers, each owning its own engine.
// Records are appended by the collecting goroutine only, so the store sees one writer.
func (a *App) RunBatch(ctx context.Context, skus []string) BatchResult {
	result := BatchResult{Failed: map[string]error{}}
	if len(skus) == 0 {
		slog.Info("no product codes given, batch finished")
		return result
	}
	slog.Info("--- Starting Batch Task ---", "codes", len(skus))

	numWorkers := utils.GetOptimalWorkerCount(a.Config.Scraper.Workers)
	if numWorkers > len(skus) {
		numWorkers = len(skus)
	}
	jobs := make(chan string, len(skus))
	results := make(chan batchOutcome, len(skus))

	var wg sync.WaitGroup
	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s := a.NewScraper()
			defer s.Close()

			for sku := range jobs {
				slog.Debug("scraping product", "worker", workerID, "sku", sku)
				rec, err := s.ScrapeProduct(ctx, sku)
				results <- batchOutcome{sku: sku, rec: rec, err: err}
			}
		}(w)
	}

	for _, sku := range skus {
		jobs <- sku
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for out := range results {
		switch {
		case out.err != nil:
			slog.Error("scrape failed", "sku", out.sku, tint.Err(out.err))
			result.Failed[out.sku] = out.err
		case out.rec == nil:
			result.Unavailable++
		default:
			if err := a.Store.Append(ctx, *out.rec); err != nil {
				slog.Error("append failed", "sku", out.sku, tint.Err(err))
				result.Failed[out.sku] = err
				continue
			}
			observability.RecordsAppended.Inc()
			result.Appended++
		}
	}

	slog.Info("--- Batch Task Finished ---",
		"appended", result.Appended, "unavailable", result.Unavailable, "failed", len(result.Failed))
	return result
}

// Export writes every stored record to w as CSV with the dataset header.
func (a *App) Export(ctx context.Context, w io.Writer) (int, error) {
	recs, err := a.Store.List(ctx, models.ProductFilters{})
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}
	if err := WriteCSV(w, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// WriteCSV renders recs under models.CSVHeader.
func WriteCSV(w io.Writer, recs []models.ProductRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range recs {
		if err := cw.Write(rec.Row()); err != nil {
			return fmt.Errorf("write record %s: %w", rec.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns one page of stored records, oldest first.
func (a *App) List(ctx context.Context, filters models.ProductFilters) ([]models.ProductRecord, error) {
	return a.Store.List(ctx, filters)
}
