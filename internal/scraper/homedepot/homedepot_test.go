package homedepot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SkuScraper/internal/marketplace"
	"SkuScraper/internal/models"
	"SkuScraper/internal/scraper/fetch"
	"SkuScraper/pkg/config"
)

const hammerPage = `<html><body>
	<h1 class="product-name">Hammer</h1>
	<div class="product-description">16 oz steel claw hammer</div>
	<p class="product-price">$19.99</p>
	<p>3 disponibles</p>
</body></html>`

const searchResultsPage = `<html><body>
	<a href="/c/herramientas">Herramientas</a>
	<a href="/p/hammer-12345">Hammer</a>
</body></html>`

var fixedNow = time.Date(2024, 5, 17, 9, 30, 0, 0, time.Local)

// storefront serves /s/12345 as a result list, /s/redirect as the product itself,
// /s/none with no results and /p/hammer-12345 as the product page.
func storefront(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	html := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(body))
		}
	}
	mux.HandleFunc("/s/12345", html(searchResultsPage))
	mux.HandleFunc("/s/redirect", html(hammerPage))
	mux.HandleFunc("/s/none", html(`<html><body><p>Sin resultados</p></body></html>`))
	mux.HandleFunc("/p/hammer-12345", html(hammerPage))
	mux.HandleFunc("/p/12345", html(hammerPage))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func marketplaceAPI(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestScraper(t *testing.T, storeURL, marketURL, mode string) *HomeDepotScraper {
	t.Helper()
	conf := config.Default().Storefront
	conf.BaseURL = storeURL
	conf.Timeouts.Request = 5 * time.Second

	s := New(
		fetch.New("", conf.Timeouts.Request),
		marketplace.NewResolver(marketURL, "", time.Second),
		mode,
		conf,
	)
	s.Now = func() time.Time { return fixedNow }
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestScrapeProductEndToEnd(t *testing.T) {
	store := storefront(t)
	market := marketplaceAPI(t, http.StatusOK, `{"results":[{"id":"MLM999"}]}`)
	s := newTestScraper(t, store.URL, market.URL, config.LocatorSearch)

	rec, err := s.ScrapeProduct(context.Background(), "12345")
	if err != nil {
		t.Fatalf("ScrapeProduct: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}

	if rec.SKU != "12345" || rec.Name != "Hammer" || rec.Price != "$19.99" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Description != "16 oz steel claw hammer" {
		t.Errorf("Description = %q", rec.Description)
	}
	if !rec.StockAvailable.Known() || *rec.StockAvailable.Count != 3 {
		t.Errorf("StockAvailable = %q; want 3", rec.StockAvailable.String())
	}
	if rec.ItemID == nil || *rec.ItemID != "MLM999" {
		t.Errorf("ItemID = %v; want MLM999", rec.ItemID)
	}
	if rec.URL != store.URL+"/p/hammer-12345" {
		t.Errorf("URL = %q", rec.URL)
	}
	if rec.LastUpdated != "2024-05-17 09:30:00" {
		t.Errorf("LastUpdated = %q", rec.LastUpdated)
	}
}

func TestScrapeProductSearchRedirect(t *testing.T) {
	store := storefront(t)
	market := marketplaceAPI(t, http.StatusOK, `{"results":[]}`)
	s := newTestScraper(t, store.URL, market.URL, config.LocatorSearch)

	rec, err := s.ScrapeProduct(context.Background(), "redirect")
	if err != nil || rec == nil {
		t.Fatalf("ScrapeProduct = %v, %v", rec, err)
	}
	if rec.Name != "Hammer" || rec.URL != store.URL+"/s/redirect" {
		t.Errorf("record = %+v", rec)
	}
	if rec.ItemID != nil {
		t.Errorf("ItemID = %q; want none for empty results", *rec.ItemID)
	}
}

func TestScrapeProductNotFound(t *testing.T) {
	store := storefront(t)
	var marketCalls int
	market := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		marketCalls++
		_, _ = w.Write([]byte(`{"results":[{"id":"MLM1"}]}`))
	}))
	defer market.Close()
	s := newTestScraper(t, store.URL, market.URL, config.LocatorSearch)

	rec, err := s.ScrapeProduct(context.Background(), "none")
	if err != nil || rec == nil {
		t.Fatalf("ScrapeProduct = %v, %v", rec, err)
	}
	if rec.SKU != "none" || rec.Name != models.NotFound {
		t.Errorf("record = %+v", rec)
	}
	if rec.Description != "" || rec.Price != "" || rec.StockAvailable.String() != "" {
		t.Errorf("expected empty fields, got %+v", rec)
	}
	if rec.URL != store.URL+"/s/none" {
		t.Errorf("URL = %q; want the search URL", rec.URL)
	}
	if rec.ItemID != nil || marketCalls != 0 {
		t.Errorf("not-found path must not resolve an item id (calls=%d)", marketCalls)
	}
}

func TestScrapeProductDirect(t *testing.T) {
	store := storefront(t)
	market := marketplaceAPI(t, http.StatusInternalServerError, `oops`)
	s := newTestScraper(t, store.URL, market.URL, config.LocatorDirect)

	rec, err := s.ScrapeProduct(context.Background(), "12345")
	if err != nil || rec == nil {
		t.Fatalf("ScrapeProduct = %v, %v", rec, err)
	}
	if rec.SKU != "12345" || rec.URL != store.URL+"/p/12345" || rec.Name != "Hammer" {
		t.Errorf("record = %+v", rec)
	}
	if rec.ItemID != nil {
		t.Errorf("ItemID = %q; want none after a marketplace error", *rec.ItemID)
	}
}

func TestScrapeProductDirectRefused(t *testing.T) {
	store := storefront(t)
	market := marketplaceAPI(t, http.StatusOK, `{"results":[{"id":"MLM1"}]}`)
	s := newTestScraper(t, store.URL, market.URL, config.LocatorDirect)

	rec, err := s.ScrapeProduct(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("a refused page is not an error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected no record, got %+v", rec)
	}
}

func TestScrapeProductUnreachableStorefront(t *testing.T) {
	store := storefront(t)
	base := store.URL
	store.Close()

	s := newTestScraper(t, base, base, config.LocatorSearch)
	rec, err := s.ScrapeProduct(context.Background(), "12345")
	if err == nil {
		t.Fatalf("expected a connection error, got record %+v", rec)
	}
}
