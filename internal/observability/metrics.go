package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ScrapeResults counts ScrapeProduct outcomes: found, not_found, unavailable, error.
	ScrapeResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sku_scrape_results_total",
			Help: "Product scrapes by outcome",
		},
		[]string{"outcome"},
	)

	// MarketplaceLookups counts identifier lookups: hit, miss, error.
	MarketplaceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_lookups_total",
			Help: "Marketplace identifier lookups by result",
		},
		[]string{"result"},
	)

	RecordsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_records_appended_total",
			Help: "Records appended to the dataset",
		},
	)

	registerOnce sync.Once
)

// Handler registers the collectors on first use and serves them.
func Handler() http.Handler {
	registerOnce.Do(func() {
		prometheus.MustRegister(ScrapeResults, MarketplaceLookups, RecordsAppended)
	})
	return promhttp.Handler()
}
