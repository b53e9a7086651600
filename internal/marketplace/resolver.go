package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SkuScraper/internal/observability"

	"github.com/lmittmann/tint"
)

// searchResponse is the part of the marketplace search payload the resolver reads.
type searchResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// Resolver looks up the marketplace listing that matches a product code.
type Resolver struct {
	SearchURL   string
	AccessToken string
	HttpClient  *http.Client
}

// NewResolver creates a resolver against searchURL (e.g. https://api.mercadolibre.com/sites/MLM/search).
func NewResolver(searchURL, accessToken string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		SearchURL:   searchURL,
		AccessToken: accessToken,
		HttpClient:  &http.Client{Timeout: timeout},
	}
}

// Resolve returns the id of the first search result for query.
// Any failure is logged and reported as no match.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, bool) {
	id, err := r.lookup(ctx, query)
	switch {
	case err != nil:
		slog.Warn("marketplace lookup failed", "query", query, tint.Err(err))
		observability.MarketplaceLookups.WithLabelValues("error").Inc()
		return "", false
	case id == "":
		slog.Info("no marketplace listing matched", "query", query)
		observability.MarketplaceLookups.WithLabelValues("miss").Inc()
		return "", false
	default:
		observability.MarketplaceLookups.WithLabelValues("hit").Inc()
		return id, true
	}
}

func (r *Resolver) lookup(ctx context.Context, query string) (string, error) {
	u, err := url.Parse(r.SearchURL)
	if err != nil {
		return "", fmt.Errorf("invalid search url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.AccessToken)
	}

	resp, err := r.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("could not decode search response: %w", err)
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return strings.TrimSpace(result.Results[0].ID), nil
}
