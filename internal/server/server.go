package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"

	"SkuScraper/internal/app"
	"SkuScraper/internal/models"
	"SkuScraper/internal/observability"
	"SkuScraper/internal/scraper"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lmittmann/tint"
)

const defaultPageLimit = 20

// Server exposes the dataset and the add-product operation over HTTP.
type Server struct {
	app        *app.App
	httpServer *http.Server

	// scrapeMu serializes scrapes and guards scraper, built on the first POST
	// and kept until Stop so the browser session is reused across requests.
	scrapeMu sync.Mutex
	scraper  scraper.Scraper
}

func New(a *app.App) *Server {
	s := &Server{app: a}
	s.httpServer = &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: s.Routes(),
	}
	return s
}

// Routes builds the chi router. Scraping is guarded by an API key when one is configured.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(LoggerMiddleware(slog.Default()))
	r.Use(middleware.Recoverer)
	if origins := s.app.Config.Server.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/products", s.listProducts)
	r.Get("/products.csv", s.downloadProducts)
	r.Group(func(r chi.Router) {
		if key := s.app.Config.Server.ApiKey; key != "" {
			r.Use(APIKeyMiddleware(key))
		}
		r.Post("/products/{sku}", s.addProduct)
	})
	r.Handle("/metrics", observability.Handler())
	return r
}

func (s *Server) Start() error {
	slog.Info("Starting API server", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop shuts the listener down and releases the shared scraper.
func (s *Server) Stop(ctx context.Context) error {
	slog.Info("Stopping API server")
	err := s.httpServer.Shutdown(ctx)

	s.scrapeMu.Lock()
	defer s.scrapeMu.Unlock()
	if s.scraper != nil {
		if cerr := s.scraper.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close scraper: %w", cerr)
		}
		s.scraper = nil
	}
	return err
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	page, _ := strconv.Atoi(queryParams.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(queryParams.Get("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	filters := models.ProductFilters{Limit: limit, Offset: (page - 1) * limit}

	total, err := s.app.Store.Count(r.Context())
	if err != nil {
		slog.Error("count products", tint.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to count products")
		return
	}
	products, err := s.app.List(r.Context(), filters)
	if err != nil {
		slog.Error("list products", tint.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to get products")
		return
	}

	writeJSON(w, http.StatusOK, models.ProductsResponse{
		Data: products,
		Pagination: models.Pagination{
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			CurrentPage: page,
		},
	})
}

func (s *Server) downloadProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	if _, err := s.app.Export(r.Context(), w); err != nil {
		// headers may already be sent; log only
		slog.Error("export products", tint.Err(err))
	}
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	s.scrapeMu.Lock()
	if s.scraper == nil {
		s.scraper = s.app.NewScraper()
	}
	rec, err := s.app.AddProduct(r.Context(), s.scraper, sku)
	s.scrapeMu.Unlock()

	switch {
	case errors.Is(err, app.ErrEmptySKU):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		slog.Error("add product", "sku", sku, tint.Err(err))
		writeError(w, http.StatusBadGateway, "scrape failed")
	case rec == nil:
		writeError(w, http.StatusNotFound, "product page unavailable")
	default:
		writeJSON(w, http.StatusCreated, rec)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", tint.Err(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
