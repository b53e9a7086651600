package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported values for the engine, locator and storage switches.
const (
	EngineBrowser = "browser"
	EngineHTTP    = "http"

	LocatorSearch = "search"
	LocatorDirect = "direct"

	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ScraperConfig holds general scraper settings.
type ScraperConfig struct {
	Engine   string `yaml:"engine"`
	Locator  string `yaml:"locator"`
	Workers  string `yaml:"workers"`
	Headless bool   `yaml:"headless"`
}

// Timeouts bound every wait the locator performs.
type Timeouts struct {
	Redirect time.Duration `yaml:"redirect"`
	Search   time.Duration `yaml:"search"`
	Product  time.Duration `yaml:"product"`
	Overlay  time.Duration `yaml:"overlay"`
	Request  time.Duration `yaml:"request"`
}

// StorefrontConfig holds settings specific to the storefront being scraped.
type StorefrontConfig struct {
	BaseURL     string   `yaml:"base_url"`
	SearchPath  string   `yaml:"search_path"`
	ProductPath string   `yaml:"product_path"`
	UserAgent   string   `yaml:"user_agent"`
	Timeouts    Timeouts `yaml:"timeouts"`
}

// MarketplaceConfig points the identifier resolver at the marketplace search API.
type MarketplaceConfig struct {
	SearchURL   string        `yaml:"search_url"`
	AccessToken string        `yaml:"access_token"`
	Timeout     time.Duration `yaml:"timeout"`
}

// StorageConfig selects where records are appended.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port   string `yaml:"port"`
	ApiKey string `yaml:"api_key"`
	// AllowedOrigins enables CORS for browser front-ends; empty disables it.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Scraper     ScraperConfig     `yaml:"scraper"`
	Storefront  StorefrontConfig  `yaml:"storefront"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Storage     StorageConfig     `yaml:"storage"`
	Server      ServerConfig      `yaml:"server"`
	LogLevel    string            `yaml:"log_level"`
}

// Default returns the configuration used for every key config.yml leaves out.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Engine:   EngineBrowser,
			Locator:  LocatorSearch,
			Workers:  "auto",
			Headless: true,
		},
		Storefront: StorefrontConfig{
			BaseURL:     "https://www.homedepot.com.mx",
			SearchPath:  "/s/%s",
			ProductPath: "/p/%s",
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Timeouts: Timeouts{
				Redirect: 5 * time.Second,
				Search:   10 * time.Second,
				Product:  8 * time.Second,
				Overlay:  2 * time.Second,
				Request:  30 * time.Second,
			},
		},
		Marketplace: MarketplaceConfig{
			SearchURL: "https://api.mercadolibre.com/sites/MLM/search",
			Timeout:   10 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverCSV,
			Path:   "products.csv",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		LogLevel: "info",
	}
}

// LoadConfig reads config.yml on top of the defaults, then applies overrides from
// the environment (and a .env file when one exists). A missing config file is not an error.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", filepath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", filepath, err)
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Scraper.Engine, "SCRAPER_ENGINE")
	setFromEnv(&c.Scraper.Locator, "SCRAPER_LOCATOR")
	setFromEnv(&c.Marketplace.AccessToken, "MARKETPLACE_ACCESS_TOKEN")
	setFromEnv(&c.Storage.Driver, "STORAGE_DRIVER")
	setFromEnv(&c.Storage.DSN, "DATABASE_URL")
	setFromEnv(&c.Server.ApiKey, "SERVER_API_KEY")
	setFromEnv(&c.LogLevel, "LOG_LEVEL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects switches the application does not know how to build.
func (c *Config) Validate() error {
	switch c.Scraper.Engine {
	case EngineBrowser, EngineHTTP:
	default:
		return fmt.Errorf("unknown scraper engine %q", c.Scraper.Engine)
	}
	switch c.Scraper.Locator {
	case LocatorSearch, LocatorDirect:
	default:
		return fmt.Errorf("unknown locator %q", c.Scraper.Locator)
	}
	switch c.Storage.Driver {
	case DriverCSV, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage driver %q needs a path", c.Storage.Driver)
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage driver postgres needs a dsn (or DATABASE_URL)")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storefront.BaseURL == "" {
		return errors.New("storefront base_url is required")
	}
	if err := checkPathTemplate("search_path", c.Storefront.SearchPath); err != nil {
		return err
	}
	return checkPathTemplate("product_path", c.Storefront.ProductPath)
}

// checkPathTemplate requires exactly one %s and no other formatting verb.
func checkPathTemplate(key, path string) error {
	if strings.Count(path, "%") != 1 || !strings.Contains(path, "%s") {
		return fmt.Errorf("storefront %s %q must contain a single %%s for the product code", key, path)
	}
	return nil
}
