package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
scraper:
  engine: http
  locator: direct
storefront:
  timeouts:
    search: 3s
storage:
  driver: sqlite
  path: records.db
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Scraper.Engine != EngineHTTP || cfg.Scraper.Locator != LocatorDirect {
		t.Errorf("engine/locator = %q/%q", cfg.Scraper.Engine, cfg.Scraper.Locator)
	}
	if cfg.Storefront.Timeouts.Search != 3*time.Second {
		t.Errorf("search timeout = %v; want 3s", cfg.Storefront.Timeouts.Search)
	}
	if cfg.Storefront.Timeouts.Redirect != 5*time.Second {
		t.Errorf("redirect timeout default lost: %v", cfg.Storefront.Timeouts.Redirect)
	}
	if cfg.Storefront.BaseURL != "https://www.homedepot.com.mx" {
		t.Errorf("base url default lost: %q", cfg.Storefront.BaseURL)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.Path != "records.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Driver != DriverCSV || cfg.Storage.Path != "products.csv" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SCRAPER_ENGINE", "http")
	t.Setenv("MARKETPLACE_ACCESS_TOKEN", "secret")

	cfg, err := LoadConfig(writeConfig(t, "scraper:\n  engine: browser\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Scraper.Engine != EngineHTTP {
		t.Errorf("engine = %q; want env override", cfg.Scraper.Engine)
	}
	if cfg.Marketplace.AccessToken != "secret" {
		t.Errorf("access token = %q", cfg.Marketplace.AccessToken)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Unknown Engine", func(c *Config) { c.Scraper.Engine = "selenium" }},
		{"Unknown Locator", func(c *Config) { c.Scraper.Locator = "guess" }},
		{"Unknown Driver", func(c *Config) { c.Storage.Driver = "excel" }},
		{"Postgres Without DSN", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"CSV Without Path", func(c *Config) { c.Storage.Path = "" }},
		{"Search Path Without Verb", func(c *Config) { c.Storefront.SearchPath = "/s/" }},
		{"Search Path Two Verbs", func(c *Config) { c.Storefront.SearchPath = "/s/%s/%s" }},
		{"Product Path Wrong Verb", func(c *Config) { c.Storefront.ProductPath = "/p/%d" }},
		{"Product Path Extra Percent", func(c *Config) { c.Storefront.ProductPath = "/p/%s?off=10%" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidatePathTemplates(t *testing.T) {
	cfg := Default()
	cfg.Storefront.SearchPath = "/buscar?q=%s"
	cfg.Storefront.ProductPath = "/producto/%s.html"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid templates rejected: %v", err)
	}
}
