package config

import (
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"SCRAPER_CMD", "SCRAPER_URL", "SCRAPER_REPLAY_DIR", "SCRAPER_CACHE", "MAX_CONCURRENCY", "REPORT_DRIVER"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if !cfg.Cache {
		t.Error("cache should default to true")
	}
	if cfg.MaxConcurrency != 1 {
		t.Errorf("MaxConcurrency: got %d, want 1", cfg.MaxConcurrency)
	}
	if cfg.HasScraper() {
		t.Error("no scraper transport should be configured by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SCRAPER_URL", "http://localhost:8081/")
	t.Setenv("SCRAPER_CACHE", "false")
	t.Setenv("MAX_CONCURRENCY", "4")
	t.Setenv("RATE_LIMIT_MS", "not-a-number")

	cfg := FromEnv()
	if cfg.ScraperURL != "http://localhost:8081" {
		t.Errorf("ScraperURL: got %q, trailing slash should be trimmed", cfg.ScraperURL)
	}
	if cfg.Cache {
		t.Error("cache should be disabled")
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency: got %d, want 4", cfg.MaxConcurrency)
	}
	if cfg.RateLimitMs != 0 {
		t.Errorf("RateLimitMs: got %d, invalid value should fall back to 0", cfg.RateLimitMs)
	}
	if !cfg.HasScraper() {
		t.Error("HasScraper should be true when SCRAPER_URL is set")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		ReportDriver:     "postgres",
		PostgresHost:     "db",
		PostgresPort:     "5432",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "d",
		PostgresSSLMode:  "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=d sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}

	cfg.ReportDriver = "sqlite3"
	cfg.SQLitePath = "/tmp/h.db"
	if got := cfg.DSN(); got != "/tmp/h.db" {
		t.Errorf("sqlite DSN: got %q", got)
	}
}
