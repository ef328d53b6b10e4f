package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all harness configuration loaded from environment variables.
type Config struct {
	// Exactly one scraper transport is used, checked in this order.
	ScraperCommand   string
	ScraperURL       string
	ScraperReplayDir string
	Cache            bool

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	SuitePath string

	ReportDriver     string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	SQLitePath       string
	CSVOutputPath    string
}

// Load reads the .env file, if any, and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		ScraperCommand:   getEnv("SCRAPER_CMD", ""),
		ScraperURL:       strings.TrimRight(getEnv("SCRAPER_URL", ""), "/"),
		ScraperReplayDir: getEnv("SCRAPER_REPLAY_DIR", ""),
		Cache:            getEnvBool("SCRAPER_CACHE", true),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 1),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		SuitePath: getEnv("SUITE_PATH", ""),

		ReportDriver:     strings.ToLower(getEnv("REPORT_DRIVER", "")),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "harness"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "harness"),
		PostgresDB:       getEnv("POSTGRES_DB", "redfin_harness"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getEnv("SQLITE_PATH", "./output/harness.db"),
		CSVOutputPath:    getEnv("CSV_OUTPUT_PATH", ""),
	}
}

// DSN returns the connection string for the configured report driver.
func (c *Config) DSN() string {
	if c.ReportDriver == "sqlite3" {
		return c.SQLitePath
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// HasScraper reports whether any scraper transport is configured.
func (c *Config) HasScraper() bool {
	return c.ScraperCommand != "" || c.ScraperURL != "" || c.ScraperReplayDir != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
