// Package scraper defines the contract of the external Redfin scraper and the
// transports the harness uses to reach it. None of them talks to redfin.com
// directly: request construction, parsing and caching all happen inside the
// external scraper.
package scraper

import (
	"context"
	"fmt"

	"redfin-harness/config"
	"redfin-harness/models"
	"redfin-harness/utils"
)

// Options are passed with every scrape call.
type Options struct {
	// Cache lets the scraper memoize network responses.
	Cache bool `json:"cache"`
}

// Scraper is the external scraping collaborator. Each call blocks until the
// whole batch is available.
type Scraper interface {
	ScrapeForSale(ctx context.Context, urls []string, opts Options) (models.Batch, error)
	ScrapeForRent(ctx context.Context, urls []string, opts Options) (models.Batch, error)
	ScrapeSearch(ctx context.Context, url string, opts Options) (models.Batch, error)
}

// Scrape dispatches to the operation matching mode. Search uses urls[0].
func Scrape(ctx context.Context, s Scraper, mode models.Mode, urls []string, opts Options) (models.Batch, error) {
	switch mode {
	case models.ModeSale:
		return s.ScrapeForSale(ctx, urls, opts)
	case models.ModeRent:
		return s.ScrapeForRent(ctx, urls, opts)
	case models.ModeSearch:
		if len(urls) == 0 {
			return nil, fmt.Errorf("scraper: search needs a query url")
		}
		return s.ScrapeSearch(ctx, urls[0], opts)
	}
	return nil, fmt.Errorf("scraper: unknown mode %q", mode)
}

// New picks the transport configured in cfg: a command, then a service URL,
// then a replay directory.
func New(cfg *config.Config, logger *utils.Logger) (Scraper, error) {
	if !cfg.HasScraper() {
		return nil, fmt.Errorf("scraper: none configured (set SCRAPER_CMD, SCRAPER_URL or SCRAPER_REPLAY_DIR)")
	}
	switch {
	case cfg.ScraperCommand != "":
		return NewCommand(cfg.ScraperCommand, logger)
	case cfg.ScraperURL != "":
		return NewRemote(cfg.ScraperURL, nil, logger), nil
	}
	return NewReplay(cfg.ScraperReplayDir, logger), nil
}
