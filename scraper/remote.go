package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"redfin-harness/models"
	"redfin-harness/utils"
)

// Remote calls a scraping service over HTTP:
//
//	POST {BaseURL}/scrape/{mode}  {"urls": [...], "cache": true}
//
// The service answers with a JSON array of records.
type Remote struct {
	BaseURL string
	Client  *http.Client
	Logger  *utils.Logger
}

type remoteRequest struct {
	URLs  []string `json:"urls"`
	Cache bool     `json:"cache"`
}

// NewRemote creates a Remote. A nil client means http.DefaultClient; no
// timeout is imposed so slow scrapes are waited for.
func NewRemote(baseURL string, client *http.Client, logger *utils.Logger) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{BaseURL: strings.TrimRight(baseURL, "/"), Client: client, Logger: logger}
}

func (r *Remote) ScrapeForSale(ctx context.Context, urls []string, opts Options) (models.Batch, error) {
	return r.post(ctx, models.ModeSale, urls, opts)
}

func (r *Remote) ScrapeForRent(ctx context.Context, urls []string, opts Options) (models.Batch, error) {
	return r.post(ctx, models.ModeRent, urls, opts)
}

func (r *Remote) ScrapeSearch(ctx context.Context, url string, opts Options) (models.Batch, error) {
	return r.post(ctx, models.ModeSearch, []string{url}, opts)
}

func (r *Remote) post(ctx context.Context, mode models.Mode, urls []string, opts Options) (models.Batch, error) {
	body, err := json.Marshal(remoteRequest{URLs: urls, Cache: opts.Cache})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := r.BaseURL + "/scrape/" + string(mode)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if r.Logger != nil {
		r.Logger.Debug("[scraper] POST %s (%d urls)", endpoint, len(urls))
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", mode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scrape %s: service returned status %d: %s",
			mode, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	records, err := DecodeBatch(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", mode, err)
	}
	return records, nil
}
