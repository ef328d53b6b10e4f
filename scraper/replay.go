package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"redfin-harness/models"
	"redfin-harness/utils"
)

// Replay serves batches recorded earlier from <Dir>/<mode>.json. URLs and
// options are ignored.
type Replay struct {
	Dir    string
	Logger *utils.Logger
}

func NewReplay(dir string, logger *utils.Logger) *Replay {
	return &Replay{Dir: dir, Logger: logger}
}

func (r *Replay) ScrapeForSale(ctx context.Context, urls []string, _ Options) (models.Batch, error) {
	return r.load(ctx, models.ModeSale)
}

func (r *Replay) ScrapeForRent(ctx context.Context, urls []string, _ Options) (models.Batch, error) {
	return r.load(ctx, models.ModeRent)
}

func (r *Replay) ScrapeSearch(ctx context.Context, url string, _ Options) (models.Batch, error) {
	return r.load(ctx, models.ModeSearch)
}

func (r *Replay) load(ctx context.Context, mode models.Mode) (models.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(r.Dir, string(mode)+".json")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", mode, err)
	}
	defer f.Close()

	if r.Logger != nil {
		r.Logger.Debug("[scraper] replaying %s", path)
	}

	records, err := DecodeBatch(f)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", path, err)
	}
	return records, nil
}
