package harness

import (
	"context"
	"fmt"
	"time"

	"redfin-harness/models"
	"redfin-harness/schema"
	"redfin-harness/scraper"
	"redfin-harness/utils"
)

// Harness invokes the scraper and validates its batches.
type Harness struct {
	scraper scraper.Scraper
	opts    scraper.Options
	logger  *utils.Logger
}

// New creates a Harness that passes opts to every scrape call.
func New(s scraper.Scraper, opts scraper.Options, logger *utils.Logger) *Harness {
	if logger == nil {
		logger = utils.Discard()
	}
	return &Harness{scraper: s, opts: opts, logger: logger}
}

// Run scrapes urls in the given mode and validates every record against s
// (the mode's listing schema when s is nil).
//
// A failing scrape returns an *UpstreamError and no result. Otherwise the
// result carries the verdict; use BatchResult.Err to turn it into an error.
func (h *Harness) Run(ctx context.Context, mode models.Mode, urls []string, s *schema.Schema) (*BatchResult, error) {
	return h.run(ctx, mode, urls, s, mode.MinCount())
}

// RunCase runs one suite case with its own minimum count.
func (h *Harness) RunCase(ctx context.Context, c Case) (*BatchResult, error) {
	return h.run(ctx, c.Mode, c.URLs, nil, c.minCount())
}

func (h *Harness) run(ctx context.Context, mode models.Mode, urls []string, s *schema.Schema, minCount int) (*BatchResult, error) {
	if err := checkInput(mode, urls); err != nil {
		return nil, err
	}
	if s == nil {
		var err error
		if s, err = schema.ForMode(mode); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	h.logger.Info("[harness] Scraping %s, %d url(s), cache=%t", mode, len(urls), h.opts.Cache)
	start := time.Now()

	records, err := scraper.Scrape(ctx, h.scraper, mode, urls, h.opts)
	if err != nil {
		h.logger.Error("[harness] %s scrape failed after %v: %v", mode, time.Since(start).Round(time.Millisecond), err)
		return nil, &UpstreamError{Mode: mode, Err: err}
	}

	res := validateBatch(mode, urls, records, s, minCount)

	if len(res.Failures) > 0 {
		h.logger.Warn("[harness] %s: %d/%d records failed validation", mode, len(res.Failures), res.Count)
	}
	if !res.CountOK() {
		h.logger.Warn("[harness] %s: got %d records, want at least %d", mode, res.Count, res.MinCount)
	}
	h.logger.Info("[harness] %s done in %v: %d records, passed=%t",
		mode, time.Since(start).Round(time.Millisecond), res.Count, res.Passed())

	return res, nil
}

func checkInput(mode models.Mode, urls []string) error {
	switch mode {
	case models.ModeSale, models.ModeRent, models.ModeSearch:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, mode)
	}
	if len(urls) == 0 {
		return fmt.Errorf("%w: %s needs at least one url", ErrInvalidInput, mode)
	}
	if mode == models.ModeSearch && len(urls) != 1 {
		return fmt.Errorf("%w: search takes exactly one query url, got %d", ErrInvalidInput, len(urls))
	}
	for i, u := range urls {
		if u == "" {
			return fmt.Errorf("%w: url %d is empty", ErrInvalidInput, i)
		}
	}
	return nil
}

// Outcome is the result of one suite case.
type Outcome struct {
	Case      Case
	Result    *BatchResult
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// Failed reports whether the case errored or its batch did not pass.
func (o *Outcome) Failed() bool {
	return o.Err != nil || o.Result == nil || !o.Result.Passed()
}

// RunSuite runs every case on pool and returns outcomes in case order.
// Cases are independent; each owns its batch.
func (h *Harness) RunSuite(ctx context.Context, suite *Suite, pool *utils.WorkerPool) []*Outcome {
	if pool == nil {
		pool = utils.NewWorkerPool(1, 0)
	}

	outcomes := make([]*Outcome, len(suite.Cases))
	for i, c := range suite.Cases {
		i, c := i, c
		pool.Submit(func() {
			o := &Outcome{Case: c, StartedAt: time.Now()}
			o.Result, o.Err = h.RunCase(ctx, c)
			o.Duration = time.Since(o.StartedAt)
			outcomes[i] = o
		})
	}
	pool.Wait()

	return outcomes
}
