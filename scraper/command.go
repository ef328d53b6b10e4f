package scraper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"redfin-harness/models"
	"redfin-harness/utils"
)

// Command runs the external scraper as a subprocess:
//
//	<path> <args...> <mode> [--cache] <url>...
//
// and reads a JSON array of records from its stdout.
type Command struct {
	Path   string
	Args   []string
	Logger *utils.Logger
}

// NewCommand splits a command line such as "python -m redfin_cli" into a
// Command.
func NewCommand(cmdline string, logger *utils.Logger) (*Command, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, fmt.Errorf("scraper: empty command")
	}
	return &Command{Path: fields[0], Args: fields[1:], Logger: logger}, nil
}

func (c *Command) ScrapeForSale(ctx context.Context, urls []string, opts Options) (models.Batch, error) {
	return c.run(ctx, models.ModeSale, urls, opts)
}

func (c *Command) ScrapeForRent(ctx context.Context, urls []string, opts Options) (models.Batch, error) {
	return c.run(ctx, models.ModeRent, urls, opts)
}

func (c *Command) ScrapeSearch(ctx context.Context, url string, opts Options) (models.Batch, error) {
	return c.run(ctx, models.ModeSearch, []string{url}, opts)
}

func (c *Command) run(ctx context.Context, mode models.Mode, urls []string, opts Options) (models.Batch, error) {
	args := append([]string{}, c.Args...)
	args = append(args, string(mode))
	if opts.Cache {
		args = append(args, "--cache")
	}
	args = append(args, urls...)

	if c.Logger != nil {
		c.Logger.Debug("[scraper] exec %s %s (%d urls)", c.Path, mode, len(urls))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("scraper command %s %s: %w: %s", c.Path, mode, err, msg)
		}
		return nil, fmt.Errorf("scraper command %s %s: %w", c.Path, mode, err)
	}

	records, err := DecodeBatch(&stdout)
	if err != nil {
		return nil, fmt.Errorf("scraper command %s %s: %w", c.Path, mode, err)
	}
	return records, nil
}
