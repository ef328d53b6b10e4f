package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"redfin-harness/config"
	"redfin-harness/harness"
	"redfin-harness/models"
	"redfin-harness/scraper"
	"redfin-harness/services"
	"redfin-harness/storage"
	"redfin-harness/utils"
)

type runOptions struct {
	suite     string
	cases     []string
	replayDir string
	noCache   bool
	csvPath   string
	runID     string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape every suite case and validate the batches",
		Long: `Runs each case of a suite through the configured scraper, validates
the returned records and prints a run summary.

The scraper is taken from SCRAPER_CMD, SCRAPER_URL or SCRAPER_REPLAY_DIR.
Without --suite (or SUITE_PATH) the built-in Seattle suite is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), rootOpts, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.suite, "suite", "s", "", "suite YAML file (default: built-in suite)")
	cmd.Flags().StringSliceVarP(&opts.cases, "case", "c", nil, "only run the named case (repeatable)")
	cmd.Flags().StringVar(&opts.replayDir, "replay", "", "replay recorded batches from this directory instead of scraping")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "ask the scraper not to use its cache")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "write violations to this CSV file")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "run identifier (default: random UUID)")

	return cmd
}

func runRun(ctx context.Context, rootOpts *RootOptions, opts *runOptions, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := rootOpts.logger(errOut)
	cfg := rootOpts.config()

	if opts.replayDir != "" {
		cfg.ScraperCommand, cfg.ScraperURL, cfg.ScraperReplayDir = "", "", opts.replayDir
	}
	if opts.noCache {
		cfg.Cache = false
	}
	if opts.csvPath != "" {
		cfg.CSVOutputPath = opts.csvPath
	}
	if opts.suite == "" {
		opts.suite = cfg.SuitePath
	}

	suite, err := loadSuite(opts.suite, opts.cases)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid suite", err)
	}

	s, err := scraper.New(cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "no scraper", err)
	}

	runID := opts.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger.Info("=== Run %s: suite %q, %d case(s) ===", runID, suite.Name, len(suite.Cases))
	logger.Debug("Config: concurrency %d | rate %dms | cache %t", cfg.MaxConcurrency, cfg.RateLimitMs, cfg.Cache)

	h := harness.New(s, scraper.Options{Cache: cfg.Cache}, logger)
	outcomes := h.RunSuite(ctx, suite, utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs))

	svc := services.NewReportService(logger)
	reports := make([]*models.CaseReport, 0, len(outcomes))
	for _, o := range outcomes {
		reports = append(reports, svc.CaseReport(runID, o))
	}

	writeReports(ctx, cfg, reports, logger)

	for _, o := range outcomes {
		if !o.Failed() {
			continue
		}
		err := o.Err
		if err == nil {
			err = o.Result.Err()
		}
		fmt.Fprintf(out, "\n--- FAIL: %s (%s)\n%v\n", o.Case.Name, o.Case.Mode, err)
	}

	summary := svc.Summarize(runID, reports)
	svc.Fprint(out, summary)

	if summary.FailedCases > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d case(s) failed", summary.FailedCases, summary.TotalCases))
	}
	return nil
}

func loadSuite(path string, names []string) (*harness.Suite, error) {
	suite := harness.DefaultSuite()
	if path != "" {
		var err error
		if suite, err = harness.LoadSuite(path); err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return suite, nil
	}

	filtered := &harness.Suite{Name: suite.Name}
	for _, name := range names {
		c, ok := suite.Case(name)
		if !ok {
			return nil, fmt.Errorf("suite %q has no case %q", suite.Name, name)
		}
		filtered.Cases = append(filtered.Cases, c)
	}
	return filtered, nil
}

// writeReports stores reports in the configured sinks. Sink failures are
// logged and do not change the run verdict.
func writeReports(ctx context.Context, cfg *config.Config, reports []*models.CaseReport, logger *utils.Logger) {
	var writers []storage.ReportWriter

	if cfg.CSVOutputPath != "" {
		w, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			logger.Error("Failed to create CSV writer: %v", err)
		} else {
			writers = append(writers, w)
		}
	}

	if cfg.ReportDriver != "" {
		w, err := openHistory(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to open report history: %v", err)
		} else {
			writers = append(writers, w)
		}
	}

	for _, w := range writers {
		if err := w.Write(reports); err != nil {
			logger.Error("Report write failed: %v", err)
		}
		if err := w.Close(); err != nil {
			logger.Warn("Report close failed: %v", err)
		}
	}
	if len(writers) > 0 {
		logger.Info("Reports written to %d sink(s)", len(writers))
	}
}

func openHistory(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*storage.SQLWriter, error) {
	return storage.NewSQLWriter(ctx, cfg.ReportDriver, cfg.DSN(), &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      logger,
	})
}
