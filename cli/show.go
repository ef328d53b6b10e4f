package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"redfin-harness/services"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the summary of a stored run",
		Long: `Loads a run from the report history configured with REPORT_DRIVER
and prints its summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, rootOpts, args[0], cmd.OutOrStdout())
		},
	}
	return cmd
}

func runShow(cmd *cobra.Command, rootOpts *RootOptions, runID string, out io.Writer) error {
	logger := rootOpts.logger(cmd.ErrOrStderr())
	cfg := rootOpts.config()

	if cfg.ReportDriver == "" {
		return NewExitError(ExitCommandError, "REPORT_DRIVER is not set; no report history to read")
	}

	db, err := openHistory(cmd.Context(), cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open report history", err)
	}
	defer db.Close()

	reports, err := db.FetchRun(runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot load run", err)
	}
	if len(reports) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", runID))
	}

	svc := services.NewReportService(logger)
	summary := svc.Summarize(runID, reports)
	svc.Fprint(out, summary)

	if summary.FailedCases > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d case(s) failed", summary.FailedCases, summary.TotalCases))
	}
	return nil
}
