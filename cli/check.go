package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"redfin-harness/harness"
	"redfin-harness/models"
	"redfin-harness/schema"
	"redfin-harness/scraper"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "check <batch.json>",
		Short: "Validate a recorded batch without scraping",
		Long: `Validates a JSON array of records, as the scraper would return it,
against the listing schema of --mode. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(mode, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "scrape mode of the batch (sale|rent|search)")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

func runCheck(modeFlag, path string, stdin io.Reader, out io.Writer) error {
	mode, err := models.ParseMode(modeFlag)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --mode", err)
	}
	s, err := schema.ForMode(mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --mode", err)
	}

	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot read batch", err)
		}
		defer f.Close()
		in = f
	}

	records, err := scraper.DecodeBatch(in)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot decode batch "+path, err)
	}

	res := harness.Validate(mode, []string{path}, records, s)
	fmt.Fprint(out, res.Summary())

	if err := res.Err(); err != nil {
		fmt.Fprintf(out, "\n%v\n", err)
		return NewExitError(ExitFailure, fmt.Sprintf("%s batch %s failed validation", mode, path))
	}
	return nil
}
