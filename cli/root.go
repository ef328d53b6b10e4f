package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"redfin-harness/config"
	"redfin-harness/utils"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // every case passed
	ExitFailure      = 1 // a case or batch failed validation
	ExitCommandError = 2 // bad flags, config or input files
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool

	// LoadConfig is replaced in tests.
	LoadConfig func() *config.Config
}

func (o *RootOptions) config() *config.Config {
	if o.LoadConfig == nil {
		return config.Load()
	}
	return o.LoadConfig()
}

func (o *RootOptions) logger(w io.Writer) *utils.Logger {
	logger := utils.NewLoggerTo(w, w)
	logger.SetVerbose(o.Verbose)
	return logger
}

// NewRootCommand creates the root command for the harness CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redfin-harness",
		Short: "Schema checks for the Redfin scraper",
		Long: `Runs the Redfin scraper for sale, rent and search cases and checks
every record it returns against the expected listing schema and every
batch against its minimum record count.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}
