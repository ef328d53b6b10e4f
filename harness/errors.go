package harness

import (
	"errors"
	"fmt"
	"strings"

	"redfin-harness/models"
	"redfin-harness/schema"
)

// ErrInvalidInput is returned before any scrape when the mode or URL list is
// unusable.
var ErrInvalidInput = errors.New("invalid scrape input")

// ShapeError reports the first record of a batch that does not match its
// schema.
type ShapeError struct {
	Mode       models.Mode
	Index      int
	Record     any
	Violations []schema.Violation
	// Others counts the failing records after this one.
	Others int
}

func (e *ShapeError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "%s: validation failed for record %d:\n", e.Mode, e.Index)
	buf.WriteString(RenderRecord(e.Record))
	buf.WriteString("Errors:\n")
	buf.WriteString(FormatViolations(e.Violations))
	if e.Others > 0 {
		fmt.Fprintf(&buf, "(%d more failing records)\n", e.Others)
	}

	return buf.String()
}

// CountError reports a batch smaller than the mode's minimum.
type CountError struct {
	Mode models.Mode
	Got  int
	Want int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%s: got %d records, want at least %d", e.Mode, e.Got, e.Want)
}

// UpstreamError wraps a failure of the scrape call itself.
type UpstreamError struct {
	Mode models.Mode
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: scrape failed: %v", e.Mode, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
