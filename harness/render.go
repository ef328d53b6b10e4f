package harness

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"redfin-harness/schema"
)

var dumper = spew.ConfigState{
	Indent:                  "    ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// RenderRecord pretty-prints a batch element with stable key order.
func RenderRecord(r any) string {
	return dumper.Sdump(r)
}

// FormatViolations renders one "  - path: expected X, got Y" line per
// violation.
func FormatViolations(vs []schema.Violation) string {
	var buf strings.Builder
	for _, v := range vs {
		fmt.Fprintf(&buf, "  - %s\n", v)
	}
	return buf.String()
}

// Summary renders the verdict of a batch without record dumps.
func (r *BatchResult) Summary() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "mode: %s\n", r.Mode)
	for _, u := range r.URLs {
		fmt.Fprintf(&buf, "url: %s\n", u)
	}

	countNote := "ok"
	if !r.CountOK() {
		countNote = "too few"
	}
	fmt.Fprintf(&buf, "records: %d (minimum %d, %s)\n", r.Count, r.MinCount, countNote)

	for _, f := range r.Failures {
		fmt.Fprintf(&buf, "record %d: %d violations\n", f.Index, len(f.Violations))
		buf.WriteString(FormatViolations(f.Violations))
	}

	if r.Passed() {
		buf.WriteString("verdict: PASS\n")
	} else {
		buf.WriteString("verdict: FAIL\n")
	}
	return buf.String()
}
