package services

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"redfin-harness/harness"
	"redfin-harness/models"
	"redfin-harness/utils"
)

// indexRegexp matches sequence indices in a violation path.
var indexRegexp = regexp.MustCompile(`\[\d+\]`)

// ReportService turns harness outcomes into reports and summaries.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// CaseReport flattens one suite outcome.
func (s *ReportService) CaseReport(runID string, o *harness.Outcome) *models.CaseReport {
	r := &models.CaseReport{
		RunID:     runID,
		Case:      o.Case.Name,
		Mode:      o.Case.Mode,
		URLs:      o.Case.URLs,
		StartedAt: o.StartedAt,
		Duration:  o.Duration,
	}

	if o.Err != nil {
		r.UpstreamError = o.Err.Error()
		s.logger.Debug("[report] %s: upstream error recorded", o.Case.Name)
		return r
	}
	if o.Result == nil {
		r.UpstreamError = "no result"
		return r
	}

	r.Records = o.Result.Count
	r.MinCount = o.Result.MinCount
	r.FailedRecords = len(o.Result.Failures)
	for _, f := range o.Result.Failures {
		for _, v := range f.Violations {
			r.Violations = append(r.Violations, models.ViolationRow{
				RecordIndex: f.Index,
				Path:        v.Path,
				Expected:    v.Expected,
				Actual:      v.Actual,
			})
		}
	}
	r.Passed = o.Result.Passed()
	return r
}

// Summarize aggregates case reports of one run.
func (s *ReportService) Summarize(runID string, reports []*models.CaseReport) *models.RunSummary {
	sum := &models.RunSummary{
		RunID:          runID,
		RecordsByMode:  make(map[models.Mode]int),
		ViolationPaths: make(map[string]int),
	}

	for _, r := range reports {
		sum.TotalCases++
		sum.TotalRecords += r.Records
		sum.FailedRecords += r.FailedRecords
		sum.RecordsByMode[r.Mode] += r.Records

		if r.Passed {
			sum.PassedCases++
		} else {
			sum.FailedCases++
			sum.Failed = append(sum.Failed, r)
		}
		if r.UpstreamError != "" {
			sum.Upstream++
		} else if !r.CountOK() {
			sum.CountFailures++
		}

		for _, v := range r.Violations {
			sum.ViolationPaths[GeneralizePath(v.Path)]++
		}
	}

	s.logger.Info("[report] Run %s: %d/%d cases passed", runID, sum.PassedCases, sum.TotalCases)
	return sum
}

// GeneralizePath drops sequence indices so the same field in different
// elements is counted together.
func GeneralizePath(path string) string {
	return indexRegexp.ReplaceAllString(path, "[]")
}

// Fprint writes the run summary to w.
func (s *ReportService) Fprint(w io.Writer, r *models.RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  REDFIN SCRAPER CONTRACT CHECK  (run %s)\n", r.RunID)
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Cases passed           : %d/%d\n", r.PassedCases, r.TotalCases)
	fmt.Fprintf(w, "  Records checked        : %d\n", r.TotalRecords)
	fmt.Fprintf(w, "  Records with violations: %d\n", r.FailedRecords)
	fmt.Fprintf(w, "  Under-filled batches   : %d\n", r.CountFailures)
	fmt.Fprintf(w, "  Upstream failures      : %d\n", r.Upstream)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Records by Mode\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, m := range models.Modes {
		if n, ok := r.RecordsByMode[m]; ok {
			fmt.Fprintf(w, "  %-8s %d\n", m, n)
		}
	}
	fmt.Fprintln(w)

	if len(r.ViolationPaths) > 0 {
		type pathCount struct {
			path  string
			count int
		}
		var paths []pathCount
		for p, c := range r.ViolationPaths {
			paths = append(paths, pathCount{p, c})
		}
		sort.Slice(paths, func(i, j int) bool {
			if paths[i].count != paths[j].count {
				return paths[i].count > paths[j].count
			}
			return paths[i].path < paths[j].path
		})

		fmt.Fprintf(w, "  Violations by Path\n")
		fmt.Fprintf(w, "  %s\n", thin)
		for _, pc := range paths {
			fmt.Fprintf(w, "  %-44s %d\n", truncate(pc.path, 44), pc.count)
		}
		fmt.Fprintln(w)
	}

	if len(r.Failed) > 0 {
		fmt.Fprintf(w, "  Failed Cases\n")
		fmt.Fprintf(w, "  %s\n", thin)
		for _, c := range r.Failed {
			switch {
			case c.UpstreamError != "":
				fmt.Fprintf(w, "  %-24s upstream: %s\n", c.Case, truncate(c.UpstreamError, 60))
			case !c.CountOK():
				fmt.Fprintf(w, "  %-24s %d records, want at least %d\n", c.Case, c.Records, c.MinCount)
			default:
				fmt.Fprintf(w, "  %-24s %d/%d records failed\n", c.Case, c.FailedRecords, c.Records)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
