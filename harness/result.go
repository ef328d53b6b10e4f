package harness

import (
	"errors"

	"redfin-harness/models"
	"redfin-harness/schema"
)

// RecordFailure is one record that did not match its schema. Record holds
// the element as the scraper returned it, which need not be a mapping.
type RecordFailure struct {
	Index      int
	Record     any
	Violations []schema.Violation
}

// BatchResult is the verdict for one scrape batch. Only failing records are
// retained.
type BatchResult struct {
	Mode     models.Mode
	URLs     []string
	Count    int
	MinCount int
	Failures []RecordFailure
}

// CountOK reports whether the batch met its minimum size.
func (r *BatchResult) CountOK() bool {
	return r.Count >= r.MinCount
}

// Passed reports whether every record conforms and the count is met.
func (r *BatchResult) Passed() bool {
	return len(r.Failures) == 0 && r.CountOK()
}

// Err returns nil for a passing batch, otherwise a *ShapeError for the first
// failing record and/or a *CountError, joined.
func (r *BatchResult) Err() error {
	var errs []error
	if len(r.Failures) > 0 {
		first := r.Failures[0]
		errs = append(errs, &ShapeError{
			Mode:       r.Mode,
			Index:      first.Index,
			Record:     first.Record,
			Violations: first.Violations,
			Others:     len(r.Failures) - 1,
		})
	}
	if !r.CountOK() {
		errs = append(errs, &CountError{Mode: r.Mode, Got: r.Count, Want: r.MinCount})
	}
	return errors.Join(errs...)
}

// Validate checks an already scraped batch against s using the mode's
// minimum count. A nil s selects the mode's listing schema; for an unknown
// mode every element only has to be a mapping.
func Validate(mode models.Mode, urls []string, records models.Batch, s *schema.Schema) *BatchResult {
	if s == nil {
		s = schemaFor(mode)
	}
	return validateBatch(mode, urls, records, s, mode.MinCount())
}

func schemaFor(mode models.Mode) *schema.Schema {
	if s, err := schema.ForMode(mode); err == nil {
		return s
	}
	return schema.Map()
}

func validateBatch(mode models.Mode, urls []string, records models.Batch, s *schema.Schema, minCount int) *BatchResult {
	res := &BatchResult{
		Mode:     mode,
		URLs:     urls,
		Count:    len(records),
		MinCount: minCount,
	}
	for i, rec := range records {
		// A nil Record stored in the batch is still null.
		if m, ok := rec.(models.Record); ok && m == nil {
			rec = nil
		}
		if vs := s.Validate(rec); len(vs) > 0 {
			res.Failures = append(res.Failures, RecordFailure{Index: i, Record: rec, Violations: vs})
		}
	}
	return res
}
