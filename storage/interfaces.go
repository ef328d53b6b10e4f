package storage

import "redfin-harness/models"

// ReportWriter is the interface any report sink must satisfy.
type ReportWriter interface {
	Write(reports []*models.CaseReport) error
	Close() error
}

// ReportReader loads the case reports of an earlier run.
type ReportReader interface {
	FetchRun(runID string) ([]*models.CaseReport, error)
}
