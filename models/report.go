package models

import "time"

// ViolationRow is one schema mismatch flattened for reporting and storage.
type ViolationRow struct {
	RecordIndex int
	Path        string
	Expected    string
	Actual      string
}

// CaseReport is the outcome of running one suite case.
type CaseReport struct {
	RunID         string
	Case          string
	Mode          Mode
	URLs          []string
	Records       int
	MinCount      int
	FailedRecords int
	Violations    []ViolationRow
	UpstreamError string
	Passed        bool
	StartedAt     time.Time
	Duration      time.Duration
}

// CountOK reports whether the batch met the mode's minimum size.
func (c *CaseReport) CountOK() bool {
	return c.UpstreamError == "" && c.Records >= c.MinCount
}

// RunSummary aggregates every case report of one run.
type RunSummary struct {
	RunID          string
	TotalCases     int
	PassedCases    int
	FailedCases    int
	TotalRecords   int
	FailedRecords  int
	Upstream       int
	CountFailures  int
	RecordsByMode  map[Mode]int
	ViolationPaths map[string]int
	Failed         []*CaseReport
}
