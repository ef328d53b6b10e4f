package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"redfin-harness/models"
	"redfin-harness/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var migrations = map[string]string{
	DriverPostgres: `
		CREATE TABLE IF NOT EXISTS harness_cases (
			id             SERIAL       PRIMARY KEY,
			run_id         VARCHAR(64)  NOT NULL,
			case_name      TEXT         NOT NULL,
			mode           VARCHAR(16)  NOT NULL,
			urls           TEXT         NOT NULL DEFAULT '',
			records        INTEGER      NOT NULL DEFAULT 0,
			min_count      INTEGER      NOT NULL DEFAULT 0,
			failed_records INTEGER      NOT NULL DEFAULT 0,
			upstream_error TEXT         NOT NULL DEFAULT '',
			passed         BOOLEAN      NOT NULL DEFAULT FALSE,
			started_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			duration_ms    BIGINT       NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS harness_violations (
			id           SERIAL  PRIMARY KEY,
			case_id      INTEGER NOT NULL REFERENCES harness_cases(id) ON DELETE CASCADE,
			record_index INTEGER NOT NULL,
			path         TEXT    NOT NULL,
			expected     TEXT    NOT NULL,
			actual       TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_harness_cases_run     ON harness_cases(run_id);
		CREATE INDEX IF NOT EXISTS idx_harness_violations_case ON harness_violations(case_id);
	`,
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS harness_cases (
			id             INTEGER  PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT     NOT NULL,
			case_name      TEXT     NOT NULL,
			mode           TEXT     NOT NULL,
			urls           TEXT     NOT NULL DEFAULT '',
			records        INTEGER  NOT NULL DEFAULT 0,
			min_count      INTEGER  NOT NULL DEFAULT 0,
			failed_records INTEGER  NOT NULL DEFAULT 0,
			upstream_error TEXT     NOT NULL DEFAULT '',
			passed         BOOLEAN  NOT NULL DEFAULT 0,
			started_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			duration_ms    INTEGER  NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS harness_violations (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			case_id      INTEGER NOT NULL REFERENCES harness_cases(id) ON DELETE CASCADE,
			record_index INTEGER NOT NULL,
			path         TEXT    NOT NULL,
			expected     TEXT    NOT NULL,
			actual       TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_harness_cases_run     ON harness_cases(run_id);
		CREATE INDEX IF NOT EXISTS idx_harness_violations_case ON harness_violations(case_id);
	`,
}

// SQLWriter persists case reports to PostgreSQL or SQLite so runs can be
// compared over time.
type SQLWriter struct {
	db     *sql.DB
	driver string
}

// NewSQLWriter opens the database, waits for it to answer (using retry),
// runs migrations and returns a ready-to-use SQLWriter.
func NewSQLWriter(ctx context.Context, driver, dsn string, retry *utils.RetryConfig) (*SQLWriter, error) {
	ddl, ok := migrations[driver]
	if !ok {
		return nil, fmt.Errorf("sql: unsupported driver %q", driver)
	}

	if driver == DriverSQLite && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("sql: create db dir: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql: open: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if err := retry.Do(ctx, driver+" ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: %w", err)
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: migrate: %w", err)
	}

	return &SQLWriter{db: db, driver: driver}, nil
}

// Write stores every report and its violations in one transaction.
func (w *SQLWriter) Write(reports []*models.CaseReport) error {
	if len(reports) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("sql: begin: %w", err)
	}
	defer tx.Rollback()

	for _, r := range reports {
		var caseID int64
		err := tx.QueryRow(`
			INSERT INTO harness_cases
				(run_id, case_name, mode, urls, records, min_count, failed_records, upstream_error, passed, started_at, duration_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		`,
			r.RunID, r.Case, string(r.Mode), strings.Join(r.URLs, "\n"),
			r.Records, r.MinCount, r.FailedRecords, r.UpstreamError, r.Passed,
			r.StartedAt.UTC(), r.Duration.Milliseconds(),
		).Scan(&caseID)
		if err != nil {
			return fmt.Errorf("sql: insert case %q: %w", r.Case, err)
		}

		const batchSize = 50
		for i := 0; i < len(r.Violations); i += batchSize {
			end := i + batchSize
			if end > len(r.Violations) {
				end = len(r.Violations)
			}
			if err := insertViolations(tx, caseID, r.Violations[i:end]); err != nil {
				return fmt.Errorf("sql: insert violations for %q: %w", r.Case, err)
			}
		}
	}

	return tx.Commit()
}

func insertViolations(tx *sql.Tx, caseID int64, batch []models.ViolationRow) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*5)

	for idx, v := range batch {
		base := idx * 5
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs, caseID, v.RecordIndex, v.Path, v.Expected, v.Actual)
	}

	query := fmt.Sprintf(`
		INSERT INTO harness_violations (case_id, record_index, path, expected, actual)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := tx.Exec(query, valueArgs...)
	return err
}

// FetchRun loads the case reports of one run in insertion order.
func (w *SQLWriter) FetchRun(runID string) ([]*models.CaseReport, error) {
	rows, err := w.db.Query(`
		SELECT id, run_id, case_name, mode, urls, records, min_count, failed_records,
		       upstream_error, passed, started_at, duration_ms
		FROM harness_cases
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("sql: fetch run: %w", err)
	}

	var (
		reports []*models.CaseReport
		ids     []int64
	)
	for rows.Next() {
		var (
			id         int64
			mode, urls string
			durationMs int64
		)
		r := &models.CaseReport{}
		if err := rows.Scan(
			&id, &r.RunID, &r.Case, &mode, &urls, &r.Records, &r.MinCount, &r.FailedRecords,
			&r.UpstreamError, &r.Passed, &r.StartedAt, &durationMs,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sql: scan case: %w", err)
		}
		r.Mode = models.Mode(mode)
		if urls != "" {
			r.URLs = strings.Split(urls, "\n")
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		reports = append(reports, r)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("sql: fetch run: %w", err)
	}
	rows.Close()

	for i, id := range ids {
		vs, err := w.fetchViolations(id)
		if err != nil {
			return nil, err
		}
		reports[i].Violations = vs
	}
	return reports, nil
}

func (w *SQLWriter) fetchViolations(caseID int64) ([]models.ViolationRow, error) {
	rows, err := w.db.Query(`
		SELECT record_index, path, expected, actual
		FROM harness_violations
		WHERE case_id = $1
		ORDER BY id
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("sql: fetch violations: %w", err)
	}
	defer rows.Close()

	var out []models.ViolationRow
	for rows.Next() {
		var v models.ViolationRow
		if err := rows.Scan(&v.RecordIndex, &v.Path, &v.Expected, &v.Actual); err != nil {
			return nil, fmt.Errorf("sql: scan violation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (w *SQLWriter) Close() error {
	return w.db.Close()
}
