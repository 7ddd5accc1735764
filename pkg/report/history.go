package report

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"digital.vasic.harness/pkg/scenario"
)

// History records finished runs in a SQLite database so pass
// rates and regressions can be tracked across invocations.
type History struct {
	db *sql.DB
}

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	total       INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	errored     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	scenario_id   TEXT NOT NULL,
	status        TEXT NOT NULL,
	check_name    TEXT NOT NULL,
	verdict       TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL,
	stdout_digest TEXT NOT NULL,
	stderr_digest TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_run
	ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_scenario
	ON results(scenario_id);
`

// OpenHistory opens the history database at path, creating
// the file and schema when missing.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to open history database: %w", err,
		)
	}
	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf(
			"failed to initialize history schema: %w", err,
		)
	}
	return &History{db: db}, nil
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	return h.db.Close()
}

// RecordRun persists one finished run and its per-case rows
// in a single transaction.
func (h *History) RecordRun(
	runID string,
	started, finished time.Time,
	results []*scenario.Result,
) error {
	var passed, failed, errored int
	for _, res := range results {
		switch res.Status {
		case scenario.StatusPassed:
			passed++
		case scenario.StatusFailed:
			failed++
		default:
			errored++
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf(
			"failed to begin history transaction: %w", err,
		)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO runs
			(id, started_at, finished_at,
			 total, passed, failed, errored)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID,
		started.UTC().Format(time.RFC3339Nano),
		finished.UTC().Format(time.RFC3339Nano),
		len(results), passed, failed, errored,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to insert run %s: %w", runID, err,
		)
	}

	for _, res := range results {
		_, err = tx.Exec(
			`INSERT INTO results
				(run_id, scenario_id, status, check_name,
				 verdict, duration_ms,
				 stdout_digest, stderr_digest)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			string(res.ScenarioID),
			res.Status,
			res.Check,
			res.Verdict,
			res.Duration.Milliseconds(),
			res.StdoutDigest,
			res.StderrDigest,
		)
		if err != nil {
			return fmt.Errorf(
				"failed to insert result for %s: %w",
				res.ScenarioID, err,
			)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf(
			"failed to commit history transaction: %w", err,
		)
	}
	return nil
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Errored  int       `json:"errored"`
}

// RecentRuns returns up to limit recorded runs, newest first.
func (h *History) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := h.db.Query(
		`SELECT id, started_at, finished_at,
			total, passed, failed, errored
		 FROM runs
		 ORDER BY started_at DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to query runs: %w", err,
		)
	}
	defer func() { _ = rows.Close() }()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedAt, finishedAt string
		if err := rows.Scan(
			&rec.ID, &startedAt, &finishedAt,
			&rec.Total, &rec.Passed,
			&rec.Failed, &rec.Errored,
		); err != nil {
			return nil, fmt.Errorf(
				"failed to scan run row: %w", err,
			)
		}
		rec.Started, _ = time.Parse(
			time.RFC3339Nano, startedAt,
		)
		rec.Finished, _ = time.Parse(
			time.RFC3339Nano, finishedAt,
		)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ResultRecord is one per-case row of a recorded run.
type ResultRecord struct {
	RunID        string        `json:"run_id"`
	ScenarioID   string        `json:"scenario_id"`
	Status       string        `json:"status"`
	Check        string        `json:"check,omitempty"`
	Verdict      string        `json:"verdict,omitempty"`
	Duration     time.Duration `json:"duration"`
	StdoutDigest string        `json:"stdout_digest,omitempty"`
	StderrDigest string        `json:"stderr_digest,omitempty"`
}

// RunResults returns the per-case rows of one recorded run.
func (h *History) RunResults(
	runID string,
) ([]ResultRecord, error) {
	rows, err := h.db.Query(
		`SELECT run_id, scenario_id, status, check_name,
			verdict, duration_ms,
			stdout_digest, stderr_digest
		 FROM results
		 WHERE run_id = ?
		 ORDER BY scenario_id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to query results for run %s: %w",
			runID, err,
		)
	}
	defer func() { _ = rows.Close() }()

	var records []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		var durationMS int64
		if err := rows.Scan(
			&rec.RunID, &rec.ScenarioID, &rec.Status,
			&rec.Check, &rec.Verdict, &durationMS,
			&rec.StdoutDigest, &rec.StderrDigest,
		); err != nil {
			return nil, fmt.Errorf(
				"failed to scan result row: %w", err,
			)
		}
		rec.Duration = time.Duration(durationMS) *
			time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ScenarioStats aggregates the historical record of a single
// scenario.
type ScenarioStats struct {
	ScenarioID string  `json:"scenario_id"`
	Runs       int     `json:"runs"`
	Passed     int     `json:"passed"`
	PassRate   float64 `json:"pass_rate"`
	LastStatus string  `json:"last_status,omitempty"`
}

// StatsFor reports the pass rate of one scenario across all
// recorded runs.
func (h *History) StatsFor(
	scenarioID string,
) (*ScenarioStats, error) {
	stats := &ScenarioStats{ScenarioID: scenarioID}

	row := h.db.QueryRow(
		`SELECT COUNT(*),
			COALESCE(SUM(
				CASE WHEN status = ? THEN 1 ELSE 0 END
			), 0)
		 FROM results
		 WHERE scenario_id = ?`,
		scenario.StatusPassed, scenarioID,
	)
	if err := row.Scan(&stats.Runs, &stats.Passed); err != nil {
		return nil, fmt.Errorf(
			"failed to aggregate scenario %s: %w",
			scenarioID, err,
		)
	}
	if stats.Runs > 0 {
		stats.PassRate =
			float64(stats.Passed) / float64(stats.Runs)
	}

	row = h.db.QueryRow(
		`SELECT r.status
		 FROM results r
		 JOIN runs ON runs.id = r.run_id
		 WHERE r.scenario_id = ?
		 ORDER BY runs.started_at DESC
		 LIMIT 1`, scenarioID,
	)
	if err := row.Scan(&stats.LastStatus); err != nil &&
		!errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf(
			"failed to read last status for %s: %w",
			scenarioID, err,
		)
	}

	return stats, nil
}
