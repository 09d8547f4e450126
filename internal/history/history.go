// Package history records sync runs and their per-item outcomes in a local
// SQLite database, so past activity can be inspected after the fact. The
// history is an audit log only: the engine never reads it back to make
// sync decisions — the document store alone is authoritative.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"mls-go/internal/history/migrations"
	"mls-go/internal/sync"
)

// Run is one recorded sync invocation.
type Run struct {
	ID         string
	Operation  string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	Items      int
}

// Recorder persists sync runs and item outcomes.
type Recorder interface {
	StartRun(operation string) (runID string, err error)
	RecordItem(runID, syncID, action, targetPath, message string) error
	FinishRun(runID, status string) error
	ListRuns(limit int) ([]*Run, error)
	Close() error
}

// NopRecorder discards everything. Used when history is disabled.
type NopRecorder struct{}

func (NopRecorder) StartRun(string) (string, error)               { return "", nil }
func (NopRecorder) RecordItem(_, _, _, _, _ string) error         { return nil }
func (NopRecorder) FinishRun(string, string) error                { return nil }
func (NopRecorder) ListRuns(int) ([]*Run, error)                  { return nil, nil }
func (NopRecorder) Close() error                                  { return nil }

// SQLiteRecorder implements Recorder on a local SQLite database.
type SQLiteRecorder struct {
	db    *sql.DB
	clock sync.Clock
	idgen sync.IDGenerator
}

// Open opens (creating and migrating if needed) the history database.
// path can be a file path or ":memory:" for an in-memory database.
func Open(path string, clock sync.Clock, idgen sync.IDGenerator) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	if clock == nil {
		clock = sync.RealClock{}
	}
	if idgen == nil {
		idgen = sync.UUIDGenerator{}
	}
	return &SQLiteRecorder{db: db, clock: clock, idgen: idgen}, nil
}

// StartRun inserts a new run in "running" state and returns its ID.
func (r *SQLiteRecorder) StartRun(operation string) (string, error) {
	id := r.idgen.New()
	_, err := r.db.Exec(
		`INSERT INTO sync_runs (id, operation, started_at, status) VALUES (?, ?, ?, 'running')`,
		id, operation, r.clock.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("starting run: %w", err)
	}
	return id, nil
}

// RecordItem appends one item outcome to a run.
func (r *SQLiteRecorder) RecordItem(runID, syncID, action, targetPath, message string) error {
	_, err := r.db.Exec(
		`INSERT INTO sync_items (run_id, sync_id, action, target_path, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, syncID, action, targetPath, message, r.clock.Now(),
	)
	if err != nil {
		return fmt.Errorf("recording item: %w", err)
	}
	return nil
}

// FinishRun marks a run finished with the given status.
func (r *SQLiteRecorder) FinishRun(runID, status string) error {
	_, err := r.db.Exec(
		`UPDATE sync_runs SET finished_at = ?, status = ? WHERE id = ?`,
		r.clock.Now(), status, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, with item counts.
func (r *SQLiteRecorder) ListRuns(limit int) ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT r.id, r.operation, r.started_at, r.finished_at, r.status,
		        (SELECT COUNT(*) FROM sync_items i WHERE i.run_id = r.id)
		 FROM sync_runs r
		 ORDER BY r.started_at DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Operation, &run.StartedAt, &finished, &run.Status, &run.Items); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (r *SQLiteRecorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Compile-time checks that both recorders implement Recorder
var (
	_ Recorder = (*SQLiteRecorder)(nil)
	_ Recorder = NopRecorder{}
)
