// Package history keeps a local ledger of jobs submitted through hpcctl.
//
// The ledger is a convenience for the CLI only. The scheduler clients stay
// stateless; the scheduler itself remains the sole authority on job state.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Submission is one recorded submission.
type Submission struct {
	JobID       string
	Scheduler   string
	Script      string
	SubmittedAt time.Time
}

// Store is a SQLite-backed submission ledger.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at path. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS submissions (
		job_id       TEXT NOT NULL,
		scheduler    TEXT NOT NULL,
		script       TEXT NOT NULL,
		submitted_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one submission to the ledger.
func (s *Store) Record(ctx context.Context, sub Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (job_id, scheduler, script, submitted_at) VALUES (?, ?, ?, ?)`,
		sub.JobID, sub.Scheduler, sub.Script, sub.SubmittedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// List returns the most recent submissions, newest first. limit <= 0 means
// all of them.
func (s *Store) List(ctx context.Context, limit int) ([]Submission, error) {
	q := `SELECT job_id, scheduler, script, submitted_at FROM submissions ORDER BY submitted_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.JobID, &sub.Scheduler, &sub.Script, &sub.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
