// Package history records completed scrape runs in SQLite so operators
// can see what ran, when, and what each run produced.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded scrape of one source. Error is empty for runs that
// completed, even with zero stories; archive path is empty for runs that
// produced no archive.
type Run struct {
	RunID       uuid.UUID `json:"run_id"`
	Source      string    `json:"source"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	StoryCount  int       `json:"story_count"`
	ArchivePath string    `json:"archive_path,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Store persists scrape runs using SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the run store at dbPath, creating the schema if needed.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the runs table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		story_count INTEGER NOT NULL DEFAULT 0,
		archive_path TEXT,
		error TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a completed run and returns it with its assigned ID.
func (s *Store) Record(run Run) (*Run, error) {
	run.RunID = uuid.New()

	query := `
		INSERT INTO runs (
			run_id, source, started_at, finished_at,
			story_count, archive_path, error
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.Source,
		formatTime(run.StartedAt),
		formatTime(run.FinishedAt),
		run.StoryCount,
		nullable(run.ArchivePath),
		nullable(run.Error),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return &run, nil
}

// Get retrieves one run by ID.
func (s *Store) Get(runID uuid.UUID) (*Run, error) {
	query := `
		SELECT run_id, source, started_at, finished_at,
		       story_count, archive_path, error
		FROM runs
		WHERE run_id = ?
	`

	run, err := scanRun(s.db.QueryRow(query, runID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) Recent(limit int) ([]Run, error) {
	query := `
		SELECT run_id, source, started_at, finished_at,
		       story_count, archive_path, error
		FROM runs
		ORDER BY started_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun parses one SQL row into a Run.
func scanRun(row scanner) (*Run, error) {
	var runIDStr, source, startedAtStr, finishedAtStr string
	var archivePath, lastError sql.NullString
	var storyCount int

	err := row.Scan(
		&runIDStr, &source, &startedAtStr, &finishedAtStr,
		&storyCount, &archivePath, &lastError,
	)
	if err != nil {
		return nil, err
	}

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run ID: %w", err)
	}

	run := &Run{
		RunID:      runID,
		Source:     source,
		StartedAt:  parseTime(startedAtStr),
		FinishedAt: parseTime(finishedAtStr),
		StoryCount: storyCount,
	}
	if archivePath.Valid {
		run.ArchivePath = archivePath.String
	}
	if lastError.Valid {
		run.Error = lastError.String
	}
	return run, nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Helper functions for time formatting
func formatTime(t time.Time) string {
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
