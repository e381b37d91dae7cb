// Package history persists sync attempt records in an embedded SQLite
// database.
//
// The journal lives inside the repository's VCS metadata directory
// (.git/gitwatch/history.db or .jj/gitwatch/history.db) so it travels
// with the working copy without ever being committed. The database is
// opened in WAL mode so the dashboard can read statistics while the
// sync runner writes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mschirtzinger/gitwatch/internal/autosync"
)

// FileName is the journal file name below the VCS metadata directory.
const FileName = "gitwatch/history.db"

// Journal wraps the SQLite connection holding sync attempt records.
type Journal struct {
	conn *sql.DB
	path string
}

// Attempt is one recorded sync attempt as read back from the journal.
type Attempt struct {
	ID         int64
	Timestamp  time.Time
	Outcome    autosync.Outcome
	CommitHash string
	Message    string
	Err        string
	Pushed     bool
	Duration   time.Duration
}

// Open opens (creating if needed) the journal at the given path.
//
// The caller MUST call Close() when done.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	// A single writer (the runner) and occasional readers.
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	j := &Journal{conn: conn, path: path}

	// WAL mode for concurrent reads during writes
	if _, err := j.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := j.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := j.initSchema(context.Background()); err != nil {
		_ = j.Close()
		return nil, err
	}

	return j, nil
}

// OpenForRepo opens the journal at its standard location below the
// repository's VCS metadata directory.
func OpenForRepo(vcsDir string) (*Journal, error) {
	return Open(filepath.Join(vcsDir, filepath.FromSlash(FileName)))
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Close checkpoints the WAL and closes the connection.
func (j *Journal) Close() error {
	if j.conn == nil {
		return nil
	}

	if _, err := j.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}

	if err := j.conn.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}

	j.conn = nil
	return nil
}

// initSchema creates the attempts table. Idempotent.
func (j *Journal) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		outcome TEXT NOT NULL,
		commit_hash TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		pushed INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_attempts_outcome ON attempts(outcome);
	CREATE INDEX IF NOT EXISTS idx_attempts_timestamp ON attempts(timestamp);
	`

	if _, err := j.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return nil
}

// Record appends one sync attempt. Implements autosync.Recorder.
func (j *Journal) Record(r autosync.Result) error {
	query := `
	INSERT INTO attempts (timestamp, outcome, commit_hash, message, error, pushed, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	pushed := 0
	if r.Pushed {
		pushed = 1
	}

	_, err := j.conn.Exec(query,
		r.Timestamp.UTC().Format(time.RFC3339),
		string(r.Outcome),
		r.CommitHash,
		r.Message,
		r.Err,
		pushed,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	return nil
}

// Recent returns the most recent attempts, newest first.
// A limit of 0 returns every attempt.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	query := `
	SELECT id, timestamp, outcome, commit_hash, message, error, pushed, duration_ms
	FROM attempts
	ORDER BY id DESC
	`

	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			a          Attempt
			ts         string
			outcome    string
			pushed     int
			durationMS int64
		)

		if err := rows.Scan(&a.ID, &ts, &outcome, &a.CommitHash,
			&a.Message, &a.Err, &pushed, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			a.Timestamp = t
		}
		a.Outcome = autosync.Outcome(outcome)
		a.Pushed = pushed != 0
		a.Duration = time.Duration(durationMS) * time.Millisecond

		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return attempts, nil
}

// Stats summarizes the journal by outcome.
type Stats struct {
	Total     int `json:"total"`
	Synced    int `json:"synced"`
	NoChanges int `json:"no_changes"`
	Failed    int `json:"failed"`
}

// GetStats returns attempt counts grouped by outcome.
func (j *Journal) GetStats(ctx context.Context) (Stats, error) {
	rows, err := j.conn.QueryContext(ctx,
		"SELECT outcome, COUNT(*) FROM attempts GROUP BY outcome")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan stats: %w", err)
		}

		stats.Total += count
		switch autosync.Outcome(outcome) {
		case autosync.OutcomeSynced:
			stats.Synced = count
		case autosync.OutcomeNoChanges:
			stats.NoChanges = count
		case autosync.OutcomeFailed:
			stats.Failed = count
		}
	}

	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("error iterating stats: %w", err)
	}

	return stats, nil
}

// LastSynced returns the most recent successful attempt, or nil when
// nothing has been synced yet.
func (j *Journal) LastSynced(ctx context.Context) (*Attempt, error) {
	attempts, err := j.recentByOutcome(ctx, autosync.OutcomeSynced, 1)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, nil
	}
	return &attempts[0], nil
}

// recentByOutcome returns the newest attempts with the given outcome.
func (j *Journal) recentByOutcome(ctx context.Context, outcome autosync.Outcome, limit int) ([]Attempt, error) {
	query := `
	SELECT id, timestamp, outcome, commit_hash, message, error, pushed, duration_ms
	FROM attempts
	WHERE outcome = ?
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := j.conn.QueryContext(ctx, query, string(outcome), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			a          Attempt
			ts         string
			out        string
			pushed     int
			durationMS int64
		)

		if err := rows.Scan(&a.ID, &ts, &out, &a.CommitHash,
			&a.Message, &a.Err, &pushed, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			a.Timestamp = t
		}
		a.Outcome = autosync.Outcome(out)
		a.Pushed = pushed != 0
		a.Duration = time.Duration(durationMS) * time.Millisecond

		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return attempts, nil
}
