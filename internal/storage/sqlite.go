// Package storage provides durable backends for the save record.
// The SQLite backend uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-flappy/internal/save"
)

// DefaultSlot is the name of the save record row.
const DefaultSlot = "flappybird"

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database holding the save record and session history.
type Store struct {
	db   *sql.DB
	slot string
}

var (
	_ save.Backend    = (*Store)(nil)
	_ save.SessionLog = (*Store)(nil)
)

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// One writer at a time; the game never writes concurrently anyway.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, slot: DefaultSlot}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS save_records (
			slot TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			score INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			pipes_passed INTEGER NOT NULL DEFAULT 0,
			cause TEXT NOT NULL,
			ended_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_ended ON sessions(ended_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_score ON sessions(score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Read returns the encoded save record, or save.ErrNotFound.
func (s *Store) Read() ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM save_records WHERE slot = ?", s.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, save.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read save record: %w", err)
	}
	return payload, nil
}

// Write replaces the save record. The upsert is a single statement, so a
// crash leaves either the old or the new payload.
func (s *Store) Write(data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO save_records (slot, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.slot, data, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write save record: %w", err)
	}
	return nil
}

// Delete removes the save record and the session history.
func (s *Store) Delete() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin delete: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM save_records WHERE slot = ?", s.slot); err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot delete save record: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// AppendSession records a finished session.
func (s *Store) AppendSession(e save.SessionEntry) error {
	endedAt := e.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (session_id, score, duration_ms, pipes_passed, cause, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Score, e.Duration.Milliseconds(), e.PipesPassed, e.Cause,
		endedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save session: %w", err)
	}
	return nil
}

// RecentSessions retrieves the most recent sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]save.SessionEntry, error) {
	return s.querySessions("ORDER BY ended_at DESC, id DESC", limit)
}

// TopSessions retrieves the highest scoring sessions.
func (s *Store) TopSessions(limit int) ([]save.SessionEntry, error) {
	return s.querySessions("ORDER BY score DESC, id ASC", limit)
}

func (s *Store) querySessions(order string, limit int) ([]save.SessionEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT session_id, score, duration_ms, pipes_passed, cause, ended_at
		 FROM sessions `+order+` LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var entries []save.SessionEntry
	for rows.Next() {
		var e save.SessionEntry
		var durationMS int64
		var endedAt any
		if err := rows.Scan(&e.ID, &e.Score, &durationMS, &e.PipesPassed, &e.Cause, &endedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.EndedAt = parseTimestamp(endedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTimestamp handles both time.Time and string values from the driver.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
