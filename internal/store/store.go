// Package store persists lessons, learners and their progress in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted is returned when a user completes a lesson twice.
	ErrAlreadyCompleted = errors.New("lesson already completed")
)

// Store wraps the SQLite database.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open opens the SQLite database at dsn, applies pragmas and creates the
// schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lessons (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS completions (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			lesson_id TEXT NOT NULL,
			lesson_type TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			score INTEGER NOT NULL,
			time_spent INTEGER NOT NULL,
			is_perfect INTEGER NOT NULL,
			reward INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			PRIMARY KEY (user_id, lesson_id)
		)`,
		`CREATE TABLE IF NOT EXISTS achievements (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			achievement_id TEXT NOT NULL,
			rarity TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			unlocked_at TEXT NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,
		`CREATE TABLE IF NOT EXISTS llm_requests (
			sequence INTEGER PRIMARY KEY,
			timestamp TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_sequence ON completions(sequence)`,
		`CREATE INDEX IF NOT EXISTS idx_lessons_type ON lessons(type)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn in a transaction, committing if it returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. YUFIN_DB environment variable
// 2. $XDG_DATA_HOME/yufin/yufin.db
// 3. ~/.local/share/yufin/yufin.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("YUFIN_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "yufin", "yufin.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
