package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// User is a learner and their running totals.
type User struct {
	ID        string
	Name      string
	Coins     int
	XP        int
	Level     int
	CreatedAt time.Time
}

// EnsureUser returns the user, creating it with the given name first if it
// does not exist.
func (s *Store) EnsureUser(ctx context.Context, id, name string) (*User, error) {
	if name == "" {
		name = id
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, name, created_at) VALUES (?, ?, ?)`,
		id, name, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure user %s: %w", id, err)
	}
	return s.User(ctx, id)
}

// User returns a user by id.
func (s *Store) User(ctx context.Context, id string) (*User, error) {
	var (
		u       User
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, coins, xp, level, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Coins, &u.XP, &u.Level, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &u, nil
}

// ResetUser deletes a user's completions and achievements and zeroes their
// totals.
func (s *Store) ResetUser(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM completions WHERE user_id = ?`,
			`DELETE FROM achievements WHERE user_id = ?`,
			`UPDATE users SET coins = 0, xp = 0, level = 1 WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("reset user %s: %w", id, err)
			}
		}
		return nil
	})
}
