package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Completion is one persisted lesson completion.
type Completion struct {
	UserID      string
	LessonID    string
	LessonType  string
	Sequence    int64
	Score       int
	TimeSpent   int
	IsPerfect   bool
	Reward      int
	CompletedAt time.Time
}

// Grant is what a completion adds to the user: coins, experience, the level
// reached and the achievements to unlock.
type Grant struct {
	Coins        int
	XP           int
	Level        int
	Achievements []Achievement
}

// Stats aggregates a user's completions.
type Stats struct {
	Lessons       int
	Perfect       int
	ByType        map[string]int
	PerfectByType map[string]int
}

// ApplyCompletion records a completion and its grant in one transaction.
// It returns the achievements that were newly unlocked. A second completion
// of the same lesson by the same user fails with ErrAlreadyCompleted and
// changes nothing.
func (s *Store) ApplyCompletion(ctx context.Context, c Completion, g Grant) ([]Achievement, error) {
	var unlocked []Achievement
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		unlocked = nil
		now := time.Now().UTC().Format(time.RFC3339Nano)

		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO users (id, name, created_at) VALUES (?, ?, ?)`,
			c.UserID, c.UserID, now,
		); err != nil {
			return fmt.Errorf("ensure user %s: %w", c.UserID, err)
		}

		seq, err := s.seq.next(ctx, tx)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO completions
			 (user_id, lesson_id, lesson_type, sequence, score, time_spent, is_perfect, reward, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, lesson_id) DO NOTHING`,
			c.UserID, c.LessonID, c.LessonType, seq, c.Score, c.TimeSpent, c.IsPerfect, g.Coins, now,
		)
		if err != nil {
			return fmt.Errorf("insert completion: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user %s lesson %s: %w", c.UserID, c.LessonID, ErrAlreadyCompleted)
		}

		level := max(g.Level, 1)
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET coins = coins + ?, xp = xp + ?, level = MAX(level, ?) WHERE id = ?`,
			g.Coins, g.XP, level, c.UserID,
		); err != nil {
			return fmt.Errorf("update user %s: %w", c.UserID, err)
		}

		for _, a := range g.Achievements {
			aseq, err := s.seq.next(ctx, tx)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO achievements (user_id, achievement_id, rarity, sequence, unlocked_at)
				 VALUES (?, ?, ?, ?, ?)`,
				c.UserID, a.ID, a.Rarity, aseq, now,
			)
			if err != nil {
				return fmt.Errorf("insert achievement %s: %w", a.ID, err)
			}
			if n, _ := res.RowsAffected(); n == 1 {
				a.Sequence = aseq
				unlocked = append(unlocked, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

// HasCompleted reports whether the user already completed the lesson.
func (s *Store) HasCompleted(ctx context.Context, userID, lessonID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM completions WHERE user_id = ? AND lesson_id = ?`,
		userID, lessonID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	return n > 0, nil
}

// Completions returns a user's completions, most recent first.
func (s *Store) Completions(ctx context.Context, userID string) ([]Completion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, lesson_id, lesson_type, sequence, score, time_spent, is_perfect, reward, completed_at
		 FROM completions WHERE user_id = ? ORDER BY sequence DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var (
			c  Completion
			at string
		)
		if err := rows.Scan(&c.UserID, &c.LessonID, &c.LessonType, &c.Sequence,
			&c.Score, &c.TimeSpent, &c.IsPerfect, &c.Reward, &at); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		c.CompletedAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CompletionStats counts a user's completions overall and per lesson type.
func (s *Store) CompletionStats(ctx context.Context, userID string) (Stats, error) {
	st := Stats{ByType: map[string]int{}, PerfectByType: map[string]int{}}
	rows, err := s.db.QueryContext(ctx,
		`SELECT lesson_type, COUNT(*), SUM(is_perfect) FROM completions
		 WHERE user_id = ? GROUP BY lesson_type`, userID)
	if err != nil {
		return st, fmt.Errorf("completion stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			typ           string
			total, perfect int
		)
		if err := rows.Scan(&typ, &total, &perfect); err != nil {
			return st, fmt.Errorf("scan stats: %w", err)
		}
		st.ByType[typ] = total
		st.PerfectByType[typ] = perfect
		st.Lessons += total
		st.Perfect += perfect
	}
	return st, rows.Err()
}
