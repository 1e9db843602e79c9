package store

import (
	"context"
	"fmt"
	"time"
)

// Achievement is an unlocked achievement.
type Achievement struct {
	ID         string
	Rarity     string
	Sequence   int64
	UnlockedAt time.Time
}

// Achievements returns the user's unlocked achievements in unlock order.
func (s *Store) Achievements(ctx context.Context, userID string) ([]Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT achievement_id, rarity, sequence, unlocked_at FROM achievements
		 WHERE user_id = ? ORDER BY sequence`, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		var (
			a  Achievement
			at string
		)
		if err := rows.Scan(&a.ID, &a.Rarity, &a.Sequence, &at); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		a.UnlockedAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, a)
	}
	return out, rows.Err()
}

// AchievementCounts returns unlocked achievements per rarity and in total.
func (s *Store) AchievementCounts(ctx context.Context, userID string) (map[string]int, int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rarity, COUNT(*) FROM achievements WHERE user_id = ? GROUP BY rarity`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("achievement counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	total := 0
	for rows.Next() {
		var (
			rarity string
			n      int
		)
		if err := rows.Scan(&rarity, &n); err != nil {
			return nil, 0, err
		}
		counts[rarity] = n
		total += n
	}
	return counts, total, rows.Err()
}
