package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yufin/yufin/internal/content"
)

// PutLesson inserts or replaces a lesson. Content is stored as given; it is
// normalized only when played.
func (s *Store) PutLesson(ctx context.Context, l content.Lesson) error {
	if l.ID == "" {
		return errors.New("lesson id required")
	}
	raw := l.Content
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lessons (id, title, type, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 	title = excluded.title,
		 	type = excluded.type,
		 	content = excluded.content,
		 	updated_at = excluded.updated_at`,
		l.ID, l.Title, l.Type, string(raw), now, now,
	)
	if err != nil {
		return fmt.Errorf("put lesson %s: %w", l.ID, err)
	}
	return nil
}

// Lesson returns one lesson by id.
func (s *Store) Lesson(ctx context.Context, id string) (content.Lesson, error) {
	var (
		l   content.Lesson
		raw string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, type, content FROM lessons WHERE id = ?`, id,
	).Scan(&l.ID, &l.Title, &l.Type, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Lesson{}, fmt.Errorf("lesson %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return content.Lesson{}, fmt.Errorf("get lesson %s: %w", id, err)
	}
	l.Content = json.RawMessage(raw)
	return l, nil
}

// Lessons returns all lessons ordered by id.
func (s *Store) Lessons(ctx context.Context) ([]content.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, type, content FROM lessons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var out []content.Lesson
	for rows.Next() {
		var (
			l   content.Lesson
			raw string
		)
		if err := rows.Scan(&l.ID, &l.Title, &l.Type, &raw); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		l.Content = json.RawMessage(raw)
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteLesson removes a lesson. Completions referring to it are kept.
func (s *Store) DeleteLesson(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lesson %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("lesson %s: %w", id, ErrNotFound)
	}
	return nil
}
