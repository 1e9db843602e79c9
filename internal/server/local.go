// Package server is a local stand-in for the lesson and progress
// collaborators, backed by the SQLite store.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/rewards"
	"github.com/yufin/yufin/internal/store"
)

// Local serves lessons and records progress directly against the store. It
// satisfies the lesson controller's source and sink, so it is used both
// behind the HTTP handlers and for offline play.
type Local struct {
	store   *store.Store
	rewards *rewards.Service
}

// NewLocal creates a Local over st.
func NewLocal(st *store.Store, rw *rewards.Service) *Local {
	return &Local{store: st, rewards: rw}
}

// Lesson returns a stored lesson.
func (l *Local) Lesson(ctx context.Context, id string) (content.Lesson, error) {
	les, err := l.store.Lesson(ctx, id)
	if err != nil {
		return content.Lesson{}, mapErr(err)
	}
	return les, nil
}

// Lessons returns the lesson index.
func (l *Local) Lessons(ctx context.Context) ([]api.LessonSummary, error) {
	all, err := l.store.Lessons(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]api.LessonSummary, 0, len(all))
	for _, les := range all {
		out = append(out, api.LessonSummary{ID: les.ID, Title: les.Title, Type: les.Type})
	}
	return out, nil
}

// CompleteLesson records a completion and applies its rewards.
func (l *Local) CompleteLesson(ctx context.Context, userID string, req api.Completion) (*api.Progress, error) {
	les, err := l.store.Lesson(ctx, req.LessonID)
	if err != nil {
		return nil, mapErr(err)
	}
	award, err := l.rewards.Apply(ctx, rewards.Completion{
		UserID:     userID,
		LessonID:   req.LessonID,
		LessonType: string(les.LessonType()),
		Score:      req.Score,
		TimeSpent:  req.TimeSpent,
		IsPerfect:  req.IsPerfect,
	})
	if err != nil {
		return nil, mapErr(err)
	}

	user, err := l.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &api.Progress{
		User:            *user,
		Reward:          award.Coins,
		LeveledUp:       award.LeveledUp,
		NewAchievements: []string{},
	}
	for _, a := range award.NewAchievements {
		p.NewAchievements = append(p.NewAchievements, a.ID)
	}
	return p, nil
}

// User returns a user's progress.
func (l *Local) User(ctx context.Context, id string) (*api.User, error) {
	prof, err := l.rewards.Profile(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	u := &api.User{
		ID:               prof.User.ID,
		Name:             prof.User.Name,
		Coins:            prof.User.Coins,
		XP:               prof.User.XP,
		Level:            prof.User.Level,
		CompletedLessons: prof.CompletedLessons,
		Achievements:     []string{},
	}
	for _, a := range prof.Achievements {
		u.Achievements = append(u.Achievements, a.ID)
	}
	return u, nil
}

// mapErr translates store errors to the collaborator's sentinels.
func mapErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", api.ErrNotFound, err)
	case errors.Is(err, store.ErrAlreadyCompleted):
		return fmt.Errorf("%w: %w", api.ErrDuplicateCompletion, err)
	default:
		return err
	}
}
