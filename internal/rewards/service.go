// Package rewards turns lesson completions into coins, experience, levels
// and achievements.
package rewards

import (
	"context"
	"fmt"

	"github.com/yufin/yufin/internal/logger"
	"github.com/yufin/yufin/internal/store"
)

// Repo is the persistence the service needs.
type Repo interface {
	User(ctx context.Context, id string) (*store.User, error)
	EnsureUser(ctx context.Context, id, name string) (*store.User, error)
	CompletionStats(ctx context.Context, userID string) (store.Stats, error)
	ApplyCompletion(ctx context.Context, c store.Completion, g store.Grant) ([]store.Achievement, error)
	Achievements(ctx context.Context, userID string) ([]store.Achievement, error)
	Completions(ctx context.Context, userID string) ([]store.Completion, error)
}

// Completion is a finished lesson being rewarded.
type Completion struct {
	UserID     string
	LessonID   string
	LessonType string
	Score      int
	TimeSpent  int
	IsPerfect  bool
}

// Award is what a completion earned.
type Award struct {
	User            store.User
	Coins           int
	XP              int
	LeveledUp       bool
	NewAchievements []Achievement
}

// Profile is a user with their completed lessons and achievements.
type Profile struct {
	User             store.User
	CompletedLessons []string
	Achievements     []Achievement
}

// Service applies rewards on completion.
type Service struct {
	repo Repo
	log  *logger.Logger
}

// NewService creates a rewards service.
func NewService(repo Repo, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log}
}

// Apply records a completion and returns what it earned. A lesson the user
// already completed fails with store.ErrAlreadyCompleted.
func (s *Service) Apply(ctx context.Context, c Completion) (*Award, error) {
	before, err := s.repo.EnsureUser(ctx, c.UserID, "")
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.CompletionStats(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	p := progress{
		lessons:       stats.Lessons + 1,
		perfect:       stats.Perfect,
		byType:        stats.ByType,
		perfectByType: stats.PerfectByType,
		last:          c,
	}
	p.byType[c.LessonType]++
	if c.IsPerfect {
		p.perfect++
		p.perfectByType[c.LessonType]++
	}

	coins := Coins(c.Score, c.IsPerfect)
	xp := XP(c.Score)
	level := LevelFor(before.XP + xp)

	grant := store.Grant{Coins: coins, XP: xp, Level: level}
	for _, a := range earnedAfter(p) {
		grant.Achievements = append(grant.Achievements, store.Achievement{ID: a.ID, Rarity: string(a.Rarity)})
	}

	unlocked, err := s.repo.ApplyCompletion(ctx, store.Completion{
		UserID:     c.UserID,
		LessonID:   c.LessonID,
		LessonType: c.LessonType,
		Score:      c.Score,
		TimeSpent:  c.TimeSpent,
		IsPerfect:  c.IsPerfect,
	}, grant)
	if err != nil {
		return nil, fmt.Errorf("apply completion: %w", err)
	}

	after, err := s.repo.User(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	award := &Award{
		User:      *after,
		Coins:     coins,
		XP:        xp,
		LeveledUp: after.Level > before.Level,
	}
	for _, u := range unlocked {
		if a, ok := Lookup(u.ID); ok {
			award.NewAchievements = append(award.NewAchievements, a)
		}
	}

	s.log.Info("completion rewarded",
		"user", c.UserID,
		"lesson", c.LessonID,
		"score", c.Score,
		"coins", coins,
		"level", after.Level,
		"new_achievements", len(award.NewAchievements),
	)
	return award, nil
}

// Profile returns the user with their completions and achievements.
func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.repo.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	completions, err := s.repo.Completions(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked, err := s.repo.Achievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{User: *u, CompletedLessons: []string{}, Achievements: []Achievement{}}
	for _, c := range completions {
		p.CompletedLessons = append(p.CompletedLessons, c.LessonID)
	}
	for _, a := range unlocked {
		if def, ok := Lookup(a.ID); ok {
			p.Achievements = append(p.Achievements, def)
		}
	}
	return p, nil
}
