package rewards

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yufin/yufin/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "rewards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(st, nil), st
}

func achievementIDs(as []Achievement) []string {
	var ids []string
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestCoins(t *testing.T) {
	tests := []struct {
		score   int
		perfect bool
		want    int
	}{
		{0, false, 10},
		{50, false, 15},
		{67, false, 16},
		{100, true, 25},
		{150, false, 20},
		{-5, false, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Coins(tt.score, tt.perfect), "Coins(%d, %v)", tt.score, tt.perfect)
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(499))
	assert.Equal(t, 2, LevelFor(500))
	assert.Equal(t, 3, LevelFor(1000))
	assert.Equal(t, 1, LevelFor(-10))
}

func TestScoreRarity(t *testing.T) {
	assert.Equal(t, RarityCommon, ScoreRarity(49))
	assert.Equal(t, RarityRare, ScoreRarity(50))
	assert.Equal(t, RarityEpic, ScoreRarity(75))
	assert.Equal(t, RarityLegendary, ScoreRarity(100))
}

func TestCatalogLookup(t *testing.T) {
	for _, a := range Catalog() {
		got, ok := Lookup(a.ID)
		require.True(t, ok, a.ID)
		assert.Equal(t, a.Name, got.Name)
		assert.NotEmpty(t, a.Rarity.DisplayName())
	}
	_, ok := Lookup("nope")
	assert.False(t, ok)
}

func TestApply_FirstPerfectLesson(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	award, err := svc.Apply(ctx, Completion{
		UserID: "ana", LessonID: "l1", LessonType: "choice", Score: 100, IsPerfect: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, award.Coins)
	assert.Equal(t, 25, award.User.Coins)
	assert.Equal(t, 100, award.User.XP)
	assert.False(t, award.LeveledUp)
	assert.ElementsMatch(t, []string{"first-lesson", "perfect-score"}, achievementIDs(award.NewAchievements))
}

func TestApply_Duplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c := Completion{UserID: "ana", LessonID: "l1", LessonType: "choice", Score: 50}

	_, err := svc.Apply(ctx, c)
	require.NoError(t, err)

	_, err = svc.Apply(ctx, c)
	assert.True(t, errors.Is(err, store.ErrAlreadyCompleted), "got %v", err)
}

func TestApply_LevelUpAndMilestones(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var last *Award
	for i, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		award, err := svc.Apply(ctx, Completion{
			UserID: "ana", LessonID: id, LessonType: "math-problem", Score: 100, IsPerfect: true,
		})
		require.NoError(t, err, "lesson %d", i)
		last = award
	}

	// 5 x 100 XP reaches level 2 on the fifth lesson.
	assert.True(t, last.LeveledUp)
	assert.Equal(t, 2, last.User.Level)
	assert.ElementsMatch(t, []string{"lessons-5", "math-whiz"}, achievementIDs(last.NewAchievements))

	profile, err := svc.Profile(ctx, "ana")
	require.NoError(t, err)
	assert.Len(t, profile.CompletedLessons, 5)
	assert.Equal(t, "m5", profile.CompletedLessons[0])
	assert.ElementsMatch(t,
		[]string{"first-lesson", "perfect-score", "lessons-5", "math-whiz"},
		achievementIDs(profile.Achievements))
}

func TestProfile_UnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Profile(context.Background(), "ghost")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
