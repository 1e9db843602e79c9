package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yufin/yufin/internal/content"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestLessonCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	l := content.Lesson{
		ID:      "l1",
		Title:   "Troco",
		Type:    "math-problem",
		Content: json.RawMessage(`{"problems":[{"question":"1+1","answer":2}]}`),
	}
	if err := s.PutLesson(ctx, l); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Lesson(ctx, "l1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Troco" || got.Type != "math-problem" || string(got.Content) != string(l.Content) {
		t.Errorf("got %+v", got)
	}

	l.Title = "Troco certo"
	if err := s.PutLesson(ctx, l); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	all, err := s.Lessons(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].Title != "Troco certo" {
		t.Errorf("lessons = %+v", all)
	}

	if err := s.DeleteLesson(ctx, "l1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Lesson(ctx, "l1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteLesson(ctx, "l1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestPutLessonRequiresID(t *testing.T) {
	s := openTestStore(t)
	if err := s.PutLesson(context.Background(), content.Lesson{Type: "choice"}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.User(ctx, "ana"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v", err)
	}
	u, err := s.EnsureUser(ctx, "ana", "Ana")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if u.Name != "Ana" || u.Level != 1 || u.Coins != 0 {
		t.Errorf("new user = %+v", u)
	}
	u, err = s.EnsureUser(ctx, "ana", "Other")
	if err != nil || u.Name != "Ana" {
		t.Errorf("ensure existing = %+v, %v", u, err)
	}
}

func TestApplyCompletion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.EnsureUser(ctx, "ana", "Ana"); err != nil {
		t.Fatal(err)
	}

	c := Completion{UserID: "ana", LessonID: "l1", LessonType: "choice", Score: 100, TimeSpent: 12, IsPerfect: true}
	g := Grant{
		Coins: 25, XP: 100, Level: 1,
		Achievements: []Achievement{{ID: "first-lesson", Rarity: "common"}, {ID: "perfect-score", Rarity: "rare"}},
	}
	unlocked, err := s.ApplyCompletion(ctx, c, g)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(unlocked) != 2 || unlocked[0].Sequence >= unlocked[1].Sequence {
		t.Errorf("unlocked = %+v", unlocked)
	}

	u, _ := s.User(ctx, "ana")
	if u.Coins != 25 || u.XP != 100 {
		t.Errorf("user after completion = %+v", u)
	}

	// Same lesson again: rejected, nothing changes.
	_, err = s.ApplyCompletion(ctx, c, g)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("duplicate err = %v, want ErrAlreadyCompleted", err)
	}
	u, _ = s.User(ctx, "ana")
	if u.Coins != 25 || u.XP != 100 {
		t.Errorf("duplicate changed user: %+v", u)
	}

	// Another lesson re-granting an unlocked achievement does not unlock it twice.
	c2 := Completion{UserID: "ana", LessonID: "l2", LessonType: "math-problem", Score: 67}
	unlocked, err = s.ApplyCompletion(ctx, c2, Grant{Coins: 16, XP: 67, Level: 1,
		Achievements: []Achievement{{ID: "first-lesson", Rarity: "common"}}})
	if err != nil {
		t.Fatalf("second lesson: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("re-unlocked %+v", unlocked)
	}

	done, err := s.HasCompleted(ctx, "ana", "l2")
	if err != nil || !done {
		t.Errorf("HasCompleted = %v, %v", done, err)
	}

	st, err := s.CompletionStats(ctx, "ana")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Lessons != 2 || st.Perfect != 1 || st.ByType["choice"] != 1 || st.PerfectByType["math-problem"] != 0 {
		t.Errorf("stats = %+v", st)
	}

	list, err := s.Completions(ctx, "ana")
	if err != nil {
		t.Fatalf("completions: %v", err)
	}
	if len(list) != 2 || list[0].LessonID != "l2" || list[1].Reward != 25 || !list[1].IsPerfect {
		t.Errorf("completions = %+v", list)
	}

	counts, total, err := s.AchievementCounts(ctx, "ana")
	if err != nil || total != 2 || counts["rare"] != 1 {
		t.Errorf("achievement counts = %v %d %v", counts, total, err)
	}
}

func TestApplyCompletionCreatesUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ApplyCompletion(ctx,
		Completion{UserID: "bia", LessonID: "l1", LessonType: "choice", Score: 50},
		Grant{Coins: 15, XP: 50, Level: 1})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	u, err := s.User(ctx, "bia")
	if err != nil || u.Coins != 15 {
		t.Errorf("user = %+v, %v", u, err)
	}
}

func TestResetUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.ApplyCompletion(ctx, Completion{UserID: "ana", LessonID: "l1", LessonType: "choice", Score: 100},
		Grant{Coins: 20, XP: 100, Level: 2, Achievements: []Achievement{{ID: "first-lesson", Rarity: "common"}}})

	if err := s.ResetUser(ctx, "ana"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	u, _ := s.User(ctx, "ana")
	if u.Coins != 0 || u.XP != 0 || u.Level != 1 {
		t.Errorf("user after reset = %+v", u)
	}
	if done, _ := s.HasCompleted(ctx, "ana", "l1"); done {
		t.Error("completion survived reset")
	}
}

func TestSequenceMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := range 5 {
		n, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if i > 0 && n != prev+1 {
			t.Errorf("sequence %d after %d", n, prev)
		}
		prev = n
	}
}

func TestLLMRequests(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, ok := range []bool{true, false} {
		err := s.AppendLLMRequest(ctx, LLMRequest{
			Provider: "mock", Model: "mock", Purpose: "lesson-draft",
			InputTokens: 10, OutputTokens: 20, LatencyMs: 5, Success: ok,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := s.RecentLLMRequests(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].Success || !got[1].Success || got[0].Purpose != "lesson-draft" {
		t.Errorf("requests = %+v", got)
	}

	usage, err := s.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 1 || usage[0].Key != "mock" || usage[0].Calls != 2 || usage[0].InputTokens != 20 || usage[0].AvgLatencyMs != 5 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("YUFIN_DB", filepath.Join(dir, "nested", "x.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(dir, "nested", "x.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("YUFIN_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, _ = DefaultDBPath()
	if p != filepath.Join(dir, "yufin", "yufin.db") {
		t.Errorf("xdg path = %q", p)
	}
}
