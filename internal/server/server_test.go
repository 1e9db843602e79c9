package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/evaluate"
	"github.com/yufin/yufin/internal/lesson"
	"github.com/yufin/yufin/internal/rewards"
	"github.com/yufin/yufin/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	require.NoError(t, st.PutLesson(ctx, content.Lesson{
		ID: "l-choice", Title: "Poupar", Type: "choice",
		Content: json.RawMessage(`{"question":"Guardar o troco?","options":[{"text":"Sim","correct":true},{"text":"Não","correct":false}]}`),
	}))
	require.NoError(t, st.PutLesson(ctx, content.Lesson{
		ID: "l-math", Title: "Troco", Type: "math",
		Content: json.RawMessage(`{"question":"10 - 5,50","answer":4.5}`),
	}))
	return NewLocal(st, rewards.NewService(st, nil))
}

func newTestServer(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()
	local := newTestLocal(t)
	srv := httptest.NewServer(NewRouter(NewHandler(local, nil), nil))
	t.Cleanup(srv.Close)
	c, err := api.New(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return srv, c
}

func TestServer_Lessons(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	list, err := c.Lessons(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "l-choice", list[0].ID)

	l, err := c.Lesson(ctx, "l-math")
	require.NoError(t, err)
	assert.Equal(t, content.TypeMath, l.LessonType())
	assert.JSONEq(t, `{"question":"10 - 5,50","answer":4.5}`, string(l.Content))

	_, err = c.Lesson(ctx, "missing")
	assert.True(t, errors.Is(err, api.ErrNotFound), "got %v", err)
}

func TestServer_CompleteLesson(t *testing.T) {
	_, c := newTestServer(t)
	ctx := context.Background()

	p, err := c.CompleteLesson(ctx, "ana", api.Completion{LessonID: "l-choice", Score: 100, TimeSpent: 7, IsPerfect: true})
	require.NoError(t, err)
	assert.Equal(t, 25, p.Reward)
	assert.Equal(t, 25, p.User.Coins)
	assert.Equal(t, []string{"l-choice"}, p.User.CompletedLessons)
	assert.ElementsMatch(t, []string{"first-lesson", "perfect-score"}, p.NewAchievements)

	_, err = c.CompleteLesson(ctx, "ana", api.Completion{LessonID: "l-choice", Score: 100, IsPerfect: true})
	assert.True(t, errors.Is(err, api.ErrDuplicateCompletion), "got %v", err)

	_, err = c.CompleteLesson(ctx, "ana", api.Completion{LessonID: "nope", Score: 50})
	assert.True(t, errors.Is(err, api.ErrNotFound), "got %v", err)

	u, err := c.User(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, 100, u.XP)
	assert.Len(t, u.Achievements, 2)
}

func TestServer_RejectsBadBodies(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []string{
		`not json`,
		`{"score":50}`,
		`{"lessonId":"l-choice","score":101}`,
		`{"lessonId":"l-choice","score":50,"timeSpent":-1}`,
	}
	for _, body := range tests {
		resp, err := http.Post(srv.URL+"/users/ana/complete-lesson", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestServer_UnknownUser(t *testing.T) {
	_, c := newTestServer(t)
	_, err := c.User(context.Background(), "ghost")
	assert.True(t, errors.Is(err, api.ErrNotFound), "got %v", err)
}

func TestServer_HealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthcheck")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// The controller plays and reports against the local collaborator directly.
func TestLocal_OfflinePlay(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()
	ctrl := lesson.New(local, local, lesson.Config{UserID: "ana", Manual: true}, nil)

	a, err := ctrl.Start(ctx, "l-math")
	require.NoError(t, err)
	require.Equal(t, lesson.StatusPlaying, a.Status())

	out, err := a.Submit(evaluate.NumericAnswer{Input: "4,50"})
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)
	require.NoError(t, a.Continue())

	rep, err := a.Report(ctx)
	require.NoError(t, err)
	assert.True(t, rep.Saved)
	require.NotNil(t, rep.Progress)
	assert.Equal(t, 25, rep.Progress.Reward)

	// Replaying a completed lesson reports the duplicate as saved.
	a, err = ctrl.Start(ctx, "l-math")
	require.NoError(t, err)
	a.Submit(evaluate.NumericAnswer{Input: "1"})
	a.Continue()
	rep, err = a.Report(ctx)
	require.NoError(t, err)
	assert.True(t, rep.Duplicate)
	assert.Equal(t, lesson.NoticeAlreadyCompleted, rep.Notice)
}
