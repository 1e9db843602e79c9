package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{"lesson_id", "l1", "api_key", "sk-123", "dangling"})
	assert.Equal(t, []any{"lesson_id", "l1", "api_key", "[REDACTED]", "dangling"}, got)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "yufin.log")
	l, err := New(Options{Format: "json", Level: "debug", Path: path})
	require.NoError(t, err)

	l.With("session_id", "s1").Info("lesson started", "lesson_id", "l1")
	l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"lesson_id":"l1"`), string(raw))
	assert.Contains(t, string(raw), `"session_id":"s1"`)
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	Nop().Info("discarded", "k", "v")
}
