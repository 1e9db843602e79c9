package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().UserID, cfg.UserID)
	assert.Equal(t, 2*time.Second, cfg.Timers.Feedback)
	assert.Equal(t, time.Second, cfg.Timers.FlipBack)
	assert.Equal(t, ":8080", cfg.ServerAddr)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[user]
id = "ana"
name = "Ana"

[api]
base-url = "https://api.example.com"
timeout = "3s"

[play]
offline = true
db = "/tmp/yufin.db"
feedback-delay = "1500ms"

[log]
format = "json"
level = "debug"

[llm]
provider = "gemini"
model = "gemini-pro"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ana", cfg.UserID)
	assert.Equal(t, "Ana", cfg.UserName)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.True(t, cfg.Offline)
	assert.Equal(t, "/tmp/yufin.db", cfg.DBPath)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timers.Feedback)
	assert.Equal(t, time.Second, cfg.Timers.FlipBack, "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-pro", cfg.LLM.Model)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Resolved().Model)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[user]\nid = \"ana\"\n[play]\noffline = true\n")
	t.Setenv("YUFIN_USER", "bia")
	t.Setenv("YUFIN_OFFLINE", "false")
	t.Setenv("YUFIN_LLM_API_KEY", "g-key")
	t.Setenv("YUFIN_LLM_MODEL", "gemini-flash")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bia", cfg.UserID)
	assert.False(t, cfg.Offline)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-flash", cfg.LLM.Model)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"bad toml":          "[user\nid=",
		"bad duration":      "[api]\ntimeout = \"soon\"\n",
		"negative duration": "[play]\nfeedback-delay = \"-1s\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	t.Run("bad env bool", func(t *testing.T) {
		t.Setenv("YUFIN_OFFLINE", "maybe")
		_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := LoadFile("")
		assert.Error(t, err)
	})
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	t.Setenv("YUFIN_CONFIG", "")

	assert.Equal(t, filepath.Join(dir, "yufin", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "yufin", "yufin.log"), DefaultLogPath())

	t.Setenv("YUFIN_CONFIG", "/etc/yufin.toml")
	assert.Equal(t, "/etc/yufin.toml", DefaultConfigPath())
}
