// Package config loads yufin settings from a TOML file and the environment.
//
// Precedence, lowest first: built-in defaults, the config file, YUFIN_*
// environment variables, command-line flags (applied by cmd).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/yufin/yufin/internal/llm"
	"github.com/yufin/yufin/internal/logger"
	"github.com/yufin/yufin/internal/session"
)

// FileConfig represents the TOML configuration file. Unset keys stay nil.
type FileConfig struct {
	User   UserSection   `toml:"user"`
	API    APISection    `toml:"api"`
	Play   PlaySection   `toml:"play"`
	Server ServerSection `toml:"server"`
	Log    LogSection    `toml:"log"`
	LLM    LLMSection    `toml:"llm"`
}

// UserSection maps the [user] table.
type UserSection struct {
	ID   *string `toml:"id"`
	Name *string `toml:"name"`
}

// APISection maps the [api] table.
type APISection struct {
	BaseURL *string `toml:"base-url"`
	Timeout *string `toml:"timeout"`
}

// PlaySection maps the [play] table.
type PlaySection struct {
	Offline       *bool   `toml:"offline"`
	DB            *string `toml:"db"`
	FeedbackDelay *string `toml:"feedback-delay"`
	FlipBackDelay *string `toml:"flip-back-delay"`
}

// ServerSection maps the [server] table.
type ServerSection struct {
	Addr *string `toml:"addr"`
}

// LogSection maps the [log] table.
type LogSection struct {
	Format *string `toml:"format"`
	Level  *string `toml:"level"`
	Path   *string `toml:"path"`
}

// LLMSection maps the [llm] table. API keys are only read from the
// environment.
type LLMSection struct {
	Provider *string `toml:"provider"`
	Model    *string `toml:"model"`
	BaseURL  *string `toml:"base-url"`
	Timeout  *string `toml:"timeout"`
}

// Config is the resolved configuration.
type Config struct {
	UserID   string
	UserName string

	APIBaseURL string
	APITimeout time.Duration

	Offline bool
	DBPath  string
	Timers  session.TimerConfig

	ServerAddr string

	Log logger.Options
	LLM llm.Config
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		UserID:     "local",
		UserName:   "Learner",
		APIBaseURL: "http://localhost:8080",
		APITimeout: 10 * time.Second,
		Timers:     session.DefaultTimerConfig(),
		ServerAddr: ":8080",
		Log:        logger.Options{Format: "console", Level: "info"},
		LLM:        llm.DefaultConfig(),
	}
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return fc, nil
}

// Load resolves defaults, the file at path and the environment.
func Load(path string) (Config, error) {
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Defaults()
	if err := cfg.apply(fc); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(fc FileConfig) error {
	setString(&c.UserID, fc.User.ID)
	setString(&c.UserName, fc.User.Name)
	setString(&c.APIBaseURL, fc.API.BaseURL)
	if err := setDuration(&c.APITimeout, fc.API.Timeout, "api.timeout"); err != nil {
		return err
	}

	if fc.Play.Offline != nil {
		c.Offline = *fc.Play.Offline
	}
	setString(&c.DBPath, fc.Play.DB)
	if err := setDuration(&c.Timers.Feedback, fc.Play.FeedbackDelay, "play.feedback-delay"); err != nil {
		return err
	}
	if err := setDuration(&c.Timers.FlipBack, fc.Play.FlipBackDelay, "play.flip-back-delay"); err != nil {
		return err
	}

	setString(&c.ServerAddr, fc.Server.Addr)

	setString(&c.Log.Format, fc.Log.Format)
	setString(&c.Log.Level, fc.Log.Level)
	setString(&c.Log.Path, fc.Log.Path)

	setString(&c.LLM.Provider, fc.LLM.Provider)
	setString(&c.LLM.Model, fc.LLM.Model)
	setString(&c.LLM.BaseURL, fc.LLM.BaseURL)
	return setDuration(&c.LLM.Timeout, fc.LLM.Timeout, "llm.timeout")
}

func (c *Config) applyEnv() error {
	envString(&c.UserID, "YUFIN_USER")
	envString(&c.APIBaseURL, "YUFIN_API_URL")
	envString(&c.DBPath, "YUFIN_DB")
	envString(&c.ServerAddr, "YUFIN_ADDR")
	envString(&c.Log.Format, "YUFIN_LOG_FORMAT")
	envString(&c.Log.Level, "YUFIN_LOG_LEVEL")
	envString(&c.Log.Path, "YUFIN_LOG_PATH")

	if v := os.Getenv("YUFIN_OFFLINE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("YUFIN_OFFLINE: %w", err)
		}
		c.Offline = b
	}

	// Vendor keys such as ANTHROPIC_API_KEY are picked up by the llm
	// package when YUFIN_LLM_API_KEY is unset.
	envString(&c.LLM.Provider, "YUFIN_LLM_PROVIDER")
	envString(&c.LLM.Model, "YUFIN_LLM_MODEL")
	envString(&c.LLM.APIKey, "YUFIN_LLM_API_KEY")
	envString(&c.LLM.BaseURL, "YUFIN_LLM_BASE_URL")
	return nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil || *v == "" {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be positive", key)
	}
	*dst = d
	return nil
}

func envString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
