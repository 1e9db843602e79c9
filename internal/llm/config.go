package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects one vendor and model.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter" or
	// "fake".
	Provider string

	// Model is a vendor model id or one of the vendor's aliases. Empty picks
	// the vendor default.
	Model string

	// APIKey falls back to the vendor's standard variable, such as
	// ANTHROPIC_API_KEY.
	APIKey string

	// BaseURL points OpenAI-compatible vendors at another endpoint.
	BaseURL string

	// Timeout bounds one Complete call including retries.
	Timeout time.Duration

	Retry RetryConfig
}

// RetryConfig is the backoff of Retrying.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

type vendor struct {
	keyEnv       string
	defaultModel string
	aliases      map[string]string
}

var vendors = map[string]vendor{
	"anthropic": {
		keyEnv:       "ANTHROPIC_API_KEY",
		defaultModel: "claude-haiku-4-5",
		aliases: map[string]string{
			"claude-haiku":  "claude-haiku-4-5",
			"claude-sonnet": "claude-sonnet-4-5",
		},
	},
	"openai": {
		keyEnv:       "OPENAI_API_KEY",
		defaultModel: "gpt-4o-mini",
	},
	"gemini": {
		keyEnv:       "GEMINI_API_KEY",
		defaultModel: "gemini-2.5-flash",
		aliases: map[string]string{
			"gemini-flash": "gemini-2.5-flash",
			"gemini-pro":   "gemini-2.5-pro",
		},
	},
	"openrouter": {
		keyEnv:       "OPENROUTER_API_KEY",
		defaultModel: "google/gemini-2.5-flash",
	},
}

// discoveryOrder is the order DiscoverConfig probes vendor keys in.
var discoveryOrder = []string{"gemini", "openai", "anthropic", "openrouter"}

// DefaultConfig returns the anthropic vendor with the default backoff.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Timeout:  45 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

// DiscoverConfig picks the first vendor whose standard API key variable is
// set.
func DiscoverConfig() (Config, bool) {
	for _, name := range discoveryOrder {
		if os.Getenv(vendors[name].keyEnv) != "" {
			cfg := DefaultConfig()
			cfg.Provider = name
			return cfg.Resolved(), true
		}
	}
	return Config{}, false
}

// Resolved fills the API key from the vendor variable and expands model
// aliases.
func (c Config) Resolved() Config {
	v, ok := vendors[c.Provider]
	if !ok {
		return c
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv(v.keyEnv)
	}
	if c.Model == "" {
		c.Model = v.defaultModel
	}
	if id, ok := v.aliases[c.Model]; ok {
		c.Model = id
	}
	return c
}

// Validate reports a vendor that is unknown or has no key.
func (c Config) Validate() error {
	if c.Provider == "fake" {
		return nil
	}
	v, ok := vendors[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.Resolved().APIKey == "" {
		return fmt.Errorf("%s provider needs an API key: set %s or YUFIN_LLM_API_KEY", c.Provider, v.keyEnv)
	}
	return nil
}
