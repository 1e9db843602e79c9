package authoring

// Config holds lesson drafting settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Language is the language lesson text is written in.
	Language string

	// Checks run on every draft after it normalizes. Nil uses DefaultChecks.
	Checks []Check
}

// DefaultConfig returns drafting defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
		Language:    "Brazilian Portuguese",
	}
}
