package llm

import (
	"context"
	"fmt"

	"github.com/yufin/yufin/internal/logger"
)

// NewProvider builds the configured vendor wrapped as
// caller -> Retrying -> Recording -> vendor, so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, reqLog RequestLog, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Resolved()

	var base Provider
	switch cfg.Provider {
	case "anthropic":
		base = newAnthropic(cfg)
	case "openai":
		base = newOpenAI(cfg)
	case "openrouter":
		base = newOpenRouter(cfg)
	case "gemini":
		g, err := newGemini(ctx, cfg)
		if err != nil {
			return nil, err
		}
		base = g
	case "fake":
		base = NewFake()
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	return Retrying(Recording(base, cfg.Provider, reqLog, log), cfg.Retry), nil
}
