package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

type retrying struct {
	Provider
	cfg RetryConfig
}

// Retrying retries transient failures with jittered exponential backoff.
// Rate limits and unavailability are retried up to MaxAttempts; rejected
// output is retried once; anything else is returned immediately.
func Retrying(p Provider, cfg RetryConfig) Provider {
	return &retrying{Provider: p, cfg: cfg}
}

func (r *retrying) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	rejected := 0
	var err error
	for i := range attempts {
		var c *Completion
		c, err = r.Provider.Complete(ctx, p)
		if err == nil {
			return c, nil
		}

		var se *SchemaError
		switch {
		case errors.As(err, &se):
			rejected++
			if rejected > 1 {
				return nil, err
			}
		case !transient(err):
			return nil, err
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(r.wait(i, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

func transient(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl) || errors.Is(err, ErrUnavailable)
}

// wait is the pause before attempt n+1, honouring a vendor's Retry-After.
func (r *retrying) wait(n int, err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.cfg.InitialWait)
	for range n {
		d *= r.cfg.Multiplier
	}
	if limit := float64(r.cfg.MaxWait); limit > 0 && d > limit {
		d = limit
	}
	// ±20% jitter.
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
