package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrUnavailable wraps failures to reach the vendor or to get an
	// answer from it. They are worth retrying.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrTruncated means the output hit the token limit.
	ErrTruncated = errors.New("llm output truncated at max tokens")
)

// RateLimitError is a 429 from the vendor.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// SchemaError is output that is not JSON or does not match the prompt's
// schema.
type SchemaError struct {
	Raw json.RawMessage
	Err error
}

func (e *SchemaError) Error() string { return fmt.Sprintf("llm output rejected: %v", e.Err) }

func (e *SchemaError) Unwrap() error { return e.Err }

// classify maps a vendor SDK error carrying an HTTP status.
func classify(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
