package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yufin/yufin/internal/store"
)

func quickRetry(n int) RetryConfig {
	return RetryConfig{MaxAttempts: n, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond, Multiplier: 2}
}

func TestRetrying(t *testing.T) {
	tests := []struct {
		name      string
		script    []Reply
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{
			name:      "unavailable then ok",
			script:    []Reply{{Err: ErrUnavailable}, {JSON: `{}`}},
			attempts:  3,
			wantCalls: 2,
		},
		{
			name:      "rate limited until exhausted",
			script:    []Reply{{Err: &RateLimitError{}}, {Err: &RateLimitError{}}, {Err: &RateLimitError{}}},
			attempts:  3,
			wantCalls: 3,
			wantErr:   &RateLimitError{},
		},
		{
			name:      "rejected output retried once",
			script:    []Reply{{Err: &SchemaError{}}, {Err: &SchemaError{}}, {JSON: `{}`}},
			attempts:  5,
			wantCalls: 2,
			wantErr:   &SchemaError{},
		},
		{
			name:      "truncation is final",
			script:    []Reply{{Err: ErrTruncated}, {JSON: `{}`}},
			attempts:  3,
			wantCalls: 1,
			wantErr:   ErrTruncated,
		},
		{
			name:      "zero attempts still calls once",
			script:    []Reply{{JSON: `{}`}},
			attempts:  0,
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := NewFake(tt.script...)
			_, err := Retrying(fake, quickRetry(tt.attempts)).Complete(context.Background(), Prompt{User: "q"})
			assert.Len(t, fake.Prompts(), tt.wantCalls)
			switch want := tt.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *RateLimitError:
				var rl *RateLimitError
				assert.ErrorAs(t, err, &rl)
			case *SchemaError:
				var se *SchemaError
				assert.ErrorAs(t, err, &se)
			default:
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestRetrying_StopsOnCancel(t *testing.T) {
	fake := NewFake(Reply{Err: ErrUnavailable}, Reply{JSON: `{}`})
	p := Retrying(fake, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Complete(ctx, Prompt{User: "q"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fake.Prompts(), 1)
}

func TestRetrying_HonoursRetryAfter(t *testing.T) {
	r := &retrying{cfg: quickRetry(3)}
	assert.Equal(t, 7*time.Second, r.wait(0, &RateLimitError{RetryAfter: 7 * time.Second}))

	r.cfg = RetryConfig{InitialWait: time.Second, MaxWait: 3 * time.Second, Multiplier: 2}
	for range 20 {
		w := r.wait(4, ErrUnavailable)
		assert.GreaterOrEqual(t, w, 2400*time.Millisecond)
		assert.LessOrEqual(t, w, 3600*time.Millisecond)
	}
}

type memLog struct {
	rows []store.LLMRequest
	err  error
}

func (m *memLog) AppendLLMRequest(_ context.Context, r store.LLMRequest) error {
	m.rows = append(m.rows, r)
	return m.err
}

func TestRecording(t *testing.T) {
	rec := &memLog{}
	fake := NewFake(Reply{JSON: `{"ok":true}`, InputTokens: 12, OutputTokens: 34}, Reply{Err: ErrTruncated})
	p := Recording(fake, "anthropic", rec, nil)

	c, err := p.Complete(context.Background(), Prompt{Purpose: "lesson-draft", User: "q"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(c.JSON))

	_, err = p.Complete(context.Background(), Prompt{User: "q"})
	require.ErrorIs(t, err, ErrTruncated)

	require.Len(t, rec.rows, 2)
	ok, failed := rec.rows[0], rec.rows[1]
	assert.Equal(t, "anthropic", ok.Provider)
	assert.Equal(t, "fake", ok.Model)
	assert.Equal(t, "lesson-draft", ok.Purpose)
	assert.True(t, ok.Success)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, 34, ok.OutputTokens)

	assert.False(t, failed.Success)
	assert.Equal(t, "unlabelled", failed.Purpose)
	assert.Contains(t, failed.ErrorMessage, "truncated")
}

func TestRecording_LogFailureIsIgnored(t *testing.T) {
	rec := &memLog{err: errors.New("disk full")}
	p := Recording(NewFake(Reply{JSON: `{}`}), "openai", rec, nil)
	_, err := p.Complete(context.Background(), Prompt{User: "q"})
	assert.NoError(t, err)
	assert.Equal(t, "fake", p.Model())
}

func TestRecordingUnderRetrying_RecordsEveryAttempt(t *testing.T) {
	rec := &memLog{}
	fake := NewFake(Reply{Err: ErrUnavailable}, Reply{JSON: `{}`})
	p := Retrying(Recording(fake, "gemini", rec, nil), quickRetry(3))

	_, err := p.Complete(context.Background(), Prompt{Purpose: "lesson-draft"})
	require.NoError(t, err)
	require.Len(t, rec.rows, 2)
	assert.False(t, rec.rows[0].Success)
	assert.True(t, rec.rows[1].Success)
}
