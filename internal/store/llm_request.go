package store

import (
	"context"
	"fmt"
	"time"
)

// LLMRequest records one call to an LLM provider.
type LLMRequest struct {
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// AppendLLMRequest stores an LLM request record.
func (s *Store) AppendLLMRequest(ctx context.Context, r LLMRequest) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO llm_requests
		 (sequence, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, ts.UTC().Format(time.RFC3339Nano), r.Provider, r.Model, r.Purpose,
		r.InputTokens, r.OutputTokens, r.LatencyMs, r.Success, r.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}

// RecentLLMRequests returns up to limit records, newest first.
func (s *Store) RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT sequence, timestamp, provider, model, purpose, input_tokens, output_tokens,
		        latency_ms, success, error_message
		 FROM llm_requests ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list llm requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequest
	for rows.Next() {
		var (
			r  LLMRequest
			ts string
		)
		if err := rows.Scan(&r.Sequence, &ts, &r.Provider, &r.Model, &r.Purpose,
			&r.InputTokens, &r.OutputTokens, &r.LatencyMs, &r.Success, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan llm request: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LLMUsage aggregates LLM requests by purpose or model.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMUsageByPurpose aggregates requests per purpose.
func (s *Store) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return s.llmUsage(ctx, "purpose")
}

// LLMUsageByModel aggregates requests per model.
func (s *Store) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return s.llmUsage(ctx, "model")
}

// llmUsage groups by column, which must be a fixed column name.
func (s *Store) llmUsage(ctx context.Context, column string) ([]LLMUsage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*), SUM(input_tokens), SUM(output_tokens), CAST(AVG(latency_ms) AS INTEGER)
		 FROM llm_requests GROUP BY `+column+` ORDER BY `+column)
	if err != nil {
		return nil, fmt.Errorf("llm usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		if err := rows.Scan(&u.Key, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
