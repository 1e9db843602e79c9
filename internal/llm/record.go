package llm

import (
	"context"
	"time"

	"github.com/yufin/yufin/internal/logger"
	"github.com/yufin/yufin/internal/store"
)

// RequestLog persists one row per vendor call.
type RequestLog interface {
	AppendLLMRequest(ctx context.Context, r store.LLMRequest) error
}

type recording struct {
	Provider
	vendor string
	reqLog RequestLog
	log    *logger.Logger
}

// Recording logs every call and appends it to reqLog. Either sink may be
// nil. A failed append is logged and never fails the call.
func Recording(p Provider, vendor string, reqLog RequestLog, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &recording{Provider: p, vendor: vendor, reqLog: reqLog, log: log}
}

func (r *recording) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	start := time.Now()
	c, err := r.Provider.Complete(ctx, p)

	row := store.LLMRequest{
		Timestamp: start,
		Provider:  r.vendor,
		Model:     r.Provider.Model(),
		Purpose:   purposeOf(p),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if c != nil {
		row.Model = c.Model
		row.InputTokens = c.InputTokens
		row.OutputTokens = c.OutputTokens
	}

	log := r.log.With("provider", row.Provider, "model", row.Model, "purpose", row.Purpose, "latency_ms", row.LatencyMs)
	if err != nil {
		row.ErrorMessage = err.Error()
		log.Warn("llm request failed", "error", err)
	} else {
		log.Debug("llm request", "input_tokens", row.InputTokens, "output_tokens", row.OutputTokens)
	}

	if r.reqLog != nil {
		if logErr := r.reqLog.AppendLLMRequest(ctx, row); logErr != nil {
			r.log.Warn("record llm request", "error", logErr)
		}
	}
	return c, err
}
