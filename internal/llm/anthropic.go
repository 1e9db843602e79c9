package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropic(cfg Config, opts ...option.RequestOption) *anthropicProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicProvider{client: anthropic.NewClient(opts...), model: cfg.Model}
}

func (p *anthropicProvider) Model() string { return p.model }

func (p *anthropicProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(pr.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(pr.User)),
		},
	}
	if pr.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: pr.System}}
	}
	if pr.Temperature > 0 {
		params.Temperature = anthropic.Float(pr.Temperature)
	}
	if pr.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: pr.Schema.Definition},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, classify(apiErr.StatusCode, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		return nil, ErrTruncated
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, &SchemaError{Err: errors.New("anthropic reply has no text block")}
	}
	out := json.RawMessage(text)
	if err := check(pr.Schema, out); err != nil {
		return nil, err
	}
	return &Completion{
		JSON:         out,
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}
