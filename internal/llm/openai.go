package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// openaiProvider speaks the chat completions API of OpenAI and of
// compatible gateways such as OpenRouter.
type openaiProvider struct {
	client *openai.Client
	model  string
}

func newOpenAI(cfg Config) *openaiProvider {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &openaiProvider{client: openai.NewClientWithConfig(oc), model: cfg.Model}
}

func newOpenRouter(cfg Config) *openaiProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openRouterBaseURL
	}
	return newOpenAI(cfg)
}

func (p *openaiProvider) Model() string { return p.model }

func (p *openaiProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: pr.MaxTokens,
		Temperature:         float32(pr.Temperature),
	}
	if pr.System != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: pr.System,
		})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: pr.User,
	})
	if pr.Schema != nil {
		def, err := json.Marshal(pr.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", pr.Schema.Name, err)
		}
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        pr.Schema.Name,
				Description: pr.Schema.Description,
				Schema:      json.RawMessage(def),
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, classify(apiErr.HTTPStatusCode, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, &SchemaError{Err: errors.New("chat completion has no choices")}
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, ErrTruncated
	}

	out := json.RawMessage(choice.Message.Content)
	if err := check(pr.Schema, out); err != nil {
		return nil, err
	}
	return &Completion{
		JSON:         out,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
