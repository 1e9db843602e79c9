// Package llm drafts structured JSON with a hosted language model.
//
// Every vendor is reached through Provider. New assembles the configured
// vendor behind two decorators: Retrying, then Recording.
package llm

import (
	"context"
	"encoding/json"
)

// Provider produces one completion for a prompt.
type Provider interface {
	// Complete sends the prompt and returns the model's JSON output. When
	// the prompt carries a Schema the output has already been validated
	// against it.
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// Model returns the model id requests are sent to.
	Model() string
}

// Prompt is a single-turn request.
type Prompt struct {
	// Purpose labels the request in the request log, e.g. "lesson-draft".
	Purpose string

	System string
	User   string

	// Schema constrains the output. Nil asks for free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is kebab-case; vendors use it as the tool or format name.
	Name        string
	Description string
	Definition  map[string]any
}

// Completion is a model's answer.
type Completion struct {
	JSON  json.RawMessage
	Model string

	InputTokens  int
	OutputTokens int
}

// purposeOf falls back to "unlabelled" so request logs stay groupable.
func purposeOf(p Prompt) string {
	if p.Purpose == "" {
		return "unlabelled"
	}
	return p.Purpose
}
