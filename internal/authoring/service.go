// Package authoring drafts new lesson content with an LLM. A draft is only
// returned if it normalizes to playable content in the current stored shape.
package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/llm"
)

// ErrUnplayable is returned when a draft normalizes to the empty sentinel.
var ErrUnplayable = errors.New("draft has no playable items")

// Request describes the lesson to draft.
type Request struct {
	Type  content.LessonType
	Topic string

	// Items is the number of questions, pairs or problems wanted. Zero lets
	// the model decide.
	Items int

	// ID is the lesson id to use. Empty derives one from the title.
	ID string
}

// Draft is a generated lesson ready to store.
type Draft struct {
	Lesson content.Lesson
	Shape  content.Shape
	Items  int
}

// Service drafts lessons.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a drafting service.
func NewService(provider llm.Provider, cfg Config) *Service {
	if cfg.Checks == nil {
		cfg.Checks = DefaultChecks()
	}
	return &Service{provider: provider, cfg: cfg}
}

type draftOutput struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// Draft asks the model for a lesson and validates it.
func (s *Service) Draft(ctx context.Context, req Request) (*Draft, error) {
	schema, ok := SchemaFor(req.Type)
	if !ok {
		return nil, fmt.Errorf("no draft schema for lesson type %q", req.Type)
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, errors.New("topic is required")
	}

	resp, err := s.provider.Complete(ctx, llm.Prompt{
		Purpose:     "lesson-draft",
		System:      systemPrompt,
		User:        buildUserMessage(req, s.cfg),
		Schema:      schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("lesson draft: %w", err)
	}

	var out draftOutput
	if err := json.Unmarshal(resp.JSON, &out); err != nil {
		return nil, fmt.Errorf("parse draft response: %w", err)
	}

	id := req.ID
	if id == "" {
		id = slug(out.Title) + "-" + uuid.NewString()[:8]
	}
	l := content.Lesson{
		ID:      id,
		Title:   strings.TrimSpace(out.Title),
		Type:    string(req.Type),
		Content: out.Content,
	}

	n := content.Normalize(l, 0)
	if !content.Available(n) {
		return nil, fmt.Errorf("%s draft (shape %s): %w", req.Type, n.Shape(), ErrUnplayable)
	}
	if failed := Inspect(l, s.cfg.Checks); len(failed) > 0 {
		return nil, failed[0]
	}

	return &Draft{Lesson: l, Shape: n.Shape(), Items: n.Len()}, nil
}

// slug lowercases s and joins its ASCII words with dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "lesson"
	}
	return out
}
