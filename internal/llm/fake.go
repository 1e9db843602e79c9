package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one scripted answer of a Fake.
type Reply struct {
	JSON         string
	InputTokens  int
	OutputTokens int
	Err          error
}

// Fake replays scripted replies in order and remembers every prompt. It
// answers ErrUnavailable once the script runs out. Replies are returned as
// scripted, without schema validation.
type Fake struct {
	mu      sync.Mutex
	replies []Reply
	prompts []Prompt
}

// NewFake returns a Fake with the given script.
func NewFake(replies ...Reply) *Fake {
	return &Fake{replies: replies}
}

// Prompts returns the prompts received so far.
func (f *Fake) Prompts() []Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Prompt(nil), f.prompts...)
}

func (f *Fake) Model() string { return "fake" }

func (f *Fake) Complete(_ context.Context, p Prompt) (*Completion, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	if len(f.replies) == 0 {
		f.mu.Unlock()
		return nil, ErrUnavailable
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	f.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return &Completion{JSON: json.RawMessage(r.JSON), Model: "fake", InputTokens: r.InputTokens, OutputTokens: r.OutputTokens}, nil
}
