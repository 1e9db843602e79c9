package session

import (
	"errors"

	"github.com/yufin/yufin/internal/evaluate"
)

// Phase is the state of a session.
type Phase int

const (
	PhasePresenting Phase = iota // Waiting for an answer to the current item
	PhaseAnswered                // Answer recorded, feedback showing
	PhaseCompleted               // All items answered, result built
	PhaseCancelled               // Learner left before completing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePresenting:
		return "presenting"
	case PhaseAnswered:
		return "answered"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}

var (
	// ErrUnavailable is returned when a lesson has no evaluator or its content
	// normalizes to the empty sentinel.
	ErrUnavailable = errors.New("lesson content unavailable")

	// ErrAlreadyAnswered is returned when an item is answered twice.
	ErrAlreadyAnswered = errors.New("item already answered")

	// ErrNotAnswered is returned when continuing before the item is answered.
	ErrNotAnswered = errors.New("item not answered")

	// ErrEmptySubmission is returned for input that cannot be evaluated.
	ErrEmptySubmission = errors.New("empty submission")

	// ErrCompleted is returned for any input after completion.
	ErrCompleted = errors.New("session completed")

	// ErrCancelled is returned for any input after cancellation.
	ErrCancelled = errors.New("session cancelled")
)

// Attempt is the record of the answer given for one item.
type Attempt = evaluate.Attempt

// Detail breaks a completion score down.
type Detail struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Tier    string `json:"tier,omitempty"`
}

// CompletionResult is the single artifact a finished session hands to the
// progress collaborator. It is built once and never modified.
type CompletionResult struct {
	Score            int    `json:"score"`
	TimeSpentSeconds int    `json:"timeSpent"`
	IsPerfect        bool   `json:"isPerfect"`
	Detail           Detail `json:"detail"`
}
