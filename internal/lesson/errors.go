package lesson

import (
	"errors"
	"fmt"

	"github.com/yufin/yufin/internal/api"
)

var (
	// ErrNotCompleted is returned when reporting an attempt that has not
	// reached completion.
	ErrNotCompleted = errors.New("attempt not completed")

	// ErrAlreadyReported is returned when reporting an attempt twice.
	ErrAlreadyReported = errors.New("attempt already reported")

	// ErrWrongFormat is returned when an action does not fit the lesson
	// type, such as flipping a card in a choice lesson.
	ErrWrongFormat = errors.New("action does not apply to this lesson")
)

// FetchError is a failure to load a lesson. The learner may retry when
// Retryable is set.
type FetchError struct {
	LessonID  string
	Retryable bool
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch lesson %s: %v", e.LessonID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// retryable reports whether a fetch may succeed on a second try. Only a
// lesson that does not exist is final.
func retryable(err error) bool {
	return !errors.Is(err, api.ErrNotFound)
}
