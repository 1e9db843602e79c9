// Package session implements one learner attempt at a lesson as a state
// machine: Presenting(i) -> Answered(i) -> Presenting(i+1) ... -> Completed.
//
// A Session is driven by a single event loop. Learner actions and timer
// events are applied synchronously; Timers only delivers events and never
// touches session state itself.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/evaluate"
)

// Session tracks progression through the items of one lesson attempt.
type Session struct {
	id     string
	lesson content.Lesson
	eval   evaluate.Evaluator
	timers *Timers

	// item is the normalized content at index, replaced on every advance.
	item  content.Normalized
	total int
	index int
	phase Phase

	// selected is the option chosen for the current choice item, or -1.
	selected int
	outcome  *evaluate.Outcome
	attempts []Attempt

	elapsed       int
	feedbackToken uint64
	result        *CompletionResult
}

// Option configures a Session.
type Option func(*Session)

// WithTimers attaches timers to the session. The ticker starts with the
// session; feedback timers are scheduled on each answer and everything is
// stopped on completion or cancellation.
func WithTimers(t *Timers) Option {
	return func(s *Session) { s.timers = t }
}

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New starts a session on the first item of a lesson. It fails with
// ErrUnavailable if the lesson type has no evaluator or the content has no
// playable items.
func New(l content.Lesson, opts ...Option) (*Session, error) {
	eval, ok := evaluate.For(l.LessonType())
	if !ok {
		return nil, fmt.Errorf("lesson %s type %q: %w", l.ID, l.Type, ErrUnavailable)
	}
	item := content.Normalize(l, 0)
	if !content.Available(item) {
		return nil, fmt.Errorf("lesson %s shape %s: %w", l.ID, item.Shape(), ErrUnavailable)
	}

	s := &Session{
		lesson:   l,
		eval:     eval,
		item:     item,
		total:    item.Len(),
		phase:    PhasePresenting,
		selected: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.timers != nil {
		s.timers.Start()
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Lesson returns the lesson being played.
func (s *Session) Lesson() content.Lesson { return s.lesson }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the current item index.
func (s *Session) Index() int { return s.index }

// Len returns the number of items in the lesson.
func (s *Session) Len() int { return s.total }

// Item returns the normalized content for the current item. It is shared
// read-only with renderers.
func (s *Session) Item() content.Normalized { return s.item }

// Selected returns the option chosen for the current choice item, or -1.
func (s *Session) Selected() int { return s.selected }

// Outcome returns the evaluation of the current item once answered.
func (s *Session) Outcome() (evaluate.Outcome, bool) {
	if s.outcome == nil {
		return evaluate.Outcome{}, false
	}
	return *s.outcome, true
}

// Attempts returns a copy of the recorded attempts.
func (s *Session) Attempts() []Attempt {
	return append([]Attempt(nil), s.attempts...)
}

// Elapsed returns the seconds counted since the session started.
func (s *Session) Elapsed() int { return s.elapsed }

// Result returns the completion result once the session is completed.
func (s *Session) Result() (CompletionResult, bool) {
	if s.result == nil {
		return CompletionResult{}, false
	}
	return *s.result, true
}

// Timers returns the attached timers, or nil.
func (s *Session) Timers() *Timers { return s.timers }

func (s *Session) checkLive() error {
	switch s.phase {
	case PhaseCompleted:
		return ErrCompleted
	case PhaseCancelled:
		return ErrCancelled
	default:
		return nil
	}
}

// Submit records the answer for the current item and moves to Answered.
// It returns the feedback token that FeedbackElapsed must be called with.
func (s *Session) Submit(a evaluate.Answer) (evaluate.Outcome, uint64, error) {
	if err := s.checkLive(); err != nil {
		return evaluate.Outcome{}, 0, err
	}
	if s.phase == PhaseAnswered {
		return evaluate.Outcome{}, 0, ErrAlreadyAnswered
	}
	input, ok := s.answerInput(a)
	if !ok {
		return evaluate.Outcome{}, 0, ErrEmptySubmission
	}

	out := s.eval.Evaluate(s.item, a)
	s.outcome = &out
	if c, ok := a.(evaluate.ChoiceAnswer); ok {
		s.selected = c.Index
	}
	s.attempts = append(s.attempts, Attempt{
		Index:        s.index,
		Input:        input,
		Correct:      out.IsCorrect,
		Contribution: out.ScoreContribution,
		Tier:         out.Tier,
		At:           time.Duration(s.elapsed) * time.Second,
	})
	s.phase = PhaseAnswered

	s.feedbackToken++
	if s.timers != nil {
		s.timers.StartFeedback(s.feedbackToken)
	}
	return out, s.feedbackToken, nil
}

// answerInput renders an answer for the attempt record. Answers that cannot
// be evaluated against the current item report false.
func (s *Session) answerInput(a evaluate.Answer) (string, bool) {
	switch v := a.(type) {
	case evaluate.ChoiceAnswer:
		if c, ok := s.item.(*content.Choice); ok && v.Index >= len(c.Options) {
			return "", false
		}
		return strconv.Itoa(v.Index), v.Index >= 0
	case evaluate.NumericAnswer:
		in := strings.TrimSpace(v.Input)
		return in, in != ""
	case evaluate.MatchAnswer:
		return strconv.Itoa(v.Mistakes), true
	case evaluate.CheckoutAnswer:
		return strconv.FormatFloat(v.Total, 'f', 2, 64), true
	default:
		return "", false
	}
}

// Continue leaves Answered: it advances to the next item, or completes the
// session after the last one.
func (s *Session) Continue() error {
	if err := s.checkLive(); err != nil {
		return err
	}
	if s.phase != PhaseAnswered {
		return ErrNotAnswered
	}
	if s.timers != nil {
		s.timers.CancelFeedback()
	}

	if s.index >= s.total-1 {
		s.complete()
		return nil
	}

	s.index++
	s.item = content.Normalize(s.lesson, s.index)
	s.selected = -1
	s.outcome = nil
	s.phase = PhasePresenting
	return nil
}

// FeedbackElapsed applies the end of a feedback display. Tokens from earlier
// answers are ignored. It reports whether the session moved on.
func (s *Session) FeedbackElapsed(token uint64) bool {
	if s.phase != PhaseAnswered || token != s.feedbackToken {
		return false
	}
	return s.Continue() == nil
}

// Tick counts one second. The counter stops once the session ends.
func (s *Session) Tick() {
	if s.phase.Terminal() {
		return
	}
	s.elapsed++
}

// Apply routes a timer event to the session. Flip-back events belong to the
// match board and are ignored here.
func (s *Session) Apply(e Event) bool {
	switch e.Kind {
	case EventTick:
		if s.phase.Terminal() {
			return false
		}
		s.Tick()
		return true
	case EventFeedback:
		return s.FeedbackElapsed(e.Token)
	default:
		return false
	}
}

// Cancel discards the attempt. No result is ever built for a cancelled
// session.
func (s *Session) Cancel() error {
	if s.phase == PhaseCompleted {
		return ErrCompleted
	}
	if s.phase == PhaseCancelled {
		return nil
	}
	s.phase = PhaseCancelled
	s.outcome = nil
	s.attempts = nil
	s.stopTimers()
	return nil
}

func (s *Session) complete() {
	score := s.eval.Complete(s.item, s.attempts)
	s.result = &CompletionResult{
		Score:            score.Value,
		TimeSpentSeconds: s.elapsed,
		IsPerfect:        score.IsPerfect,
		Detail: Detail{
			Correct: score.Correct,
			Total:   score.Total,
			Tier:    score.Tier,
		},
	}
	s.phase = PhaseCompleted
	s.stopTimers()
}

func (s *Session) stopTimers() {
	if s.timers != nil {
		s.timers.Stop()
	}
}
