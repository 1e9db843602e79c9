// Package lesson orchestrates one lesson attempt: fetch the lesson,
// normalize its content, drive the session from learner input and timer
// events, and report the completion result exactly once.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/logger"
	"github.com/yufin/yufin/internal/session"
)

// Source loads lessons from the storage collaborator.
type Source interface {
	Lesson(ctx context.Context, id string) (content.Lesson, error)
}

// Sink receives completion results. A nil error with nil progress means the
// result was saved but no profile update is available.
type Sink interface {
	CompleteLesson(ctx context.Context, userID string, req api.Completion) (*api.Progress, error)
}

// Config configures a Controller.
type Config struct {
	// UserID is the learner completions are reported for.
	UserID string

	// Timers holds the tick, feedback and flip-back intervals.
	Timers session.TimerConfig

	// Manual disables real timers. Callers feed events to Attempt.Apply.
	Manual bool

	// Rand shuffles match boards. Nil seeds a new generator per attempt.
	Rand *rand.Rand
}

// Controller starts attempts and reports their results.
type Controller struct {
	source Source
	sink   Sink
	cfg    Config
	log    *logger.Logger
}

// New creates a Controller.
func New(source Source, sink Sink, cfg Config, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{source: source, sink: sink, cfg: cfg, log: log}
}

// Start fetches a lesson and begins an attempt. A fetch failure returns a
// *FetchError. A lesson that cannot be played returns an attempt in
// StatusUnavailable with no session.
func (c *Controller) Start(ctx context.Context, lessonID string) (*Attempt, error) {
	l, err := c.source.Lesson(ctx, lessonID)
	if err != nil {
		c.log.Warn("lesson fetch failed", "lesson_id", lessonID, "error", err)
		return nil, &FetchError{LessonID: lessonID, Retryable: retryable(err), Err: err}
	}
	if l.ID == "" {
		l.ID = lessonID
	}

	a := &Attempt{ctrl: c, lesson: l, log: c.log.With("lesson_id", l.ID)}

	var opts []session.Option
	if !c.cfg.Manual {
		a.timers = session.NewTimers(c.cfg.Timers)
		opts = append(opts, session.WithTimers(a.timers))
	}

	sess, err := session.New(l, opts...)
	if err != nil {
		if !errors.Is(err, session.ErrUnavailable) {
			return nil, fmt.Errorf("start lesson %s: %w", l.ID, err)
		}
		a.status = StatusUnavailable
		a.reason = err
		a.log.Warn("lesson content unavailable", "type", l.Type, "shape", content.Detect(l.LessonType(), l.Content))
		return a, nil
	}

	a.sess = sess
	a.status = StatusPlaying
	a.log = a.log.With("session_id", sess.ID())
	a.setupBoard(c.rand())
	a.log.Info("lesson started", "type", l.LessonType(), "items", sess.Len(), "shape", sess.Item().Shape())
	return a, nil
}

func (c *Controller) rand() *rand.Rand {
	if c.cfg.Rand != nil {
		return c.cfg.Rand
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Report submits the result of a completed attempt. It may be called once
// per attempt. Network failures do not fail the call: they are reported in
// the returned Report with the result kept for display.
func (c *Controller) Report(ctx context.Context, a *Attempt) (Report, error) {
	res, ok := a.Result()
	if !ok {
		return Report{}, ErrNotCompleted
	}
	if a.reported {
		return Report{}, ErrAlreadyReported
	}
	a.reported = true
	a.status = StatusReported

	rep := Report{Result: res}
	progress, err := c.sink.CompleteLesson(ctx, c.cfg.UserID, api.Completion{
		LessonID:  a.lesson.ID,
		Score:     res.Score,
		TimeSpent: res.TimeSpentSeconds,
		IsPerfect: res.IsPerfect,
	})
	switch {
	case errors.Is(err, api.ErrDuplicateCompletion):
		rep.Saved = true
		rep.Duplicate = true
		rep.Notice = NoticeAlreadyCompleted
		a.log.Info("completion already recorded")
	case err != nil:
		rep.Notice = NoticeNotSaved
		rep.Err = err
		a.log.Error("completion submit failed", "error", err, "score", res.Score)
	case progress == nil:
		rep.Saved = true
		a.log.Info("completion saved", "score", res.Score, "perfect", res.IsPerfect)
	default:
		rep.Saved = true
		rep.Progress = progress
		a.log.Info("completion saved",
			"score", res.Score,
			"perfect", res.IsPerfect,
			"reward", progress.Reward,
			"leveled_up", progress.LeveledUp,
			"achievements", progress.NewAchievements,
		)
	}
	return rep, nil
}

// Learner-facing notices for completion reports.
const (
	NoticeNotSaved         = "progress not saved"
	NoticeAlreadyCompleted = "lesson already completed"
)

// Report is the outcome of submitting a completion.
type Report struct {
	Result    session.CompletionResult
	Saved     bool
	Duplicate bool
	Notice    string
	Progress  *api.Progress
	Err       error
}
