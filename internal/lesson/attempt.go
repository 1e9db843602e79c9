package lesson

import (
	"context"
	"math/rand/v2"

	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/evaluate"
	"github.com/yufin/yufin/internal/logger"
	"github.com/yufin/yufin/internal/session"
)

// Status is the lifecycle stage of an attempt.
type Status int

const (
	StatusPlaying     Status = iota // Session running
	StatusUnavailable               // Content could not be played
	StatusCompleted                 // Result ready to report
	StatusCancelled                 // Learner left; nothing is reported
	StatusReported                  // Result submitted
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusUnavailable:
		return "unavailable"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusReported:
		return "reported"
	default:
		return "unknown"
	}
}

// Attempt is one learner's pass through a lesson. It owns the session, the
// timers and the per-format play state (cart or match board). It is driven
// from a single event loop and is not safe for concurrent use.
type Attempt struct {
	ctrl   *Controller
	lesson content.Lesson
	log    *logger.Logger

	status Status
	reason error

	sess   *session.Session
	timers *session.Timers

	cart   *evaluate.Cart
	assoc  *evaluate.AssociationBoard
	memory *evaluate.MemoryBoard

	reported bool
}

func (a *Attempt) setupBoard(rng *rand.Rand) {
	switch item := a.sess.Item().(type) {
	case *content.Shopping:
		a.cart = evaluate.NewCart(item)
	case *content.Match:
		if item.Format == content.FormatMemory {
			a.memory = evaluate.NewMemoryBoard(item, rng)
		} else {
			a.assoc = evaluate.NewAssociationBoard(item, rng)
		}
	}
}

// Lesson returns the lesson record.
func (a *Attempt) Lesson() content.Lesson { return a.lesson }

// Status returns the lifecycle stage, following the session phase.
func (a *Attempt) Status() Status {
	if a.sess != nil && a.status == StatusPlaying {
		switch a.sess.Phase() {
		case session.PhaseCompleted:
			return StatusCompleted
		case session.PhaseCancelled:
			return StatusCancelled
		}
	}
	return a.status
}

// Unavailable returns why the lesson cannot be played, or nil.
func (a *Attempt) Unavailable() error { return a.reason }

// Session returns the running session, or nil when unavailable.
func (a *Attempt) Session() *session.Session { return a.sess }

// Item returns the normalized current item, or Unavailable.
func (a *Attempt) Item() content.Normalized {
	if a.sess == nil {
		return content.Unavailable{}
	}
	return a.sess.Item()
}

// Cart returns the cart of a shopping-cart lesson, or nil.
func (a *Attempt) Cart() *evaluate.Cart { return a.cart }

// Association returns the board of an association match, or nil.
func (a *Attempt) Association() *evaluate.AssociationBoard { return a.assoc }

// Memory returns the board of a memory match, or nil.
func (a *Attempt) Memory() *evaluate.MemoryBoard { return a.memory }

// Events returns the timer event channel, or nil without real timers.
func (a *Attempt) Events() <-chan session.Event {
	if a.timers == nil {
		return nil
	}
	return a.timers.Events()
}

// Apply routes a timer event to the session or the memory board. It reports
// whether anything changed.
func (a *Attempt) Apply(e session.Event) bool {
	if a.sess == nil {
		return false
	}
	if e.Kind == session.EventFlipBack {
		return a.memory != nil && a.memory.FlipBack(e.Token)
	}
	return a.sess.Apply(e)
}

// Submit answers the current item.
func (a *Attempt) Submit(ans evaluate.Answer) (evaluate.Outcome, error) {
	if a.sess == nil {
		return evaluate.Outcome{}, session.ErrUnavailable
	}
	out, _, err := a.sess.Submit(ans)
	if err != nil {
		return evaluate.Outcome{}, err
	}
	a.log.Debug("answer recorded",
		"index", a.sess.Index(),
		"correct", out.IsCorrect,
		"contribution", out.ScoreContribution,
	)
	return out, nil
}

// Continue moves past the feedback of the current item.
func (a *Attempt) Continue() error {
	if a.sess == nil {
		return session.ErrUnavailable
	}
	if err := a.sess.Continue(); err != nil {
		return err
	}
	if res, ok := a.sess.Result(); ok {
		a.log.Info("lesson completed", "score", res.Score, "perfect", res.IsPerfect, "time_spent", res.TimeSpentSeconds)
	}
	return nil
}

// Checkout submits the cart of a shopping-cart lesson.
func (a *Attempt) Checkout() (evaluate.Outcome, error) {
	if a.cart == nil {
		return evaluate.Outcome{}, ErrWrongFormat
	}
	return a.Submit(a.cart.Answer())
}

// Propose tries an association on the match board. When the last pair is
// matched the board is submitted.
func (a *Attempt) Propose(left, right string) (bool, error) {
	if a.assoc == nil {
		return false, ErrWrongFormat
	}
	if err := a.playable(); err != nil {
		return false, err
	}
	_, ok := a.assoc.Propose(left, right)
	if ok && a.assoc.Done() {
		if _, err := a.Submit(a.assoc.Answer()); err != nil {
			return ok, err
		}
	}
	return ok, nil
}

// Flip turns a memory card. A mismatch schedules its flip-back on the
// attempt's timers; in manual mode the returned token must be applied as an
// EventFlipBack. When the last pair is matched the board is submitted.
func (a *Attempt) Flip(i int) (evaluate.FlipResult, uint64, error) {
	if a.memory == nil {
		return evaluate.FlipRejected, 0, ErrWrongFormat
	}
	if err := a.playable(); err != nil {
		return evaluate.FlipRejected, 0, err
	}
	res, token := a.memory.Flip(i)
	switch res {
	case evaluate.FlipMismatch:
		if a.timers != nil {
			a.timers.StartFlipBack(token)
		}
	case evaluate.FlipMatch:
		if a.memory.Done() {
			if _, err := a.Submit(a.memory.Answer()); err != nil {
				return res, token, err
			}
		}
	}
	return res, token, nil
}

func (a *Attempt) playable() error {
	if a.sess == nil {
		return session.ErrUnavailable
	}
	switch a.sess.Phase() {
	case session.PhaseCompleted:
		return session.ErrCompleted
	case session.PhaseCancelled:
		return session.ErrCancelled
	case session.PhaseAnswered:
		return session.ErrAlreadyAnswered
	}
	return nil
}

// Cancel abandons the attempt. Nothing is reported for it.
func (a *Attempt) Cancel() {
	if a.sess != nil {
		if err := a.sess.Cancel(); err == nil {
			a.log.Info("lesson cancelled", "index", a.sess.Index(), "elapsed", a.sess.Elapsed())
		}
	}
	if a.timers != nil {
		a.timers.Stop()
	}
}

// Result returns the completion result once the session has completed.
func (a *Attempt) Result() (session.CompletionResult, bool) {
	if a.sess == nil {
		return session.CompletionResult{}, false
	}
	return a.sess.Result()
}

// Report submits the completion result through the controller's sink.
func (a *Attempt) Report(ctx context.Context) (Report, error) {
	return a.ctrl.Report(ctx, a)
}
