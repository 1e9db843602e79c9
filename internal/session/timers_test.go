package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yufin/yufin/internal/evaluate"
)

func fastTimers() *Timers {
	return NewTimers(TimerConfig{
		Tick:     5 * time.Millisecond,
		Feedback: 10 * time.Millisecond,
		FlipBack: 10 * time.Millisecond,
	})
}

func waitFor(t *testing.T, tm *Timers, kind EventKind) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-tm.Events():
			if e.Kind == kind {
				return e
			}
		case <-deadline:
			t.Fatalf("no event of kind %d", kind)
			return Event{}
		}
	}
}

func TestTimers_TickAndFeedback(t *testing.T) {
	tm := fastTimers()
	defer tm.Stop()
	tm.Start()

	waitFor(t, tm, EventTick)

	tm.StartFeedback(1)
	tm.StartFeedback(2)
	e := waitFor(t, tm, EventFeedback)
	assert.Equal(t, uint64(2), e.Token, "a new feedback timer supersedes the pending one")
}

func TestTimers_FlipBack(t *testing.T) {
	tm := fastTimers()
	defer tm.Stop()

	tm.StartFlipBack(7)
	e := waitFor(t, tm, EventFlipBack)
	assert.Equal(t, uint64(7), e.Token)
}

func TestTimers_StopIsIdempotent(t *testing.T) {
	tm := fastTimers()
	tm.Start()
	tm.StartFeedback(1)
	tm.Stop()
	tm.Stop()

	select {
	case <-tm.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}

	// Scheduling after stop is a no-op.
	tm.StartFeedback(3)
	tm.Start()
}

func TestSession_TimersDriveCompletion(t *testing.T) {
	tm := fastTimers()
	s, err := New(choiceLesson(), WithTimers(tm))
	require.NoError(t, err)

	_, _, err = s.Submit(evaluate.ChoiceAnswer{Index: 1})
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for s.Phase() != PhaseCompleted {
		select {
		case e := <-tm.Events():
			s.Apply(e)
		case <-deadline:
			t.Fatal("feedback timer never completed the session")
		}
	}

	select {
	case <-tm.Done():
	default:
		t.Fatal("timers should stop on completion")
	}
}

func TestSession_CancelStopsTimers(t *testing.T) {
	tm := fastTimers()
	s, err := New(mathLesson(), WithTimers(tm))
	require.NoError(t, err)
	require.NoError(t, s.Cancel())

	select {
	case <-tm.Done():
	default:
		t.Fatal("timers should stop on cancel")
	}
}
