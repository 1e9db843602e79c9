package session

import (
	"sync"
	"time"
)

// Default timer intervals.
const (
	DefaultTickInterval  = time.Second
	DefaultFeedbackDelay = 2 * time.Second
	DefaultFlipBackDelay = time.Second
)

// EventKind identifies what fired.
type EventKind int

const (
	EventTick     EventKind = iota // One second of session time passed
	EventFeedback                  // Feedback display period ended
	EventFlipBack                  // Memory mismatch may be turned face down
)

// Event is a timer firing, delivered to the event loop that owns the
// session. Token identifies the feedback or flip-back that scheduled it.
type Event struct {
	Kind  EventKind
	Token uint64
}

// TimerConfig holds the timer intervals of a session.
type TimerConfig struct {
	Tick     time.Duration
	Feedback time.Duration
	FlipBack time.Duration
}

// DefaultTimerConfig returns the standard intervals.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Tick:     DefaultTickInterval,
		Feedback: DefaultFeedbackDelay,
		FlipBack: DefaultFlipBackDelay,
	}
}

func (c TimerConfig) withDefaults() TimerConfig {
	d := DefaultTimerConfig()
	if c.Tick <= 0 {
		c.Tick = d.Tick
	}
	if c.Feedback <= 0 {
		c.Feedback = d.Feedback
	}
	if c.FlipBack <= 0 {
		c.FlipBack = d.FlipBack
	}
	return c
}

// Timers owns the one-second ticker and at most one pending feedback timer
// and one pending flip-back timer. Firings arrive on Events; nothing is
// applied to a session from a timer goroutine.
type Timers struct {
	cfg    TimerConfig
	events chan Event
	done   chan struct{}

	mu       sync.Mutex
	ticker   *time.Ticker
	feedback *time.Timer
	flipBack *time.Timer
	started  bool
	stopOnce sync.Once
}

// NewTimers creates stopped timers.
func NewTimers(cfg TimerConfig) *Timers {
	return &Timers{
		cfg:    cfg.withDefaults(),
		events: make(chan Event, 8),
		done:   make(chan struct{}),
	}
}

// Events returns the channel timer firings are delivered on.
func (t *Timers) Events() <-chan Event { return t.events }

// Done is closed once the timers are stopped.
func (t *Timers) Done() <-chan struct{} { return t.done }

// Start starts the ticker. It is a no-op after the first call or after Stop.
func (t *Timers) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.stopped() {
		return
	}
	t.started = true
	t.ticker = time.NewTicker(t.cfg.Tick)
	go t.tickLoop(t.ticker.C)
}

func (t *Timers) tickLoop(c <-chan time.Time) {
	for {
		select {
		case <-c:
			t.send(Event{Kind: EventTick})
		case <-t.done:
			return
		}
	}
}

// StartFeedback schedules the end of a feedback display, replacing any
// feedback timer still pending.
func (t *Timers) StartFeedback(token uint64) {
	t.schedule(&t.feedback, t.cfg.Feedback, Event{Kind: EventFeedback, Token: token})
}

// StartFlipBack schedules a memory flip-back, replacing any pending one.
func (t *Timers) StartFlipBack(token uint64) {
	t.schedule(&t.flipBack, t.cfg.FlipBack, Event{Kind: EventFlipBack, Token: token})
}

// CancelFeedback stops a pending feedback timer.
func (t *Timers) CancelFeedback() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.feedback != nil {
		t.feedback.Stop()
		t.feedback = nil
	}
}

func (t *Timers) schedule(slot **time.Timer, d time.Duration, e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped() {
		return
	}
	if *slot != nil {
		(*slot).Stop()
	}
	*slot = time.AfterFunc(d, func() { t.send(e) })
}

func (t *Timers) send(e Event) {
	if t.stopped() {
		return
	}
	select {
	case t.events <- e:
	case <-t.done:
	}
}

// Stop cancels the ticker and any pending timers. It is safe to call more
// than once.
func (t *Timers) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		close(t.done)
		if t.ticker != nil {
			t.ticker.Stop()
		}
		if t.feedback != nil {
			t.feedback.Stop()
		}
		if t.flipBack != nil {
			t.flipBack.Stop()
		}
	})
}

func (t *Timers) stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
