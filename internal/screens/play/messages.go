package play

import (
	"github.com/yufin/yufin/internal/lesson"
	"github.com/yufin/yufin/internal/session"
)

// startedMsg is sent when the lesson has been fetched and the attempt begun.
type startedMsg struct {
	attempt *lesson.Attempt
	err     error
}

// eventMsg carries one timer firing to the update loop.
type eventMsg struct {
	event session.Event
}

// timersStoppedMsg is sent once the attempt's timers are stopped.
type timersStoppedMsg struct{}

// reportedMsg is sent when the completion has been submitted.
type reportedMsg struct {
	report lesson.Report
	err    error
}
