// Package play runs one lesson attempt in the terminal. Learner keys and
// timer events both arrive as messages on the Bubble Tea loop, so the
// attempt is only ever touched from Update.
package play

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/evaluate"
	"github.com/yufin/yufin/internal/lesson"
	"github.com/yufin/yufin/internal/router"
	"github.com/yufin/yufin/internal/screen"
	"github.com/yufin/yufin/internal/screens/result"
	"github.com/yufin/yufin/internal/session"
	"github.com/yufin/yufin/internal/ui/components"
	"github.com/yufin/yufin/internal/ui/layout"
)

// memoryColumns is the width of the memory card grid.
const memoryColumns = 4

// PlayScreen plays one lesson.
type PlayScreen struct {
	ctrl    *lesson.Controller
	summary api.LessonSummary

	attempt   *lesson.Attempt
	err       error
	reporting bool

	// Widgets for the current item, rebuilt when the index moves.
	index    int
	choice   components.MultiChoice
	input    components.TextInput
	showHint bool
	cursor   int

	// Association state: column 0 picks a left term, column 1 its partner.
	column int
	left   string

	notice string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.BackHandler = (*PlayScreen)(nil)

// New creates a play screen for the lesson.
func New(ctrl *lesson.Controller, summary api.LessonSummary) *PlayScreen {
	return &PlayScreen{ctrl: ctrl, summary: summary}
}

func (s *PlayScreen) Init() tea.Cmd {
	return s.start()
}

func (s *PlayScreen) Title() string {
	if s.summary.Title != "" {
		return s.summary.Title
	}
	return "Lesson"
}

func (s *PlayScreen) start() tea.Cmd {
	return func() tea.Msg {
		a, err := s.ctrl.Start(context.Background(), s.summary.ID)
		return startedMsg{attempt: a, err: err}
	}
}

// waitEvent delivers the next timer firing. Only one is outstanding at a
// time; it is re-issued after each eventMsg.
func (s *PlayScreen) waitEvent() tea.Cmd {
	if s.attempt == nil || s.attempt.Session() == nil {
		return nil
	}
	timers := s.attempt.Session().Timers()
	if timers == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-timers.Events():
			return eventMsg{event: e}
		case <-timers.Done():
			return timersStoppedMsg{}
		}
	}
}

func (s *PlayScreen) report() tea.Cmd {
	a := s.attempt
	return func() tea.Msg {
		rep, err := a.Report(context.Background())
		return reportedMsg{report: rep, err: err}
	}
}

// Back cancels a running attempt before leaving. Esc is ignored while the
// result is being submitted.
func (s *PlayScreen) Back() tea.Cmd {
	if s.reporting {
		return nil
	}
	if s.attempt != nil && s.attempt.Status() == lesson.StatusPlaying {
		s.attempt.Cancel()
	}
	return router.Pop()
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		s.attempt = msg.attempt
		if s.attempt.Status() == lesson.StatusUnavailable {
			return s, nil
		}
		s.resetItem()
		return s, s.waitEvent()

	case eventMsg:
		if s.attempt == nil {
			return s, nil
		}
		s.attempt.Apply(msg.event)
		return s, tea.Batch(s.sync(), s.waitEvent())

	case timersStoppedMsg:
		return s, nil

	case reportedMsg:
		if msg.err != nil {
			s.reporting = false
			s.err = msg.err
			return s, nil
		}
		cmds := []tea.Cmd{router.Replace(result.New(s.summary, msg.report))}
		if p := msg.report.Progress; p != nil {
			u := p.User
			cmds = append(cmds, func() tea.Msg { return screen.ProfileMsg{User: u} })
		}
		return s, tea.Batch(cmds...)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// sync brings the widgets in line with the attempt after any change and
// submits the result once the session completes.
func (s *PlayScreen) sync() tea.Cmd {
	a := s.attempt
	if a == nil || a.Session() == nil {
		return nil
	}
	if a.Status() == lesson.StatusCompleted && !s.reporting {
		s.reporting = true
		return s.report()
	}

	sess := a.Session()
	if sess.Index() != s.index {
		s.resetItem()
	}
	if out, ok := sess.Outcome(); ok && sess.Phase() == session.PhaseAnswered {
		switch a.Item().(type) {
		case *content.Choice:
			s.choice.Reveal(sess.Selected())
		case *content.Math:
			s.input.Submit(out.IsCorrect)
		}
	}
	return nil
}

// resetItem builds the widgets for the item at the session index.
func (s *PlayScreen) resetItem() {
	s.index = s.attempt.Session().Index()
	s.cursor = 0
	s.column = 0
	s.left = ""
	s.showHint = false
	s.notice = ""

	switch item := s.attempt.Item().(type) {
	case *content.Choice:
		opts := make([]string, len(item.Options))
		for i, o := range item.Options {
			opts[i] = o.Text
		}
		s.choice = components.NewMultiChoice(opts, item.CorrectIndex())
	case *content.Math:
		s.input = components.NewTextInput("0,00", 16)
	}
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.err != nil {
		var fe *lesson.FetchError
		if key == "r" && s.attempt == nil && errors.As(s.err, &fe) && fe.Retryable {
			s.err = nil
			return s, s.start()
		}
		return s, nil
	}
	if s.attempt == nil || s.reporting {
		return s, nil
	}
	if s.attempt.Status() == lesson.StatusUnavailable {
		if key == "enter" {
			return s, router.Pop()
		}
		return s, nil
	}

	if s.attempt.Session().Phase() == session.PhaseAnswered {
		if key == "enter" || key == "space" || key == " " {
			if err := s.attempt.Continue(); err != nil {
				s.notice = err.Error()
			}
			return s, s.sync()
		}
		return s, nil
	}

	s.notice = ""
	switch item := s.attempt.Item().(type) {
	case *content.Choice:
		var chosen bool
		s.choice, chosen = s.choice.Update(msg)
		if chosen {
			s.submit(evaluate.ChoiceAnswer{Index: s.choice.Chosen})
			return s, s.sync()
		}
	case *content.Math:
		return s.handleMathKey(msg, item)
	case *content.Shopping:
		return s, s.handleShoppingKey(key, item)
	case *content.Match:
		if s.attempt.Memory() != nil {
			return s, s.handleMemoryKey(key)
		}
		return s, s.handleAssociationKey(key)
	}
	return s, nil
}

func (s *PlayScreen) submit(a evaluate.Answer) {
	if _, err := s.attempt.Submit(a); err != nil {
		if errors.Is(err, session.ErrEmptySubmission) {
			s.notice = "Type an amount first"
			return
		}
		s.notice = err.Error()
	}
}

func (s *PlayScreen) handleMathKey(msg tea.KeyMsg, item *content.Math) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "?":
		if p := item.Current(); p != nil && p.Hint != "" {
			s.showHint = true
		}
		return s, nil
	case "enter":
		s.submit(evaluate.NumericAnswer{Input: s.input.Value()})
		return s, s.sync()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PlayScreen) handleShoppingKey(key string, item *content.Shopping) tea.Cmd {
	cart := s.attempt.Cart()
	if len(item.Products) == 0 || cart == nil {
		return nil
	}
	id := item.Products[s.cursor].ID

	switch key {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, len(item.Products)-1)
	case "+", "=", "right", "l":
		cart.Add(id)
	case "-", "left", "h":
		cart.Remove(id)
	case "x":
		cart.Clear()
	case "enter", "c":
		if _, err := s.attempt.Checkout(); err != nil {
			s.notice = err.Error()
		}
		return s.sync()
	}
	return nil
}

func (s *PlayScreen) handleMemoryKey(key string) tea.Cmd {
	board := s.attempt.Memory()
	n := len(board.Cards())

	switch key {
	case "left", "h":
		s.cursor = max(s.cursor-1, 0)
	case "right", "l":
		s.cursor = min(s.cursor+1, n-1)
	case "up", "k":
		if s.cursor-memoryColumns >= 0 {
			s.cursor -= memoryColumns
		}
	case "down", "j":
		if s.cursor+memoryColumns < n {
			s.cursor += memoryColumns
		}
	case "enter", "space", " ":
		res, _, err := s.attempt.Flip(s.cursor)
		switch {
		case err != nil:
			s.notice = err.Error()
		case res == evaluate.FlipRejected && board.Pending():
			s.notice = "Wait for the cards to turn back"
		case res == evaluate.FlipMismatch:
			s.notice = "Not a pair"
		case res == evaluate.FlipMatch:
			s.notice = "Pair found!"
		}
		return s.sync()
	}
	return nil
}

func (s *PlayScreen) handleAssociationKey(key string) tea.Cmd {
	board := s.attempt.Association()
	column := board.Lefts()
	if s.column == 1 {
		column = board.Rights()
	}

	switch key {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, max(len(column)-1, 0))
	case "tab", "left", "right":
		if s.left != "" {
			s.column = 1 - s.column
			s.cursor = 0
		}
	case "enter", "space", " ":
		if len(column) == 0 {
			return nil
		}
		if s.column == 0 {
			s.left = column[s.cursor]
			s.column = 1
			s.cursor = 0
			return nil
		}
		ok, err := s.attempt.Propose(s.left, column[s.cursor])
		switch {
		case err != nil:
			s.notice = err.Error()
		case ok:
			s.notice = "Matched!"
		default:
			s.notice = "Those do not go together"
		}
		s.left = ""
		s.column = 0
		s.cursor = 0
		return s.sync()
	}
	return nil
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	back := layout.KeyHint{Key: "Esc", Description: "Leave"}
	if s.attempt == nil || s.attempt.Session() == nil {
		if s.err != nil {
			return []layout.KeyHint{{Key: "r", Description: "Retry"}, back}
		}
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}, back}
	}
	if s.attempt.Session().Phase() == session.PhaseAnswered {
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}, back}
	}

	switch s.attempt.Item().(type) {
	case *content.Choice:
		return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "A-Z", Description: "Answer"}, back}
	case *content.Math:
		return []layout.KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "?", Description: "Hint"}, back}
	case *content.Shopping:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Product"},
			{Key: "+/-", Description: "Quantity"},
			{Key: "x", Description: "Empty cart"},
			{Key: "Enter", Description: "Checkout"},
			back,
		}
	case *content.Match:
		if s.attempt.Memory() != nil {
			return []layout.KeyHint{{Key: "←↑↓→", Description: "Move"}, {Key: "Enter", Description: "Flip"}, back}
		}
		return []layout.KeyHint{{Key: "↑↓", Description: "Navigate"}, {Key: "Enter", Description: "Pick"}, {Key: "Tab", Description: "Switch side"}, back}
	}
	return []layout.KeyHint{back}
}
