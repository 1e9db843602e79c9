// Package app is the root Bubble Tea model of the terminal player.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/lesson"
	"github.com/yufin/yufin/internal/router"
	"github.com/yufin/yufin/internal/screen"
	"github.com/yufin/yufin/internal/screens/lessons"
	"github.com/yufin/yufin/internal/screens/play"
	"github.com/yufin/yufin/internal/screens/welcome"
	"github.com/yufin/yufin/internal/ui/layout"
)

// Options wires the app to its collaborators.
type Options struct {
	Catalog    lessons.Catalog
	Controller *lesson.Controller
	UserID     string

	// LessonID opens this lesson straight away, above the picker.
	LessonID string

	// Splash shows the welcome animation before the picker. It is skipped
	// when LessonID is set.
	Splash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	first  tea.Cmd
	wallet layout.Wallet
	width  int
	height int
}

// newAppModel creates an AppModel starting on the lesson picker.
func newAppModel(opts Options) AppModel {
	picker := func() screen.Screen {
		return lessons.New(opts.Catalog, opts.Controller, opts.UserID)
	}
	root := picker()
	if opts.Splash && opts.LessonID == "" {
		root = welcome.New(picker)
	}
	m := AppModel{router: router.New(root)}
	if opts.LessonID != "" {
		m.first = router.Push(play.New(opts.Controller, api.LessonSummary{ID: opts.LessonID}))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.first)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProfileMsg:
		m.wallet = layout.Wallet{Coins: msg.User.Coins, Level: msg.User.Level}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if b, ok := m.router.Active().(screen.BackHandler); ok {
				b.Back()
			}
			return m, tea.Quit
		case "esc":
			if b, ok := m.router.Active().(screen.BackHandler); ok {
				return m, b.Back()
			}
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if frame := m.render(); frame != "" {
		v.SetContent(frame)
	}
	return v
}

// render composes the header, active screen and footer for the current
// window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.wallet, m.width)

	hints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the terminal player and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run player: %w", err)
	}
	return nil
}
