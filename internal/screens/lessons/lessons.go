// Package lessons is the lesson picker, the first screen of the app.
package lessons

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/lesson"
	"github.com/yufin/yufin/internal/rewards"
	"github.com/yufin/yufin/internal/router"
	"github.com/yufin/yufin/internal/screen"
	"github.com/yufin/yufin/internal/screens/play"
	"github.com/yufin/yufin/internal/ui/components"
	"github.com/yufin/yufin/internal/ui/layout"
	"github.com/yufin/yufin/internal/ui/theme"
)

// Catalog lists lessons and loads learner profiles. Both the HTTP client
// and the local store adapter satisfy it.
type Catalog interface {
	Lessons(ctx context.Context) ([]api.LessonSummary, error)
	User(ctx context.Context, id string) (*api.User, error)
}

type lessonsLoadedMsg struct {
	lessons []api.LessonSummary
	err     error
}

type profileLoadedMsg struct {
	user *api.User
}

// LessonsScreen lists the available lessons and starts one on Enter.
type LessonsScreen struct {
	catalog Catalog
	ctrl    *lesson.Controller
	userID  string

	loading bool
	err     error
	lessons []api.LessonSummary
	user    *api.User
	menu    components.Menu
}

var _ screen.Screen = (*LessonsScreen)(nil)
var _ screen.KeyHintProvider = (*LessonsScreen)(nil)

// New creates the lesson picker for userID.
func New(catalog Catalog, ctrl *lesson.Controller, userID string) *LessonsScreen {
	return &LessonsScreen{catalog: catalog, ctrl: ctrl, userID: userID, loading: true}
}

func (s *LessonsScreen) Init() tea.Cmd {
	return tea.Batch(s.loadLessons(), s.loadProfile())
}

func (s *LessonsScreen) Title() string {
	return "Lessons"
}

func (s *LessonsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LessonsScreen) loadLessons() tea.Cmd {
	return func() tea.Msg {
		ls, err := s.catalog.Lessons(context.Background())
		return lessonsLoadedMsg{lessons: ls, err: err}
	}
}

// loadProfile fetches the learner. A learner with no completions yet may
// not exist remotely; that leaves the header empty.
func (s *LessonsScreen) loadProfile() tea.Cmd {
	return func() tea.Msg {
		u, err := s.catalog.User(context.Background(), s.userID)
		if err != nil {
			return nil
		}
		return profileLoadedMsg{user: u}
	}
}

func (s *LessonsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonsLoadedMsg:
		s.loading = false
		s.err = msg.err
		s.lessons = msg.lessons
		s.rebuildMenu()
		return s, nil

	case profileLoadedMsg:
		u := *msg.user
		return s, func() tea.Msg { return screen.ProfileMsg{User: u} }

	case screen.ProfileMsg:
		u := msg.User
		s.user = &u
		s.rebuildMenu()
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			s.loading = true
			return s, tea.Batch(s.loadLessons(), s.loadProfile())
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LessonsScreen) rebuildMenu() {
	done := make(map[string]bool)
	if s.user != nil {
		for _, id := range s.user.CompletedLessons {
			done[id] = true
		}
	}

	selected := s.menu.Selected
	items := make([]components.MenuItem, 0, len(s.lessons))
	for _, l := range s.lessons {
		title := l.Title
		if title == "" {
			title = l.ID
		}
		detail := content.ParseType(l.Type).DisplayName()
		if done[l.ID] {
			detail += "  ✓"
		}
		items = append(items, components.MenuItem{
			Label:  title,
			Detail: detail,
			Action: func() tea.Cmd {
				return router.Push(play.New(s.ctrl, l))
			},
		})
	}
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *LessonsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	if s.user != nil {
		b.WriteString(layout.Center(theme.Title.Render(fmt.Sprintf("Hi, %s!", s.user.Name)), width))
		b.WriteString("\n\n")
		into := float64(s.user.XP%rewards.XPPerLevel) / rewards.XPPerLevel
		bar := components.NewProgressBar(fmt.Sprintf("Level %d", s.user.Level), into, true, min(width-8, 60))
		b.WriteString(layout.Center(bar.View(), width))
		b.WriteString("\n\n")
	}

	switch {
	case s.loading && len(s.lessons) == 0:
		b.WriteString(layout.Center(theme.Hint.Render("Loading lessons..."), width))
	case s.err != nil:
		b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Error).Render("Could not load lessons: "+s.err.Error()), width))
		b.WriteString("\n\n")
		b.WriteString(layout.Center(theme.Hint.Render("Press r to try again"), width))
	case len(s.lessons) == 0:
		b.WriteString(layout.Center(theme.Hint.Render("No lessons yet. Import some with `yufin lessons import`."), width))
	default:
		b.WriteString(s.menu.View())
	}
	return b.String()
}
