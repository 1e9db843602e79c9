// Package result shows the outcome of a finished lesson.
package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/lesson"
	"github.com/yufin/yufin/internal/rewards"
	"github.com/yufin/yufin/internal/router"
	"github.com/yufin/yufin/internal/screen"
	"github.com/yufin/yufin/internal/ui/layout"
	"github.com/yufin/yufin/internal/ui/theme"
)

// ResultScreen displays the completion result and what it earned.
type ResultScreen struct {
	summary api.LessonSummary
	report  lesson.Report
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a result screen for a submitted attempt.
func New(summary api.LessonSummary, report lesson.Report) *ResultScreen {
	return &ResultScreen{summary: summary, report: report}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Lesson complete"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to lessons"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return s, router.Pop()
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	res := s.report.Result
	var b strings.Builder
	b.WriteString("\n")

	headline := "Lesson complete!"
	if res.IsPerfect {
		headline = "Perfect score!"
	}
	b.WriteString(layout.Center(theme.Title.Render(headline), width))
	b.WriteString("\n")
	if s.summary.Title != "" {
		b.WriteString(layout.Center(theme.Subtitle.Render(s.summary.Title), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	scoreColor := theme.Success
	if res.Score < 50 {
		scoreColor = theme.Error
	} else if res.Score < 100 {
		scoreColor = theme.Warning
	}
	b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(scoreColor).Bold(true).
		Render(fmt.Sprintf("%d / 100", res.Score)), width))
	b.WriteString("\n\n")

	details := []string{fmt.Sprintf("Time: %d:%02d", res.TimeSpentSeconds/60, res.TimeSpentSeconds%60)}
	if res.Detail.Total > 0 {
		details = append(details, fmt.Sprintf("Correct: %d of %d", res.Detail.Correct, res.Detail.Total))
	}
	if res.Detail.Tier != "" {
		details = append(details, "Result: "+res.Detail.Tier)
	}
	b.WriteString(layout.Center(theme.Body.Render(strings.Join(details, "   ")), width))
	b.WriteString("\n\n")

	if p := s.report.Progress; p != nil {
		b.WriteString(layout.Center(theme.Money(fmt.Sprintf("+%d coins", p.Reward)), width))
		b.WriteString("\n")
		if p.LeveledUp {
			b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
				Render(fmt.Sprintf("Level up! You are now level %d", p.User.Level)), width))
			b.WriteString("\n")
		}
		if len(p.NewAchievements) > 0 {
			b.WriteString("\n")
			b.WriteString(layout.Center(theme.Body.Bold(true).Render("New achievements"), width))
			b.WriteString("\n")
			for _, id := range p.NewAchievements {
				b.WriteString(layout.Center(renderAchievement(id), width))
				b.WriteString("\n")
			}
		}
	}

	if s.report.Notice != "" {
		color := theme.TextDim
		if !s.report.Saved {
			color = theme.Error
		}
		b.WriteString("\n")
		b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(color).Render(s.report.Notice), width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderAchievement(id string) string {
	a, ok := rewards.Lookup(id)
	if !ok {
		return theme.Body.Render(id)
	}
	return lipgloss.NewStyle().Foreground(theme.RarityColor(a.Rarity)).Bold(true).
		Render(fmt.Sprintf("%s %s", a.Rarity.Icon(), a.Name)) +
		"  " + theme.Hint.Render(a.Description)
}
