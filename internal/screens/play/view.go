package play

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/yufin/yufin/internal/content"
	"github.com/yufin/yufin/internal/evaluate"
	"github.com/yufin/yufin/internal/lesson"
	"github.com/yufin/yufin/internal/session"
	"github.com/yufin/yufin/internal/ui/layout"
	"github.com/yufin/yufin/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	if s.err != nil {
		return s.renderError(width)
	}
	if s.attempt == nil {
		return "\n\n" + layout.Center(theme.Hint.Render("Loading lesson..."), width)
	}
	if s.attempt.Status() == lesson.StatusUnavailable {
		return "\n\n" + layout.Center(lipgloss.NewStyle().Foreground(theme.Warning).Render(
			"This lesson is not available yet."), width) +
			"\n\n" + layout.Center(theme.Hint.Render("Press Enter to go back"), width)
	}
	if s.reporting {
		return "\n\n" + layout.Center(theme.Hint.Render("Saving your progress..."), width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(layout.Rule(width))
	b.WriteString("\n\n")

	switch item := s.attempt.Item().(type) {
	case *content.Choice:
		b.WriteString(s.renderChoice(item, width))
	case *content.Math:
		b.WriteString(s.renderMath(item, width))
	case *content.Shopping:
		b.WriteString(s.renderShopping(item, width))
	case *content.Match:
		if s.attempt.Memory() != nil {
			b.WriteString(s.renderMemory(item, width))
		} else {
			b.WriteString(s.renderAssociation(item, width))
		}
	}

	if out, ok := s.attempt.Session().Outcome(); ok && s.attempt.Session().Phase() == session.PhaseAnswered {
		b.WriteString("\n")
		b.WriteString(renderOutcome(out, width))
	}
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice), width))
	}
	return b.String()
}

func (s *PlayScreen) renderError(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(
		"Could not load this lesson"), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(theme.Hint.Render(s.err.Error()), width))

	var fe *lesson.FetchError
	if s.attempt == nil && errors.As(s.err, &fe) && fe.Retryable {
		b.WriteString("\n\n")
		b.WriteString(layout.Center(theme.Body.Render("Press r to try again"), width))
	}
	return b.String()
}

func (s *PlayScreen) renderInfoLine(width int) string {
	sess := s.attempt.Session()
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("  " + s.attempt.Lesson().LessonType().DisplayName())

	elapsed := sess.Elapsed()
	right := theme.Hint.Render(fmt.Sprintf("%d/%d   %d:%02d", sess.Index()+1, sess.Len(), elapsed/60, elapsed%60))

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func renderOutcome(out evaluate.Outcome, width int) string {
	head := theme.Correct.Render("Correct!")
	if !out.IsCorrect {
		head = theme.Incorrect.Render("Not quite")
	}
	if out.Tier != "" {
		head += "  " + theme.Hint.Render(out.Tier)
	}
	body := head
	if out.Explanation != "" {
		body += "\n" + theme.Body.Render(out.Explanation)
	}
	box := theme.Card.Width(min(width-8, 72)).Render(body)
	return layout.Center(box, width) + "\n" + layout.Center(theme.Hint.Render("Press Enter to continue"), width)
}

func (s *PlayScreen) renderChoice(item *content.Choice, width int) string {
	var b strings.Builder
	if item.Scenario != "" {
		b.WriteString(theme.Hint.Width(width - 4).Render("  " + item.Scenario))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Body.Bold(true).Width(width - 4).Render("  " + item.Question))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.choice.Revealed {
		if sel := s.choice.Chosen; sel >= 0 && sel < len(item.Options) && item.Options[sel].Details != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("  " + item.Options[sel].Details))
			b.WriteString("\n")
		}
		for _, line := range item.Comparison {
			b.WriteString(theme.Hint.Render("  • " + line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *PlayScreen) renderMath(item *content.Math, width int) string {
	p := item.Current()
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(layout.Center(theme.Body.Bold(true).Render(p.Question), width))
	b.WriteString("\n\n")

	if len(p.GivenData) > 0 {
		keys := make([]string, 0, len(p.GivenData))
		for k := range p.GivenData {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("    %s: %v", k, p.GivenData[k])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(layout.Center(s.input.View(), width))
	b.WriteString("\n")
	if s.showHint {
		b.WriteString("\n")
		b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Secondary).Render("Hint: "+p.Hint), width))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *PlayScreen) renderShopping(item *content.Shopping, width int) string {
	cart := s.attempt.Cart()
	var b strings.Builder
	if item.Scenario != "" {
		b.WriteString(theme.Hint.Width(width - 4).Render("  " + item.Scenario))
		b.WriteString("\n\n")
	}

	for i, p := range item.Products {
		price := content.FormatMoney(p.UnitPrice())
		if p.OnPromotion() {
			price += " " + lipgloss.NewStyle().Foreground(theme.TextDim).Strikethrough(true).Render(content.FormatMoney(p.Price))
		}
		name := p.Name
		if p.Unit != "" {
			name += " (" + p.Unit + ")"
		}
		qty := cart.Quantity(p.ID)
		line := fmt.Sprintf("%-34s %-24s x%d", truncate(name, 34), price, qty)

		style := theme.Unselected
		prefix := "    "
		if i == s.cursor {
			style = theme.Selected
			prefix = "  ▸ "
		}
		b.WriteString(style.Render(prefix + line))
		b.WriteString("\n")
	}

	remaining := cart.Remaining()
	remStyle := lipgloss.NewStyle().Foreground(theme.Success)
	if remaining < 0 {
		remStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Budget %s   Cart %s (%d items)   Left %s\n",
		theme.Money(content.FormatMoney(item.Budget)),
		theme.Money(content.FormatMoney(cart.Total())),
		cart.Items(),
		remStyle.Render(content.FormatMoney(remaining)),
	))
	return b.String()
}

func (s *PlayScreen) renderAssociation(item *content.Match, width int) string {
	board := s.attempt.Association()
	var b strings.Builder
	if item.Instructions != "" {
		b.WriteString(theme.Hint.Width(width - 4).Render("  " + item.Instructions))
		b.WriteString("\n\n")
	}

	colWidth := max((width-8)/2, 20)
	lefts := renderColumn(board.Lefts(), s.column == 0, s.cursor, s.left, colWidth)
	rights := renderColumn(board.Rights(), s.column == 1, s.cursor, "", colWidth)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  ", lefts, "  ", rights))
	b.WriteString("\n")

	for _, m := range board.Matches() {
		b.WriteString(theme.Correct.Render(fmt.Sprintf("  ✓ %s = %s", m.Left, m.Right)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderColumn(items []string, active bool, cursor int, picked string, width int) string {
	var b strings.Builder
	for i, it := range items {
		style := theme.Unselected
		prefix := "  "
		switch {
		case it == picked && picked != "":
			style = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
			prefix = "● "
		case active && i == cursor:
			style = theme.Selected
			prefix = "▸ "
		}
		b.WriteString(style.Render(prefix + truncate(it, width-2)))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (s *PlayScreen) renderMemory(item *content.Match, width int) string {
	board := s.attempt.Memory()
	cards := board.Cards()
	var b strings.Builder
	if item.Instructions != "" {
		b.WriteString(theme.Hint.Width(width - 4).Render("  " + item.Instructions))
		b.WriteString("\n\n")
	}

	cardWidth := max((width-8)/memoryColumns-2, 10)
	var rows []string
	for start := 0; start < len(cards); start += memoryColumns {
		var row []string
		for i := start; i < min(start+memoryColumns, len(cards)); i++ {
			row = append(row, renderCard(cards[i], i == s.cursor, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	b.WriteString(layout.Center(lipgloss.JoinVertical(lipgloss.Left, rows...), width))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  Mistakes: %d", board.Mistakes())))
	b.WriteString("\n")
	return b.String()
}

func renderCard(c content.Card, focused bool, width int) string {
	text := "?"
	style := theme.Card.Width(width)
	switch {
	case c.IsMatched:
		text = c.Text
		style = style.BorderForeground(theme.Success).Foreground(theme.Success)
	case c.IsFlipped:
		text = c.Text
		style = style.BorderForeground(theme.Accent)
	}
	if focused {
		style = style.BorderForeground(theme.Primary).Bold(true)
	}
	return style.Render(truncate(text, width-2))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
