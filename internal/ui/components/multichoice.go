package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yufin/yufin/internal/ui/theme"
)

// MultiChoice is a lettered option selector. Once revealed it colors the
// correct option and the chosen one and stops taking input.
type MultiChoice struct {
	Options  []string
	Correct  int
	Selected int
	Chosen   int
	Revealed bool
}

// NewMultiChoice creates a selector with no choice made.
func NewMultiChoice(options []string, correct int) MultiChoice {
	return MultiChoice{Options: options, Correct: correct, Chosen: -1}
}

// Label returns the letter shown for option i.
func Label(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}

// Update moves the cursor or picks an option. Letter keys pick directly.
// It reports whether an option was chosen.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.Revealed {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Chosen = m.Selected
		return m, true
	default:
		if len(key) == 1 {
			i := int(strings.ToUpper(key)[0]) - 'A'
			if i >= 0 && i < len(m.Options) {
				m.Selected = i
				m.Chosen = i
				return m, true
			}
		}
	}
	return m, false
}

// Reveal shows the answer with i as the chosen option.
func (m *MultiChoice) Reveal(i int) {
	m.Chosen = i
	m.Revealed = true
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Revealed && i == m.Correct:
			style = theme.Correct
		case m.Revealed && i == m.Chosen:
			style = theme.Incorrect
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
