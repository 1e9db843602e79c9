package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yufin/yufin/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for amounts. Only digits, one decimal
// separator (comma or dot) and a leading minus are accepted.
type TextInput struct {
	Model     textinput.Model
	submitted bool
	valid     bool
}

// NewTextInput creates a focused amount input.
func NewTextInput(placeholder string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "R$ "
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Update handles messages, dropping keys that cannot be part of an amount.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.submitted {
		return t, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if key := kmsg.String(); len(key) == 1 && !t.accepts(key[0]) {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) accepts(c byte) bool {
	v := t.Model.Value()
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == ',' || c == '.':
		for i := 0; i < len(v); i++ {
			if v[i] == ',' || v[i] == '.' {
				return false
			}
		}
		return true
	case c == '-':
		return v == ""
	default:
		return false
	}
}

// View renders the input with a mark once submitted.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Submit freezes the input with a validation result.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
	t.Model.Blur()
}
