package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler is implemented by screens that must clean up before leaving.
// The app calls Back on Esc instead of popping the screen.
type BackHandler interface {
	Back() tea.Cmd
}

// ProfileMsg carries a fresh learner profile. The app updates the header
// from it and every screen on the stack receives it.
type ProfileMsg struct {
	User api.User
}
