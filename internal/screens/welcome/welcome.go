// Package welcome shows the YüFin splash before the lesson picker.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/yufin/yufin/internal/router"
	"github.com/yufin/yufin/internal/screen"
	"github.com/yufin/yufin/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	coinsEnd     = 600 * time.Millisecond
	bannerEnd    = 1200 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// coinArt is drawn one row at a time while the stack grows.
var coinArt = []string{
	"   ╭─────╮   ",
	"  ╭┴─────┴╮  ",
	" ╭┴───────┴╮ ",
	" │   R$    │ ",
	" ╰─────────╯ ",
}

var glintFrames = []string{"✦", "·", "✧", "·"}

type tickMsg time.Time

// WelcomeScreen animates the splash and replaces itself with the screen
// built by next on the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	frame        int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen leading to the screen produced by next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.frame++
		return w, tick()
	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Replace(w.next())
}

// Ready reports whether the whole animation has played.
func (w *WelcomeScreen) Ready() bool { return w.elapsed >= totalDur }

func (w *WelcomeScreen) View(width, height int) string {
	coinStyle := lipgloss.NewStyle().Foreground(theme.Accent)

	rows := len(coinArt)
	if w.elapsed < coinsEnd {
		rows = 1 + int(w.elapsed*time.Duration(len(coinArt)-1)/coinsEnd)
	}
	coins := make([]string, 0, rows)
	for _, line := range coinArt[len(coinArt)-rows:] {
		coins = append(coins, coinStyle.Render(line))
	}
	if w.elapsed >= coinsEnd && len(coins) > 0 {
		glint := lipgloss.NewStyle().Foreground(theme.Secondary).
			Render(glintFrames[w.frame%len(glintFrames)])
		coins[0] = glint + " " + coins[0] + " " + glint
	}
	sections := []string{strings.Join(coins, "\n")}

	if w.elapsed >= bannerEnd {
		sections = append(sections, "", RenderBanner(width), "",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Learn to handle money, one lesson at a time."))
	}
	if w.Ready() {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
