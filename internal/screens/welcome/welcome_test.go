package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/yufin/yufin/internal/router"
	"github.com/yufin/yufin/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "lessons" }
func (s *stubScreen) Title() string                           { return "Lessons" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestWelcome_Phases(t *testing.T) {
	w, _ := newTestWelcome()

	if strings.Contains(w.View(100, 30), "one lesson at a time") {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 12)
	if w.elapsed != bannerEnd {
		t.Errorf("elapsed = %v, want %v", w.elapsed, bannerEnd)
	}
	view := w.View(100, 30)
	if !strings.Contains(view, "one lesson at a time") {
		t.Error("tagline should be visible once the banner phase ends")
	}
	if strings.Contains(view, "press any key") {
		t.Error("continue hint appears only after the full animation")
	}

	sendTicks(w, 40)
	if !w.Ready() || w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want capped at %v", w.elapsed, totalDur)
	}
	if !strings.Contains(w.View(100, 30), "press any key") {
		t.Error("expected continue hint")
	}
}

func TestWelcome_KeyReplacesOnce(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("a key press should leave the splash")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen == nil {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}

	if _, cmd := w.Update(tea.KeyPressMsg{Code: 'b'}); cmd != nil {
		t.Error("second key press should be ignored")
	}
	if *calls != 1 {
		t.Errorf("next built %d times, want 1", *calls)
	}
}

func TestWelcome_NoAutoTransition(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 60)
	if *calls != 0 {
		t.Error("the splash waits for a key press")
	}
}

func TestWelcome_CompactBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(30), "Y ü F I N") {
		t.Error("narrow terminals get the compact banner")
	}
}
