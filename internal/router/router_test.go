package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/yufin/yufin/internal/api"
	"github.com/yufin/yufin/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	coins   int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if p, ok := msg.(screen.ProfileMsg); ok {
		s.coins = p.User.Coins
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "lessons"})

	s2 := &stubScreen{title: "play"}
	r.Update(PushScreenMsg{Screen: s2})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "play" {
		t.Errorf("expected active 'play', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	r := New(&stubScreen{title: "lessons"})
	r.Push(&stubScreen{title: "play"})
	r.Update(PopScreenMsg{})

	if r.Depth() != 1 || r.Active().Title() != "lessons" {
		t.Errorf("depth=%d active=%q after pop", r.Depth(), r.Active().Title())
	}

	r.Pop()
	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	r := New(&stubScreen{title: "lessons"})
	r.Push(&stubScreen{title: "play"})

	result := &stubScreen{title: "result"}
	r.Update(ReplaceScreenMsg{Screen: result})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "result" || !result.initRan {
		t.Errorf("active=%q init=%v", r.Active().Title(), result.initRan)
	}
}

func TestProfileReachesEveryScreen(t *testing.T) {
	bottom := &stubScreen{title: "lessons"}
	top := &stubScreen{title: "result"}
	r := New(bottom)
	r.Push(top)

	r.Update(screen.ProfileMsg{User: api.User{ID: "ana", Coins: 40, Level: 2}})
	if bottom.coins != 40 || top.coins != 40 {
		t.Errorf("profile not broadcast: bottom=%d top=%d", bottom.coins, top.coins)
	}
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "x"}
	if _, ok := Push(s)().(PushScreenMsg); !ok {
		t.Error("Push should produce PushScreenMsg")
	}
	if _, ok := Replace(s)().(ReplaceScreenMsg); !ok {
		t.Error("Replace should produce ReplaceScreenMsg")
	}
	if _, ok := Pop()().(PopScreenMsg); !ok {
		t.Error("Pop should produce PopScreenMsg")
	}
}
