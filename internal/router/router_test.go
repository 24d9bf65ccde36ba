package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/CuriousNebula/Math-Master/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	seen    int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen++
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestPopToRoot(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "quiz"})
	r.Push(&stubScreen{title: "results"})

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "home" {
		t.Errorf("expected active 'home', got %q", r.Active().Title())
	}
}

func TestPushCmd(t *testing.T) {
	s2 := &stubScreen{title: "second"}
	msg := Push(s2)()

	push, ok := msg.(PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	r := New(&stubScreen{title: "first"})
	r.Update(push)
	if r.Active() != s2 {
		t.Errorf("expected pushed screen to be active")
	}
	r.Update(Pop())
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first' after Pop, got %q", r.Active().Title())
	}
}

func TestBroadcastReachesEveryScreen(t *testing.T) {
	home := &stubScreen{title: "home"}
	quiz := &stubScreen{title: "quiz"}
	r := New(home)
	r.Push(quiz)

	r.Broadcast(screen.StatsMsg{})
	r.Update(screen.StatsMsg{})

	if home.seen != 1 {
		t.Errorf("home saw %d messages, want 1", home.seen)
	}
	if quiz.seen != 2 {
		t.Errorf("quiz saw %d messages, want 2", quiz.seen)
	}
}
