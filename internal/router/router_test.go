package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gauntlet/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPushAndPop(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	run := &stubScreen{title: "run"}
	r.Push(run)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "run" {
		t.Errorf("expected active 'run', got %q", r.Active().Title())
	}
	if !run.initRan {
		t.Error("expected Init() to run on pushed screen")
	}

	r.Pop()
	if r.Active().Title() != "home" {
		t.Errorf("expected active 'home' after pop, got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "run"})

	summary := &stubScreen{title: "summary"}
	r.Replace(summary)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "summary" {
		t.Errorf("expected active 'summary', got %q", r.Active().Title())
	}
	if !summary.initRan {
		t.Error("expected Init() to run on replacement screen")
	}
}

func TestNavigationMessages(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	run := &stubScreen{title: "run"}
	r.Update(PushScreenMsg{Screen: run})
	if r.Active().Title() != "run" {
		t.Errorf("expected active 'run', got %q", r.Active().Title())
	}

	summary := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: summary})
	if r.Active().Title() != "summary" {
		t.Errorf("expected active 'summary', got %q", r.Active().Title())
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "home" {
		t.Errorf("expected active 'home', got %q", r.Active().Title())
	}
}
