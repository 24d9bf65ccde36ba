package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoice_NumberKeyChooses(t *testing.T) {
	m := NewMultiChoice("2 + 2?", []string{"3", "4", "5", "22"})
	m, cmd := m.Update(keyPress('2'))
	if cmd == nil {
		t.Fatal("expected a ChoiceMsg command")
	}
	msg, ok := cmd().(ChoiceMsg)
	if !ok || msg.Choice != "4" {
		t.Errorf("msg = %#v, want ChoiceMsg{4}", msg)
	}
	if m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}
}

func TestMultiChoice_ArrowsThenEnter(t *testing.T) {
	m := NewMultiChoice("q", []string{"a1", "b1", "c1", "d1"})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if got := cmd().(ChoiceMsg).Choice; got != "b1" {
		t.Errorf("Choice = %q, want b1", got)
	}
}

func TestMultiChoice_RevealedIgnoresInput(t *testing.T) {
	m := NewMultiChoice("q", []string{"1", "2", "3", "4"})
	m.Reveal("1", "2")
	if _, cmd := m.Update(keyPress('3')); cmd != nil {
		t.Error("revealed picker should ignore keys")
	}
	view := m.View(60)
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Errorf("view does not mark chosen and correct options:\n%s", view)
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var chosen string
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "one", Action: func() tea.Cmd { chosen = "one"; return nil }},
		{Label: "off2", Disabled: true},
		{Label: "two", Action: func() tea.Cmd { chosen = "two"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("Selected = %d, want 3", m.Selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if chosen != "two" {
		t.Errorf("chosen = %q, want two", chosen)
	}
}

func TestContentWidth(t *testing.T) {
	tests := []struct{ in, want int }{
		{10, 20},
		{50, 44},
		{200, 60},
	}
	for _, tt := range tests {
		if got := ContentWidth(tt.in); got != tt.want {
			t.Errorf("ContentWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
