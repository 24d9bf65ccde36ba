package play

import (
	"charm.land/bubbles/v2/key"

	"github.com/CuriousNebula/Math-Master/internal/ui/layout"
)

type keyMap struct {
	Back    key.Binding
	Explain key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Select  key.Binding
	Move    key.Binding
	Answer  key.Binding
	Next    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
		Explain: key.NewBinding(key.WithKeys("e"), key.WithHelp("E", "Explain")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "Quit round")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep playing")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Select")),
		Move:    key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑↓", "Navigate")),
		Answer:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "Answer")),
		Next:    key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("any key", "Continue")),
		Quit:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Quit")),
	}
}

func hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}
