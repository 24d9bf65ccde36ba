package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/CuriousNebula/Math-Master/internal/ui/theme"
)

// ChoiceMsg is emitted when the player picks an option.
type ChoiceMsg struct {
	Choice string
}

// MultiChoice is a four-option answer picker.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int

	revealed bool
	chosen   string
	correct  string
}

// NewMultiChoice creates a picker with the first option highlighted.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{Question: question, Options: options}
}

// Update moves the highlight with the arrow keys and emits a ChoiceMsg on
// Enter or on a number key 1-4. It ignores input once revealed.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		return m, m.choose(m.Selected)
	case "1", "2", "3", "4", "a", "b", "c", "d":
		i := strings.Index("1234", key)
		if i < 0 {
			i = strings.Index("abcd", key)
		}
		if i < len(m.Options) {
			m.Selected = i
			return m, m.choose(i)
		}
	}
	return m, nil
}

func (m MultiChoice) choose(i int) tea.Cmd {
	if i < 0 || i >= len(m.Options) {
		return nil
	}
	choice := m.Options[i]
	return func() tea.Msg { return ChoiceMsg{Choice: choice} }
}

// Reveal marks the chosen and correct options for the feedback view.
func (m *MultiChoice) Reveal(chosen, correct string) {
	m.revealed = true
	m.chosen = chosen
	m.correct = correct
}

// Revealed reports whether feedback is being shown.
func (m MultiChoice) Revealed() bool { return m.revealed }

// View renders the question and its options.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(m.Question))
	b.WriteString("\n\n")

	labels := "ABCD"
	var lines []string
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, labels[i%len(labels)], opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.revealed && opt == m.correct:
			style = theme.Correct
			line += "  ✓"
		case m.revealed && opt == m.chosen:
			style = theme.Incorrect
			line += "  ✗"
		case m.revealed:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		lines = append(lines, style.Render(line))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n")))
	return b.String()
}
