package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/CuriousNebula/Math-Master/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all arcade sections.
// All boxes are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

// ArcadeButton renders a fixed-width menu button.
func ArcadeButton(label string, selected bool) string {
	if selected {
		return lipgloss.NewStyle().
			Width(buttonWidth).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeYellow).
			Padding(0, 1).
			Render("▸ " + label)
	}
	return lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(label)
}

// ArcadeMenu renders a menu as a column of buttons, or as highlighted text
// lines when compact is set and bordered buttons would overflow.
func ArcadeMenu(m Menu, cw int, compact bool) string {
	var rows []string
	for i, item := range m.Items {
		selected := i == m.Selected && !item.Disabled
		if compact {
			style := lipgloss.NewStyle().Foreground(theme.Text)
			label := "   " + item.Label
			switch {
			case item.Disabled:
				style = style.Foreground(theme.TextDim)
			case selected:
				style = style.Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
				label = " ▸ " + item.Label + " "
			}
			rows = append(rows, style.Render(label))
			continue
		}
		rows = append(rows, ArcadeButton(item.Label, selected))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}
