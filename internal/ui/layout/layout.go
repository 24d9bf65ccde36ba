// Package layout draws the frame around every screen: a header bar with
// the running counters, the active screen, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/CuriousNebula/Math-Master/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats are the counters shown on the right of the header.
type HeaderStats struct {
	DailyStreak int
	GamesPlayed int
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

// IsTooSmall reports whether the quiz cannot be drawn at this size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage fills the window with a resize request.
func RenderMinSizeMessage(width, height int) string {
	lines := []string{
		"Window too small",
		"",
		fmt.Sprintf("MathMaster needs at least %d x %d", MinWidth, MinHeight),
		"",
		fmt.Sprintf("Current: %d x %d", width, height),
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(strings.Join(lines, "\n"))
}

// bar is the rounded card shared by header and footer.
func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

func counters(stats HeaderStats) string {
	played := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).
		Render(fmt.Sprintf("▶ %d played", stats.GamesPlayed))
	streak := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("★ %d day", stats.DailyStreak))
	return played + "   " + streak
}

// RenderHeader puts the brand on the left, the screen title roughly in
// the middle and the counters on the right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  MathMaster")
	name := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := counters(stats)

	inner := max(width-4, 0)
	bw, nw, rw := lipgloss.Width(brand), lipgloss.Width(name), lipgloss.Width(right)
	gapL := max((inner-nw)/2-bw, 1)
	gapR := max(inner-bw-gapL-nw-rw, 1)

	row := brand + strings.Repeat(" ", gapL) + name + strings.Repeat(" ", gapR) + right
	return bar(width).Render(row)
}

// RenderFooter lists the key hints of the active screen.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(keyStyle.Render(h.Key))
		b.WriteString(" ")
		b.WriteString(descStyle.Render(h.Description))
	}
	return bar(width).Render(b.String())
}

// RenderFrame stacks header, content and footer; the content is padded
// to whatever height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	middle := lipgloss.NewStyle().Width(width).Height(body).Render(content)
	return strings.Join([]string{header, middle, footer}, "\n")
}
