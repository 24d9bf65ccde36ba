package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestSizeThresholds(t *testing.T) {
	assert.True(t, IsTooSmall(79, 40))
	assert.True(t, IsTooSmall(120, 23))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))

	assert.True(t, IsCompactWidth(99))
	assert.False(t, IsCompactWidth(100))
	assert.True(t, IsCompactHeight(29))
	assert.False(t, IsCompactHeight(30))
}

func TestMinSizeMessageShowsCurrentSize(t *testing.T) {
	out := RenderMinSizeMessage(60, 20)
	assert.Contains(t, out, "Window too small")
	assert.Contains(t, out, "Current: 60 x 20")
}

func TestHeaderAndFooterContent(t *testing.T) {
	header := RenderHeader("Quiz", HeaderStats{DailyStreak: 4, GamesPlayed: 12}, 100)
	assert.Contains(t, header, "MathMaster")
	assert.Contains(t, header, "Quiz")
	assert.Contains(t, header, "12 played")
	assert.Contains(t, header, "4 day")
	assert.Equal(t, HeaderHeight, lipgloss.Height(header))

	footer := RenderFooter([]KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Back"}}, 100)
	assert.Contains(t, footer, "Enter")
	assert.Contains(t, footer, "Back")
	assert.Equal(t, FooterHeight, lipgloss.Height(footer))
}

func TestFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Home", HeaderStats{}, 80)
	footer := RenderFooter(nil, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)

	assert.Equal(t, 24, lipgloss.Height(frame))
	assert.True(t, strings.Contains(frame, "body"))
}
