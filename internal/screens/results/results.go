// Package results shows the outcome of a finished round.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/router"
	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/session"
	"github.com/CuriousNebula/Math-Master/internal/ui/components"
	"github.com/CuriousNebula/Math-Master/internal/ui/layout"
	"github.com/CuriousNebula/Math-Master/internal/ui/theme"
)

// RetryMsg asks the screen below to replay the same round.
type RetryMsg struct{}

// ReselectMsg asks the screen below to go back to level or topic choice
// while keeping the mode.
type ReselectMsg struct{}

// Daily carries the extra lines shown after a daily challenge.
type Daily struct {
	Streak int
}

// Screen displays a finished round and what to do next.
type Screen struct {
	result session.Result
	daily  *Daily
	menu   components.Menu
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)

// New creates the results screen for a quiz or game mode round.
func New(res session.Result) *Screen {
	retry, reselect := "Retry", "Change Level"
	if res.Endless {
		retry, reselect = "Play Again", "Change Topic"
	}
	items := []components.MenuItem{
		{Label: retry, Action: func() tea.Cmd { return tea.Sequence(router.Pop, send(RetryMsg{})) }},
		{Label: reselect, Action: func() tea.Cmd { return tea.Sequence(router.Pop, send(ReselectMsg{})) }},
		{Label: "Home", Action: func() tea.Cmd { return router.PopToRoot }},
	}
	return &Screen{result: res, menu: components.NewMenu(items)}
}

// NewDaily creates the results screen for the daily challenge.
func NewDaily(res session.Result, d Daily) *Screen {
	items := []components.MenuItem{
		{Label: "Home", Action: func() tea.Cmd { return router.PopToRoot }},
	}
	return &Screen{result: res, daily: &d, menu: components.NewMenu(items)}
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	if s.daily != nil {
		return "Daily Challenge"
	}
	return "Results"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Home"},
	}
}

// HandlesBack sends Esc home instead of back into a finished round.
func (s *Screen) HandlesBack() bool { return true }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, router.PopToRoot
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	res := s.result
	cw := components.ContentWidth(width)

	var b strings.Builder

	heading, color := "ROUND OVER", theme.ModeColor(res.Mode.String())
	switch {
	case s.daily != nil:
		heading = "DAILY COMPLETE"
	case res.NewHighScore:
		heading, color = "NEW HIGH SCORE!", theme.ArcadeYellow
	}
	b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(heading))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(
		fmt.Sprintf("%d / %d", res.Score, res.Total)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(subtitle(res, s.daily != nil)))
	b.WriteString("\n\n")

	b.WriteString(strings.Join(statLines(res), "\n"))
	if s.daily != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("★ %d day streak", s.daily.Streak)))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Come back tomorrow for a new set"))
	}

	card := components.ArcadeCard(b.String(), cw)
	menu := components.ArcadeMenu(s.menu, cw, layout.IsCompactHeight(height))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, card, "", menu))
}

func subtitle(res session.Result, daily bool) string {
	switch {
	case daily:
		return "one question from every topic"
	case res.Endless:
		return fmt.Sprintf("%s · %s · endless", res.Mode.DisplayName(), res.Topic.DisplayName())
	default:
		return fmt.Sprintf("%s · %s · %s", res.Mode.DisplayName(), res.Topic.DisplayName(), res.Level.Key())
	}
}

// statLines lists the numbers worth showing for the round's mode.
func statLines(res session.Result) []string {
	lines := []string{
		fmt.Sprintf("Accuracy     %d%%", res.Accuracy),
		fmt.Sprintf("Best streak  %d", res.MaxStreak),
		fmt.Sprintf("Points       %d", res.Points),
		fmt.Sprintf("Time         %s", clock(res.Duration.Seconds())),
	}
	switch res.Mode {
	case quiz.TimeAttack:
		lines = append(lines, fmt.Sprintf("Per minute   %.1f", res.PerMinute))
	case quiz.SuddenDeath:
		lines = append(lines, fmt.Sprintf("Survived     %d", res.Survived))
	}
	for i, l := range lines {
		lines[i] = lipgloss.NewStyle().Foreground(theme.Text).Render(l)
	}
	return lines
}

func clock(secs float64) string {
	s := int(secs)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
