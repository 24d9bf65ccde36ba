package play

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/session"
	"github.com/CuriousNebula/Math-Master/internal/ui/components"
	"github.com/CuriousNebula/Math-Master/internal/ui/layout"
	"github.com/CuriousNebula/Math-Master/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, height, s.errMsg)
	case s.loading:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			s.spinner.View()+" "+theme.Hint.Render("Loading today's challenge..."))
	case s.sess == nil && s.played != nil:
		return s.renderPlayed(width, height)
	case s.sess == nil:
		return ""
	case s.confirmQuit:
		return renderQuitConfirm(width, height)
	}

	switch s.sess.Phase() {
	case session.PhaseModeSelect:
		return s.renderMenu(width, height, "CHOOSE A MODE", theme.ArcadeYellow)
	case session.PhaseTopicSelect:
		title := "CHOOSE A LEVEL"
		if s.kind == kindGame {
			title = "CHOOSE A TOPIC"
		}
		return s.renderMenu(width, height, title, theme.ModeColor(s.sess.Mode().String()))
	case session.PhaseInProgress:
		return s.renderQuestion(width, height)
	default:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Round over"))
	}
}

func (s *Screen) renderMenu(width, height int, title string, accent color.Color) string {
	cw := components.ContentWidth(width)

	parts := []string{
		lipgloss.NewStyle().Foreground(accent).Bold(true).Render(title),
	}
	if s.kind == kindQuiz && s.sess.Phase() == session.PhaseTopicSelect {
		parts = append(parts, theme.Hint.Render(s.sess.Mode().DisplayName()+" · "+s.topic.DisplayName()))
	}
	parts = append(parts, "", components.ArcadeMenu(s.menu, cw, layout.IsCompactHeight(height)))

	if sel := s.menu.Selected; sel >= 0 && sel < len(s.menu.Items) && s.menu.Items[sel].Detail != "" {
		parts = append(parts, "", theme.Hint.Render(s.menu.Items[sel].Detail))
	}
	if s.notice != "" {
		parts = append(parts, "", theme.Incorrect.Render(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (s *Screen) renderQuestion(width, height int) string {
	st := s.sess.Snapshot()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(renderHUD(st, s.svc.Rules.Lives, width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if st.Mode == quiz.TimeAttack {
		bar := components.NewProgressBar("", float64(st.TimeRemaining)/float64(max(s.svc.Rules.TimeBudget, 1)), false, cw)
		bar.Fill = theme.ArcadeCyan
		if st.TimeRemaining <= 10 {
			bar.Fill = theme.Error
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(s.choice.View(width))
	b.WriteString("\n\n")
	b.WriteString(s.renderFeedback(width))

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

// renderHUD is the status line: mode and topic on the left, counters on
// the right.
func renderHUD(st session.State, maxLives, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.ModeColor(st.Mode.String())).
		Bold(true).
		Render("  " + st.Mode.DisplayName() + "  ·  " + st.Topic.DisplayName())

	progress := fmt.Sprintf("Q %d/%d", st.Index+1, st.Total)
	if st.Total == 0 {
		progress = fmt.Sprintf("Q %d", st.Index+1)
	}
	counters := []string{
		progress,
		fmt.Sprintf("Score %d", st.Score),
	}
	if st.Streak >= 2 {
		counters = append(counters, lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d in a row", st.Streak)))
	}
	switch st.Mode {
	case quiz.SuddenDeath:
		hearts := strings.Repeat("♥", st.Lives) + strings.Repeat("♡", max(maxLives-st.Lives, 0))
		counters = append(counters, lipgloss.NewStyle().Foreground(theme.Error).Render(hearts))
	case quiz.TimeAttack:
		counters = append(counters, lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(fmt.Sprintf("%ds", st.TimeRemaining)))
	}
	if st.HighScore > 0 {
		counters = append(counters, fmt.Sprintf("Best %d", st.HighScore))
	}
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Join(counters, "   ")) + "  "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (s *Screen) renderFeedback(width int) string {
	fb := s.feedback
	if fb == nil {
		return ""
	}
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var lines []string
	if fb.Correct {
		msg := fmt.Sprintf("Correct! +%d points", fb.PointsEarned)
		if fb.TimeAdded > 0 {
			msg += fmt.Sprintf("  +%ds", fb.TimeAdded)
		}
		lines = append(lines, center(theme.Correct.Render(msg)))
	} else {
		msg := "Not quite. The answer is " + fb.CorrectAnswer
		if fb.LifeLost {
			msg += "  -1 ♥"
		}
		lines = append(lines, center(theme.Incorrect.Render(msg)))
	}
	if fb.Celebrate {
		lines = append(lines, center(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("★ Great run! ★")))
	}

	switch {
	case s.explaining:
		lines = append(lines, "", center(s.spinner.View()+" "+theme.Hint.Render("Asking the tutor...")))
	case s.explanation != nil:
		lines = append(lines, "", renderExplanation(s.explanation.Steps, s.explanation.Tip, components.ContentWidth(width), width))
	case s.explainErr != "":
		lines = append(lines, "", center(theme.Hint.Render(s.explainErr)))
	case s.canExplain():
		lines = append(lines, "", center(theme.Hint.Render("Press E for a worked explanation")))
	}
	return strings.Join(lines, "\n")
}

func renderExplanation(steps []string, tip string, cw, width int) string {
	var b strings.Builder
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	if tip != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("Tip: " + tip))
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Foreground(theme.Text).
		Width(cw).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func (s *Screen) renderPlayed(width, height int) string {
	cw := components.ContentWidth(width)
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("ALREADY PLAYED TODAY"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%d / %d", s.played.Score, s.played.Total)),
		"",
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %d day streak", s.streak)),
		theme.Hint.Render("Come back tomorrow for a new set"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.ArcadeCard(body, cw))
}

func renderQuitConfirm(width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(1, 4).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Quit this round?"),
			"",
			theme.Hint.Render("Your progress in this round will be lost."),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Render("[Y] Quit    [N] Keep playing"),
		))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func renderError(width, height int, msg string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			theme.Incorrect.Render(msg),
			"",
			theme.Hint.Render("Press Enter to go back"),
		))
}
