// Package scores lists high scores and recent rounds.
package scores

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/store"
	"github.com/CuriousNebula/Math-Master/internal/ui/layout"
	"github.com/CuriousNebula/Math-Master/internal/ui/theme"
)

const recentLimit = 50

type scoresLoadedMsg struct {
	Best   []store.HighScore
	Recent []store.GameResult
	Err    error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerEvent
	Err       error
}

type tab int

const (
	tabBest tab = iota
	tabRecent
)

// Screen displays stored results.
type Screen struct {
	svc      screen.Services
	tab      tab
	best     []store.HighScore
	recent   []store.GameResult
	answers  map[string][]store.AnswerEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a new scores screen.
func New(svc screen.Services) *Screen {
	return &Screen{
		svc:      svc.WithDefaults(),
		answers:  make(map[string][]store.AnswerEvent),
		expanded: make(map[int]bool),
	}
}

func (s *Screen) Init() tea.Cmd {
	results := s.svc.Results
	return func() tea.Msg {
		if results == nil {
			return scoresLoadedMsg{}
		}
		ctx := context.Background()
		best, err := results.HighScores(ctx)
		if err != nil {
			return scoresLoadedMsg{Err: err}
		}
		recent, err := results.RecentResults(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return scoresLoadedMsg{Err: err}
		}
		return scoresLoadedMsg{Best: best, Recent: recent}
	}
}

func (s *Screen) Title() string {
	return "High Scores"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Best / Recent"}}
	if s.tab == tabRecent {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Navigate"},
			layout.KeyHint{Key: "Enter", Description: "Answers"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case scoresLoadedMsg:
		if msg.Err != nil {
			s.svc.Logger.Error("could not load scores", zap.Error(msg.Err))
			s.errMsg = msg.Err.Error()
		} else {
			s.best = msg.Best
			s.recent = msg.Recent
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.svc.Logger.Warn("could not load answers", zap.String("session", msg.SessionID), zap.Error(msg.Err))
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "left", "right", "h", "l":
			if s.tab == tabBest {
				s.tab = tabRecent
			} else {
				s.tab = tabBest
			}
			return s, nil
		}
		if s.tab != tabRecent {
			return s, nil
		}
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.recent)-1 {
				s.selected++
			}
		case "enter":
			if s.selected >= len(s.recent) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.recent[s.selected].SessionID
			if _, ok := s.answers[id]; !ok && s.expanded[s.selected] {
				return s, s.loadAnswers(id)
			}
		}
	}
	return s, nil
}

func (s *Screen) loadAnswers(sessionID string) tea.Cmd {
	answers := s.svc.Answers
	return func() tea.Msg {
		if answers == nil {
			return answersLoadedMsg{SessionID: sessionID}
		}
		evs, err := answers.AnswersForSession(context.Background(), sessionID)
		return answersLoadedMsg{SessionID: sessionID, Answers: evs, Err: err}
	}
}

func (s *Screen) View(width, height int) string {
	dim := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return dim.Render("\n\n  Loading scores...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(renderTabs(s.tab, width))
	b.WriteString("\n\n")

	if len(s.recent) == 0 {
		b.WriteString(dim.Italic(true).Render("No games yet. Pick a topic and play!"))
		return b.String()
	}

	if s.tab == tabBest {
		b.WriteString(renderBest(s.best, width))
	} else {
		b.WriteString(s.renderRecent(width))
	}
	return b.String()
}

func renderTabs(active tab, width int) string {
	on := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true).Padding(0, 2)
	off := lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 2)

	best, recent := off.Render("BEST"), off.Render("RECENT")
	if active == tabBest {
		best = on.Render("BEST")
	} else {
		recent = on.Render("RECENT")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, best+"  "+recent)
}

// renderBest is a topic by mode grid of high scores.
func renderBest(best []store.HighScore, width int) string {
	scores := make(map[string]int, len(best))
	for _, hs := range best {
		scores[hs.Mode+"/"+hs.Topic] = hs.Score
	}

	header := fmt.Sprintf("%-16s", "")
	for _, m := range quiz.AllModes {
		header += fmt.Sprintf("%14s", m.DisplayName())
	}
	lines := []string{lipgloss.NewStyle().Foreground(theme.TextDim).Render(header)}

	for _, t := range dataset.AllTopics {
		row := lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("%-16s", t.DisplayName()))
		for _, m := range quiz.AllModes {
			cell := "-"
			if score, ok := scores[m.String()+"/"+t.Key()]; ok {
				cell = fmt.Sprintf("%d", score)
			}
			row += lipgloss.NewStyle().Foreground(theme.ModeColor(m.String())).Render(fmt.Sprintf("%14s", cell))
		}
		lines = append(lines, row)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n"))
}

func (s *Screen) renderRecent(width int) string {
	var b strings.Builder
	for i, res := range s.recent {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-12s %-12s %-8s %3d/%-3d  %d pts",
			prefix,
			res.CompletedAt.Local().Format("Jan 02 15:04"),
			modeName(res.Mode),
			topicName(res.Topic),
			levelName(res.Level),
			res.Score, res.Total, res.Points)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderAnswers(s.answers[res.SessionID], width))
		}
	}
	return b.String()
}

func renderAnswers(answers []store.AnswerEvent, width int) string {
	if len(answers) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    No answers recorded")) + "\n"
	}
	var b strings.Builder
	for _, a := range answers {
		mark, style := "✓", theme.Correct
		detail := a.Chosen
		if !a.Correct {
			mark, style = "✗", theme.Incorrect
			detail = fmt.Sprintf("%s (answer %s)", a.Chosen, a.CorrectAnswer)
		}
		line := fmt.Sprintf("    %s %s  →  %s", style.Render(mark), a.Question, detail)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func modeName(s string) string {
	if m, err := quiz.ParseMode(s); err == nil {
		return m.DisplayName()
	}
	return s
}

func topicName(s string) string {
	if t, err := dataset.ParseTopic(s); err == nil {
		return t.DisplayName()
	}
	return s
}

func levelName(s string) string {
	if s == "" {
		return "endless"
	}
	return s
}
