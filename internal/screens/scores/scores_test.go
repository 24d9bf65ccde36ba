package scores

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/store"
)

func seeded(t *testing.T) *Screen {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:scores_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, score := range []int{3, 5} {
		require.NoError(t, st.ResultRepo().SaveResult(ctx, store.GameResult{
			SessionID:   fmt.Sprintf("run-%d", i),
			Mode:        "classic",
			Topic:       "ALGEBRA",
			Level:       "Level 1",
			Score:       score,
			Total:       5,
			CompletedAt: at.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, st.AnswerRepo().AppendAnswer(ctx, store.AnswerEvent{
		SessionID:     "run-1",
		Question:      "x + 2 = 5",
		Chosen:        "3",
		CorrectAnswer: "3",
		Correct:       true,
		Timestamp:     at,
	}))

	s := New(screen.Services{Results: st.ResultRepo(), Answers: st.AnswerRepo()})
	s.Update(s.Init()())
	return s
}

func TestScores_Title(t *testing.T) {
	s := New(screen.Services{})
	if s.Title() != "High Scores" {
		t.Errorf("Title = %q, want %q", s.Title(), "High Scores")
	}
}

func TestScores_EmptyStore(t *testing.T) {
	s := New(screen.Services{})
	assert.Contains(t, s.View(100, 30), "Loading")

	s.Update(s.Init()())
	assert.Contains(t, s.View(100, 30), "No games yet")
}

func TestScores_BestGrid(t *testing.T) {
	s := seeded(t)
	view := ansi.Strip(s.View(120, 30))

	assert.Contains(t, view, "Sudden Death")
	algebra := ""
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "Algebra") {
			algebra = line
		}
	}
	assert.Contains(t, algebra, "5", "best classic algebra score")
	assert.NotContains(t, algebra, "3")
}

func TestScores_RecentExpandsAnswers(t *testing.T) {
	s := seeded(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	require.Equal(t, tabRecent, s.tab)
	assert.Len(t, s.KeyHints(), 4)

	view := s.View(120, 30)
	assert.Contains(t, view, "Algebra")
	assert.Contains(t, view, "5/5", "newest first")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.Contains(t, s.View(120, 30), "x + 2 = 5")

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.NotContains(t, s.View(120, 30), "x + 2 = 5")
}

func TestScores_Navigation(t *testing.T) {
	s := seeded(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 0, s.selected, "arrows only move on the recent tab")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected)
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.selected)
}
