package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/CuriousNebula/Math-Master/internal/router"
	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/screens/scores"
)

// backScreen claims Esc and records that it saw it.
type backScreen struct {
	sawEsc bool
}

func (s *backScreen) Init() tea.Cmd { return nil }
func (s *backScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		s.sawEsc = true
	}
	return s, nil
}
func (s *backScreen) View(int, int) string { return "back" }
func (s *backScreen) Title() string        { return "Back" }
func (s *backScreen) HandlesBack() bool    { return true }

func TestEscPopsPlainScreens(t *testing.T) {
	m := newAppModel(Options{Initial: scores.New(screen.Services{})})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscReachesBackHandler(t *testing.T) {
	bs := &backScreen{}
	m := newAppModel(Options{Initial: bs})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no pop command")
	}
	if !bs.sawEsc {
		t.Error("expected the screen to receive Esc")
	}
}

func TestEscAtHomeIsNoop(t *testing.T) {
	m := newAppModel(Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no command at the root")
	}
}

func TestStatsMsgUpdatesHeader(t *testing.T) {
	m := newAppModel(Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	updated, _ = updated.Update(screen.StatsMsg{Stats: screen.Stats{GamesPlayed: 9, DailyStreak: 2}})

	am := updated.(AppModel)
	if am.stats.GamesPlayed != 9 {
		t.Errorf("GamesPlayed = %d, want 9", am.stats.GamesPlayed)
	}
	if am.View().Content == nil {
		t.Error("expected rendered content")
	}
}

func TestStatsChangedReloads(t *testing.T) {
	m := newAppModel(Options{})
	_, cmd := m.Update(screen.StatsChangedMsg{})
	if cmd == nil {
		t.Fatal("expected a reload command")
	}
	if _, ok := cmd().(screen.StatsMsg); !ok {
		t.Error("expected StatsMsg")
	}
}
