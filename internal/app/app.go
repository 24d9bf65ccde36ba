// Package app is the root Bubble Tea model of the terminal game.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/router"
	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/screens/home"
	"github.com/CuriousNebula/Math-Master/internal/ui/layout"
)

// Options configures the terminal app.
type Options struct {
	Services screen.Services

	// Initial replaces the home screen as the first screen pushed, for
	// commands that jump straight into a round.
	Initial screen.Screen
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	svc    screen.Services
	start  tea.Cmd
	stats  screen.Stats
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	svc := opts.Services.WithDefaults()
	m := AppModel{
		router: router.New(home.New(svc)),
		svc:    svc,
	}
	if opts.Initial != nil {
		m.start = m.router.Push(opts.Initial)
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.loadStats(), m.start)
}

func (m AppModel) loadStats() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		return screen.StatsMsg{Stats: svc.LoadStats(context.Background())}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.StatsChangedMsg:
		return m, m.loadStats()

	case screen.StatsMsg:
		m.stats = msg.Stats
		return m, m.router.Broadcast(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, layout.HeaderStats{
		DailyStreak: m.stats.DailyStreak,
		GamesPlayed: m.stats.GamesPlayed,
	}, m.width)

	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Services.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		return fmt.Errorf("run terminal app: %w", err)
	}
	return nil
}
