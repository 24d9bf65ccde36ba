// Package home is the arcade cabinet the app opens on.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/router"
	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/screens/play"
	"github.com/CuriousNebula/Math-Master/internal/screens/scores"
	"github.com/CuriousNebula/Math-Master/internal/ui/components"
	"github.com/CuriousNebula/Math-Master/internal/ui/layout"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	svc   screen.Services
	menu  components.Menu
	stats screen.Stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. Stats arrive later as a screen.StatsMsg.
func New(svc screen.Services) *HomeScreen {
	svc = svc.WithDefaults()
	h := &HomeScreen{svc: svc}

	var items []components.MenuItem
	for _, t := range dataset.AllTopics {
		items = append(items, components.MenuItem{
			Label: strings.ToUpper(t.DisplayName()),
			Action: func() tea.Cmd {
				return router.Push(play.NewQuiz(svc, t))
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "DAILY CHALLENGE", Action: func() tea.Cmd {
			return router.Push(play.NewDaily(svc))
		}},
		components.MenuItem{Label: "GAME MODE", Action: func() tea.Cmd {
			return router.Push(play.NewGame(svc))
		}},
		components.MenuItem{Label: "HIGH SCORES", Action: func() tea.Cmd {
			return router.Push(scores.New(svc))
		}},
		components.MenuItem{Label: "EXIT GAME", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if sm, ok := msg.(screen.StatsMsg); ok {
		h.stats = sm.Stats
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps
	termHeight := height + layout.HeaderHeight + layout.FooterHeight + 2
	compact := termHeight < 48 || layout.IsCompactWidth(width)

	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, renderMascotBox(variantFor(h.stats), cw))
	}
	sections = append(sections,
		renderStatsBar(h.stats, cw, compact),
		components.ArcadeMenu(h.menu, cw, compact),
	)

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
