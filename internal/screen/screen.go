package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/CuriousNebula/Math-Master/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler is implemented by screens that handle Esc themselves, for
// example to confirm before abandoning a round.
type BackHandler interface {
	HandlesBack() bool
}

// StatsChangedMsg asks the app to reload the header counters after a
// game or daily challenge was stored.
type StatsChangedMsg struct{}

// Stats are the player totals shown in the header and on the home screen.
type Stats struct {
	GamesPlayed int
	BestStreak  int
	Accuracy    int // percent over every stored answer
	DailyStreak int
	PlayedToday bool
}

// StatsMsg delivers freshly loaded Stats to every screen on the stack.
type StatsMsg struct {
	Stats Stats
}
