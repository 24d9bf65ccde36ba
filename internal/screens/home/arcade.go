package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/ui/theme"
)

const titleMath = `███╗   ███╗ █████╗ ████████╗██╗  ██╗
████╗ ████║██╔══██╗╚══██╔══╝██║  ██║
██╔████╔██║███████║   ██║   ███████║
██║╚██╔╝██║██╔══██║   ██║   ██╔══██║
██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║
╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝`

const titleMaster = `███╗   ███╗ █████╗ ███████╗████████╗███████╗██████╗ 
████╗ ████║██╔══██╗██╔════╝╚══██╔══╝██╔════╝██╔══██╗
██╔████╔██║███████║███████╗   ██║   █████╗  ██████╔╝
██║╚██╔╝██║██╔══██║╚════██║   ██║   ██╔══╝  ██╔══██╗
██║ ╚═╝ ██║██║  ██║███████║   ██║   ███████╗██║  ██║
╚═╝     ╚═╝╚═╝  ╚═╝╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝`

const titleCompact = "M · A · T · H · M · A · S · T · E · R"

// renderTitle returns the block-letter title or the one-line fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)
	block := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	if compact {
		return block.Render(style.Render(titleCompact))
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		block.Render(style.Render(titleMath)),
		block.Render(style.Foreground(theme.ArcadeCyan).Render(titleMaster)),
	)
}

// renderStatsBar renders the player totals in a bordered box matching content width.
func renderStatsBar(st screen.Stats, cw int, compact bool) string {
	gamesStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			gamesStyle.Render(fmt.Sprintf("▶%d", st.GamesPlayed)),
			streakStyle.Render(fmt.Sprintf("★%d", st.DailyStreak)),
			accStyle.Render(fmt.Sprintf("✓%d%%", st.Accuracy)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			gamesStyle.Render(fmt.Sprintf("▶ %d GAMES", st.GamesPlayed)),
			streakStyle.Render(fmt.Sprintf("★ %d DAY STREAK", st.DailyStreak)),
			accStyle.Render(fmt.Sprintf("✓ %d%% ACCURACY", st.Accuracy)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
