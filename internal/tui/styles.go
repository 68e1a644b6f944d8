package tui

import "github.com/charmbracelet/lipgloss"

// Styles for the TUI, defined using the lipgloss library.
var (
	// appStyle defines the overall margin for the application view.
	appStyle = lipgloss.NewStyle().Margin(0, 0)

	// headerStyle is for the context bar at the top of the TUI.
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#0000CC", Dark: "#58A6FF"}).
			Underline(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#8B949E"})

	// warnBannerStyle renders the per-tab fetch warning banner.
	warnBannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#8B6508", Dark: "#F4BF4F"})

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#005500", Dark: "#7EE787"})

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
				Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
				Padding(0, 1)

	tableBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#444444"})
)
