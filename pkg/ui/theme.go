package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared across views.
var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorSecondary = lipgloss.Color("#5A9FD4")
	ColorAccent    = lipgloss.Color("#F2C14E")
	ColorWarn      = lipgloss.Color("#FF6B6B")
	ColorGood      = lipgloss.Color("#4ECDC4")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("236")
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(ColorMuted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(ColorPrimary).Bold(true).Underline(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)
