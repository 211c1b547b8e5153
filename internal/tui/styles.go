package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208")).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	shipStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
)
