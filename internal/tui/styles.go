package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Title style for the header bar
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1)

	// Status style for info messages
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))

	// Error style for failed entries and error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	// Success style for successful entries
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FFF87"))

	// Warning style for degraded connectivity
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD75F"))

	// Selected entry highlight
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7"))

	// Tag chip style
	TagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#81A1C1"))

	// Highlighted tag chip (tag cursor or active edit)
	TagSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#5F5FAF"))

	// Help line style
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)
