package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tagsense/internal/tui"
)

// tuiCmd creates the tui command
func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive tag review interface",
		Long:  `Open the terminal interface for dispatching files and reviewing or editing the generated tags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()

			p := tea.NewProgram(tui.New(engine), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}
