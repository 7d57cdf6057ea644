package cmd

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fchimpan/kusa-learn/internal/tui"
)

func defaultRunTUI(opts tui.Options) error {
	p := tea.NewProgram(
		tui.NewModel(opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
