package tui

import (
	"board-cli/internal/board"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives e from the terminal until the user quits. An unfinished gesture is cancelled.
func Run(e *board.Engine, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m := newAppModel(e, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus()).Run()
	if e.State() != board.StateIdle {
		_, _ = e.Cancel()
	}
	return err
}
