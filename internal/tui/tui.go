package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates an editor program over opts. The program uses the
// alternate screen buffer.
func NewProgram(opts Options, progOpts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}
	allOpts = append(allOpts, progOpts...)
	return tea.NewProgram(NewEditorModel(opts), allOpts...)
}
