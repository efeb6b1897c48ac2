package tui

import (
	"fmt"
	"strings"
)

// StatusBar renders the top bar: project name, item count, undo depth,
// unsaved marker and the drag state.
type StatusBar struct {
	Name      string
	Items     int
	UndoDepth int
	Dirty     bool
	Grab      string // drag state, empty when idle
	Width     int
}

// View renders the status bar as a single line.
func (s StatusBar) View() string {
	name := s.Name
	if s.Dirty {
		name += styleStatusDirty.Render(" ●")
	}
	segments := []string{
		styleStatusLabel.Render("montage") + " " + name,
		fmt.Sprintf("items %d", s.Items),
		fmt.Sprintf("undo %d", s.UndoDepth),
	}
	if s.Grab != "" {
		segments = append(segments, styleStatusGrab.Render(s.Grab))
	}
	return styleStatusBar.Width(max(s.Width, 0)).Render(strings.Join(segments, "  │  "))
}
