package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// CompactWidth is the terminal width below which hints drop descriptions.
const CompactWidth = 80

// Footer renders context-sensitive keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints.
func (f Footer) View() string {
	compact := f.Width < CompactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		part := styleFooterKey.Render(help.Key)
		if !compact {
			part += styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}
	return styleFooter.Width(f.Width).Render(strings.Join(parts, sep))
}

// EditFooterBindings returns footer bindings while browsing.
func EditFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Left, km.Right, km.Grab, km.Expand, km.Undo, km.Redo, km.Save, km.Quit}
}

// GrabFooterBindings returns footer bindings while dragging.
func GrabFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Left, km.Right, km.FastLeft, km.FastRight, km.Up, km.Down, km.Drop, km.Cancel}
}
