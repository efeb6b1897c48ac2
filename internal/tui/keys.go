package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the editor.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	FastLeft  key.Binding
	FastRight key.Binding
	Grab      key.Binding
	Drop      key.Binding
	Cancel    key.Binding
	Expand    key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Save      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "nudge"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "nudge"),
		),
		FastLeft: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("H", "-10"),
		),
		FastRight: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("L", "+10"),
		),
		Grab: key.NewBinding(
			key.WithKeys("g", " "),
			key.WithHelp("g", "grab"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "drop"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Expand: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "redo"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// GrabKeyMap returns keybindings active while an item is being dragged.
// The arrows move the drag position instead of the selection.
func GrabKeyMap() KeyMap {
	km := DefaultKeyMap()
	km.Up.SetHelp("↑/k", "y-1")
	km.Down.SetHelp("↓/j", "y+1")
	km.Left.SetHelp("←/h", "x-1")
	km.Right.SetHelp("→/l", "x+1")
	km.Grab.SetEnabled(false)
	km.Expand.SetEnabled(false)
	km.Undo.SetEnabled(false)
	km.Redo.SetEnabled(false)
	km.Save.SetEnabled(false)
	return km
}
