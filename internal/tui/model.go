package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/manip"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/placement"
	"github.com/papapumpkin/montage/internal/render"
)

// Options configures an editor session.
type Options struct {
	Space    *model.Space
	Stack    *command.Stack
	Renderer *render.Renderer
	Name     string
	// Save persists the space. It is called synchronously on the save key.
	Save func() error
}

// target is one selectable row: a top-level item, or a child of an
// expanded sequence.
type target struct {
	item  model.Item
	child *model.SequenceItem
}

func (t target) id() string {
	if t.child != nil {
		return t.child.ID()
	}
	return t.item.ID()
}

// EditorModel is the root BubbleTea model of the timeline editor.
type EditorModel struct {
	sp       *model.Space
	stack    *command.Stack
	renderer *render.Renderer
	save     func() error

	Keys      KeyMap
	StatusBar StatusBar
	Width     int
	Height    int

	selected string
	grab     manip.Manipulator
	grabX    int
	grabY    float64
	grabType model.StreamType

	message   string
	messageOK bool
	quitArmed bool
}

// NewEditorModel returns an editor over opts.Space with the first item
// selected.
func NewEditorModel(opts Options) EditorModel {
	m := EditorModel{
		sp:       opts.Space,
		stack:    opts.Stack,
		renderer: opts.Renderer,
		save:     opts.Save,
		Keys:     DefaultKeyMap(),
		Width:    100,
	}
	m.StatusBar.Name = opts.Name
	if ts := m.targets(); len(ts) > 0 {
		m.selected = ts[0].id()
	}
	m.syncStatus()
	return m
}

// Init does nothing; the editor is driven entirely by input.
func (m EditorModel) Init() tea.Cmd { return nil }

// Update handles all messages.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.renderer.SetWidth(msg.Width)
	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.grab != nil {
			m = m.handleGrabKey(msg)
		} else {
			m, cmd = m.handleKey(msg)
		}
		m.syncStatus()
		return m, cmd
	case MsgExternalChange:
		if msg.Removed {
			m.setMessage(msg.Path+" was removed on disk", false)
		} else {
			m.setMessage(msg.Path+" changed on disk; saving will overwrite it", false)
		}
	}
	m.syncStatus()
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (EditorModel, tea.Cmd) {
	if !key.Matches(msg, m.Keys.Quit) {
		m.quitArmed = false
	}
	switch {
	case key.Matches(msg, m.Keys.Quit):
		if m.stack.Clean() || m.quitArmed {
			return m, tea.Quit
		}
		m.quitArmed = true
		m.setMessage("unsaved changes, press q again to quit", false)
	case key.Matches(msg, m.Keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.Keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.Keys.Left):
		m.nudge(-1)
	case key.Matches(msg, m.Keys.Right):
		m.nudge(1)
	case key.Matches(msg, m.Keys.FastLeft):
		m.nudge(-10)
	case key.Matches(msg, m.Keys.FastRight):
		m.nudge(10)
	case key.Matches(msg, m.Keys.Expand):
		m.toggleExpanded()
	case key.Matches(msg, m.Keys.Grab):
		m.startGrab()
	case key.Matches(msg, m.Keys.Undo):
		m.history("undo", m.stack.UndoText(), m.stack.Undo)
	case key.Matches(msg, m.Keys.Redo):
		m.history("redo", m.stack.RedoText(), m.stack.Redo)
	case key.Matches(msg, m.Keys.Save):
		m.doSave()
	}
	return m, nil
}

// targets lists the selectable rows in drawing order.
func (m *EditorModel) targets() []target {
	var ts []target
	for _, it := range m.renderer.Ordered() {
		ts = append(ts, target{item: it})
		if seq, ok := it.(*model.Sequence); ok && seq.Expanded() {
			for _, si := range seq.Items() {
				ts = append(ts, target{item: seq, child: si})
			}
		}
	}
	return ts
}

func (m *EditorModel) current() (target, bool) {
	for _, t := range m.targets() {
		if t.id() == m.selected {
			return t, true
		}
	}
	return target{}, false
}

func (m *EditorModel) moveSelection(d int) {
	ts := m.targets()
	if len(ts) == 0 {
		return
	}
	i := 0
	for j, t := range ts {
		if t.id() == m.selected {
			i = j + d
			break
		}
	}
	m.selected = ts[min(max(i, 0), len(ts)-1)].id()
}

// ensureSelection moves the selection to the first row when the selected
// item no longer exists.
func (m *EditorModel) ensureSelection() {
	if _, ok := m.current(); ok {
		return
	}
	m.selected = ""
	if ts := m.targets(); len(ts) > 0 {
		m.selected = ts[0].id()
	}
}

func (m *EditorModel) nudge(d int) {
	t, ok := m.current()
	if !ok {
		return
	}
	var cmd command.Command
	if t.child != nil {
		cmd = placement.NewMoveInPlace(t.child.Sequence(), t.child, d)
	} else {
		cmd = command.NewUpdateItem(t.item, model.ItemPatch{X: model.Set(t.item.X() + d)}, "nudge")
	}
	if err := m.stack.Do(cmd); err != nil {
		if errors.Is(err, model.ErrNoRoom) {
			m.setMessage("no room", false)
			return
		}
		m.setMessage(err.Error(), false)
		return
	}
	m.message = ""
}

func (m *EditorModel) toggleExpanded() {
	t, ok := m.current()
	if !ok || t.child != nil {
		return
	}
	seq, ok := t.item.(*model.Sequence)
	if !ok {
		return
	}
	label := "expand"
	if seq.Expanded() {
		label = "collapse"
	}
	if err := m.stack.Do(command.NewUpdateItem(seq, model.ItemPatch{Expanded: model.Set(!seq.Expanded())}, label)); err != nil {
		m.setMessage(err.Error(), false)
	}
}

func (m *EditorModel) history(verb, text string, fn func() error) {
	if text == "" {
		m.setMessage("nothing to "+verb, false)
		return
	}
	if err := fn(); err != nil {
		m.setMessage(err.Error(), false)
		return
	}
	m.ensureSelection()
	m.setMessage(fmt.Sprintf("%s %s", verb, text), true)
}

func (m *EditorModel) doSave() {
	if m.save == nil {
		return
	}
	if err := m.save(); err != nil {
		m.setMessage("save: "+err.Error(), false)
		return
	}
	m.stack.SetClean()
	m.setMessage("saved", true)
}

func (m *EditorModel) setMessage(s string, ok bool) {
	m.message = s
	m.messageOK = ok
}

func (m *EditorModel) syncStatus() {
	m.StatusBar.Items = m.sp.Len()
	m.StatusBar.UndoDepth = m.stack.Len()
	m.StatusBar.Dirty = !m.stack.Clean()
	m.StatusBar.Width = m.Width
	m.StatusBar.Grab = ""
	if m.grab != nil {
		m.StatusBar.Grab = fmt.Sprintf("%s @ x=%d y=%g", m.grab.State(), m.grabX, m.grabY)
	}
}

// View renders the status bar, the timeline, the message line and the
// key hints.
func (m EditorModel) View() string {
	var b strings.Builder
	b.WriteString(m.StatusBar.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderer.Render(m.selected))
	b.WriteString("\n")
	if m.message != "" {
		style := styleMessage
		if !m.messageOK {
			style = styleMessageError
		}
		b.WriteString(style.Render(m.message))
	}
	b.WriteString("\n")

	footer := Footer{Width: m.Width, Bindings: EditFooterBindings(m.Keys)}
	if m.grab != nil {
		footer.Bindings = GrabFooterBindings(m.Keys)
	}
	view, foot := b.String(), footer.View()
	if m.Height > 0 {
		// Pin the footer to the bottom.
		if pad := m.Height - lipgloss.Height(view) - lipgloss.Height(foot) + 1; pad > 0 {
			view += strings.Repeat("\n", pad)
		}
	}
	return view + foot
}

// Selected returns the ID of the selected row.
func (m EditorModel) Selected() string { return m.selected }

// Message returns the current status message.
func (m EditorModel) Message() string { return m.message }

// Grabbing reports whether a drag gesture is in progress.
func (m EditorModel) Grabbing() bool { return m.grab != nil }
