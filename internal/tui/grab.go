package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/montage/internal/manip"
	"github.com/papapumpkin/montage/internal/model"
)

// handleGrabKey drives the gesture while something is grabbed.
func (m EditorModel) handleGrabKey(msg tea.KeyMsg) EditorModel {
	switch {
	case key.Matches(msg, m.Keys.Left):
		m.drag(-1, 0)
	case key.Matches(msg, m.Keys.Right):
		m.drag(1, 0)
	case key.Matches(msg, m.Keys.FastLeft):
		m.drag(-10, 0)
	case key.Matches(msg, m.Keys.FastRight):
		m.drag(10, 0)
	case key.Matches(msg, m.Keys.Up):
		m.drag(0, -1)
	case key.Matches(msg, m.Keys.Down):
		m.drag(0, 1)
	case key.Matches(msg, m.Keys.Drop):
		m.drop()
	case key.Matches(msg, m.Keys.Cancel), key.Matches(msg, m.Keys.Quit):
		m.grab.Reset()
		m.endGrab()
		m.setMessage("grab cancelled", true)
	}
	return m
}

func (m *EditorModel) startGrab() {
	t, ok := m.current()
	if !ok {
		return
	}
	var (
		g   manip.Manipulator
		err error
	)
	switch {
	case t.child != nil:
		seq := t.child.Sequence()
		i := t.child.Index()
		g, err = manip.NewSequenceItemsManipulator(m.stack, seq, i, i+1)
		m.grabX, m.grabY = seq.X()+t.child.X(), seq.Y()
	default:
		switch it := t.item.(type) {
		case *model.Clip:
			g, err = manip.NewClipManipulator(m.stack, it)
		case *model.Sequence:
			g, err = manip.NewSequenceManipulator(m.stack, it)
		}
		m.grabX, m.grabY = t.item.X(), t.item.Y()
	}
	if err != nil {
		m.setMessage("grab: "+err.Error(), false)
		return
	}
	if g == nil {
		return
	}
	m.grab = g
	m.grabType = t.item.Type()
	m.Keys = GrabKeyMap()
	m.message = ""
}

func (m *EditorModel) endGrab() {
	m.grab = nil
	m.Keys = DefaultKeyMap()
	m.ensureSelection()
}

func (m *EditorModel) drag(dx int, dy float64) {
	m.grabX += dx
	m.grabY = max(m.grabY+dy, 0)
	if m.place() {
		m.message = ""
		return
	}
	m.setMessage(fmt.Sprintf("no room at x=%d y=%g", m.grabX, m.grabY), false)
}

// place tries the drop target under the grab position: the topmost
// sequence of the same stream type covering it, else free space.
func (m *EditorModel) place() bool {
	if seq := m.sequenceAt(m.grabX, m.grabY); seq != nil {
		return m.grab.TryPlaceInSequence(seq, m.grabX, manip.OpAdd)
	}
	return m.grab.TryPlaceInSpace(m.sp, m.grabX, m.grabY)
}

func (m *EditorModel) sequenceAt(x int, y float64) *model.Sequence {
	items := m.sp.Items()
	for i := len(items) - 1; i >= 0; i-- {
		seq, ok := items[i].(*model.Sequence)
		if !ok || seq.InMotion() || seq.Type() != m.grabType {
			continue
		}
		if y < seq.Y() || y >= seq.Y()+max(seq.Height(), 1) {
			continue
		}
		if x >= seq.X() && x <= seq.End() {
			return seq
		}
	}
	return nil
}

func (m *EditorModel) drop() {
	state := m.grab.State()
	if m.grab.Finish() {
		m.setMessage(fmt.Sprintf("dropped (%s)", state), true)
	} else {
		msg := "drop rejected"
		if e, ok := m.grab.(interface{ Err() error }); ok && e.Err() != nil {
			msg += ": " + e.Err().Error()
		}
		m.setMessage(msg, false)
	}
	m.endGrab()
}
