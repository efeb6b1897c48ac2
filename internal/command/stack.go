package command

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/model"
)

// EventKind says what happened on a Stack.
type EventKind string

const (
	EventDone   EventKind = "command_done"   // Do or Record
	EventUndone EventKind = "command_undone" // Undo
	EventRedone EventKind = "command_redone" // Redo
)

// Event is emitted by a Stack after every successful operation.
type Event struct {
	Kind   EventKind
	Text   string
	Merged bool
}

// Stack is a linear undo history with an optional length limit and a clean
// marker recording which state was last saved.
type Stack struct {
	undo  []Command
	redo  []Command
	limit int
	clean int // len(undo) at the saved state, or -1 when unreachable

	Events model.Signal[Event]
}

// NewStack returns an empty stack keeping at most limit commands
// (0 means unlimited). The empty state counts as clean.
func NewStack(limit int) *Stack {
	return &Stack{limit: limit}
}

// Do runs cmd and records it.
func (s *Stack) Do(cmd Command) error {
	if err := cmd.Redo(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Text(), err)
	}
	s.Record(cmd)
	return nil
}

// Record pushes an already-applied command. If the top command is a Merger
// that absorbs cmd, no new entry is created. Recording clears the redo list.
func (s *Stack) Record(cmd Command) {
	s.dropRedo()
	if n := len(s.undo); n > 0 && s.clean != n {
		if m, ok := s.undo[n-1].(Merger); ok && m.Merge(cmd) {
			s.Events.Emit(Event{Kind: EventDone, Text: cmd.Text(), Merged: true})
			return
		}
	}
	s.undo = append(s.undo, cmd)
	if s.limit > 0 && len(s.undo) > s.limit {
		drop := len(s.undo) - s.limit
		s.undo = append(s.undo[:0:0], s.undo[drop:]...)
		s.clean -= drop
		if s.clean < 0 {
			s.clean = -1
		}
	}
	s.Events.Emit(Event{Kind: EventDone, Text: cmd.Text()})
}

func (s *Stack) dropRedo() {
	if len(s.redo) == 0 {
		return
	}
	if s.clean > len(s.undo) {
		s.clean = -1
	}
	s.redo = nil
}

// Undo reverts the most recent command.
func (s *Stack) Undo() error {
	n := len(s.undo)
	if n == 0 {
		return ErrEmpty
	}
	cmd := s.undo[n-1]
	if err := cmd.Undo(); err != nil {
		return fmt.Errorf("undo %s: %w", cmd.Text(), err)
	}
	s.undo = s.undo[:n-1]
	s.redo = append(s.redo, cmd)
	s.Events.Emit(Event{Kind: EventUndone, Text: cmd.Text()})
	return nil
}

// Redo reapplies the most recently undone command.
func (s *Stack) Redo() error {
	n := len(s.redo)
	if n == 0 {
		return ErrEmpty
	}
	cmd := s.redo[n-1]
	if err := cmd.Redo(); err != nil {
		return fmt.Errorf("redo %s: %w", cmd.Text(), err)
	}
	s.redo = s.redo[:n-1]
	s.undo = append(s.undo, cmd)
	s.Events.Emit(Event{Kind: EventRedone, Text: cmd.Text()})
	return nil
}

// CanUndo reports whether Undo has anything to revert.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo has anything to reapply.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// UndoText returns the label of the command Undo would revert.
func (s *Stack) UndoText() string {
	if len(s.undo) == 0 {
		return ""
	}
	return s.undo[len(s.undo)-1].Text()
}

// RedoText returns the label of the command Redo would reapply.
func (s *Stack) RedoText() string {
	if len(s.redo) == 0 {
		return ""
	}
	return s.redo[len(s.redo)-1].Text()
}

// Len returns the number of undoable commands.
func (s *Stack) Len() int { return len(s.undo) }

// SetClean marks the current state as saved.
func (s *Stack) SetClean() { s.clean = len(s.undo) }

// Clean reports whether the current state is the saved one.
func (s *Stack) Clean() bool { return s.clean == len(s.undo) }

// Clear drops the whole history and marks the current state clean.
func (s *Stack) Clear() {
	s.undo, s.redo = nil, nil
	s.clean = 0
}
