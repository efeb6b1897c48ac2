// Package command provides undoable edits of the timeline model and the
// stack that records them.
package command

import (
	"errors"
	"fmt"
)

// Command is one undoable edit. Redo applies it, Undo restores exactly the
// state Redo started from.
type Command interface {
	Redo() error
	Undo() error
	Text() string
}

// Merger is implemented by commands that can absorb a following command of
// the same subject, so that both undo in one step.
type Merger interface {
	Merge(next Command) bool
}

// Compound runs several commands as one. Redo runs them in order and Undo
// in reverse; a failure part way rolls back what already ran.
type Compound struct {
	text string
	cmds []Command
}

// NewCompound returns a compound of cmds.
func NewCompound(text string, cmds ...Command) *Compound {
	return &Compound{text: text, cmds: cmds}
}

// Add appends cmd without running it.
func (c *Compound) Add(cmd Command) {
	c.cmds = append(c.cmds, cmd)
}

// Do runs cmd and appends it when it succeeds.
func (c *Compound) Do(cmd Command) error {
	if err := cmd.Redo(); err != nil {
		return err
	}
	c.cmds = append(c.cmds, cmd)
	return nil
}

// Len returns the number of commands.
func (c *Compound) Len() int { return len(c.cmds) }

// Commands returns the commands in order.
func (c *Compound) Commands() []Command {
	out := make([]Command, len(c.cmds))
	copy(out, c.cmds)
	return out
}

// Text returns the label given to NewCompound.
func (c *Compound) Text() string { return c.text }

// SetText changes the label.
func (c *Compound) SetText(text string) { c.text = text }

// Redo runs every command in order.
func (c *Compound) Redo() error {
	for i, cmd := range c.cmds {
		if err := cmd.Redo(); err != nil {
			return c.rollback(fmt.Errorf("%s: %w", cmd.Text(), err), c.cmds[:i], true)
		}
	}
	return nil
}

// Undo undoes every command in reverse order.
func (c *Compound) Undo() error {
	for i := len(c.cmds) - 1; i >= 0; i-- {
		if err := c.cmds[i].Undo(); err != nil {
			return c.rollback(fmt.Errorf("undo %s: %w", c.cmds[i].Text(), err), c.cmds[i+1:], false)
		}
	}
	return nil
}

// rollback reverts done after a failure. done were redone (forward true) or
// undone (forward false).
func (c *Compound) rollback(cause error, done []Command, forward bool) error {
	errs := []error{cause}
	if forward {
		for i := len(done) - 1; i >= 0; i-- {
			if err := done[i].Undo(); err != nil {
				errs = append(errs, fmt.Errorf("rollback %s: %w", done[i].Text(), err))
			}
		}
	} else {
		for _, cmd := range done {
			if err := cmd.Redo(); err != nil {
				errs = append(errs, fmt.Errorf("rollback %s: %w", cmd.Text(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Pop undoes and removes the most recent command. Manipulators use it to
// peel back speculative placements.
func (c *Compound) Pop() (Command, error) {
	if len(c.cmds) == 0 {
		return nil, ErrEmpty
	}
	last := c.cmds[len(c.cmds)-1]
	if err := last.Undo(); err != nil {
		return nil, err
	}
	c.cmds = c.cmds[:len(c.cmds)-1]
	return last, nil
}

// Func adapts a pair of closures to a Command.
type Func struct {
	Label  string
	DoFn   func() error
	UndoFn func() error
}

// Redo calls DoFn.
func (f Func) Redo() error { return f.DoFn() }

// Undo calls UndoFn.
func (f Func) Undo() error { return f.UndoFn() }

// Text returns the label.
func (f Func) Text() string { return f.Label }
