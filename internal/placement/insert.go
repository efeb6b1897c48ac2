package placement

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/montage/internal/model"
)

// Insert splices a mover into a sequence at a validated index and start
// position. X is in sequence coordinates. Undo puts back the recorded
// transitions and sequence position rather than recomputing them.
type Insert struct {
	Seq   *model.Sequence
	Mover *Mover
	Index int
	X     int

	oldLead       int
	following     *model.SequenceItem
	oldFollowingT int
	oldSeqX       int
}

// NewInsert returns an insert of m into seq before index at x.
func NewInsert(seq *model.Sequence, m *Mover, index, x int) *Insert {
	return &Insert{Seq: seq, Mover: m, Index: index, X: x}
}

// Text describes the command for undo menus.
func (c *Insert) Text() string { return "insert into sequence" }

// Redo splices the mover's items in at Index so the first starts at X,
// relative to the sequence, fixing the transitions on both sides.
func (c *Insert) Redo() error {
	seq, m := c.Seq, c.Mover
	if m.Type != seq.Type() {
		return fmt.Errorf("%w: %s mover into %s sequence", ErrTypeMismatch, m.Type, seq.Type())
	}
	r, ok := DetermineRange(seq, m, c.Index)
	if !ok || !r.Contains(c.X) {
		return fmt.Errorf("%w: start %d at index %d (range %s, ok %v)", model.ErrNoRoom, c.X, c.Index, r, ok)
	}
	n := seq.Len()
	first := m.Items[0]
	adj := model.Adjustment{Transitions: make(map[*model.SequenceItem]int)}
	lead := 0
	targetX := 0
	switch {
	case c.Index == 0:
		adj.X = model.Set(seq.X() + c.X)
	case c.Index == n:
		lead = seq.At(n-1).End() - c.X
	default:
		target := seq.At(c.Index)
		targetX = target.X()
		lead = (target.X() - c.X) + target.TransitionLength()
	}
	adj.Transitions[first] = lead

	c.following = nil
	if c.Index < n {
		f := seq.At(c.Index)
		c.following, c.oldFollowingT = f, f.TransitionLength()
		adj.Transitions[f] = m.Length() - (targetX - c.X)
	}
	c.oldLead = first.TransitionLength()
	c.oldSeqX = seq.X()
	if _, err := seq.Splice(c.Index, c.Index, m.Items, adj); err != nil {
		if errors.Is(err, model.ErrInvariant) {
			return fmt.Errorf("%w: %w", model.ErrNoRoom, err)
		}
		return err
	}
	return nil
}

// Undo removes the inserted items and restores the shifted values.
func (c *Insert) Undo() error {
	seq, m := c.Seq, c.Mover
	stop := c.Index + len(m.Items)
	if stop > seq.Len() || seq.At(c.Index) != m.Items[0] {
		return fmt.Errorf("%w: mover not at index %d", ErrInconsistent, c.Index)
	}
	adj := model.Adjustment{X: model.Set(c.oldSeqX)}
	if c.following != nil {
		adj.Transitions = map[*model.SequenceItem]int{c.following: c.oldFollowingT}
	}
	if _, err := seq.Splice(c.Index, stop, nil, adj); err != nil {
		return err
	}
	return m.Items[0].Update(model.SequenceItemPatch{TransitionLength: model.Set(c.oldLead)})
}
