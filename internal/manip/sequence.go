package manip

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/placement"
)

// SequenceManipulator drags a whole sequence around the space or merges
// its items into another sequence.
type SequenceManipulator struct {
	gesture
	seq    *model.Sequence
	origin *model.Space
}

// NewSequenceManipulator grabs seq, which must be attached.
func NewSequenceManipulator(stack *command.Stack, seq *model.Sequence) (*SequenceManipulator, error) {
	sp := seq.Space()
	if sp == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrNotAttached, seq.ID())
	}
	m := &SequenceManipulator{
		gesture: gesture{stack: stack, label: "move sequence", state: StateGrabbed},
		seq:     seq,
		origin:  sp,
	}
	m.touch(sp)
	if err := seq.Update(model.ItemPatch{InMotion: model.Set(true)}); err != nil {
		return nil, err
	}
	return m, nil
}

// TryPlaceInSpace moves the sequence to (x, y) of sp.
func (m *SequenceManipulator) TryPlaceInSpace(sp *model.Space, x int, y float64) bool {
	return m.attempt(StatePlacedInSpace, func() (command.Command, error) {
		c := command.NewCompound(m.label)
		if sp != m.origin {
			if err := c.Do(command.NewRemoveItem(m.origin, m.seq)); err != nil {
				return nil, err
			}
			if err := c.Do(command.NewAddItem(sp, m.seq)); err != nil {
				return nil, rollback(c, err)
			}
			m.touch(sp)
		}
		move := command.NewUpdateItem(m.seq, model.ItemPatch{X: model.Set(x), Y: model.Set(y)}, m.label)
		if err := c.Do(move); err != nil {
			return nil, rollback(c, err)
		}
		return c, nil
	})
}

// TryPlaceInSequence moves every item of the dragged sequence into target,
// starting at x, and drops the emptied sequence from its space.
func (m *SequenceManipulator) TryPlaceInSequence(target *model.Sequence, x int, op Op) bool {
	if op != OpAdd || target == m.seq || target.Space() == nil || m.seq.Len() == 0 {
		return false
	}
	return m.attempt(StatePlacedInSequence, func() (command.Command, error) {
		mv, err := placement.NewMover(m.seq.Type(), m.seq.Items())
		if err != nil {
			return nil, err
		}
		rel := x - target.X()
		index, ok := placement.WhereCanFit(target, mv, rel)
		if !ok {
			return nil, fmt.Errorf("%w: sequence at %d", errNoTarget, x)
		}
		c := command.NewCompound(m.label)
		if err := c.Do(command.NewRemoveItem(m.origin, m.seq)); err != nil {
			return nil, err
		}
		if err := c.Do(placement.NewRemove(m.seq, 0, m.seq.Len())); err != nil {
			return nil, rollback(c, err)
		}
		if err := c.Do(placement.NewInsert(target, mv, index, rel)); err != nil {
			return nil, rollback(c, err)
		}
		m.touch(target.Space())
		return c, nil
	})
}

// Reset reverts every speculative placement.
func (m *SequenceManipulator) Reset() {
	m.revert()
	m.keep(m.seq.Update(model.ItemPatch{InMotion: model.Set(false)}))
}

// Finish records the gesture as one undoable command.
func (m *SequenceManipulator) Finish() bool {
	if m.state == StateIdle {
		return false
	}
	m.keep(m.seq.Update(model.ItemPatch{InMotion: model.Set(false)}))
	return m.finish(m.Reset)
}
