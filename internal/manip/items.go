package manip

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/indexlist"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/placement"
)

// SequenceItemsManipulator drags a run of adjacent items out of their
// sequence, either to another position in a sequence or into the space as
// a new clip or sequence.
type SequenceItemsManipulator struct {
	gesture
	origin      *model.Sequence
	space       *model.Space
	items       []*model.SequenceItem
	start, stop int
	mark        *indexlist.Mark
}

// NewSequenceItemsManipulator grabs items [start, stop) of seq, which must
// belong to a space.
func NewSequenceItemsManipulator(stack *command.Stack, seq *model.Sequence, start, stop int) (*SequenceItemsManipulator, error) {
	sp := seq.Space()
	if sp == nil {
		return nil, fmt.Errorf("%w: sequence %s", model.ErrNotAttached, seq.ID())
	}
	if start < 0 || stop <= start || stop > seq.Len() {
		return nil, fmt.Errorf("%w: grab [%d, %d) of %d", indexlist.ErrOutOfRange, start, stop, seq.Len())
	}
	mark, err := seq.Mark(start, indexlist.GravityLeft)
	if err != nil {
		return nil, err
	}
	items := seq.Items()[start:stop]
	m := &SequenceItemsManipulator{
		gesture: gesture{stack: stack, label: "move sequence items", state: StateGrabbed},
		origin:  seq,
		space:   sp,
		items:   items,
		start:   start,
		stop:    stop,
		mark:    mark,
	}
	m.touch(sp)
	m.setMotion(true)
	if err := m.Err(); err != nil {
		m.Reset()
		return nil, err
	}
	return m, nil
}

func (m *SequenceItemsManipulator) setMotion(on bool) {
	for _, it := range m.items {
		m.keep(it.Update(model.SequenceItemPatch{InMotion: model.Set(on)}))
	}
}

// detach starts a placement by removing the run from its origin, and the
// origin itself from the space once it is empty and not the target.
func (m *SequenceItemsManipulator) detach(target *model.Sequence) (*command.Compound, *placement.Mover, error) {
	mv, err := placement.NewMover(m.origin.Type(), m.items)
	if err != nil {
		return nil, nil, err
	}
	c := command.NewCompound(m.label)
	if err := c.Do(placement.NewRemove(m.origin, m.start, m.stop)); err != nil {
		return nil, nil, err
	}
	if m.origin.Len() == 0 && target != m.origin {
		if err := c.Do(command.NewRemoveItem(m.space, m.origin)); err != nil {
			return nil, nil, rollback(c, err)
		}
	}
	return c, mv, nil
}

// TryPlaceInSpace drops the run into sp as its own item at (x, y).
func (m *SequenceItemsManipulator) TryPlaceInSpace(sp *model.Space, x int, y float64) bool {
	return m.attempt(StatePlacedInSpace, func() (command.Command, error) {
		c, mv, err := m.detach(nil)
		if err != nil {
			return nil, err
		}
		// The run's own leading slack does not carry into the space.
		if err := c.Do(placement.NewAddGroup(sp, mv, x, y, m.origin.Height())); err != nil {
			return nil, rollback(c, err)
		}
		m.touch(sp)
		return c, nil
	})
}

// TryPlaceInSequence inserts the run into seq starting at x. A single item
// dropped back on its own junction slides in place instead.
func (m *SequenceItemsManipulator) TryPlaceInSequence(seq *model.Sequence, x int, op Op) bool {
	if op != OpAdd || seq.Space() == nil {
		return false
	}
	return m.attempt(StatePlacedInSequence, func() (command.Command, error) {
		c, mv, err := m.detach(seq)
		if err != nil {
			return nil, err
		}
		rel := x - seq.X()
		index, ok := placement.WhereCanFit(seq, mv, rel)
		if !ok {
			return nil, rollback(c, fmt.Errorf("%w: run at %d", errNoTarget, x))
		}
		if seq == m.origin && len(m.items) == 1 && index == m.mark.Pos() {
			if mc, err := m.slide(c, x); err == nil {
				return mc, nil
			}
			if err := c.Redo(); err != nil {
				return nil, err
			}
		}
		if err := c.Do(placement.NewInsert(seq, mv, index, rel)); err != nil {
			return nil, rollback(c, err)
		}
		m.touch(seq.Space())
		return c, nil
	})
}

// slide undoes the detach in c and moves the single item in place so that
// it starts at x.
func (m *SequenceItemsManipulator) slide(c *command.Compound, x int) (command.Command, error) {
	if err := c.Undo(); err != nil {
		return nil, err
	}
	it := m.items[0]
	mv := placement.NewMoveInPlace(m.origin, it, x-(m.origin.X()+it.X()))
	if err := mv.Redo(); err != nil {
		return nil, err
	}
	return command.NewCompound(m.label, mv), nil
}

// Reset reverts every speculative placement and releases the grab.
func (m *SequenceItemsManipulator) Reset() {
	m.revert()
	m.setMotion(false)
	m.mark.Close()
}

// Finish records the gesture as one undoable command.
func (m *SequenceItemsManipulator) Finish() bool {
	if m.state == StateIdle {
		return false
	}
	m.setMotion(false)
	ok := m.finish(m.Reset)
	m.mark.Close()
	return ok
}
