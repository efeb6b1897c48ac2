package manip

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/placement"
)

// ClipManipulator drags a top-level clip around its space, into another
// space, or into a sequence.
type ClipManipulator struct {
	gesture
	clip   *model.Clip
	origin *model.Space
}

// NewClipManipulator grabs c, which must be attached.
func NewClipManipulator(stack *command.Stack, c *model.Clip) (*ClipManipulator, error) {
	sp := c.Space()
	if sp == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrNotAttached, c.ID())
	}
	m := &ClipManipulator{
		gesture: gesture{stack: stack, label: "move clip", state: StateGrabbed},
		clip:    c,
		origin:  sp,
	}
	m.touch(sp)
	if err := c.Update(model.ItemPatch{InMotion: model.Set(true)}); err != nil {
		return nil, err
	}
	return m, nil
}

// TryPlaceInSpace moves the clip to (x, y) of sp.
func (m *ClipManipulator) TryPlaceInSpace(sp *model.Space, x int, y float64) bool {
	return m.attempt(StatePlacedInSpace, func() (command.Command, error) {
		c := command.NewCompound(m.label)
		if sp != m.origin {
			if err := c.Do(command.NewRemoveItem(m.origin, m.clip)); err != nil {
				return nil, err
			}
			if err := c.Do(command.NewAddItem(sp, m.clip)); err != nil {
				return nil, rollback(c, err)
			}
			m.touch(sp)
		}
		move := command.NewUpdateItem(m.clip, model.ItemPatch{X: model.Set(x), Y: model.Set(y)}, m.label)
		if err := c.Do(move); err != nil {
			return nil, rollback(c, err)
		}
		return c, nil
	})
}

// TryPlaceInSequence converts the clip into a sequence item starting at x.
func (m *ClipManipulator) TryPlaceInSequence(seq *model.Sequence, x int, op Op) bool {
	if op != OpAdd || seq.Space() == nil {
		return false
	}
	return m.attempt(StatePlacedInSequence, func() (command.Command, error) {
		mv, err := placement.MoverFromClip(m.clip)
		if err != nil {
			return nil, err
		}
		rel := x - seq.X()
		index, ok := placement.WhereCanFit(seq, mv, rel)
		if !ok {
			return nil, fmt.Errorf("%w: clip at %d", errNoTarget, x)
		}
		c := command.NewCompound(m.label)
		if err := c.Do(command.NewRemoveItem(m.origin, m.clip)); err != nil {
			return nil, err
		}
		if err := c.Do(placement.NewInsert(seq, mv, index, rel)); err != nil {
			return nil, rollback(c, err)
		}
		m.touch(seq.Space())
		return c, nil
	})
}

// Reset reverts every speculative placement.
func (m *ClipManipulator) Reset() {
	m.revert()
	m.keep(m.clip.Update(model.ItemPatch{InMotion: model.Set(false)}))
}

// Finish records the gesture as one undoable command.
func (m *ClipManipulator) Finish() bool {
	if m.state == StateIdle {
		return false
	}
	m.keep(m.clip.Update(model.ItemPatch{InMotion: model.Set(false)}))
	return m.finish(m.Reset)
}

func rollback(c *command.Compound, cause error) error {
	if err := c.Undo(); err != nil {
		return fmt.Errorf("%w (rollback: %v)", cause, err)
	}
	return cause
}
