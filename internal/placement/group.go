package placement

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/model"
)

// GroupToItem turns a detached mover into a top-level item starting at x:
// a Clip for a single item, otherwise a Sequence whose first transition is
// a cut. The first item's transition is the group's leading slack; it
// stays on m.Leading (negative after a gap) and is restored when the
// group is released.
func GroupToItem(m *Mover, x int, y, height float64) (model.Item, error) {
	if m.Home() != nil {
		return nil, fmt.Errorf("%w: mover still in a sequence", model.ErrAttached)
	}
	if len(m.Items) == 1 {
		it := m.Items[0]
		return model.NewClip(model.ClipSpec{
			ID:     it.ID(),
			X:      x,
			Y:      y,
			Length: it.Length(),
			Height: height,
			Type:   m.Type,
			Anchor: it.Anchor(),
			Offset: it.Offset(),
			Source: it.Source(),
		})
	}
	if err := m.Items[0].Update(model.SequenceItemPatch{TransitionLength: model.Set(0)}); err != nil {
		return nil, err
	}
	seq, err := model.NewSequence(model.SequenceSpec{X: x, Y: y, Height: height, Type: m.Type}, m.Items)
	if err != nil {
		_ = m.Items[0].Update(model.SequenceItemPatch{TransitionLength: model.Set(m.Leading)})
		return nil, err
	}
	return seq, nil
}

// AddGroup places a detached mover in a space as its own item. The item is
// built once and reused on every redo.
type AddGroup struct {
	Space  *model.Space
	Mover  *Mover
	X      int
	Y      float64
	Height float64

	item model.Item
}

// NewAddGroup returns a command adding m to sp at (x, y).
func NewAddGroup(sp *model.Space, m *Mover, x int, y, height float64) *AddGroup {
	return &AddGroup{Space: sp, Mover: m, X: x, Y: y, Height: height}
}

// Item returns the created item after the first Redo.
func (c *AddGroup) Item() model.Item { return c.item }

// Text describes the command for undo menus.
func (c *AddGroup) Text() string { return "place in space" }

// Redo builds the item on first use and adds it on top of the space.
func (c *AddGroup) Redo() error {
	if c.item == nil {
		it, err := GroupToItem(c.Mover, c.X, c.Y, c.Height)
		if err != nil {
			return err
		}
		c.item = it
	} else if seq, ok := c.item.(*model.Sequence); ok {
		adj := model.Adjustment{Transitions: map[*model.SequenceItem]int{c.Mover.Items[0]: 0}}
		if _, err := seq.Splice(0, 0, c.Mover.Items, adj); err != nil {
			return err
		}
	}
	if err := c.Space.Append(c.item); err != nil {
		c.release()
		return err
	}
	return nil
}

// Undo removes the created item.
func (c *AddGroup) Undo() error {
	if c.item == nil {
		return fmt.Errorf("%w: group was never placed", ErrInconsistent)
	}
	if err := c.Space.Remove(c.item); err != nil {
		return err
	}
	c.release()
	return nil
}

// release hands the mover's items back when the group is a sequence.
func (c *AddGroup) release() {
	seq, ok := c.item.(*model.Sequence)
	if !ok {
		return
	}
	if _, err := seq.Splice(0, seq.Len(), nil, model.Adjustment{}); err != nil {
		return
	}
	_ = c.Mover.Items[0].Update(model.SequenceItemPatch{TransitionLength: model.Set(c.Mover.Leading)})
}
