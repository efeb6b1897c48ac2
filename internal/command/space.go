package command

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/model"
)

// AddItem attaches an item to a space at a fixed z.
type AddItem struct {
	Space *model.Space
	Item  model.Item
	Z     int
}

// NewAddItem returns a command placing it on top of sp.
func NewAddItem(sp *model.Space, it model.Item) *AddItem {
	return &AddItem{Space: sp, Item: it, Z: sp.Len()}
}

// Redo inserts the item at Z.
func (c *AddItem) Redo() error { return c.Space.Insert(c.Z, c.Item) }

// Undo detaches the item again.
func (c *AddItem) Undo() error { return c.Space.Remove(c.Item) }

// Text names the kind of item added.
func (c *AddItem) Text() string { return fmt.Sprintf("add %s", c.Item.Kind()) }

// RemoveItem detaches an item, remembering its z for undo.
type RemoveItem struct {
	Space *model.Space
	Item  model.Item
	z     int
}

// NewRemoveItem returns a command removing it from sp.
func NewRemoveItem(sp *model.Space, it model.Item) *RemoveItem {
	return &RemoveItem{Space: sp, Item: it, z: -1}
}

// Redo records the item's z and detaches it.
func (c *RemoveItem) Redo() error {
	c.z = c.Item.Z()
	return c.Space.Remove(c.Item)
}

// Undo reinserts the item at its recorded z.
func (c *RemoveItem) Undo() error {
	if c.z < 0 {
		return fmt.Errorf("%w: %s was never removed", model.ErrNotAttached, c.Item.ID())
	}
	return c.Space.Insert(c.z, c.Item)
}

// Text names the kind of item removed.
func (c *RemoveItem) Text() string { return fmt.Sprintf("remove %s", c.Item.Kind()) }

// UpdateItem applies a patch to a top-level item. The previous values are
// captured on each Redo.
type UpdateItem struct {
	Item  model.Item
	Patch model.ItemPatch
	Label string
	prev  model.ItemPatch
}

// NewUpdateItem returns a command applying p to it.
func NewUpdateItem(it model.Item, p model.ItemPatch, label string) *UpdateItem {
	return &UpdateItem{Item: it, Patch: p, Label: label}
}

// Redo applies the patch.
func (c *UpdateItem) Redo() error {
	prev := model.Capture(c.Item, c.Patch)
	if err := c.Item.Update(c.Patch); err != nil {
		return err
	}
	c.prev = prev
	return nil
}

// Undo restores the captured values.
func (c *UpdateItem) Undo() error { return c.Item.Update(c.prev) }

// Text returns the label.
func (c *UpdateItem) Text() string { return c.Label }

// Merge absorbs a following position-only update of the same item, so a
// run of nudges undoes in one step.
func (c *UpdateItem) Merge(next Command) bool {
	o, ok := next.(*UpdateItem)
	if !ok || o.Item != c.Item || !positionOnly(c.Patch) || !positionOnly(o.Patch) {
		return false
	}
	if o.Patch.X.Set {
		c.Patch.X = o.Patch.X
		if !c.prev.X.Set {
			c.prev.X = o.prev.X
		}
	}
	if o.Patch.Y.Set {
		c.Patch.Y = o.Patch.Y
		if !c.prev.Y.Set {
			c.prev.Y = o.prev.Y
		}
	}
	return true
}

func positionOnly(p model.ItemPatch) bool {
	q := p
	q.X, q.Y = model.Field[int]{}, model.Field[float64]{}
	return q.Empty() && !p.Empty()
}

// UpdateSequenceItem applies a patch to a SequenceItem.
type UpdateSequenceItem struct {
	Item  *model.SequenceItem
	Patch model.SequenceItemPatch
	Label string
	prev  model.SequenceItemPatch
}

// NewUpdateSequenceItem returns a command applying p to it.
func NewUpdateSequenceItem(it *model.SequenceItem, p model.SequenceItemPatch, label string) *UpdateSequenceItem {
	return &UpdateSequenceItem{Item: it, Patch: p, Label: label}
}

// Redo applies the patch.
func (c *UpdateSequenceItem) Redo() error {
	prev := model.CaptureSequenceItem(c.Item, c.Patch)
	if err := c.Item.Update(c.Patch); err != nil {
		return err
	}
	c.prev = prev
	return nil
}

// Undo restores the captured values.
func (c *UpdateSequenceItem) Undo() error { return c.Item.Update(c.prev) }

// Text returns the label.
func (c *UpdateSequenceItem) Text() string { return c.Label }
