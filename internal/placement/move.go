package placement

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
)

// moveState is what a move in place changes.
type moveState struct {
	seqX  int
	t     int
	nextT int
}

// MoveInPlace slides one item by Offset without changing its index. The
// item's own transition absorbs the offset (the sequence position when the
// item is first) and the successor's transition compensates.
type MoveInPlace struct {
	Seq    *model.Sequence
	Item   *model.SequenceItem
	Offset int

	next          *model.SequenceItem
	before, after moveState
	applied       bool
}

// NewMoveInPlace returns a slide of it by offset.
func NewMoveInPlace(seq *model.Sequence, it *model.SequenceItem, offset int) *MoveInPlace {
	return &MoveInPlace{Seq: seq, Item: it, Offset: offset}
}

// Text describes the command for undo menus.
func (c *MoveInPlace) Text() string { return "move in sequence" }

// Redo slides the item by Offset.
func (c *MoveInPlace) Redo() error {
	seq, it := c.Seq, c.Item
	if it.Sequence() != seq {
		return fmt.Errorf("%w: %s", model.ErrNotAttached, it.ID())
	}
	i := it.Index()
	var next *model.SequenceItem
	if i+1 < seq.Len() {
		next = seq.At(i + 1)
	}
	if c.applied && next != c.next {
		return fmt.Errorf("%w: successor of %s changed", ErrInconsistent, it.ID())
	}
	c.next = next
	c.before = c.capture()
	if !c.applied {
		c.after = c.before
		if i == 0 {
			c.after.seqX += c.Offset
		} else {
			c.after.t -= c.Offset
		}
		if next != nil {
			c.after.nextT += c.Offset
		}
	}
	if err := c.apply(c.after); err != nil {
		if errors.Is(err, model.ErrInvariant) {
			return fmt.Errorf("%w: %w", model.ErrNoRoom, err)
		}
		return err
	}
	c.applied = true
	return nil
}

// Undo slides it back.
func (c *MoveInPlace) Undo() error {
	if c.Item.Sequence() != c.Seq {
		return fmt.Errorf("%w: %s", ErrInconsistent, c.Item.ID())
	}
	return c.apply(c.before)
}

func (c *MoveInPlace) capture() moveState {
	st := moveState{seqX: c.Seq.X(), t: c.Item.TransitionLength()}
	if c.next != nil {
		st.nextT = c.next.TransitionLength()
	}
	return st
}

func (c *MoveInPlace) apply(st moveState) error {
	adj := model.Adjustment{
		Transitions: map[*model.SequenceItem]int{c.Item: st.t},
		X:           model.Set(st.seqX),
	}
	if c.next != nil {
		adj.Transitions[c.next] = st.nextT
	}
	i := c.Item.Index()
	_, err := c.Seq.Splice(i, i, nil, adj)
	return err
}

// Merge absorbs a following move of the same item, keeping this command's
// starting state and the other's result.
func (c *MoveInPlace) Merge(next command.Command) bool {
	o, ok := next.(*MoveInPlace)
	if !ok || o.Seq != c.Seq || o.Item != c.Item || o.next != c.next || !o.applied {
		return false
	}
	c.after = o.after
	c.Offset += o.Offset
	return true
}
