package placement

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/model"
)

// Remove detaches items [Start, Stop) from a sequence. Every remaining item
// keeps its absolute position: the following item takes up the slack as a
// gap, or the sequence moves when the run started at index 0.
type Remove struct {
	Seq         *model.Sequence
	Start, Stop int

	removed       []*model.SequenceItem
	following     *model.SequenceItem
	oldFollowingT int
	oldSeqX       int
}

// NewRemove returns a removal of [start, stop) from seq.
func NewRemove(seq *model.Sequence, start, stop int) *Remove {
	return &Remove{Seq: seq, Start: start, Stop: stop}
}

// Removed returns the detached items after Redo.
func (c *Remove) Removed() []*model.SequenceItem { return c.removed }

// Text describes the command for undo menus.
func (c *Remove) Text() string { return "remove from sequence" }

// Redo detaches items Start to Stop.
func (c *Remove) Redo() error {
	seq := c.Seq
	n := seq.Len()
	if c.Start < 0 || c.Stop <= c.Start || c.Stop > n {
		return fmt.Errorf("%w: remove [%d, %d) of %d", ErrInconsistent, c.Start, c.Stop, n)
	}
	adj := model.Adjustment{}
	c.following = nil
	c.oldSeqX = seq.X()
	if c.Stop < n {
		f := seq.At(c.Stop)
		c.following, c.oldFollowingT = f, f.TransitionLength()
		if c.Start == 0 {
			adj.Transitions = map[*model.SequenceItem]int{f: 0}
			adj.X = model.Set(seq.X() + f.X())
		} else {
			adj.Transitions = map[*model.SequenceItem]int{f: seq.At(c.Start-1).End() - f.X()}
		}
	}
	removed, err := seq.Splice(c.Start, c.Stop, nil, adj)
	if err != nil {
		return err
	}
	c.removed = removed
	return nil
}

// Undo reinserts the detached items.
func (c *Remove) Undo() error {
	if len(c.removed) == 0 {
		return fmt.Errorf("%w: nothing was removed", ErrInconsistent)
	}
	for _, it := range c.removed {
		if it.Sequence() != nil {
			return fmt.Errorf("%w: %s is attached elsewhere", ErrInconsistent, it.ID())
		}
	}
	adj := model.Adjustment{X: model.Set(c.oldSeqX)}
	if c.following != nil {
		adj.Transitions = map[*model.SequenceItem]int{c.following: c.oldFollowingT}
	}
	_, err := c.Seq.Splice(c.Start, c.Start, c.removed, adj)
	return err
}
