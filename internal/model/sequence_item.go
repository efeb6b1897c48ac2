package model

import "fmt"

// SequenceItemSpec is the user-authored state of a new SequenceItem.
type SequenceItemSpec struct {
	ID               string // empty means generate
	Source           SourceRef
	Offset           int
	Length           int
	TransitionLength int
	Anchor           *Anchor
}

// SequenceItem is one entry of a Sequence. Its transition length is signed:
// zero is a cut from the previous item, positive an overlap with it, and
// negative a gap before this item.
type SequenceItem struct {
	id    string
	st    seqItemState
	index int
	x     int
	seq   *Sequence
}

// NewSequenceItem returns a detached item.
func NewSequenceItem(spec SequenceItemSpec) (*SequenceItem, error) {
	id := spec.ID
	if id == "" {
		id = NewID()
	}
	if spec.Length < 1 {
		return nil, fmt.Errorf("%w: sequence item %s length %d < 1", ErrInvariant, id, spec.Length)
	}
	if spec.Anchor != nil && spec.Anchor.TargetID == id {
		return nil, fmt.Errorf("%w: %s anchored to itself", ErrInvariant, id)
	}
	return &SequenceItem{
		id:    id,
		index: -1,
		st: seqItemState{
			source:     spec.Source,
			offset:     spec.Offset,
			length:     spec.Length,
			transition: spec.TransitionLength,
			anchor:     spec.Anchor.clone(),
		},
	}, nil
}

// ID returns the item's identifier.
func (it *SequenceItem) ID() string { return it.id }

// Source returns the media the item plays.
func (it *SequenceItem) Source() SourceRef { return it.st.source }

// Offset returns the first source frame played.
func (it *SequenceItem) Offset() int { return it.st.offset }

// Length returns the duration in frames.
func (it *SequenceItem) Length() int { return it.st.length }

// TransitionLength returns how far the item overlaps its predecessor.
func (it *SequenceItem) TransitionLength() int { return it.st.transition }

// Anchor returns a copy of the item's anchor, or nil.
func (it *SequenceItem) Anchor() *Anchor { return it.st.anchor.clone() }

// InMotion reports whether a gesture is dragging the item.
func (it *SequenceItem) InMotion() bool { return it.st.inMotion }

// Index returns the position in the owning sequence.
func (it *SequenceItem) Index() int { return it.index }

// Sequence returns the owning sequence, or nil when detached.
func (it *SequenceItem) Sequence() *Sequence { return it.seq }

// X returns the start relative to the owning sequence.
func (it *SequenceItem) X() int { return it.x }

// End returns X + Length.
func (it *SequenceItem) End() int { return it.x + it.st.length }

// Spec returns the user-authored state of the item.
func (it *SequenceItem) Spec() SequenceItemSpec {
	return SequenceItemSpec{
		ID:               it.id,
		Source:           it.st.source,
		Offset:           it.st.offset,
		Length:           it.st.length,
		TransitionLength: it.st.transition,
		Anchor:           it.st.anchor.clone(),
	}
}

// SequenceItemUpdate describes one applied SequenceItemPatch.
type SequenceItemUpdate struct {
	Item    *SequenceItem
	Changes SequenceItemPatch
	Old     SequenceItemPatch
}

// Update applies p. Length and transition changes of an attached item are
// checked against the whole chain first.
func (it *SequenceItem) Update(p SequenceItemPatch) error {
	next, ch, err := applySequenceItemPatch(it.id, it.st, p)
	if err != nil {
		return err
	}
	if ch.Empty() {
		return nil
	}
	if it.seq == nil {
		it.st = next
		return nil
	}
	return it.seq.updateItem(it, next, ch)
}
