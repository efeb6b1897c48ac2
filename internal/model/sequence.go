package model

import (
	"fmt"
	"math"
	"slices"

	"github.com/papapumpkin/montage/internal/indexlist"
)

// SequenceSpec is the user-authored state of a new Sequence.
type SequenceSpec struct {
	ID       string // empty means generate
	X        int
	Y        float64
	Height   float64
	Type     StreamType
	Tags     []string
	Anchor   *Anchor
	Expanded bool
}

// Sequence is a linear chain of SequenceItems joined by cuts, transitions
// and gaps. Its length is derived from the chain.
type Sequence struct {
	base
	items *indexlist.List[*SequenceItem]

	ItemAdded     Signal[*SequenceItem]
	ItemsRemoved  Signal[IndexRange]
	ItemUpdated   Signal[SequenceItemUpdate]
	FramesUpdated Signal[FrameRange] // relative to the sequence start
}

// NewSequence returns a detached sequence holding items, which must be
// detached and form a valid chain.
func NewSequence(spec SequenceSpec, items []*SequenceItem) (*Sequence, error) {
	id := spec.ID
	if id == "" {
		id = NewID()
	}
	if spec.Height < 0 {
		return nil, fmt.Errorf("%w: sequence %s negative height", ErrInvariant, id)
	}
	if !spec.Type.Valid() {
		return nil, fmt.Errorf("%w: sequence %s unknown stream type %q", ErrInvariant, id, spec.Type)
	}
	if spec.Anchor != nil && spec.Anchor.TargetID == id {
		return nil, fmt.Errorf("%w: %s anchored to itself", ErrInvariant, id)
	}
	if err := checkDetached(items); err != nil {
		return nil, err
	}
	if err := CheckChain(chainOf(items, nil)); err != nil {
		return nil, err
	}
	s := &Sequence{base: base{
		id: id,
		z:  -1,
		st: itemState{
			x:        spec.X,
			y:        spec.Y,
			height:   spec.Height,
			typ:      spec.Type,
			tags:     normalizeTags(spec.Tags),
			anchor:   spec.Anchor.clone(),
			expanded: spec.Expanded,
		},
	}}
	s.items = indexlist.New(func(it *SequenceItem, i int) { it.index = i })
	s.items.Append(items...)
	for _, it := range items {
		it.seq = s
	}
	s.recompute()
	s.st.length = s.computedLength()
	return s, nil
}

// Kind returns KindSequence.
func (s *Sequence) Kind() ItemKind { return KindSequence }

// Expanded reports whether the sequence is shown item by item.
func (s *Sequence) Expanded() bool { return s.st.expanded }

// Len returns the number of items.
func (s *Sequence) Len() int { return s.items.Len() }

// At returns the item at index i.
func (s *Sequence) At(i int) *SequenceItem { return s.items.At(i) }

// Items returns a copy of the items in order.
func (s *Sequence) Items() []*SequenceItem { return s.items.Items() }

// Mark returns a handle tracking a position between items across splices.
func (s *Sequence) Mark(pos int, g indexlist.Gravity) (*indexlist.Mark, error) {
	return s.items.Mark(pos, g)
}

// Update applies p. Length, Offset and Source are not valid on a sequence.
func (s *Sequence) Update(p ItemPatch) error {
	return updateItem(s, p)
}

// Spec returns the user-authored state of the sequence.
func (s *Sequence) Spec() SequenceSpec {
	return SequenceSpec{
		ID:       s.id,
		X:        s.st.x,
		Y:        s.st.y,
		Height:   s.st.height,
		Type:     s.st.typ,
		Tags:     slices.Clone(s.st.tags),
		Anchor:   s.st.anchor.clone(),
		Expanded: s.st.expanded,
	}
}

// Adjustment carries the transition lengths and sequence position that a
// Splice sets along with its structural change, so that the chain is
// validated and signalled as one step.
type Adjustment struct {
	Transitions map[*SequenceItem]int
	X           Field[int]
}

// Splice replaces items [start, stop) with items and applies adj. The
// resulting chain is validated before anything changes; on error the
// sequence is untouched. It returns the removed items, now detached.
func (s *Sequence) Splice(start, stop int, items []*SequenceItem, adj Adjustment) ([]*SequenceItem, error) {
	n := s.items.Len()
	if start < 0 || stop < start || stop > n {
		return nil, fmt.Errorf("%w: splice [%d, %d) of %d", indexlist.ErrOutOfRange, start, stop, n)
	}
	if err := checkDetached(items); err != nil {
		return nil, err
	}
	cur := s.items.Items()
	prospective := make([]*SequenceItem, 0, n-(stop-start)+len(items))
	prospective = append(prospective, cur[:start]...)
	prospective = append(prospective, items...)
	prospective = append(prospective, cur[stop:]...)
	for it := range adj.Transitions {
		if !slices.Contains(prospective, it) {
			return nil, fmt.Errorf("%w: adjusted item %s is not part of sequence %s", ErrNotAttached, it.id, s.id)
		}
	}
	if err := CheckChain(chainOf(prospective, adj.Transitions)); err != nil {
		return nil, err
	}

	removing := cur[start:stop]
	sp := s.space
	var ops []anchorOp
	if sp != nil {
		for _, it := range removing {
			ops = append(ops, anchorOps(it.id, it.st.anchor, false)...)
		}
		for _, it := range items {
			if _, dup := sp.registry[it.id]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateID, it.id)
			}
			ops = append(ops, anchorOps(it.id, it.st.anchor, true)...)
		}
		if err := sp.checkAnchors(ops); err != nil {
			return nil, err
		}
	}

	before := s.snapshot()
	removed, err := s.items.Replace(start, stop, items)
	if err != nil {
		return nil, err
	}
	for _, it := range removed {
		it.seq = nil
		it.x = 0
	}
	for _, it := range items {
		it.seq = s
	}
	var updates []SequenceItemUpdate
	for _, it := range prospective {
		t, ok := adj.Transitions[it]
		if !ok || t == it.st.transition {
			continue
		}
		old := it.st.transition
		it.st.transition = t
		if !slices.Contains(items, it) {
			updates = append(updates, SequenceItemUpdate{
				Item:    it,
				Changes: SequenceItemPatch{TransitionLength: Set(t)},
				Old:     SequenceItemPatch{TransitionLength: Set(old)},
			})
		}
	}
	s.recompute()
	if sp != nil {
		for _, it := range removed {
			delete(sp.registry, it.id)
		}
		for _, it := range items {
			sp.registry[it.id] = it
		}
		sp.applyAnchors(ops)
	}

	first := -1
	if stop > start || len(items) > 0 {
		first = start
	}
	if stop > start {
		s.ItemsRemoved.Emit(IndexRange{Start: start, Stop: stop})
	}
	for _, it := range items {
		s.ItemAdded.Emit(it)
	}
	for _, u := range updates {
		s.ItemUpdated.Emit(u)
		if first < 0 || u.Item.index < first {
			first = u.Item.index
		}
	}
	s.afterChange(before, first, adj.X)
	return removed, nil
}

func (s *Sequence) updateItem(it *SequenceItem, next seqItemState, ch SequenceItemPatch) error {
	if ch.Length.Set || ch.TransitionLength.Set {
		lengths, trans := chainOf(s.items.Items(), nil)
		lengths[it.index] = next.length
		trans[it.index] = next.transition
		if err := CheckChain(lengths, trans); err != nil {
			return err
		}
	}
	sp := s.space
	var ops []anchorOp
	if sp != nil && ch.Anchor.Set {
		ops = append(anchorOps(it.id, it.st.anchor, false), anchorOps(it.id, next.anchor, true)...)
		if err := sp.checkAnchors(ops); err != nil {
			return err
		}
	}
	before := s.snapshot()
	old := inverseSequenceItemPatch(it.st, ch)
	it.st = next
	if sp != nil {
		sp.applyAnchors(ops)
	}
	s.recompute()
	s.ItemUpdated.Emit(SequenceItemUpdate{Item: it, Changes: ch, Old: old})
	first := -1
	if ch.Length.Set || ch.TransitionLength.Set || ch.Source.Set || ch.Offset.Set {
		first = it.index
	}
	s.afterChange(before, first, Field[int]{})
	return nil
}

type seqSnapshot struct {
	length int
	xs     []int
	pos    map[*SequenceItem]int
}

func (s *Sequence) snapshot() seqSnapshot {
	snap := seqSnapshot{
		length: s.st.length,
		xs:     make([]int, s.items.Len()),
		pos:    make(map[*SequenceItem]int, s.items.Len()),
	}
	for i, it := range s.items.Items() {
		snap.xs[i] = it.x
		snap.pos[it] = it.x
	}
	return snap
}

// afterChange brings the derived length and x up to date after the chain
// changed from index first onwards (first < 0 means nothing visible
// changed), then emits frame ranges and moves anchored items.
func (s *Sequence) afterChange(before seqSnapshot, first int, x Field[int]) {
	prev := s.st
	newLen := s.computedLength()
	var ch ItemPatch
	if newLen != prev.length {
		ch.Length = Set(newLen)
	}
	if x.Set && x.Value != prev.x {
		ch.X = x
	}
	s.st.length = newLen
	if ch.X.Set {
		s.st.x = x.Value
	}

	var rel FrameRange
	hasRel := false
	if first >= 0 {
		lo := math.MaxInt
		if first < len(before.xs) {
			lo = before.xs[first]
		}
		if first < s.items.Len() {
			lo = min(lo, s.items.At(first).x)
		}
		hi := max(before.length, newLen) - 1
		if lo <= hi {
			rel = FrameRange{Type: s.st.typ, Min: lo, Max: hi}
			hasRel = true
			s.FramesUpdated.Emit(rel)
		}
	}

	sp := s.space
	if sp == nil {
		return
	}
	if !ch.Empty() {
		// A moved sequence redraws and drags its followers in full.
		sp.itemChanged(s, prev, ch, ch.X.Set)
		if ch.X.Set {
			return
		}
	}
	if hasRel {
		sp.FramesUpdated.Emit(FrameRange{Type: rel.Type, Min: s.st.x + rel.Min, Max: s.st.x + rel.Max})
	}
	for _, it := range s.items.Items() {
		if old, ok := before.pos[it]; !ok || old != it.x {
			sp.propagateFrom(it)
		}
	}
}

func (s *Sequence) recompute() {
	for i := 0; i < s.items.Len(); i++ {
		it := s.items.At(i)
		if i == 0 {
			it.x = 0
			continue
		}
		prev := s.items.At(i - 1)
		it.x = prev.x + prev.st.length - it.st.transition
	}
}

func (s *Sequence) computedLength() int {
	n := s.items.Len()
	if n == 0 {
		return 0
	}
	last := s.items.At(n - 1)
	return last.x + last.st.length
}
