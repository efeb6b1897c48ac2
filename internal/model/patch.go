package model

import (
	"fmt"
	"slices"
)

// ItemPatch is a partial update of a top-level Item. Fields that do not
// apply to the item's kind must be left unset.
type ItemPatch struct {
	X        Field[int]
	Y        Field[float64]
	Length   Field[int] // clips only; a sequence's length is derived
	Height   Field[float64]
	Type     Field[StreamType]
	Tags     Field[[]string]
	Anchor   Field[*Anchor]
	InMotion Field[bool]
	Offset   Field[int]       // clips only
	Source   Field[SourceRef] // clips only
	Expanded Field[bool]      // sequences only
}

// Empty reports whether no field is set.
func (p ItemPatch) Empty() bool {
	return !p.X.Set && !p.Y.Set && !p.Length.Set && !p.Height.Set && !p.Type.Set &&
		!p.Tags.Set && !p.Anchor.Set && !p.InMotion.Set && !p.Offset.Set &&
		!p.Source.Set && !p.Expanded.Set
}

// Fields returns the names of the set fields in declaration order.
func (p ItemPatch) Fields() []string {
	var out []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"x", p.X.Set}, {"y", p.Y.Set}, {"length", p.Length.Set}, {"height", p.Height.Set},
		{"type", p.Type.Set}, {"tags", p.Tags.Set}, {"anchor", p.Anchor.Set},
		{"in_motion", p.InMotion.Set}, {"offset", p.Offset.Set}, {"source", p.Source.Set},
		{"expanded", p.Expanded.Set},
	} {
		if f.set {
			out = append(out, f.name)
		}
	}
	return out
}

// Geometric reports whether the patch changes what a renderer would draw.
func (p ItemPatch) Geometric() bool {
	return p.X.Set || p.Y.Set || p.Length.Set || p.Height.Set || p.Type.Set ||
		p.Offset.Set || p.Source.Set
}

// itemState is the user-visible state of an Item. Derived values (z, the
// length of a sequence) are kept alongside but never set through a patch.
type itemState struct {
	x        int
	y        float64
	length   int
	height   float64
	typ      StreamType
	tags     []string
	anchor   *Anchor
	inMotion bool
	offset   int
	source   SourceRef
	expanded bool
}

// applyItemPatch returns the state after p and the subset of p that
// actually changes something. It does not touch cur.
func applyItemPatch(kind ItemKind, id string, cur itemState, p ItemPatch) (itemState, ItemPatch, error) {
	if kind == KindClip && p.Expanded.Set {
		return cur, ItemPatch{}, fmt.Errorf("%w: expanded on clip %s", ErrWrongKind, id)
	}
	if kind == KindSequence {
		switch {
		case p.Length.Set:
			return cur, ItemPatch{}, fmt.Errorf("%w: length on sequence %s", ErrWrongKind, id)
		case p.Offset.Set, p.Source.Set:
			return cur, ItemPatch{}, fmt.Errorf("%w: source on sequence %s", ErrWrongKind, id)
		}
	}
	if p.Length.Set && p.Length.Value < 1 {
		return cur, ItemPatch{}, fmt.Errorf("%w: length %d < 1 on %s", ErrInvariant, p.Length.Value, id)
	}
	if p.Height.Set && p.Height.Value < 0 {
		return cur, ItemPatch{}, fmt.Errorf("%w: negative height on %s", ErrInvariant, id)
	}
	if p.Type.Set && !p.Type.Value.Valid() {
		return cur, ItemPatch{}, fmt.Errorf("%w: unknown stream type %q on %s", ErrInvariant, p.Type.Value, id)
	}
	if p.Anchor.Set && p.Anchor.Value != nil && p.Anchor.Value.TargetID == id {
		return cur, ItemPatch{}, fmt.Errorf("%w: %s anchored to itself", ErrInvariant, id)
	}

	next := cur
	var ch ItemPatch
	if p.X.Set && p.X.Value != cur.x {
		next.x, ch.X = p.X.Value, p.X
	}
	if p.Y.Set && p.Y.Value != cur.y {
		next.y, ch.Y = p.Y.Value, p.Y
	}
	if p.Length.Set && p.Length.Value != cur.length {
		next.length, ch.Length = p.Length.Value, p.Length
	}
	if p.Height.Set && p.Height.Value != cur.height {
		next.height, ch.Height = p.Height.Value, p.Height
	}
	if p.Type.Set && p.Type.Value != cur.typ {
		next.typ, ch.Type = p.Type.Value, p.Type
	}
	if p.Tags.Set {
		tags := normalizeTags(p.Tags.Value)
		if !slices.Equal(tags, cur.tags) {
			next.tags, ch.Tags = tags, Set(tags)
		}
	}
	if p.Anchor.Set && !p.Anchor.Value.Equal(cur.anchor) {
		next.anchor, ch.Anchor = p.Anchor.Value.clone(), Set(p.Anchor.Value.clone())
	}
	if p.InMotion.Set && p.InMotion.Value != cur.inMotion {
		next.inMotion, ch.InMotion = p.InMotion.Value, p.InMotion
	}
	if p.Offset.Set && p.Offset.Value != cur.offset {
		next.offset, ch.Offset = p.Offset.Value, p.Offset
	}
	if p.Source.Set && p.Source.Value != cur.source {
		next.source, ch.Source = p.Source.Value, p.Source
	}
	if p.Expanded.Set && p.Expanded.Value != cur.expanded {
		next.expanded, ch.Expanded = p.Expanded.Value, p.Expanded
	}
	return next, ch, nil
}

// inverseItemPatch returns the patch that restores cur for every field set in ch.
func inverseItemPatch(cur itemState, ch ItemPatch) ItemPatch {
	var inv ItemPatch
	if ch.X.Set {
		inv.X = Set(cur.x)
	}
	if ch.Y.Set {
		inv.Y = Set(cur.y)
	}
	if ch.Length.Set {
		inv.Length = Set(cur.length)
	}
	if ch.Height.Set {
		inv.Height = Set(cur.height)
	}
	if ch.Type.Set {
		inv.Type = Set(cur.typ)
	}
	if ch.Tags.Set {
		inv.Tags = Set(slices.Clone(cur.tags))
	}
	if ch.Anchor.Set {
		inv.Anchor = Set(cur.anchor.clone())
	}
	if ch.InMotion.Set {
		inv.InMotion = Set(cur.inMotion)
	}
	if ch.Offset.Set {
		inv.Offset = Set(cur.offset)
	}
	if ch.Source.Set {
		inv.Source = Set(cur.source)
	}
	if ch.Expanded.Set {
		inv.Expanded = Set(cur.expanded)
	}
	return inv
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}

// SequenceItemPatch is a partial update of a SequenceItem.
type SequenceItemPatch struct {
	Source           Field[SourceRef]
	Offset           Field[int]
	Length           Field[int]
	TransitionLength Field[int]
	Anchor           Field[*Anchor]
	InMotion         Field[bool]
}

// Empty reports whether no field is set.
func (p SequenceItemPatch) Empty() bool {
	return !p.Source.Set && !p.Offset.Set && !p.Length.Set && !p.TransitionLength.Set &&
		!p.Anchor.Set && !p.InMotion.Set
}

// Fields returns the names of the set fields in declaration order.
func (p SequenceItemPatch) Fields() []string {
	var out []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"source", p.Source.Set}, {"offset", p.Offset.Set}, {"length", p.Length.Set},
		{"transition_length", p.TransitionLength.Set}, {"anchor", p.Anchor.Set},
		{"in_motion", p.InMotion.Set},
	} {
		if f.set {
			out = append(out, f.name)
		}
	}
	return out
}

type seqItemState struct {
	source     SourceRef
	offset     int
	length     int
	transition int
	anchor     *Anchor
	inMotion   bool
}

func applySequenceItemPatch(id string, cur seqItemState, p SequenceItemPatch) (seqItemState, SequenceItemPatch, error) {
	if p.Length.Set && p.Length.Value < 1 {
		return cur, SequenceItemPatch{}, fmt.Errorf("%w: length %d < 1 on %s", ErrInvariant, p.Length.Value, id)
	}
	if p.Anchor.Set && p.Anchor.Value != nil && p.Anchor.Value.TargetID == id {
		return cur, SequenceItemPatch{}, fmt.Errorf("%w: %s anchored to itself", ErrInvariant, id)
	}
	next := cur
	var ch SequenceItemPatch
	if p.Source.Set && p.Source.Value != cur.source {
		next.source, ch.Source = p.Source.Value, p.Source
	}
	if p.Offset.Set && p.Offset.Value != cur.offset {
		next.offset, ch.Offset = p.Offset.Value, p.Offset
	}
	if p.Length.Set && p.Length.Value != cur.length {
		next.length, ch.Length = p.Length.Value, p.Length
	}
	if p.TransitionLength.Set && p.TransitionLength.Value != cur.transition {
		next.transition, ch.TransitionLength = p.TransitionLength.Value, p.TransitionLength
	}
	if p.Anchor.Set && !p.Anchor.Value.Equal(cur.anchor) {
		next.anchor, ch.Anchor = p.Anchor.Value.clone(), Set(p.Anchor.Value.clone())
	}
	if p.InMotion.Set && p.InMotion.Value != cur.inMotion {
		next.inMotion, ch.InMotion = p.InMotion.Value, p.InMotion
	}
	return next, ch, nil
}

func inverseSequenceItemPatch(cur seqItemState, ch SequenceItemPatch) SequenceItemPatch {
	var inv SequenceItemPatch
	if ch.Source.Set {
		inv.Source = Set(cur.source)
	}
	if ch.Offset.Set {
		inv.Offset = Set(cur.offset)
	}
	if ch.Length.Set {
		inv.Length = Set(cur.length)
	}
	if ch.TransitionLength.Set {
		inv.TransitionLength = Set(cur.transition)
	}
	if ch.Anchor.Set {
		inv.Anchor = Set(cur.anchor.clone())
	}
	if ch.InMotion.Set {
		inv.InMotion = Set(cur.inMotion)
	}
	return inv
}

// Capture returns a patch holding the current value of it for every field
// set in p. Applying it after p restores it.
func Capture(it Item, p ItemPatch) ItemPatch {
	return inverseItemPatch(it.core().st, p)
}

// CaptureSequenceItem is Capture for a SequenceItem.
func CaptureSequenceItem(it *SequenceItem, p SequenceItemPatch) SequenceItemPatch {
	return inverseSequenceItemPatch(it.st, p)
}
