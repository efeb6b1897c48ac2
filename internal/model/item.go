package model

import (
	"fmt"
	"slices"
)

// Anchorable is anything an anchor can point at or be carried by: top-level
// Items and SequenceItems.
type Anchorable interface {
	ID() string
	Anchor() *Anchor
	InMotion() bool
}

// Item is a top-level entity of a Space. It is implemented by *Clip and
// *Sequence only.
type Item interface {
	Anchorable
	Kind() ItemKind
	X() int
	Y() float64
	Z() int
	Length() int
	End() int
	Height() float64
	Type() StreamType
	Tags() []string
	Space() *Space
	Update(p ItemPatch) error

	core() *base
}

// base holds the state shared by Clip and Sequence.
type base struct {
	id       string
	st       itemState
	z        int
	space    *Space
	timeRank int
}

func (b *base) core() *base { return b }

// ID returns the stable identifier.
func (b *base) ID() string { return b.id }

// X returns the start on the primary axis, in units of the item's stream rate.
func (b *base) X() int { return b.st.x }

// Y returns the position on the secondary axis.
func (b *base) Y() float64 { return b.st.y }

// Z returns the index in the owning Space, or -1 when detached.
func (b *base) Z() int { return b.z }

// Length returns the extent on the primary axis.
func (b *base) Length() int { return b.st.length }

// End returns X + Length.
func (b *base) End() int { return b.st.x + b.st.length }

// Height returns the extent on the secondary axis.
func (b *base) Height() float64 { return b.st.height }

// Type returns the stream type.
func (b *base) Type() StreamType { return b.st.typ }

// Tags returns a sorted copy of the tag set.
func (b *base) Tags() []string { return slices.Clone(b.st.tags) }

// HasTag reports whether tag is in the tag set.
func (b *base) HasTag(tag string) bool {
	_, ok := slices.BinarySearch(b.st.tags, tag)
	return ok
}

// Anchor returns a copy of the anchor, or nil.
func (b *base) Anchor() *Anchor { return b.st.anchor.clone() }

// InMotion reports whether a manipulator is dragging the item.
func (b *base) InMotion() bool { return b.st.inMotion }

// Space returns the owning Space, or nil when detached.
func (b *base) Space() *Space { return b.space }

// ItemUpdate describes one applied ItemPatch. Old holds the previous value of
// every field set in Changes.
type ItemUpdate struct {
	Item    Item
	Changes ItemPatch
	Old     ItemPatch
}

// updateItem applies p to it and notifies the owning Space.
func updateItem(it Item, p ItemPatch) error {
	b := it.core()
	next, ch, err := applyItemPatch(it.Kind(), b.id, b.st, p)
	if err != nil {
		return err
	}
	if ch.Empty() {
		return nil
	}
	prev := b.st
	sp := b.space
	if sp != nil && ch.Anchor.Set {
		ops := anchorOps(b.id, prev.anchor, false)
		ops = append(ops, anchorOps(b.id, next.anchor, true)...)
		if err := sp.checkAnchors(ops); err != nil {
			return err
		}
		b.st = next
		sp.applyAnchors(ops)
	} else {
		b.st = next
	}
	if sp != nil {
		sp.itemChanged(it, prev, ch, true)
	}
	return nil
}

// ClipSpec is the user-authored state of a new Clip.
type ClipSpec struct {
	ID     string // empty means generate
	X      int
	Y      float64
	Length int
	Height float64
	Type   StreamType
	Tags   []string
	Anchor *Anchor
	Offset int
	Source SourceRef
}

// Clip is a reference to a range of one source stream.
type Clip struct {
	base
}

// NewClip returns a detached clip.
func NewClip(spec ClipSpec) (*Clip, error) {
	id := spec.ID
	if id == "" {
		id = NewID()
	}
	if spec.Length < 1 {
		return nil, fmt.Errorf("%w: clip %s length %d < 1", ErrInvariant, id, spec.Length)
	}
	if spec.Height < 0 {
		return nil, fmt.Errorf("%w: clip %s negative height", ErrInvariant, id)
	}
	if !spec.Type.Valid() {
		return nil, fmt.Errorf("%w: clip %s unknown stream type %q", ErrInvariant, id, spec.Type)
	}
	if spec.Anchor != nil && spec.Anchor.TargetID == id {
		return nil, fmt.Errorf("%w: %s anchored to itself", ErrInvariant, id)
	}
	return &Clip{base: base{
		id: id,
		z:  -1,
		st: itemState{
			x:      spec.X,
			y:      spec.Y,
			length: spec.Length,
			height: spec.Height,
			typ:    spec.Type,
			tags:   normalizeTags(spec.Tags),
			anchor: spec.Anchor.clone(),
			offset: spec.Offset,
			source: spec.Source,
		},
	}}, nil
}

// Kind returns KindClip.
func (c *Clip) Kind() ItemKind { return KindClip }

// Offset returns the first source frame the clip shows.
func (c *Clip) Offset() int { return c.st.offset }

// Source returns the referenced stream.
func (c *Clip) Source() SourceRef { return c.st.source }

// Update applies p. Unset fields are left alone.
func (c *Clip) Update(p ItemPatch) error {
	return updateItem(c, p)
}

// Spec returns the user-authored state of the clip.
func (c *Clip) Spec() ClipSpec {
	return ClipSpec{
		ID:     c.id,
		X:      c.st.x,
		Y:      c.st.y,
		Length: c.st.length,
		Height: c.st.height,
		Type:   c.st.typ,
		Tags:   slices.Clone(c.st.tags),
		Anchor: c.st.anchor.clone(),
		Offset: c.st.offset,
		Source: c.st.source,
	}
}
