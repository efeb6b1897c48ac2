package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/papapumpkin/montage/internal/indexlist"
	"github.com/papapumpkin/montage/internal/sortlist"
)

// Space is the 2D canvas holding top-level Items ordered by z. It owns the
// anchor map and re-emits every change of its items as signals.
type Space struct {
	video VideoFormat
	audio AudioFormat

	items    *indexlist.List[Item]
	byTime   *sortlist.List[Item]
	registry map[string]Anchorable
	anchors  map[string]map[string]struct{}
	visiting map[string]bool

	strict bool
	warn   func(error)

	ItemAdded     Signal[Item]
	ItemRemoved   Signal[Item]
	ItemUpdated   Signal[ItemUpdate]
	FramesUpdated Signal[FrameRange]
}

// SpaceOption configures a Space.
type SpaceOption func(*Space)

// WithLenientAnchors makes anchor map defects warnings passed to warn
// instead of errors.
func WithLenientAnchors(warn func(error)) SpaceOption {
	return func(sp *Space) {
		sp.strict = false
		if warn != nil {
			sp.warn = warn
		}
	}
}

// WithWarnings sets the hook that receives non-fatal problems, such as an
// anchored item that could not follow its target.
func WithWarnings(warn func(error)) SpaceOption {
	return func(sp *Space) {
		if warn != nil {
			sp.warn = warn
		}
	}
}

// NewSpace returns an empty space. Anchor map defects are errors unless
// WithLenientAnchors is given.
func NewSpace(video VideoFormat, audio AudioFormat, opts ...SpaceOption) *Space {
	sp := &Space{
		video:    video,
		audio:    audio,
		registry: make(map[string]Anchorable),
		anchors:  make(map[string]map[string]struct{}),
		strict:   true,
		warn:     func(error) {},
	}
	sp.items = indexlist.New(func(it Item, i int) { it.core().z = i })
	sp.byTime = sortlist.New(byStart,
		sortlist.WithRank(
			func(it Item) int { return it.core().timeRank },
			func(it Item, r int) { it.core().timeRank = r },
		))
	for _, o := range opts {
		o(sp)
	}
	return sp
}

func byStart(a, b Item) bool {
	if a.X() != b.X() {
		return a.X() < b.X()
	}
	return a.ID() < b.ID()
}

// VideoFormat returns the video format.
func (sp *Space) VideoFormat() VideoFormat { return sp.video }

// AudioFormat returns the audio format.
func (sp *Space) AudioFormat() AudioFormat { return sp.audio }

// Strict reports whether anchor map defects are errors.
func (sp *Space) Strict() bool { return sp.strict }

// Rate returns the rate in which x and length of items of type t are counted.
func (sp *Space) Rate(t StreamType) Rate {
	if t == TypeAudio {
		return Rate{Num: int64(sp.audio.SampleRate), Den: 1}
	}
	return sp.video.Rate
}

// Len returns the number of top-level items.
func (sp *Space) Len() int { return sp.items.Len() }

// At returns the item with z == i.
func (sp *Space) At(i int) Item { return sp.items.At(i) }

// Items returns the top-level items bottom to top.
func (sp *Space) Items() []Item { return sp.items.Items() }

// Find returns the attached Item or SequenceItem with the given ID.
func (sp *Space) Find(id string) (Anchorable, bool) {
	a, ok := sp.registry[id]
	return a, ok
}

// FindItem returns the top-level item with the given ID.
func (sp *Space) FindItem(id string) (Item, bool) {
	it, ok := sp.registry[id].(Item)
	return it, ok
}

// Append inserts it above every other item.
func (sp *Space) Append(it Item) error {
	return sp.Insert(sp.items.Len(), it)
}

// Insert attaches it at z, shifting the items above. The item and, for a
// sequence, its items are registered and their anchors entered into the
// anchor map.
func (sp *Space) Insert(z int, it Item) error {
	b := it.core()
	if b.space != nil {
		return fmt.Errorf("%w: %s", ErrAttached, b.id)
	}
	if z < 0 || z > sp.items.Len() {
		return fmt.Errorf("%w: z %d of %d", indexlist.ErrOutOfRange, z, sp.items.Len())
	}
	members := anchorables(it)
	var ops []anchorOp
	for _, a := range members {
		if _, dup := sp.registry[a.ID()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID())
		}
		ops = append(ops, anchorOps(a.ID(), a.Anchor(), true)...)
	}
	if err := sp.checkAnchors(ops); err != nil {
		return err
	}
	if err := sp.items.Insert(z, it); err != nil {
		return err
	}
	b.space = sp
	for _, a := range members {
		sp.registry[a.ID()] = a
	}
	sp.byTime.Add(it)
	sp.applyAnchors(ops)

	sp.ItemAdded.Emit(it)
	sp.emitExtent(b.st)
	return nil
}

// Remove detaches it, clearing its anchor registrations. Items anchored to
// it keep their anchors and stay where they are.
func (sp *Space) Remove(it Item) error {
	b := it.core()
	if b.space != sp {
		return fmt.Errorf("%w: %s", ErrNotAttached, b.id)
	}
	members := anchorables(it)
	var ops []anchorOp
	for _, a := range members {
		ops = append(ops, anchorOps(a.ID(), a.Anchor(), false)...)
	}
	if err := sp.checkAnchors(ops); err != nil {
		return err
	}
	if _, err := sp.items.Remove(b.z, b.z+1); err != nil {
		return err
	}
	if err := sp.byTime.Remove(it); err != nil {
		return err
	}
	b.space = nil
	for _, a := range members {
		delete(sp.registry, a.ID())
	}
	sp.applyAnchors(ops)

	sp.ItemRemoved.Emit(it)
	sp.emitExtent(b.st)
	return nil
}

// LoadSpace returns a space holding items bottom to top, as read back from a
// document. No signals are emitted; derived state comes from Fixup, whose
// errors are returned alongside the space.
func LoadSpace(video VideoFormat, audio AudioFormat, items []Item, opts ...SpaceOption) (*Space, error) {
	sp := NewSpace(video, audio, opts...)
	for _, it := range items {
		if b := it.core(); b.space != nil {
			return nil, fmt.Errorf("%w: %s", ErrAttached, b.id)
		}
	}
	sp.items.Append(items...)
	return sp, sp.Fixup()
}

// Fixup rebuilds every derived structure from the items themselves: z,
// sequence positions, the ID registry, the time index and the anchor map.
// It is run after loading a document.
func (sp *Space) Fixup() error {
	sp.registry = make(map[string]Anchorable)
	sp.anchors = make(map[string]map[string]struct{})
	sp.byTime = sortlist.New(byStart,
		sortlist.WithRank(
			func(it Item) int { return it.core().timeRank },
			func(it Item, r int) { it.core().timeRank = r },
		))
	var errs []error
	for i, it := range sp.items.Items() {
		b := it.core()
		b.z = i
		b.space = sp
		if seq, ok := it.(*Sequence); ok {
			seq.recompute()
			seq.st.length = seq.computedLength()
		}
		for _, a := range anchorables(it) {
			if _, dup := sp.registry[a.ID()]; dup {
				errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateID, a.ID()))
				continue
			}
			sp.registry[a.ID()] = a
		}
		sp.byTime.Add(it)
	}
	ids := make([]string, 0, len(sp.registry))
	for id := range sp.registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		a := sp.registry[id]
		ops := anchorOps(a.ID(), a.Anchor(), true)
		if err := sp.checkAnchors(ops); err != nil {
			errs = append(errs, err)
			continue
		}
		sp.applyAnchors(ops)
	}
	return errors.Join(errs...)
}

// itemChanged keeps the time index and anchor followers in step with an
// applied patch and emits the update. With full set it also emits the
// changed extent and propagates anchors.
func (sp *Space) itemChanged(it Item, prev itemState, ch ItemPatch, full bool) {
	b := it.core()
	if ch.X.Set {
		if _, err := sp.byTime.Reposition(it); err != nil {
			sp.warn(fmt.Errorf("time index: %s: %w", b.id, err))
		}
	}
	sp.ItemUpdated.Emit(ItemUpdate{Item: it, Changes: ch, Old: inverseItemPatch(prev, ch)})
	if !full {
		return
	}
	if ch.Geometric() {
		sp.emitExtentChange(prev, b.st)
	}
	if ch.X.Set || ch.Type.Set {
		sp.propagateFrom(it)
	}
}

func (sp *Space) emitExtent(st itemState) {
	if st.length < 1 {
		return
	}
	sp.FramesUpdated.Emit(FrameRange{Type: st.typ, Min: st.x, Max: st.x + st.length - 1})
}

func (sp *Space) emitExtentChange(prev, cur itemState) {
	if prev.typ != cur.typ || prev.length < 1 || cur.length < 1 {
		sp.emitExtent(prev)
		sp.emitExtent(cur)
		return
	}
	sp.FramesUpdated.Emit(FrameRange{
		Type: cur.typ,
		Min:  min(prev.x, cur.x),
		Max:  max(prev.x+prev.length, cur.x+cur.length) - 1,
	})
}

// anchorables returns it and, for a sequence, its items.
func anchorables(it Item) []Anchorable {
	out := []Anchorable{it}
	if seq, ok := it.(*Sequence); ok {
		for _, si := range seq.items.Items() {
			out = append(out, si)
		}
	}
	return out
}
