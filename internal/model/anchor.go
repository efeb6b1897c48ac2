package model

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// Anchor ties the start of its carrier (the follower) to the start of the
// target. OffsetNS is rate independent so items of different stream types
// can be anchored to each other.
type Anchor struct {
	TargetID string
	OffsetNS int64
	TwoWay   bool
	Visible  bool
}

// Equal reports whether a and o describe the same relation. Nil anchors are
// equal only to nil.
func (a *Anchor) Equal(o *Anchor) bool {
	if a == nil || o == nil {
		return a == o
	}
	return *a == *o
}

func (a *Anchor) clone() *Anchor {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// NewAnchor returns an anchor for follower that keeps its current offset
// from target. Both must belong to sp.
func (sp *Space) NewAnchor(target, follower Anchorable, twoWay, visible bool) (*Anchor, error) {
	if target.ID() == follower.ID() {
		return nil, fmt.Errorf("%w: %s anchored to itself", ErrInvariant, target.ID())
	}
	for _, a := range []Anchorable{target, follower} {
		if got, ok := sp.registry[a.ID()]; !ok || got != a {
			return nil, fmt.Errorf("%w: %s", ErrNotAttached, a.ID())
		}
	}
	return &Anchor{
		TargetID: target.ID(),
		OffsetNS: sp.startNS(follower) - sp.startNS(target),
		TwoWay:   twoWay,
		Visible:  visible,
	}, nil
}

// anchorOp adds or removes one target -> follower entry of the anchor map.
type anchorOp struct {
	add      bool
	target   string
	follower string
}

// anchorOps returns the entries that the anchor a carried by follower owns.
func anchorOps(follower string, a *Anchor, add bool) []anchorOp {
	if a == nil {
		return nil
	}
	ops := []anchorOp{{add: add, target: a.TargetID, follower: follower}}
	if a.TwoWay {
		ops = append(ops, anchorOp{add: add, target: follower, follower: a.TargetID})
	}
	return ops
}

func (sp *Space) hasAnchorEntry(target, follower string) bool {
	_, ok := sp.anchors[target][follower]
	return ok
}

// checkAnchors validates ops in sequence against the current anchor map
// without changing it. In lenient mode defects are reported to the warning
// hook and nil is returned.
func (sp *Space) checkAnchors(ops []anchorOp) error {
	pending := make(map[[2]string]bool)
	for _, op := range ops {
		k := [2]string{op.target, op.follower}
		present, ok := pending[k]
		if !ok {
			present = sp.hasAnchorEntry(op.target, op.follower)
		}
		var err error
		switch {
		case op.add && present:
			err = fmt.Errorf("%w: %s already follows %s", ErrAnchorMap, op.follower, op.target)
		case !op.add && !present:
			err = fmt.Errorf("%w: %s does not follow %s", ErrAnchorMap, op.follower, op.target)
		}
		if err != nil {
			if sp.strict {
				return err
			}
			sp.warn(err)
		}
		pending[k] = op.add
	}
	return nil
}

// applyAnchors performs ops. Adds are idempotent and removes tolerate
// missing entries; checkAnchors has already reported any defect.
func (sp *Space) applyAnchors(ops []anchorOp) {
	for _, op := range ops {
		if op.add {
			set, ok := sp.anchors[op.target]
			if !ok {
				set = make(map[string]struct{})
				sp.anchors[op.target] = set
			}
			set[op.follower] = struct{}{}
			continue
		}
		if set, ok := sp.anchors[op.target]; ok {
			delete(set, op.follower)
			if len(set) == 0 {
				delete(sp.anchors, op.target)
			}
		}
	}
}

// AnchoredTo returns the IDs anchored to id, sorted.
func (sp *Space) AnchoredTo(id string) []string {
	set := sp.anchors[id]
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// startNS returns the absolute start of a in nanoseconds.
func (sp *Space) startNS(a Anchorable) int64 {
	switch v := a.(type) {
	case Item:
		return sp.Rate(v.Type()).FramesToNS(v.X())
	case *SequenceItem:
		seq := v.seq
		if seq == nil {
			return 0
		}
		return sp.Rate(seq.Type()).FramesToNS(seq.X() + v.X())
	}
	return 0
}

// propagateFrom moves every item anchored to src, and for a sequence to
// any of its items, so that its anchor offset holds again.
func (sp *Space) propagateFrom(src Anchorable) {
	top := sp.visiting == nil
	if top {
		sp.visiting = make(map[string]bool)
		defer func() { sp.visiting = nil }()
	}
	sp.propagate(src)
	if seq, ok := src.(*Sequence); ok {
		for _, si := range seq.items.Items() {
			sp.propagate(si)
		}
	}
}

func (sp *Space) propagate(src Anchorable) {
	sp.visiting[src.ID()] = true
	for _, fid := range sp.AnchoredTo(src.ID()) {
		if sp.visiting[fid] {
			continue
		}
		f, ok := sp.registry[fid]
		if !ok || f.InMotion() {
			// Dragged items are repositioned when the drag ends.
			continue
		}
		want, ok := sp.anchoredStart(f, src)
		if !ok {
			continue
		}
		sp.visiting[fid] = true
		if err := sp.moveStart(f, want); err != nil {
			sp.warn(fmt.Errorf("anchor: moving %s: %w", fid, err))
		}
	}
}

// moveStart moves f so that it starts at ns. Sequence items slide in
// place within their sequence.
func (sp *Space) moveStart(f Anchorable, ns int64) error {
	switch v := f.(type) {
	case Item:
		x := sp.Rate(v.Type()).NSToFrames(ns)
		if x == v.X() {
			return nil
		}
		return v.Update(ItemPatch{X: Set(x)})
	case *SequenceItem:
		seq := v.seq
		if seq == nil || seq.InMotion() {
			return nil
		}
		d := sp.Rate(seq.Type()).NSToFrames(ns) - (seq.X() + v.x)
		if d == 0 {
			return nil
		}
		return slideInPlace(v, d)
	}
	return nil
}

// slideInPlace moves it by d frames without changing its index. Its own
// transition absorbs d (the sequence position when it is first) and the
// successor's transition compensates. A slide the chain cannot take
// fails with ErrNoRoom.
func slideInPlace(it *SequenceItem, d int) error {
	seq, i := it.seq, it.index
	adj := Adjustment{Transitions: make(map[*SequenceItem]int)}
	if i == 0 {
		adj.X = Set(seq.X() + d)
	} else {
		adj.Transitions[it] = it.st.transition - d
	}
	if i+1 < seq.Len() {
		next := seq.At(i + 1)
		adj.Transitions[next] = next.st.transition + d
	}
	if _, err := seq.Splice(i, i, nil, adj); err != nil {
		if errors.Is(err, ErrInvariant) {
			return fmt.Errorf("%w: %w", ErrNoRoom, err)
		}
		return err
	}
	return nil
}

// anchoredStart returns where f must start given the position of src.
func (sp *Space) anchoredStart(f, src Anchorable) (int64, bool) {
	if a := f.Anchor(); a != nil && a.TargetID == src.ID() {
		return sp.startNS(src) + a.OffsetNS, true
	}
	if a := src.Anchor(); a != nil && a.TwoWay && a.TargetID == f.ID() {
		return sp.startNS(src) - a.OffsetNS, true
	}
	return 0, false
}

// CheckAnchorMap compares the anchor map with the anchors carried by
// attached entities and returns a description of every difference.
func (sp *Space) CheckAnchorMap() []string {
	want := make(map[[2]string]bool)
	for _, a := range sp.registry {
		for _, op := range anchorOps(a.ID(), a.Anchor(), true) {
			want[[2]string{op.target, op.follower}] = true
		}
	}
	var problems []string
	for k := range want {
		if !sp.hasAnchorEntry(k[0], k[1]) {
			problems = append(problems, fmt.Sprintf("missing entry %s -> %s", k[0], k[1]))
		}
	}
	for target, set := range sp.anchors {
		for f := range set {
			if !want[[2]string{target, f}] {
				problems = append(problems, fmt.Sprintf("stale entry %s -> %s", target, f))
			}
		}
	}
	slices.Sort(problems)
	return problems
}
