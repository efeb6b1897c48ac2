package model

import "slices"

// FindOverlaps returns the items other than it whose primary and secondary
// extents both intersect its own, ordered by z. Extents are half-open and
// items of different stream types never overlap.
func (sp *Space) FindOverlaps(it Item) []Item {
	end := it.End()
	stop := sp.byTime.Search(func(o Item) bool { return o.X() >= end })
	var out []Item
	for i := 0; i < stop; i++ {
		o := sp.byTime.At(i)
		if o == it || !overlaps(it, o) {
			continue
		}
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b Item) int { return a.Z() - b.Z() })
	return out
}

func overlaps(a, b Item) bool {
	if a.Type() != b.Type() {
		return false
	}
	if a.X() >= b.End() || b.X() >= a.End() {
		return false
	}
	return a.Y() < b.Y()+b.Height() && b.Y() < a.Y()+a.Height()
}

// FindOverlapsRecursive returns the items stacked above and below it. The
// up set starts with the direct overlaps of greater z and grows with each
// member's overlaps of even greater z; the down set mirrors it. Both are
// ordered by z.
func (sp *Space) FindOverlapsRecursive(it Item) (up, down []Item) {
	direct := sp.FindOverlaps(it)
	up = sp.expand(it, direct, func(a, b Item) bool { return b.Z() > a.Z() })
	down = sp.expand(it, direct, func(a, b Item) bool { return b.Z() < a.Z() })
	return up, down
}

// expand walks overlaps from it along the direction given by further,
// which reports whether b lies beyond a.
func (sp *Space) expand(it Item, direct []Item, further func(a, b Item) bool) []Item {
	seen := map[Item]bool{it: true}
	var queue, out []Item
	for _, o := range direct {
		if further(it, o) {
			seen[o] = true
			queue = append(queue, o)
		}
	}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		out = append(out, m)
		for _, o := range sp.FindOverlaps(m) {
			if !seen[o] && further(m, o) {
				seen[o] = true
				queue = append(queue, o)
			}
		}
	}
	slices.SortFunc(out, func(a, b Item) int { return a.Z() - b.Z() })
	return out
}

// ZKey orders items for compositing. Depth is the number of items
// transitively stacked below.
type ZKey struct {
	Depth int
	Z     int
}

// Less reports whether k composites before o.
func (k ZKey) Less(o ZKey) bool {
	if k.Depth != o.Depth {
		return k.Depth < o.Depth
	}
	return k.Z < o.Z
}

// ZSortKey returns the compositing key of it.
func (sp *Space) ZSortKey(it Item) ZKey {
	_, down := sp.FindOverlapsRecursive(it)
	return ZKey{Depth: len(down), Z: it.Z()}
}
