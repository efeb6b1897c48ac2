package placement

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/model"
)

// Range is an inclusive range of start positions. A missing bound is open.
type Range struct {
	Min, Max       int
	HasMin, HasMax bool
}

// Contains reports whether x lies within the range.
func (r Range) Contains(x int) bool {
	if r.HasMin && x < r.Min {
		return false
	}
	if r.HasMax && x > r.Max {
		return false
	}
	return true
}

// Clamp returns the position in the range closest to x.
func (r Range) Clamp(x int) int {
	if r.HasMin && x < r.Min {
		return r.Min
	}
	if r.HasMax && x > r.Max {
		return r.Max
	}
	return x
}

// String formats the range with open bounds as "-inf" / "+inf".
func (r Range) String() string {
	lo, hi := "-inf", "+inf"
	if r.HasMin {
		lo = fmt.Sprint(r.Min)
	}
	if r.HasMax {
		hi = fmt.Sprint(r.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

// DetermineRange returns the start positions, in sequence coordinates, at
// which m may be inserted before the item at index (appended when index is
// seq.Len()). It reports false when the junction is taken by a transition
// or the neighbours leave no room.
func DetermineRange(seq *model.Sequence, m *Mover, index int) (Range, bool) {
	n := seq.Len()
	if index < 0 || index > n || m.Type != seq.Type() {
		return Range{}, false
	}
	var prev *model.SequenceItem
	if index > 0 {
		if p := seq.At(index - 1); !p.InMotion() {
			prev = p
		}
	}
	if index < n && prev != nil && seq.At(index).TransitionLength() > 0 {
		return Range{}, false
	}

	var r Range
	if prev != nil {
		r.Min = max(prev.X()+max(prev.TransitionLength(), 0), prev.End()-m.MaxFadeIn())
		r.HasMin = true
	}
	if index < n {
		target := seq.At(index)
		room := target.Length()
		if index+1 < n {
			room -= max(seq.At(index+1).TransitionLength(), 0)
		}
		r.Max = target.X() - m.Length() + min(m.MaxFadeOut(), room)
		r.HasMax = true
	}
	if r.HasMin && r.HasMax && r.Max < r.Min {
		return Range{}, false
	}
	return r, true
}

// WhereCanFit returns the lowest index at which m may start at x.
func WhereCanFit(seq *model.Sequence, m *Mover, x int) (int, bool) {
	for i := 0; i <= seq.Len(); i++ {
		if r, ok := DetermineRange(seq, m, i); ok && r.Contains(x) {
			return i, true
		}
	}
	return -1, false
}

// Nearest returns the index and clamped position closest to x at which m
// fits, for snapping a drag that is slightly out of range.
func Nearest(seq *model.Sequence, m *Mover, x int) (index, at int, ok bool) {
	best := -1
	for i := 0; i <= seq.Len(); i++ {
		r, fits := DetermineRange(seq, m, i)
		if !fits {
			continue
		}
		c := r.Clamp(x)
		if best < 0 || abs(c-x) < abs(at-x) {
			best, at = i, c
		}
	}
	return best, at, best >= 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
