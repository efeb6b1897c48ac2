// Package indexlist provides an ordered list that writes each element's
// position back into the element on every splice, plus marks that follow a
// logical position between elements across later splices.
package indexlist

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a position or range falls outside the list.
var ErrOutOfRange = errors.New("index out of range")

// Gravity decides where a mark lands when the range it sits in is replaced.
type Gravity int

const (
	// GravityLeft keeps the mark at the start of a replaced range.
	GravityLeft Gravity = iota
	// GravityRight moves the mark past the inserted elements.
	GravityRight
)

// String returns "left" or "right".
func (g Gravity) String() string {
	if g == GravityRight {
		return "right"
	}
	return "left"
}

// List is an ordered container. When an index setter is configured, every
// element whose position changes is told its new index, and removed
// elements are told -1.
type List[T any] struct {
	items    []T
	setIndex func(T, int)
	marks    []*Mark
}

// New creates an empty list. setIndex may be nil.
func New[T any](setIndex func(T, int)) *List[T] {
	return &List[T]{setIndex: setIndex}
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the element at index i. It panics when i is out of range,
// like a slice index.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Items returns a copy of the elements in order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Slice returns a copy of the elements in [start, stop).
func (l *List[T]) Slice(start, stop int) ([]T, error) {
	if err := l.checkRange(start, stop); err != nil {
		return nil, err
	}
	out := make([]T, stop-start)
	copy(out, l.items[start:stop])
	return out, nil
}

// Insert places items before position i (i == Len appends).
func (l *List[T]) Insert(i int, items ...T) error {
	_, err := l.Replace(i, i, items)
	return err
}

// Append adds items at the end.
func (l *List[T]) Append(items ...T) {
	_, _ = l.Replace(len(l.items), len(l.items), items)
}

// Remove deletes the half-open range [start, stop) and returns the removed
// elements.
func (l *List[T]) Remove(start, stop int) ([]T, error) {
	return l.Replace(start, stop, nil)
}

// Replace swaps the half-open range [start, stop) for items and returns the
// elements that were removed. Elements at or after stop shift by
// len(items) - (stop - start); marks are repositioned by their gravity.
func (l *List[T]) Replace(start, stop int, items []T) ([]T, error) {
	if err := l.checkRange(start, stop); err != nil {
		return nil, err
	}

	removed := make([]T, stop-start)
	copy(removed, l.items[start:stop])

	delta := len(items) - (stop - start)
	next := make([]T, 0, len(l.items)+delta)
	next = append(next, l.items[:start]...)
	next = append(next, items...)
	next = append(next, l.items[stop:]...)
	l.items = next

	if l.setIndex != nil {
		for _, v := range removed {
			l.setIndex(v, -1)
		}
		end := start + len(items)
		if delta != 0 {
			end = len(l.items)
		}
		for i := start; i < end; i++ {
			l.setIndex(l.items[i], i)
		}
	}

	l.moveMarks(start, stop, len(items))
	return removed, nil
}

// Mark creates a mark at position pos (0..Len). The mark must be released
// with Close when the caller is done with it.
func (l *List[T]) Mark(pos int, g Gravity) (*Mark, error) {
	if pos < 0 || pos > len(l.items) {
		return nil, fmt.Errorf("%w: mark %d of %d", ErrOutOfRange, pos, len(l.items))
	}
	m := &Mark{pos: pos, gravity: g}
	l.marks = append(l.marks, m)
	return m, nil
}

// MarkCount returns the number of live marks. Closed marks are dropped at
// the next splice, so they may still be counted until then.
func (l *List[T]) MarkCount() int {
	n := 0
	for _, m := range l.marks {
		if !m.closed {
			n++
		}
	}
	return n
}

func (l *List[T]) moveMarks(start, stop, inserted int) {
	delta := inserted - (stop - start)
	live := l.marks[:0]
	for _, m := range l.marks {
		if m.closed {
			continue
		}
		switch {
		case m.pos < start:
		case m.pos > stop:
			m.pos += delta
		case m.gravity == GravityRight:
			m.pos = start + inserted
		default:
			m.pos = start
		}
		live = append(live, m)
	}
	for i := len(live); i < len(l.marks); i++ {
		l.marks[i] = nil
	}
	l.marks = live
}

func (l *List[T]) checkRange(start, stop int) error {
	if start < 0 || stop < start || stop > len(l.items) {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, start, stop, len(l.items))
	}
	return nil
}

// Mark tracks a position between elements of a List.
type Mark struct {
	pos     int
	gravity Gravity
	closed  bool
}

// Pos returns the current position. A mark at Len sits after the last element.
func (m *Mark) Pos() int {
	return m.pos
}

// Gravity returns the mark's gravity.
func (m *Mark) Gravity() Gravity {
	return m.gravity
}

// Close releases the mark. It stops moving and is dropped from its list at
// the next splice.
func (m *Mark) Close() {
	m.closed = true
}

// Closed reports whether Close has been called.
func (m *Mark) Closed() bool {
	return m.closed
}
