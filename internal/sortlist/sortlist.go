// Package sortlist provides a container kept in sorted order by a caller
// supplied comparison. Elements may carry their own rank, written back by
// the container, so owners can look up an element's position in O(1).
package sortlist

import (
	"errors"
	"sort"
)

// ErrNotFound is returned when an element is not in the list.
var ErrNotFound = errors.New("element not found")

// Option configures a List.
type Option[T comparable] func(*List[T])

// WithRank makes the list write each element's rank through set and read it
// back through get. Reposition and Remove use the stored rank instead of a
// search when it is valid.
func WithRank[T comparable](get func(T) int, set func(T, int)) Option[T] {
	return func(l *List[T]) {
		l.getRank = get
		l.setRank = set
	}
}

// List keeps elements sorted by less. Elements with equal keys keep
// insertion order.
type List[T comparable] struct {
	items   []T
	less    func(a, b T) bool
	getRank func(T) int
	setRank func(T, int)
}

// New creates an empty List ordered by less.
func New[T comparable](less func(a, b T) bool, opts ...Option[T]) *List[T] {
	l := &List[T]{less: less}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return len(l.items) }

// At returns the element with rank i.
func (l *List[T]) At(i int) T { return l.items[i] }

// Items returns a copy of the elements in sorted order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Add inserts v after every element that does not sort after it and
// returns its rank.
func (l *List[T]) Add(v T) int {
	i := sort.Search(len(l.items), func(i int) bool { return l.less(v, l.items[i]) })
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = v
	l.renumber(i, len(l.items))
	return i
}

// Remove deletes v, matched by identity among the elements whose key
// equals v's.
func (l *List[T]) Remove(v T) error {
	i, ok := l.find(v)
	if !ok {
		return ErrNotFound
	}
	l.removeAt(i)
	if l.setRank != nil {
		l.setRank(v, -1)
	}
	return nil
}

// Reposition moves v to its correct place after its key changed and
// returns its new rank.
func (l *List[T]) Reposition(v T) (int, error) {
	i, ok := l.find(v)
	if !ok {
		return -1, ErrNotFound
	}
	l.removeAt(i)
	return l.Add(v), nil
}

// Rank returns v's position, or -1 when v is not present.
func (l *List[T]) Rank(v T) int {
	i, ok := l.find(v)
	if !ok {
		return -1
	}
	return i
}

// Contains reports whether v is present.
func (l *List[T]) Contains(v T) bool {
	_, ok := l.find(v)
	return ok
}

// Search returns the smallest rank for which pred is true, assuming pred is
// false then true across the sorted order (as with sort.Search).
func (l *List[T]) Search(pred func(T) bool) int {
	return sort.Search(len(l.items), func(i int) bool { return pred(l.items[i]) })
}

func (l *List[T]) find(v T) (int, bool) {
	if l.getRank != nil {
		if i := l.getRank(v); i >= 0 && i < len(l.items) && l.items[i] == v {
			return i, true
		}
	}
	// The key may have changed since v was placed, so fall back to a scan
	// when the binary search window does not contain it.
	lo := sort.Search(len(l.items), func(i int) bool { return !l.less(l.items[i], v) })
	for i := lo; i < len(l.items) && !l.less(v, l.items[i]); i++ {
		if l.items[i] == v {
			return i, true
		}
	}
	for i, x := range l.items {
		if x == v {
			return i, true
		}
	}
	return -1, false
}

func (l *List[T]) removeAt(i int) {
	copy(l.items[i:], l.items[i+1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	l.renumber(i, len(l.items))
}

func (l *List[T]) renumber(from, to int) {
	if l.setRank == nil {
		return
	}
	for i := from; i < to; i++ {
		l.setRank(l.items[i], i)
	}
}
