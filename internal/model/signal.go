package model

// Signal is a typed observer list. Handlers run synchronously in
// registration order. A handler that mutates the model re-enters Emit
// immediately; handlers connected during an emission first run on the next one.
type Signal[T any] struct {
	slots []*slot[T]
}

type slot[T any] struct {
	fn   func(T)
	gone bool
}

// Connect registers fn and returns a function that disconnects it.
func (s *Signal[T]) Connect(fn func(T)) (disconnect func()) {
	sl := &slot[T]{fn: fn}
	s.slots = append(s.slots, sl)
	return func() {
		if sl.gone {
			return
		}
		sl.gone = true
		next := make([]*slot[T], 0, len(s.slots))
		for _, x := range s.slots {
			if x != sl {
				next = append(next, x)
			}
		}
		s.slots = next
	}
}

// Emit calls every connected handler with v.
func (s *Signal[T]) Emit(v T) {
	for _, sl := range s.slots {
		if !sl.gone {
			sl.fn(v)
		}
	}
}

// Len returns the number of connected handlers.
func (s *Signal[T]) Len() int {
	return len(s.slots)
}
