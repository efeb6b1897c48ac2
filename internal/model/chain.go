package model

import "fmt"

// CheckChain reports the first position at which lengths and transitions do
// not form a valid sequence: every length must be at least one, the first
// transition must be zero, and no item may be covered by its leading and
// trailing transitions at once.
func CheckChain(lengths, transitions []int) error {
	n := len(lengths)
	for i := 0; i < n; i++ {
		if lengths[i] < 1 {
			return &ChainError{Index: i, Field: "length", Reason: fmt.Sprintf("%d < 1", lengths[i])}
		}
	}
	if n > 0 && transitions[0] != 0 {
		return &ChainError{Index: 0, Field: "transition_length", Reason: "first item must start with a cut"}
	}
	for i := 0; i < n; i++ {
		in := 0
		if i > 0 {
			in = max(transitions[i], 0)
		}
		out := 0
		if i+1 < n {
			out = max(transitions[i+1], 0)
		}
		if in+out > lengths[i] {
			return &ChainError{
				Index:  i,
				Field:  "transition_length",
				Reason: fmt.Sprintf("transitions %d and %d overlap within length %d", in, out, lengths[i]),
			}
		}
	}
	return nil
}

// chainOf returns the lengths and transitions of items with the
// transition overrides applied.
func chainOf(items []*SequenceItem, overrides map[*SequenceItem]int) ([]int, []int) {
	lengths := make([]int, len(items))
	trans := make([]int, len(items))
	for i, it := range items {
		lengths[i] = it.st.length
		trans[i] = it.st.transition
		if t, ok := overrides[it]; ok {
			trans[i] = t
		}
	}
	return lengths, trans
}

func checkDetached(items []*SequenceItem) error {
	seen := make(map[*SequenceItem]bool, len(items))
	for _, it := range items {
		if it.seq != nil {
			return fmt.Errorf("%w: sequence item %s", ErrAttached, it.id)
		}
		if seen[it] {
			return fmt.Errorf("%w: %s given twice", ErrDuplicateID, it.id)
		}
		seen[it] = true
	}
	return nil
}
