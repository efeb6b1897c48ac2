package model

import (
	"testing"
)

func newSpace(t *testing.T, opts ...SpaceOption) *Space {
	t.Helper()
	return NewSpace(DefaultVideoFormat, DefaultAudioFormat, opts...)
}

// addClip appends a video clip spanning [x, x+length) and [y, y+1).
func addClip(t *testing.T, sp *Space, id string, x, length int, y float64) *Clip {
	t.Helper()
	c, err := NewClip(ClipSpec{ID: id, X: x, Y: y, Length: length, Height: 1, Type: TypeVideo})
	if err != nil {
		t.Fatalf("NewClip(%q): %v", id, err)
	}
	if err := sp.Append(c); err != nil {
		t.Fatalf("Append(%q): %v", id, err)
	}
	return c
}

// chainSpec is (length, transition) of one sequence item.
type chainSpec [2]int

func newItems(t *testing.T, specs ...chainSpec) []*SequenceItem {
	t.Helper()
	out := make([]*SequenceItem, len(specs))
	for i, s := range specs {
		it, err := NewSequenceItem(SequenceItemSpec{
			ID:               "item" + string(rune('a'+i)),
			Source:           SourceRef{Name: "src"},
			Length:           s[0],
			TransitionLength: s[1],
		})
		if err != nil {
			t.Fatalf("NewSequenceItem(%v): %v", s, err)
		}
		out[i] = it
	}
	return out
}

func addSequence(t *testing.T, sp *Space, id string, x int, specs ...chainSpec) *Sequence {
	t.Helper()
	seq, err := NewSequence(SequenceSpec{ID: id, X: x, Height: 1, Type: TypeVideo}, newItems(t, specs...))
	if err != nil {
		t.Fatalf("NewSequence(%q): %v", id, err)
	}
	if err := sp.Append(seq); err != nil {
		t.Fatalf("Append(%q): %v", id, err)
	}
	return seq
}

func positions(seq *Sequence) []int {
	out := make([]int, seq.Len())
	for i, it := range seq.Items() {
		out[i] = it.X()
	}
	return out
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}
