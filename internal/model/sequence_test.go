package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSequenceLength(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		chain   []chainSpec
		wantXs  []int
		wantLen int
	}{
		{name: "empty", chain: nil, wantXs: []int{}, wantLen: 0},
		{name: "cuts", chain: []chainSpec{{10, 0}, {5, 0}, {7, 0}}, wantXs: []int{0, 10, 15}, wantLen: 22},
		{name: "transition", chain: []chainSpec{{10, 0}, {10, 4}}, wantXs: []int{0, 6}, wantLen: 16},
		{name: "gap", chain: []chainSpec{{10, 0}, {10, -3}}, wantXs: []int{0, 13}, wantLen: 23},
		{name: "mixed", chain: []chainSpec{{10, 0}, {8, 5}, {6, -2}, {4, 3}}, wantXs: []int{0, 5, 15, 18}, wantLen: 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			seq, err := NewSequence(SequenceSpec{Type: TypeVideo}, newItems(t, tt.chain...))
			if err != nil {
				t.Fatalf("NewSequence: %v", err)
			}
			if diff := cmp.Diff(tt.wantXs, positions(seq)); diff != "" {
				t.Errorf("positions (-want +got):\n%s", diff)
			}
			if seq.Length() != tt.wantLen {
				t.Errorf("Length() = %d, want %d", seq.Length(), tt.wantLen)
			}
			sum := 0
			for _, c := range tt.chain {
				sum += c[0] - c[1]
			}
			if seq.Length() != sum {
				t.Errorf("Length() = %d, want sum of (len - t) = %d", seq.Length(), sum)
			}
		})
	}
}

func TestCheckChain(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		lengths   []int
		trans     []int
		wantIndex int // -1 for valid
	}{
		{name: "valid", lengths: []int{10, 10, 10}, trans: []int{0, 5, 5}, wantIndex: -1},
		{name: "leading transition", lengths: []int{10, 10}, trans: []int{2, 0}, wantIndex: 0},
		{name: "zero length", lengths: []int{10, 0}, trans: []int{0, 0}, wantIndex: 1},
		{name: "double cover", lengths: []int{10, 6, 10}, trans: []int{0, 4, 3}, wantIndex: 1},
		{name: "transition longer than previous", lengths: []int{4, 10}, trans: []int{0, 5}, wantIndex: 0},
		{name: "gaps never cover", lengths: []int{1, 1, 1}, trans: []int{0, -5, -5}, wantIndex: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckChain(tt.lengths, tt.trans)
			if tt.wantIndex < 0 {
				if err != nil {
					t.Fatalf("CheckChain: %v", err)
				}
				return
			}
			var ce *ChainError
			if !errors.As(err, &ce) {
				t.Fatalf("CheckChain error = %v, want *ChainError", err)
			}
			if ce.Index != tt.wantIndex {
				t.Errorf("ChainError.Index = %d, want %d", ce.Index, tt.wantIndex)
			}
			if !errors.Is(err, ErrInvariant) {
				t.Errorf("errors.Is(err, ErrInvariant) = false")
			}
		})
	}
}

func TestSpliceKeepsLengthInvariant(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	seq := addSequence(t, sp, "seq", 100, chainSpec{10, 0}, chainSpec{10, 2}, chainSpec{10, 0})

	extra := newItems(t, chainSpec{4, 0}, chainSpec{6, -1})
	extra[0].id, extra[1].id = "x1", "x2"
	removed, err := seq.Splice(1, 2, extra, Adjustment{Transitions: map[*SequenceItem]int{extra[0]: 1}})
	if err != nil {
		t.Fatalf("Splice: %v", err)
	}
	if len(removed) != 1 || removed[0].Sequence() != nil || removed[0].Index() != -1 {
		t.Fatalf("removed item not detached: %+v", removed)
	}
	if err := sp.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := 0
	for i, it := range seq.Items() {
		want += it.Length() - it.TransitionLength()
		if it.Index() != i {
			t.Errorf("item %s index %d, want %d", it.ID(), it.Index(), i)
		}
	}
	if seq.Length() != want {
		t.Errorf("Length() = %d, want %d", seq.Length(), want)
	}
	if _, ok := sp.Find("x1"); !ok {
		t.Error("inserted item not registered with the space")
	}
	if _, ok := sp.Find(removed[0].ID()); ok {
		t.Error("removed item still registered with the space")
	}
}

func TestSpliceRejectsBrokenChain(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	seq := addSequence(t, sp, "seq", 0, chainSpec{10, 0}, chainSpec{10, 0})
	var fired int
	seq.FramesUpdated.Connect(func(FrameRange) { fired++ })

	bad := newItems(t, chainSpec{3, 0})
	bad[0].id = "bad"
	_, err := seq.Splice(1, 1, bad, Adjustment{Transitions: map[*SequenceItem]int{seq.At(1): 5}})
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("Splice error = %v, want ErrInvariant", err)
	}
	if seq.Len() != 2 || seq.At(1).TransitionLength() != 0 || bad[0].Sequence() != nil {
		t.Error("failed splice changed the sequence")
	}
	if fired != 0 {
		t.Errorf("failed splice emitted %d frame ranges", fired)
	}
}

func TestSpliceFramesAreSuperset(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	seq := addSequence(t, sp, "seq", 50, chainSpec{10, 0}, chainSpec{10, 0}, chainSpec{10, 0})
	var got []FrameRange
	sp.FramesUpdated.Connect(func(r FrameRange) { got = append(got, r) })

	if _, err := seq.Splice(2, 3, nil, Adjustment{}); err != nil {
		t.Fatalf("Splice: %v", err)
	}
	want := []FrameRange{{Type: TypeVideo, Min: 70, Max: 79}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frames (-want +got):\n%s", diff)
	}
}

func TestSequenceItemUpdate(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	seq := addSequence(t, sp, "seq", 0, chainSpec{10, 0}, chainSpec{10, 0}, chainSpec{10, 0})

	if err := seq.At(0).Update(SequenceItemPatch{TransitionLength: Set(1)}); !errors.Is(err, ErrInvariant) {
		t.Errorf("leading transition error = %v, want ErrInvariant", err)
	}
	if err := seq.At(1).Update(SequenceItemPatch{Length: Set(0)}); !errors.Is(err, ErrInvariant) {
		t.Errorf("zero length error = %v, want ErrInvariant", err)
	}

	var updates []SequenceItemUpdate
	seq.ItemUpdated.Connect(func(u SequenceItemUpdate) { updates = append(updates, u) })
	if err := seq.At(1).Update(SequenceItemPatch{TransitionLength: Set(4)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if diff := cmp.Diff([]int{0, 6, 16}, positions(seq)); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
	if seq.Length() != 26 {
		t.Errorf("Length() = %d, want 26", seq.Length())
	}
	if len(updates) != 1 || updates[0].Old.TransitionLength.Value != 0 {
		t.Errorf("updates = %+v, want one with old transition 0", updates)
	}
}

func TestSequenceRejectsClipFields(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	seq := addSequence(t, sp, "seq", 0, chainSpec{10, 0})
	if err := seq.Update(ItemPatch{Length: Set(3)}); !errors.Is(err, ErrWrongKind) {
		t.Errorf("Update(Length) error = %v, want ErrWrongKind", err)
	}
	c := addClip(t, sp, "c", 0, 5, 0)
	if err := c.Update(ItemPatch{Expanded: Set(true)}); !errors.Is(err, ErrWrongKind) {
		t.Errorf("Update(Expanded) error = %v, want ErrWrongKind", err)
	}
}
