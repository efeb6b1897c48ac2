package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func anchorTo(t *testing.T, sp *Space, target, follower Anchorable, twoWay bool) {
	t.Helper()
	a, err := sp.NewAnchor(target, follower, twoWay, true)
	if err != nil {
		t.Fatalf("NewAnchor(%s, %s): %v", target.ID(), follower.ID(), err)
	}
	var uerr error
	switch f := follower.(type) {
	case Item:
		uerr = f.Update(ItemPatch{Anchor: Set(a)})
	case *SequenceItem:
		uerr = f.Update(SequenceItemPatch{Anchor: Set(a)})
	}
	if uerr != nil {
		t.Fatalf("set anchor on %s: %v", follower.ID(), uerr)
	}
}

func TestAnchorPropagation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		twoWay       bool
		move         string
		to           int
		wantA, wantB int
	}{
		{name: "target drags follower", move: "a", to: 10, wantA: 10, wantB: 30},
		{name: "follower moves alone", move: "b", to: 50, wantA: 0, wantB: 50},
		{name: "two way drags target", twoWay: true, move: "b", to: 50, wantA: 30, wantB: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sp := newSpace(t)
			a := addClip(t, sp, "a", 0, 10, 0)
			b := addClip(t, sp, "b", 20, 10, 1)
			anchorTo(t, sp, a, b, tt.twoWay)
			byID := map[string]*Clip{"a": a, "b": b}
			if err := byID[tt.move].Update(ItemPatch{X: Set(tt.to)}); err != nil {
				t.Fatalf("Update: %v", err)
			}
			if a.X() != tt.wantA || b.X() != tt.wantB {
				t.Errorf("a.X, b.X = %d, %d; want %d, %d", a.X(), b.X(), tt.wantA, tt.wantB)
			}
		})
	}
}

func TestAnchorAcrossRates(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	v := addClip(t, sp, "video", 25, 50, 0) // 1s at 25 fps
	audio, err := NewClip(ClipSpec{ID: "audio", X: 48000, Length: 48000, Height: 1, Type: TypeAudio})
	if err != nil {
		t.Fatalf("NewClip: %v", err)
	}
	if err := sp.Append(audio); err != nil {
		t.Fatalf("Append: %v", err)
	}
	anchorTo(t, sp, v, audio, false)
	if got := audio.Anchor().OffsetNS; got != 0 {
		t.Fatalf("OffsetNS = %d, want 0", got)
	}
	if err := v.Update(ItemPatch{X: Set(50)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if audio.X() != 96000 {
		t.Errorf("audio.X() = %d, want 96000", audio.X())
	}
}

func TestAnchorCycleTerminates(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	a := addClip(t, sp, "a", 0, 10, 0)
	b := addClip(t, sp, "b", 10, 10, 1)
	c := addClip(t, sp, "c", 20, 10, 2)
	anchorTo(t, sp, a, b, false)
	anchorTo(t, sp, b, c, false)
	anchorTo(t, sp, c, a, false)
	if err := a.Update(ItemPatch{X: Set(5)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := []int{a.X(), b.X(), c.X()}; !cmp.Equal(got, []int{5, 15, 25}) {
		t.Errorf("positions = %v, want [5 15 25]", got)
	}
}

func TestAnchorToSequenceItem(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	seq := addSequence(t, sp, "seq", 0, chainSpec{10, 0}, chainSpec{10, 0})
	c := addClip(t, sp, "c", 30, 5, 1)
	anchorTo(t, sp, seq.At(1), c, false)

	if err := seq.At(1).Update(SequenceItemPatch{TransitionLength: Set(4)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.X() != 26 {
		t.Errorf("after transition c.X() = %d, want 26", c.X())
	}
	if err := seq.Update(ItemPatch{X: Set(100)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.X() != 126 {
		t.Errorf("after sequence move c.X() = %d, want 126", c.X())
	}
}

func TestSequenceItemFollowsAnchor(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	seq := addSequence(t, sp, "seq", 0, chainSpec{10, 0}, chainSpec{10, 0}, chainSpec{10, 0})
	c := addClip(t, sp, "c", 30, 5, 1)
	si := seq.At(1)
	anchorTo(t, sp, c, si, true)

	if err := c.Update(ItemPatch{X: Set(40)}); err != nil {
		t.Fatalf("Update(c): %v", err)
	}
	if got := seq.X() + si.X(); got != 20 {
		t.Errorf("after target move item starts at %d, want 20", got)
	}
	if got := positions(seq); !cmp.Equal(got, []int{0, 20, 20}) {
		t.Errorf("positions = %v, want [0 20 20]", got)
	}
	if si.TransitionLength() != -10 || seq.At(2).TransitionLength() != 10 {
		t.Errorf("transitions = %d, %d; want -10, 10", si.TransitionLength(), seq.At(2).TransitionLength())
	}

	if err := si.Update(SequenceItemPatch{TransitionLength: Set(-15)}); err != nil {
		t.Fatalf("Update(item): %v", err)
	}
	if c.X() != 45 {
		t.Errorf("after follower move c.X() = %d, want 45", c.X())
	}
	if got := seq.X() + si.X(); got != 25 {
		t.Errorf("item starts at %d, want 25", got)
	}
}

func TestFirstSequenceItemFollowsAnchor(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	seq := addSequence(t, sp, "seq", 0, chainSpec{10, 0}, chainSpec{10, 0})
	c := addClip(t, sp, "c", 30, 5, 1)
	anchorTo(t, sp, c, seq.At(0), false)

	if err := c.Update(ItemPatch{X: Set(34)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if seq.X() != 4 {
		t.Errorf("seq.X() = %d, want 4", seq.X())
	}
	// The successor keeps its absolute start.
	if got := seq.X() + seq.At(1).X(); got != 10 {
		t.Errorf("second item starts at %d, want 10", got)
	}
}

func TestSequenceItemAnchorWithoutRoom(t *testing.T) {
	t.Parallel()
	var warnings []error
	sp := newSpace(t, WithWarnings(func(err error) { warnings = append(warnings, err) }))
	seq := addSequence(t, sp, "seq", 0, chainSpec{10, 0}, chainSpec{10, 0})
	c := addClip(t, sp, "c", 30, 5, 1)
	anchorTo(t, sp, c, seq.At(1), false)

	// Item 1 would overlap item 0 by 25 frames.
	if err := c.Update(ItemPatch{X: Set(5)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(warnings) != 1 || !errors.Is(warnings[0], ErrNoRoom) {
		t.Fatalf("warnings = %v, want one ErrNoRoom", warnings)
	}
	if got := positions(seq); !cmp.Equal(got, []int{0, 10}) {
		t.Errorf("positions = %v, want [0 10]", got)
	}
}

func TestAnchorSkipsItemsInMotion(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	a := addClip(t, sp, "a", 0, 10, 0)
	b := addClip(t, sp, "b", 20, 10, 1)
	anchorTo(t, sp, a, b, false)
	if err := b.Update(ItemPatch{InMotion: Set(true)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := a.Update(ItemPatch{X: Set(10)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if b.X() != 20 {
		t.Errorf("b.X() = %d, want 20 while in motion", b.X())
	}
}

func mutualClips(t *testing.T) (*Clip, *Clip) {
	t.Helper()
	a, err := NewClip(ClipSpec{ID: "a", Length: 5, Height: 1, Type: TypeVideo,
		Anchor: &Anchor{TargetID: "b", TwoWay: true}})
	if err != nil {
		t.Fatalf("NewClip: %v", err)
	}
	b, err := NewClip(ClipSpec{ID: "b", Length: 5, Height: 1, Type: TypeVideo,
		Anchor: &Anchor{TargetID: "a", TwoWay: true}})
	if err != nil {
		t.Fatalf("NewClip: %v", err)
	}
	return a, b
}

func TestAnchorMapStrict(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	a, b := mutualClips(t)
	if err := sp.Append(a); err != nil {
		t.Fatalf("Append(a): %v", err)
	}
	if err := sp.Append(b); !errors.Is(err, ErrAnchorMap) {
		t.Fatalf("Append(b) error = %v, want ErrAnchorMap", err)
	}
	if b.Space() != nil || sp.Len() != 1 {
		t.Error("rejected item was attached")
	}
}

func TestAnchorMapLenient(t *testing.T) {
	t.Parallel()
	var warnings []error
	sp := newSpace(t, WithLenientAnchors(func(err error) { warnings = append(warnings, err) }))
	a, b := mutualClips(t)
	if err := sp.Append(a); err != nil {
		t.Fatalf("Append(a): %v", err)
	}
	if err := sp.Append(b); err != nil {
		t.Fatalf("Append(b): %v", err)
	}
	// Both halves of b's two-way entry already exist.
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	for _, w := range warnings {
		if !errors.Is(w, ErrAnchorMap) {
			t.Errorf("warning %v is not ErrAnchorMap", w)
		}
	}
}

func TestRemoveClearsAnchorEntries(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	a := addClip(t, sp, "a", 0, 10, 0)
	b := addClip(t, sp, "b", 20, 10, 1)
	anchorTo(t, sp, a, b, true)
	if got := sp.AnchoredTo("a"); !cmp.Equal(got, []string{"b"}) {
		t.Fatalf("AnchoredTo(a) = %v, want [b]", got)
	}
	if err := sp.Remove(b); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := sp.AnchoredTo("a"); len(got) != 0 {
		t.Errorf("AnchoredTo(a) after remove = %v, want empty", got)
	}
	if got := sp.AnchoredTo("b"); len(got) != 0 {
		t.Errorf("AnchoredTo(b) after remove = %v, want empty", got)
	}
	if problems := sp.CheckAnchorMap(); len(problems) != 0 {
		t.Errorf("CheckAnchorMap() = %v", problems)
	}
	if b.Z() != -1 || b.Space() != nil {
		t.Errorf("removed item keeps z %d / space %p", b.Z(), b.Space())
	}
}
