package manip

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
)

// spec is (length, transition) of one sequence item.
type spec [2]int

func addSequence(t *testing.T, sp *model.Space, id string, x int, specs ...spec) *model.Sequence {
	t.Helper()
	items := make([]*model.SequenceItem, len(specs))
	for i, s := range specs {
		it, err := model.NewSequenceItem(model.SequenceItemSpec{
			ID:               fmt.Sprintf("%s.%d", id, i),
			Length:           s[0],
			TransitionLength: s[1],
		})
		if err != nil {
			t.Fatalf("NewSequenceItem: %v", err)
		}
		items[i] = it
	}
	seq, err := model.NewSequence(model.SequenceSpec{ID: id, X: x, Height: 1, Type: model.TypeVideo}, items)
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	if err := sp.Append(seq); err != nil {
		t.Fatalf("Append: %v", err)
	}
	return seq
}

func addClip(t *testing.T, sp *model.Space, id string, x int, y float64) *model.Clip {
	t.Helper()
	c, err := model.NewClip(model.ClipSpec{ID: id, X: x, Y: y, Length: 10, Height: 1, Type: model.TypeVideo})
	if err != nil {
		t.Fatalf("NewClip: %v", err)
	}
	if err := sp.Append(c); err != nil {
		t.Fatalf("Append: %v", err)
	}
	return c
}

// snapshot renders the space as comparable text.
func snapshot(sp *model.Space) []string {
	var out []string
	for _, it := range sp.Items() {
		line := fmt.Sprintf("%s %s z%d x%d y%g len%d", it.Kind(), it.ID(), it.Z(), it.X(), it.Y(), it.Length())
		if seq, ok := it.(*model.Sequence); ok {
			for _, si := range seq.Items() {
				line += fmt.Sprintf(" [%s x%d t%d]", si.ID(), si.X(), si.TransitionLength())
			}
		}
		out = append(out, line)
	}
	return out
}

func newSpace() *model.Space {
	return model.NewSpace(model.DefaultVideoFormat, model.DefaultAudioFormat)
}

func TestClipManipulatorInSpace(t *testing.T) {
	t.Parallel()
	sp := newSpace()
	c := addClip(t, sp, "c", 0, 0)
	stack := command.NewStack(0)
	m, err := NewClipManipulator(stack, c)
	if err != nil {
		t.Fatalf("NewClipManipulator: %v", err)
	}
	if !c.InMotion() {
		t.Error("grabbed clip is not in motion")
	}
	for _, x := range []int{10, 20, 30} {
		if !m.TryPlaceInSpace(sp, x, 2) {
			t.Fatalf("TryPlaceInSpace(%d) failed", x)
		}
	}
	if !m.Finish() {
		t.Fatalf("Finish failed: %v", m.Err())
	}
	if c.X() != 30 || c.Y() != 2 || c.InMotion() {
		t.Errorf("clip x %d y %g in motion %v", c.X(), c.Y(), c.InMotion())
	}
	if stack.Len() != 1 {
		t.Fatalf("stack Len() = %d, want 1", stack.Len())
	}
	if err := stack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if c.X() != 0 || c.Y() != 0 {
		t.Errorf("after undo x %d y %g, want 0, 0", c.X(), c.Y())
	}
}

func TestClipManipulatorIntoSequence(t *testing.T) {
	t.Parallel()
	sp := newSpace()
	seq := addSequence(t, sp, "seq", 0, spec{10, 0}, spec{10, 0})
	c := addClip(t, sp, "c", 100, 5)
	before := snapshot(sp)
	stack := command.NewStack(0)
	m, err := NewClipManipulator(stack, c)
	if err != nil {
		t.Fatalf("NewClipManipulator: %v", err)
	}
	if !m.TryPlaceInSequence(seq, 10, OpAdd) {
		t.Fatal("TryPlaceInSequence failed")
	}
	if m.State() != StatePlacedInSequence {
		t.Errorf("State() = %s", m.State())
	}
	if c.Space() != nil || seq.Len() != 3 || seq.At(2).TransitionLength() != 10 {
		t.Errorf("clip space %p, seq len %d", c.Space(), seq.Len())
	}
	if !m.Finish() {
		t.Fatalf("Finish failed: %v", m.Err())
	}
	if _, ok := sp.Find("c"); !ok {
		t.Error("clip ID not carried into the sequence")
	}
	if err := stack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if diff := cmp.Diff(before, snapshot(sp)); diff != "" {
		t.Errorf("undo (-want +got):\n%s", diff)
	}
}

func TestFailedAttemptKeepsPreviousPlacement(t *testing.T) {
	t.Parallel()
	sp := newSpace()
	seq := addSequence(t, sp, "seq", 0, spec{10, 0}, spec{10, 3})
	c := addClip(t, sp, "c", 100, 5)
	m, err := NewClipManipulator(command.NewStack(0), c)
	if err != nil {
		t.Fatalf("NewClipManipulator: %v", err)
	}
	if !m.TryPlaceInSpace(sp, 30, 0) {
		t.Fatal("TryPlaceInSpace failed")
	}
	if m.TryPlaceInSequence(seq, 5, OpAdd) {
		t.Fatal("TryPlaceInSequence succeeded into a locked junction")
	}
	if c.Space() != sp || c.X() != 30 || m.State() != StatePlacedInSpace {
		t.Errorf("previous placement lost: x %d state %s", c.X(), m.State())
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v after a recoverable miss", m.Err())
	}
	m.Reset()
	if c.X() != 100 || c.InMotion() {
		t.Errorf("after reset x %d in motion %v", c.X(), c.InMotion())
	}
}

func TestSequenceItemsSlideInPlace(t *testing.T) {
	t.Parallel()
	sp := newSpace()
	seq := addSequence(t, sp, "seq", 10, spec{10, 0}, spec{10, 0})
	seq1, seq2 := seq.At(0), seq.At(1)
	stack := command.NewStack(0)
	m, err := NewSequenceItemsManipulator(stack, seq, 0, 1)
	if err != nil {
		t.Fatalf("NewSequenceItemsManipulator: %v", err)
	}
	if !m.TryPlaceInSequence(seq, 15, OpAdd) {
		t.Fatal("TryPlaceInSequence failed")
	}
	if !m.Finish() {
		t.Fatalf("Finish failed: %v", m.Err())
	}
	got := []int{seq.X(), seq1.X(), seq2.X(), seq2.TransitionLength(), seq1.Index()}
	if diff := cmp.Diff([]int{15, 0, 5, 5, 0}, got); diff != "" {
		t.Errorf("seq x, seq1 x, seq2 x, seq2 t, seq1 index (-want +got):\n%s", diff)
	}
	if err := stack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if seq.X() != 10 || seq2.TransitionLength() != 0 {
		t.Errorf("after undo seq x %d seq2 t %d", seq.X(), seq2.TransitionLength())
	}
}

func TestSequenceItemsToSpace(t *testing.T) {
	t.Parallel()
	sp := newSpace()
	seq := addSequence(t, sp, "seq", 0, spec{10, 0}, spec{10, 3}, spec{10, 2})
	before := snapshot(sp)
	stack := command.NewStack(0)
	m, err := NewSequenceItemsManipulator(stack, seq, 1, 3)
	if err != nil {
		t.Fatalf("NewSequenceItemsManipulator: %v", err)
	}
	if !m.TryPlaceInSpace(sp, 50, 3) {
		t.Fatalf("TryPlaceInSpace failed: %v", m.Err())
	}
	if !m.Finish() {
		t.Fatalf("Finish failed: %v", m.Err())
	}
	if sp.Len() != 2 || seq.Len() != 1 {
		t.Fatalf("space has %d items, origin %d", sp.Len(), seq.Len())
	}
	group, ok := sp.At(1).(*model.Sequence)
	if !ok || group.X() != 50 || group.Len() != 2 {
		t.Fatalf("new group %v", sp.At(1))
	}
	for _, it := range group.Items() {
		if it.InMotion() {
			t.Errorf("%s still in motion", it.ID())
		}
	}
	if err := stack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if diff := cmp.Diff(before, snapshot(sp)); diff != "" {
		t.Errorf("undo (-want +got):\n%s", diff)
	}
	if err := stack.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if err := sp.Validate(); err != nil {
		t.Errorf("Validate after redo: %v", err)
	}
}

func TestEmptiedOriginLeavesSpace(t *testing.T) {
	t.Parallel()
	sp := newSpace()
	addSequence(t, sp, "seq", 0, spec{10, 0})
	before := snapshot(sp)
	stack := command.NewStack(0)
	m, err := NewSequenceItemsManipulator(stack, sp.At(0).(*model.Sequence), 0, 1)
	if err != nil {
		t.Fatalf("NewSequenceItemsManipulator: %v", err)
	}
	if !m.TryPlaceInSpace(sp, 40, 0) {
		t.Fatalf("TryPlaceInSpace failed: %v", m.Err())
	}
	if !m.Finish() {
		t.Fatalf("Finish failed: %v", m.Err())
	}
	want := []string{"clip seq.0 z0 x40 y0 len10"}
	if diff := cmp.Diff(want, snapshot(sp)); diff != "" {
		t.Errorf("after drop (-want +got):\n%s", diff)
	}
	if err := stack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if diff := cmp.Diff(before, snapshot(sp)); diff != "" {
		t.Errorf("undo (-want +got):\n%s", diff)
	}
}

func TestSequenceManipulatorMerge(t *testing.T) {
	t.Parallel()
	sp := newSpace()
	target := addSequence(t, sp, "target", 0, spec{10, 0}, spec{10, 0})
	dragged := addSequence(t, sp, "dragged", 100, spec{5, 0}, spec{5, 2})
	before := snapshot(sp)
	stack := command.NewStack(0)
	m, err := NewSequenceManipulator(stack, dragged)
	if err != nil {
		t.Fatalf("NewSequenceManipulator: %v", err)
	}
	if !m.TryPlaceInSequence(target, 20, OpAdd) {
		t.Fatalf("TryPlaceInSequence failed: %v", m.Err())
	}
	if !m.Finish() {
		t.Fatalf("Finish failed: %v", m.Err())
	}
	if sp.Len() != 1 || target.Len() != 4 || dragged.Space() != nil {
		t.Fatalf("space %d items, target %d", sp.Len(), target.Len())
	}
	if target.Length() != 28 {
		t.Errorf("target length %d, want 28", target.Length())
	}
	if err := stack.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if diff := cmp.Diff(before, snapshot(sp)); diff != "" {
		t.Errorf("undo (-want +got):\n%s", diff)
	}
}

func TestFinishWithoutPlacement(t *testing.T) {
	t.Parallel()
	sp := newSpace()
	c := addClip(t, sp, "c", 0, 0)
	stack := command.NewStack(0)
	m, err := NewClipManipulator(stack, c)
	if err != nil {
		t.Fatalf("NewClipManipulator: %v", err)
	}
	if !m.Finish() {
		t.Fatal("Finish failed")
	}
	if stack.Len() != 0 || c.InMotion() {
		t.Errorf("stack %d, in motion %v", stack.Len(), c.InMotion())
	}
	if m.TryPlaceInSpace(sp, 5, 0) {
		t.Error("placement accepted after Finish")
	}
}

func TestGestureKeepsFirstError(t *testing.T) {
	t.Parallel()
	motion := errors.New("clear motion")
	g := gesture{state: StatePlacedInSpace}
	g.keep(nil)
	if g.Err() != nil {
		t.Fatalf("Err() = %v after nil, want nil", g.Err())
	}
	g.keep(motion)
	g.placed = command.Func{
		Label:  "place",
		DoFn:   func() error { return nil },
		UndoFn: func() error { return errors.New("undo failed") },
	}
	g.revert()
	if !errors.Is(g.Err(), motion) {
		t.Errorf("Err() = %v, want the first error %v", g.Err(), motion)
	}
	if g.State() != StateIdle || g.placed != nil {
		t.Errorf("state %v placed %v after revert", g.State(), g.placed)
	}
}

func TestGestureRecordsUndoFailure(t *testing.T) {
	t.Parallel()
	failed := errors.New("undo failed")
	g := gesture{state: StatePlacedInSpace, placed: command.Func{
		Label:  "place",
		DoFn:   func() error { return nil },
		UndoFn: func() error { return failed },
	}}
	g.revert()
	if !errors.Is(g.Err(), failed) {
		t.Errorf("Err() = %v, want %v", g.Err(), failed)
	}
}
