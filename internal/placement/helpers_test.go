package placement

import (
	"fmt"
	"testing"

	"github.com/papapumpkin/montage/internal/model"
)

// spec is (length, transition) of one sequence item.
type spec [2]int

func items(t *testing.T, prefix string, specs ...spec) []*model.SequenceItem {
	t.Helper()
	out := make([]*model.SequenceItem, len(specs))
	for i, s := range specs {
		it, err := model.NewSequenceItem(model.SequenceItemSpec{
			ID:               fmt.Sprintf("%s%d", prefix, i),
			Source:           model.SourceRef{Name: prefix},
			Length:           s[0],
			TransitionLength: s[1],
		})
		if err != nil {
			t.Fatalf("NewSequenceItem: %v", err)
		}
		out[i] = it
	}
	return out
}

func sequence(t *testing.T, x int, specs ...spec) (*model.Space, *model.Sequence) {
	t.Helper()
	sp := model.NewSpace(model.DefaultVideoFormat, model.DefaultAudioFormat)
	seq, err := model.NewSequence(model.SequenceSpec{ID: "seq", X: x, Height: 1, Type: model.TypeVideo}, items(t, "s", specs...))
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	if err := sp.Append(seq); err != nil {
		t.Fatalf("Append: %v", err)
	}
	return sp, seq
}

func mover(t *testing.T, specs ...spec) *Mover {
	t.Helper()
	m, err := NewMover(model.TypeVideo, items(t, "m", specs...))
	if err != nil {
		t.Fatalf("NewMover: %v", err)
	}
	return m
}

// seqState is everything a placement command may change.
type seqState struct {
	X      int
	Length int
	IDs    []string
	Xs     []int
	Ts     []int
	Abs    map[string]int
}

func stateOf(seq *model.Sequence) seqState {
	st := seqState{X: seq.X(), Length: seq.Length(), Abs: map[string]int{}}
	for _, it := range seq.Items() {
		st.IDs = append(st.IDs, it.ID())
		st.Xs = append(st.Xs, it.X())
		st.Ts = append(st.Ts, it.TransitionLength())
		st.Abs[it.ID()] = seq.X() + it.X()
	}
	return st
}

func validate(t *testing.T, sp *model.Space) {
	t.Helper()
	if err := sp.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
