package telemetry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
)

func TestRecorderRecordsSignals(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	em, err := NewEmitter(path)
	if err != nil {
		t.Fatal(err)
	}

	sp := model.NewSpace(model.DefaultVideoFormat, model.DefaultAudioFormat)
	var items []*model.SequenceItem
	for _, id := range []string{"s0", "s1"} {
		si, err := model.NewSequenceItem(model.SequenceItemSpec{ID: id, Length: 10})
		if err != nil {
			t.Fatal(err)
		}
		items = append(items, si)
	}
	seq, err := model.NewSequence(model.SequenceSpec{ID: "seq", Height: 1, Type: model.TypeVideo}, items)
	if err != nil {
		t.Fatal(err)
	}
	if err := sp.Append(seq); err != nil {
		t.Fatal(err)
	}
	clip, err := model.NewClip(model.ClipSpec{ID: "clip", X: 50, Length: 5, Height: 1, Type: model.TypeVideo})
	if err != nil {
		t.Fatal(err)
	}

	stack := command.NewStack(0)
	rec := NewRecorder(em, "sess")
	rec.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	rec.Start("cut.toml")
	rec.WatchSpace(sp)
	rec.WatchStack(stack)

	if err := stack.Do(command.NewUpdateSequenceItem(seq.At(1), model.SequenceItemPatch{Length: model.Set(4)}, "trim")); err != nil {
		t.Fatal(err)
	}
	if err := stack.Do(command.NewAddItem(sp, clip)); err != nil {
		t.Fatal(err)
	}
	if err := stack.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Disconnected: nothing more is written.
	if err := stack.Redo(); err != nil {
		t.Fatal(err)
	}
	em.Close()

	events := readEvents(t, path)
	var structural []string
	var sawFrames, sawTrim bool
	for _, e := range events {
		if e.Session != "sess" {
			t.Errorf("event %s has session %q", e.Kind, e.Session)
		}
		switch e.Kind {
		case KindFramesUpdated:
			sawFrames = true
		case KindItemUpdated:
			if e.ItemID == "s1" {
				sawTrim = true
			}
		default:
			structural = append(structural, e.Kind+" "+e.ItemID)
		}
	}
	want := []string{
		"session_start ",
		"command_done ",
		"item_added clip",
		"command_done ",
		"item_removed clip",
		"command_undone ",
	}
	if diff := cmp.Diff(want, structural); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if !sawFrames {
		t.Error("no frames_updated events")
	}
	if !sawTrim {
		t.Error("no item_updated event for the trimmed sequence item")
	}
}

func TestRecorderFollowsAddedSequences(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	em, err := NewEmitter(path)
	if err != nil {
		t.Fatal(err)
	}
	sp := model.NewSpace(model.DefaultVideoFormat, model.DefaultAudioFormat)
	rec := NewRecorder(em, "")
	rec.WatchSpace(sp)

	si, _ := model.NewSequenceItem(model.SequenceItemSpec{ID: "a", Length: 10})
	seq, err := model.NewSequence(model.SequenceSpec{ID: "seq", Height: 1, Type: model.TypeVideo}, []*model.SequenceItem{si})
	if err != nil {
		t.Fatal(err)
	}
	if err := sp.Append(seq); err != nil {
		t.Fatal(err)
	}
	if _, err := seq.Splice(0, 1, nil, model.Adjustment{}); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	em.Close()

	var found bool
	for _, e := range readEvents(t, path) {
		if e.Kind == KindItemsRemoved && e.ItemID == "seq" {
			found = true
		}
	}
	if !found {
		t.Error("items_removed of a sequence added after WatchSpace was not recorded")
	}
}
