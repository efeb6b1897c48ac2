package telemetry

import (
	"errors"
	"time"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
)

// Recorder turns model and undo stack signals into telemetry events.
type Recorder struct {
	em      *Emitter
	session string
	now     func() time.Time

	disconnect []func()
	sequences  map[*model.Sequence][]func()
	errs       []error
}

// NewRecorder returns a recorder writing to em under the given session ID.
func NewRecorder(em *Emitter, session string) *Recorder {
	return &Recorder{
		em:        em,
		session:   session,
		now:       time.Now,
		sequences: make(map[*model.Sequence][]func()),
	}
}

func (r *Recorder) emit(kind, item string, data any) {
	err := r.em.Emit(Event{
		Timestamp: r.now().UTC(),
		Kind:      kind,
		Session:   r.session,
		ItemID:    item,
		Data:      data,
	})
	if err != nil {
		r.errs = append(r.errs, err)
	}
}

// Start records the start of the session.
func (r *Recorder) Start(project string) {
	r.emit(KindSessionStart, "", map[string]any{"project": project})
}

// WatchSpace records every signal of sp and of the sequences it holds, now
// and as they are added.
func (r *Recorder) WatchSpace(sp *model.Space) {
	r.disconnect = append(r.disconnect,
		sp.ItemAdded.Connect(func(it model.Item) {
			r.emit(KindItemAdded, it.ID(), map[string]any{
				"kind": it.Kind().String(), "z": it.Z(), "x": it.X(), "length": it.Length(),
			})
			if seq, ok := it.(*model.Sequence); ok {
				r.watchSequence(seq)
			}
		}),
		sp.ItemRemoved.Connect(func(it model.Item) {
			r.emit(KindItemRemoved, it.ID(), map[string]any{"kind": it.Kind().String()})
			if seq, ok := it.(*model.Sequence); ok {
				r.unwatchSequence(seq)
			}
		}),
		sp.ItemUpdated.Connect(func(u model.ItemUpdate) {
			r.emit(KindItemUpdated, u.Item.ID(), map[string]any{"fields": u.Changes.Fields()})
		}),
		sp.FramesUpdated.Connect(func(fr model.FrameRange) {
			r.emit(KindFramesUpdated, "", frameData(fr))
		}),
	)
	for _, it := range sp.Items() {
		if seq, ok := it.(*model.Sequence); ok {
			r.watchSequence(seq)
		}
	}
}

func frameData(fr model.FrameRange) map[string]any {
	return map[string]any{"type": string(fr.Type), "min": fr.Min, "max": fr.Max}
}

func (r *Recorder) watchSequence(seq *model.Sequence) {
	if _, ok := r.sequences[seq]; ok {
		return
	}
	r.sequences[seq] = []func(){
		seq.ItemAdded.Connect(func(si *model.SequenceItem) {
			r.emit(KindItemAdded, si.ID(), map[string]any{
				"sequence": seq.ID(), "index": si.Index(), "length": si.Length(),
			})
		}),
		seq.ItemsRemoved.Connect(func(ir model.IndexRange) {
			r.emit(KindItemsRemoved, seq.ID(), map[string]any{"start": ir.Start, "stop": ir.Stop})
		}),
		seq.ItemUpdated.Connect(func(u model.SequenceItemUpdate) {
			r.emit(KindItemUpdated, u.Item.ID(), map[string]any{
				"sequence": seq.ID(), "fields": u.Changes.Fields(),
			})
		}),
	}
}

func (r *Recorder) unwatchSequence(seq *model.Sequence) {
	for _, d := range r.sequences[seq] {
		d()
	}
	delete(r.sequences, seq)
}

// WatchStack records every operation on st.
func (r *Recorder) WatchStack(st *command.Stack) {
	r.disconnect = append(r.disconnect, st.Events.Connect(func(e command.Event) {
		data := map[string]any{"text": e.Text}
		if e.Merged {
			data["merged"] = true
		}
		r.emit(string(e.Kind), "", data)
	}))
}

// Close disconnects from every signal and returns the emit errors seen.
func (r *Recorder) Close() error {
	for _, d := range r.disconnect {
		d()
	}
	r.disconnect = nil
	for seq := range r.sequences {
		r.unwatchSequence(seq)
	}
	return errors.Join(r.errs...)
}
