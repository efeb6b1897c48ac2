// Package placement computes where a run of sequence items may be inserted
// into a Sequence and provides the commands that insert, remove and slide
// items while keeping the transition chain valid.
package placement

import (
	"fmt"

	"github.com/papapumpkin/montage/internal/model"
)

// Mover is one or more adjacent, detached SequenceItems placed as a unit.
// The transitions between its items are kept; the first item's transition
// is rewritten on every insertion and Leading remembers its original value.
type Mover struct {
	Items   []*model.SequenceItem
	Type    model.StreamType
	Leading int

	positions       []int
	length          int
	maxFadeIn       int
	minFadeOutPoint int
}

// NewMover wraps items that are either all detached or a contiguous run
// of one sequence, in order. A resident run is detached by Place.
func NewMover(typ model.StreamType, items []*model.SequenceItem) (*Mover, error) {
	if len(items) == 0 {
		return nil, ErrEmptyMover
	}
	home := items[0].Sequence()
	lengths := make([]int, len(items))
	trans := make([]int, len(items))
	for i, it := range items {
		if it.Sequence() != home {
			return nil, fmt.Errorf("%w: %s is not with the rest of the run", model.ErrAttached, it.ID())
		}
		if home != nil && it.Index() != items[0].Index()+i {
			return nil, fmt.Errorf("%w: %s breaks the run", ErrInconsistent, it.ID())
		}
		lengths[i] = it.Length()
		if i > 0 {
			trans[i] = it.TransitionLength()
		}
	}
	if err := model.CheckChain(lengths, trans); err != nil {
		return nil, err
	}
	m := &Mover{Items: items, Type: typ, Leading: items[0].TransitionLength()}
	m.measure(lengths, trans)
	return m, nil
}

// MoverFromClip turns a clip into a single-item mover. The item keeps the
// clip's ID, source and anchor.
func MoverFromClip(c *model.Clip) (*Mover, error) {
	it, err := model.NewSequenceItem(model.SequenceItemSpec{
		ID:     c.ID(),
		Source: c.Source(),
		Offset: c.Offset(),
		Length: c.Length(),
		Anchor: c.Anchor(),
	})
	if err != nil {
		return nil, err
	}
	return NewMover(c.Type(), []*model.SequenceItem{it})
}

func (m *Mover) measure(lengths, trans []int) {
	n := len(lengths)
	m.positions = make([]int, n)
	for i := 1; i < n; i++ {
		m.positions[i] = m.positions[i-1] + lengths[i-1] - trans[i]
	}
	m.length = m.positions[n-1] + lengths[n-1]
	if n == 1 {
		m.maxFadeIn = m.length
		m.minFadeOutPoint = 0
		return
	}
	m.maxFadeIn = lengths[0] - max(trans[1], 0)
	m.minFadeOutPoint = m.positions[n-1] + max(trans[n-1], 0)
}

// Home returns the sequence the run still belongs to, or nil once detached.
func (m *Mover) Home() *model.Sequence { return m.Items[0].Sequence() }

// Length returns the extent of the whole run.
func (m *Mover) Length() int { return m.length }

// MaxFadeIn returns how far the run may overlap whatever precedes it.
func (m *Mover) MaxFadeIn() int { return m.maxFadeIn }

// MinFadeOutPoint returns the earliest point, relative to the run start,
// at which a following item may begin to overlap it.
func (m *Mover) MinFadeOutPoint() int { return m.minFadeOutPoint }

// MaxFadeOut returns how far whatever follows may overlap the run.
func (m *Mover) MaxFadeOut() int { return m.length - m.minFadeOutPoint }

// Offset returns the start of item i relative to the run start.
func (m *Mover) Offset(i int) int { return m.positions[i] }

// Contains reports whether it is one of the mover's items.
func (m *Mover) Contains(it *model.SequenceItem) bool {
	for _, x := range m.Items {
		if x == it {
			return true
		}
	}
	return false
}
