package placement

import (
	"errors"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
)

// Place moves m to (index, x) of seq and returns the applied commands. A
// mover still resident in a sequence is removed first; index and x are
// taken in the coordinates of seq after that removal. On error nothing is
// left applied.
func Place(seq *model.Sequence, m *Mover, index, x int) (*command.Compound, error) {
	c := command.NewCompound("place in sequence")
	if home := m.Home(); home != nil {
		start := m.Items[0].Index()
		if err := c.Do(NewRemove(home, start, start+len(m.Items))); err != nil {
			return nil, err
		}
	}
	if err := c.Do(NewInsert(seq, m, index, x)); err != nil {
		if uerr := c.Undo(); uerr != nil {
			return nil, errors.Join(err, uerr)
		}
		return nil, err
	}
	return c, nil
}

// Detach removes a resident mover from its sequence, keeping the remaining
// items where they are. It returns nil when the mover is already detached.
func Detach(m *Mover) (*Remove, error) {
	home := m.Home()
	if home == nil {
		return nil, nil
	}
	start := m.Items[0].Index()
	rm := NewRemove(home, start, start+len(m.Items))
	if err := rm.Redo(); err != nil {
		return nil, err
	}
	return rm, nil
}
