// Package manip implements drag gestures over the timeline. A Manipulator
// is created when an item is grabbed, tries speculative placements while
// the pointer moves, and records one undoable command when released.
package manip

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
)

// Op is what a sequence drop does.
type Op int

const (
	// OpAdd inserts the dragged items into the sequence.
	OpAdd Op = iota
)

// State is the phase of a gesture.
type State int

const (
	StateIdle             State = iota // no gesture in progress
	StateGrabbed                       // picked up, not yet placed
	StatePlacedInSpace                 // previewed as top-level items
	StatePlacedInSequence              // previewed inside a sequence
)

// String returns a lowercase name.
func (s State) String() string {
	switch s {
	case StateGrabbed:
		return "grabbed"
	case StatePlacedInSpace:
		return "placed in space"
	case StatePlacedInSequence:
		return "placed in sequence"
	default:
		return "idle"
	}
}

// Manipulator drives one drag gesture. Positions are absolute space
// coordinates of the dragged item's start.
type Manipulator interface {
	TryPlaceInSpace(sp *model.Space, x int, y float64) bool
	TryPlaceInSequence(seq *model.Sequence, x int, op Op) bool
	Reset()
	Finish() bool
	State() State
}

// gesture holds what every manipulator shares: the speculative placement
// currently applied and the stack it is recorded on.
type gesture struct {
	stack  *command.Stack
	label  string
	placed command.Command
	state  State
	broken error
	spaces []*model.Space
}

func (g *gesture) State() State { return g.state }

// attempt reverts the current placement and applies the one built by
// place. When place fails the previous placement is re-applied.
func (g *gesture) attempt(next State, place func() (command.Command, error)) bool {
	if g.broken != nil || g.state == StateIdle {
		return false
	}
	prev := g.placed
	if prev != nil {
		if err := prev.Undo(); err != nil {
			g.broken = fmt.Errorf("revert placement: %w", err)
			return false
		}
		g.placed = nil
	}
	cmd, err := place()
	if err != nil {
		if !errors.Is(err, model.ErrNoRoom) && !errors.Is(err, errNoTarget) {
			g.broken = err
		}
		if prev != nil {
			if rerr := prev.Redo(); rerr != nil {
				g.broken = fmt.Errorf("restore placement: %w", rerr)
				return false
			}
			g.placed = prev
		}
		return false
	}
	g.placed = cmd
	g.state = next
	return true
}

// finish records the placement and checks the touched spaces. On any
// inconsistency the gesture is reset and false returned.
func (g *gesture) finish(reset func()) bool {
	if g.state == StateIdle {
		return false
	}
	if g.broken != nil {
		reset()
		return false
	}
	for _, sp := range g.spaces {
		if sp == nil {
			continue
		}
		if err := sp.Validate(); err != nil {
			g.broken = err
			reset()
			return false
		}
	}
	if g.placed != nil {
		if c, ok := g.placed.(*command.Compound); ok {
			c.SetText(g.label)
		}
		g.stack.Record(g.placed)
	}
	g.placed = nil
	g.state = StateIdle
	return true
}

// revert undoes the placement. Errors are kept for Err.
func (g *gesture) revert() {
	if g.placed != nil {
		g.keep(g.placed.Undo())
		g.placed = nil
	}
	g.state = StateIdle
}

// keep records err for Err unless an earlier error is already held.
func (g *gesture) keep(err error) {
	if err != nil && g.broken == nil {
		g.broken = err
	}
}

// Err returns the error that made the gesture inconsistent, if any.
func (g *gesture) Err() error { return g.broken }

func (g *gesture) touch(sp *model.Space) {
	for _, s := range g.spaces {
		if s == sp {
			return
		}
	}
	g.spaces = append(g.spaces, sp)
}

var errNoTarget = errors.New("no legal position")
