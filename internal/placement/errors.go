package placement

import "errors"

var (
	// ErrInconsistent indicates a command found the sequence in a state it
	// did not leave it in, so it cannot restore recorded values.
	ErrInconsistent = errors.New("sequence changed under command")
	// ErrEmptyMover indicates a mover built from no items.
	ErrEmptyMover = errors.New("mover has no items")
	// ErrTypeMismatch indicates a mover of one stream type aimed at a
	// sequence of another.
	ErrTypeMismatch = errors.New("stream type mismatch")
)
