package command

import "errors"

var (
	// ErrEmpty indicates there is nothing to undo, redo or pop.
	ErrEmpty = errors.New("nothing to do")
)
