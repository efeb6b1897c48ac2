package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for model mutations.
var (
	// ErrNoRoom indicates a requested placement has no legal position under
	// the neighbouring transition constraints. It is recoverable: callers
	// try another target or keep the previous placement.
	ErrNoRoom = errors.New("no room for placement")
	// ErrInvariant indicates an update would break a model invariant
	// (length < 1, a leading transition, overlapping transitions).
	ErrInvariant = errors.New("invariant violation")
	// ErrAnchorMap indicates a duplicate or missing anchor map entry.
	ErrAnchorMap = errors.New("anchor map inconsistency")
	// ErrWrongKind indicates a patch field that does not apply to the item kind.
	ErrWrongKind = errors.New("field not valid for item kind")
	// ErrAttached indicates the entity already belongs to a space or sequence.
	ErrAttached = errors.New("already attached")
	// ErrNotAttached indicates the entity does not belong to the expected owner.
	ErrNotAttached = errors.New("not attached")
	// ErrDuplicateID indicates two entities in one space share an ID.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownTarget indicates an anchor points at an ID the space does not hold.
	ErrUnknownTarget = errors.New("unknown anchor target")
)

// ChainError reports which sequence position breaks the transition rules.
type ChainError struct {
	Index  int
	Field  string
	Reason string
}

// Error returns a human-readable description including the item index.
func (e *ChainError) Error() string {
	return fmt.Sprintf("%s: item %d %s: %s", ErrInvariant, e.Index, e.Field, e.Reason)
}

// Unwrap returns ErrInvariant so callers can match with errors.Is.
func (e *ChainError) Unwrap() error {
	return ErrInvariant
}
