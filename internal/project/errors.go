package project

import "errors"

var (
	// ErrInMotion is returned when saving a space with an item that is being
	// manipulated. Its position is speculative and must not be persisted.
	ErrInMotion = errors.New("item in motion")

	// ErrUnknownSource is returned by Catalog.Stream for an unregistered reference.
	ErrUnknownSource = errors.New("unknown source")

	// ErrUnknownKind is returned when a document item has a kind other than
	// "clip" or "sequence".
	ErrUnknownKind = errors.New("unknown item kind")
)
