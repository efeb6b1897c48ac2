package model

import (
	"errors"
	"fmt"
)

// Validate checks every invariant of the space and returns all violations
// joined, or nil.
func (sp *Space) Validate() error {
	var errs []error
	for i, it := range sp.items.Items() {
		b := it.core()
		if b.z != i {
			errs = append(errs, fmt.Errorf("%w: %s has z %d at position %d", ErrInvariant, b.id, b.z, i))
		}
		if b.space != sp {
			errs = append(errs, fmt.Errorf("%w: %s does not point back at its space", ErrInvariant, b.id))
		}
		if b.st.length < 1 {
			errs = append(errs, fmt.Errorf("%w: %s length %d < 1", ErrInvariant, b.id, b.st.length))
		}
		if b.st.height < 0 {
			errs = append(errs, fmt.Errorf("%w: %s negative height", ErrInvariant, b.id))
		}
		if seq, ok := it.(*Sequence); ok {
			errs = append(errs, seq.validate()...)
		}
	}
	for _, a := range sp.registry {
		if an := a.Anchor(); an != nil {
			if _, ok := sp.registry[an.TargetID]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s -> %s", ErrUnknownTarget, a.ID(), an.TargetID))
			}
		}
	}
	for _, p := range sp.CheckAnchorMap() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrAnchorMap, p))
	}
	return errors.Join(errs...)
}

func (s *Sequence) validate() []error {
	var errs []error
	items := s.items.Items()
	if err := CheckChain(chainOf(items, nil)); err != nil {
		errs = append(errs, fmt.Errorf("sequence %s: %w", s.id, err))
	}
	for i, it := range items {
		if it.index != i || it.seq != s {
			errs = append(errs, fmt.Errorf("%w: sequence %s item %s out of place", ErrInvariant, s.id, it.id))
		}
		want := 0
		if i > 0 {
			want = items[i-1].x + items[i-1].st.length - it.st.transition
		}
		if it.x != want {
			errs = append(errs, fmt.Errorf("%w: sequence %s item %d at %d, want %d", ErrInvariant, s.id, i, it.x, want))
		}
	}
	if got := s.computedLength(); got != s.st.length {
		errs = append(errs, fmt.Errorf("%w: sequence %s length %d, want %d", ErrInvariant, s.id, s.st.length, got))
	}
	return errs
}
