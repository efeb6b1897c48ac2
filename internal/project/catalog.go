package project

import (
	"fmt"
	"slices"
	"strings"

	"github.com/papapumpkin/montage/internal/model"
)

// Catalog is the media catalog stored with a project. It implements
// model.SourceProvider.
type Catalog struct {
	streams map[model.SourceRef]model.StreamInfo
}

var _ model.SourceProvider = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{streams: make(map[model.SourceRef]model.StreamInfo)}
}

// Add registers or replaces a stream.
func (c *Catalog) Add(ref model.SourceRef, info model.StreamInfo) error {
	if ref.Name == "" {
		return fmt.Errorf("source name must not be empty")
	}
	if !info.Type.Valid() {
		return fmt.Errorf("source %s: unknown stream type %q", ref, info.Type)
	}
	if info.Length < 1 {
		return fmt.Errorf("source %s: length %d < 1", ref, info.Length)
	}
	c.streams[ref] = info
	return nil
}

// Remove drops ref from the catalog.
func (c *Catalog) Remove(ref model.SourceRef) {
	delete(c.streams, ref)
}

// Stream returns what is known about ref.
func (c *Catalog) Stream(ref model.SourceRef) (model.StreamInfo, error) {
	info, ok := c.streams[ref]
	if !ok {
		return model.StreamInfo{}, fmt.Errorf("%w: %s", ErrUnknownSource, ref)
	}
	return info, nil
}

// Refs returns the registered references sorted by name then stream.
func (c *Catalog) Refs() []model.SourceRef {
	refs := make([]model.SourceRef, 0, len(c.streams))
	for ref := range c.streams {
		refs = append(refs, ref)
	}
	slices.SortFunc(refs, func(a, b model.SourceRef) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.Stream, b.Stream)
	})
	return refs
}

// Len returns the number of registered streams.
func (c *Catalog) Len() int { return len(c.streams) }

func (c *Catalog) docs() []SourceDoc {
	var out []SourceDoc
	for _, ref := range c.Refs() {
		info := c.streams[ref]
		out = append(out, SourceDoc{
			Name:    ref.Name,
			Stream:  ref.Stream,
			Type:    string(info.Type),
			Length:  info.Length,
			RateNum: info.Rate.Num,
			RateDen: info.Rate.Den,
		})
	}
	return out
}

func (c *Catalog) addDoc(d SourceDoc) error {
	return c.Add(model.SourceRef{Name: d.Name, Stream: d.Stream}, model.StreamInfo{
		Length: d.Length,
		Type:   model.StreamType(d.Type),
		Rate:   model.Rate{Num: d.RateNum, Den: d.RateDen},
	})
}
