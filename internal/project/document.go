// Package project reads and writes montage project files. A project file is
// a TOML document holding the formats, the media catalog and the
// user-authored state of every item; derived state (z order, sequence
// positions, the anchor map) is rebuilt on load.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/montage/internal/model"
)

// Document is the on-disk form of a project.
type Document struct {
	VideoFormat VideoFormatDoc `toml:"video_format"`
	AudioFormat AudioFormatDoc `toml:"audio_format"`
	Sources     []SourceDoc    `toml:"sources,omitempty"`
	Items       []ItemDoc      `toml:"items,omitempty"`
}

// VideoFormatDoc is the [video_format] table.
type VideoFormatDoc struct {
	RateNum int64 `toml:"rate_num"`
	RateDen int64 `toml:"rate_den"`
	Width   int   `toml:"width"`
	Height  int   `toml:"height"`
}

// AudioFormatDoc is the [audio_format] table.
type AudioFormatDoc struct {
	SampleRate int `toml:"sample_rate"`
	Channels   int `toml:"channels"`
}

// SourceDoc is one [[sources]] entry of the media catalog.
type SourceDoc struct {
	Name    string `toml:"name"`
	Stream  string `toml:"stream,omitempty"`
	Type    string `toml:"type"`
	Length  int    `toml:"length"`
	RateNum int64  `toml:"rate_num,omitempty"`
	RateDen int64  `toml:"rate_den,omitempty"`
}

// AnchorDoc is the anchor of an item or sequence item.
type AnchorDoc struct {
	Target   string `toml:"target"`
	OffsetNS int64  `toml:"offset_ns"`
	TwoWay   bool   `toml:"two_way,omitempty"`
	Visible  bool   `toml:"visible,omitempty"`
}

// ItemDoc is one [[items]] entry. Length, Offset, Source and Stream apply to
// clips; Expanded and Sequence to sequences.
type ItemDoc struct {
	ID       string            `toml:"id"`
	Kind     string            `toml:"kind"`
	Type     string            `toml:"type"`
	X        int               `toml:"x"`
	Y        float64           `toml:"y"`
	Length   int               `toml:"length,omitempty"`
	Height   float64           `toml:"height"`
	Tags     []string          `toml:"tags,omitempty"`
	Offset   int               `toml:"offset,omitempty"`
	Source   string            `toml:"source,omitempty"`
	Stream   string            `toml:"stream,omitempty"`
	Expanded bool              `toml:"expanded,omitempty"`
	Anchor   *AnchorDoc        `toml:"anchor,omitempty"`
	Sequence []SequenceItemDoc `toml:"sequence,omitempty"`
}

// SequenceItemDoc is one [[items.sequence]] entry.
type SequenceItemDoc struct {
	ID               string     `toml:"id"`
	Source           string     `toml:"source"`
	Stream           string     `toml:"stream,omitempty"`
	Offset           int        `toml:"offset,omitempty"`
	Length           int        `toml:"length"`
	TransitionLength int        `toml:"transition_length"`
	Anchor           *AnchorDoc `toml:"anchor,omitempty"`
}

// Project is an open project: the space being edited and its media catalog.
type Project struct {
	Space   *model.Space
	Catalog *Catalog
}

// New returns an empty project.
func New(video model.VideoFormat, audio model.AudioFormat, opts ...model.SpaceOption) *Project {
	return &Project{
		Space:   model.NewSpace(video, audio, opts...),
		Catalog: NewCatalog(),
	}
}

// Encode converts p into its document form. Items in motion are refused.
func Encode(p *Project) (Document, error) {
	sp := p.Space
	v, a := sp.VideoFormat(), sp.AudioFormat()
	doc := Document{
		VideoFormat: VideoFormatDoc{RateNum: v.Rate.Num, RateDen: v.Rate.Den, Width: v.Width, Height: v.Height},
		AudioFormat: AudioFormatDoc{SampleRate: a.SampleRate, Channels: a.Channels},
		Sources:     p.Catalog.docs(),
	}
	for _, it := range sp.Items() {
		d, err := encodeItem(it)
		if err != nil {
			return Document{}, err
		}
		doc.Items = append(doc.Items, d)
	}
	return doc, nil
}

func encodeItem(it model.Item) (ItemDoc, error) {
	if it.InMotion() {
		return ItemDoc{}, fmt.Errorf("%w: %s", ErrInMotion, it.ID())
	}
	d := ItemDoc{
		ID:     it.ID(),
		Kind:   it.Kind().String(),
		Type:   string(it.Type()),
		X:      it.X(),
		Y:      it.Y(),
		Height: it.Height(),
		Tags:   it.Tags(),
		Anchor: encodeAnchor(it.Anchor()),
	}
	switch v := it.(type) {
	case *model.Clip:
		d.Length = v.Length()
		d.Offset = v.Offset()
		d.Source = v.Source().Name
		d.Stream = v.Source().Stream
	case *model.Sequence:
		d.Expanded = v.Expanded()
		for _, si := range v.Items() {
			if si.InMotion() {
				return ItemDoc{}, fmt.Errorf("%w: %s", ErrInMotion, si.ID())
			}
			d.Sequence = append(d.Sequence, SequenceItemDoc{
				ID:               si.ID(),
				Source:           si.Source().Name,
				Stream:           si.Source().Stream,
				Offset:           si.Offset(),
				Length:           si.Length(),
				TransitionLength: si.TransitionLength(),
				Anchor:           encodeAnchor(si.Anchor()),
			})
		}
	}
	return d, nil
}

func encodeAnchor(a *model.Anchor) *AnchorDoc {
	if a == nil {
		return nil
	}
	return &AnchorDoc{Target: a.TargetID, OffsetNS: a.OffsetNS, TwoWay: a.TwoWay, Visible: a.Visible}
}

func decodeAnchor(d *AnchorDoc) *model.Anchor {
	if d == nil {
		return nil
	}
	return &model.Anchor{TargetID: d.Target, OffsetNS: d.OffsetNS, TwoWay: d.TwoWay, Visible: d.Visible}
}

// Decode builds a project from doc and rebuilds its derived state.
func Decode(doc Document, opts ...model.SpaceOption) (*Project, error) {
	video := model.VideoFormat{
		Rate:   model.Rate{Num: doc.VideoFormat.RateNum, Den: doc.VideoFormat.RateDen},
		Width:  doc.VideoFormat.Width,
		Height: doc.VideoFormat.Height,
	}
	if !video.Rate.Valid() {
		return nil, fmt.Errorf("video_format: invalid rate %d/%d", video.Rate.Num, video.Rate.Den)
	}
	audio := model.AudioFormat{SampleRate: doc.AudioFormat.SampleRate, Channels: doc.AudioFormat.Channels}
	if audio.SampleRate < 1 {
		return nil, fmt.Errorf("audio_format: invalid sample rate %d", audio.SampleRate)
	}

	catalog := NewCatalog()
	for i, s := range doc.Sources {
		if err := catalog.addDoc(s); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
	}

	items := make([]model.Item, 0, len(doc.Items))
	for i, d := range doc.Items {
		it, err := decodeItem(d)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, it)
	}
	sp, err := model.LoadSpace(video, audio, items, opts...)
	if err != nil {
		return nil, fmt.Errorf("rebuilding project: %w", err)
	}
	return &Project{Space: sp, Catalog: catalog}, nil
}

func decodeItem(d ItemDoc) (model.Item, error) {
	switch d.Kind {
	case model.KindClip.String():
		return model.NewClip(model.ClipSpec{
			ID:     d.ID,
			X:      d.X,
			Y:      d.Y,
			Length: d.Length,
			Height: d.Height,
			Type:   model.StreamType(d.Type),
			Tags:   d.Tags,
			Anchor: decodeAnchor(d.Anchor),
			Offset: d.Offset,
			Source: model.SourceRef{Name: d.Source, Stream: d.Stream},
		})
	case model.KindSequence.String():
		items := make([]*model.SequenceItem, 0, len(d.Sequence))
		for _, s := range d.Sequence {
			si, err := model.NewSequenceItem(model.SequenceItemSpec{
				ID:               s.ID,
				Source:           model.SourceRef{Name: s.Source, Stream: s.Stream},
				Offset:           s.Offset,
				Length:           s.Length,
				TransitionLength: s.TransitionLength,
				Anchor:           decodeAnchor(s.Anchor),
			})
			if err != nil {
				return nil, err
			}
			items = append(items, si)
		}
		return model.NewSequence(model.SequenceSpec{
			ID:       d.ID,
			X:        d.X,
			Y:        d.Y,
			Height:   d.Height,
			Type:     model.StreamType(d.Type),
			Tags:     d.Tags,
			Anchor:   decodeAnchor(d.Anchor),
			Expanded: d.Expanded,
		}, items)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
}

// Marshal encodes p as TOML.
func Marshal(p *Project) ([]byte, error) {
	doc, err := Encode(p)
	if err != nil {
		return nil, err
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling project: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a TOML project.
func Unmarshal(data []byte, opts ...model.SpaceOption) (*Project, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	return Decode(doc, opts...)
}

// Load reads the project file at path.
func Load(path string, opts ...model.SpaceOption) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	p, err := Unmarshal(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path atomically (write temp + rename).
func Save(path string, p *Project) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating project directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp project file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming project file: %w", err)
	}
	return nil
}
