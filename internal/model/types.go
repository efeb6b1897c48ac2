// Package model holds the timeline editing model: a Space of positioned
// Items (Clips and Sequences), the SequenceItems that make up a Sequence,
// and the Anchors that tie items to one another. Every mutation goes through
// Update or Splice so that change signals are never skipped.
package model

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// StreamType is the kind of media an item carries.
type StreamType string

const (
	TypeVideo StreamType = "video" // frames at the project frame rate
	TypeAudio StreamType = "audio" // samples at the project sample rate
)

// Valid reports whether t is a known stream type.
func (t StreamType) Valid() bool {
	return t == TypeVideo || t == TypeAudio
}

// ItemKind tags the concrete type behind an Item.
type ItemKind int

const (
	KindClip     ItemKind = iota // *Clip
	KindSequence                 // *Sequence
)

// String returns "clip" or "sequence".
func (k ItemKind) String() string {
	if k == KindSequence {
		return "sequence"
	}
	return "clip"
}

// SourceRef identifies a media stream held by the source provider.
type SourceRef struct {
	Name   string // opaque source identifier
	Stream string // stream within the source, e.g. "video0"
}

// String formats the reference as name:stream.
func (r SourceRef) String() string {
	if r.Stream == "" {
		return r.Name
	}
	return r.Name + ":" + r.Stream
}

// StreamInfo is what a SourceProvider reports about a stream.
type StreamInfo struct {
	Length int
	Type   StreamType
	Rate   Rate
}

// SourceProvider resolves source references. The model only stores
// references; providers live outside this package.
type SourceProvider interface {
	Stream(ref SourceRef) (StreamInfo, error)
}

// Rate is a frame (or sample) rate expressed as Num/Den per second.
type Rate struct {
	Num int64
	Den int64
}

// Valid reports whether both terms are positive.
func (r Rate) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

// String formats the rate as num/den.
func (r Rate) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

const nsPerSecond = 1_000_000_000

// FramesToNS converts a frame count to nanoseconds, rounded to nearest.
func (r Rate) FramesToNS(frames int) int64 {
	return mulDivRound(int64(frames), r.Den*nsPerSecond, r.Num)
}

// NSToFrames converts nanoseconds to the nearest frame count.
func (r Rate) NSToFrames(ns int64) int {
	return int(mulDivRound(ns, r.Num, r.Den*nsPerSecond))
}

// mulDivRound computes a*b/c rounded half away from zero without overflow.
func mulDivRound(a, b, c int64) int64 {
	n := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	d := big.NewInt(c)
	q, m := new(big.Int).QuoRem(n, d, new(big.Int))
	twice := new(big.Int).Abs(m)
	twice.Lsh(twice, 1)
	if twice.Cmp(new(big.Int).Abs(d)) >= 0 {
		if (n.Sign() < 0) != (d.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q.Int64()
}

// VideoFormat describes the video timeline of a space.
type VideoFormat struct {
	Rate   Rate
	Width  int
	Height int
}

// AudioFormat describes the audio timeline of a space.
type AudioFormat struct {
	SampleRate int
	Channels   int
}

// DefaultVideoFormat is used when a document does not name one.
var DefaultVideoFormat = VideoFormat{Rate: Rate{Num: 25, Den: 1}, Width: 1920, Height: 1080}

// DefaultAudioFormat is used when a document does not name one.
var DefaultAudioFormat = AudioFormat{SampleRate: 48000, Channels: 2}

// FrameRange is an inclusive range of frames on one stream type that a
// renderer must recompute.
type FrameRange struct {
	Type StreamType
	Min  int
	Max  int
}

// IndexRange is a half-open range of positions in a sequence.
type IndexRange struct {
	Start int
	Stop  int
}

// NewID returns a fresh entity ID.
func NewID() string {
	return uuid.NewString()
}

// Field is one optional entry of a patch. Set distinguishes "change to the
// zero value" from "leave alone".
type Field[T any] struct {
	Value T
	Set   bool
}

// Set returns a Field that assigns v.
func Set[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}
