// Package render draws a Space as a text timeline. A Renderer subscribes to
// the space's signals: it collects the dirty frame ranges they report and
// drops its cached overlap and depth queries whenever the space changes.
package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/papapumpkin/montage/internal/model"
)

const (
	labelWidth  = 14
	infoWidth   = 30
	minBarWidth = 10
)

// Options configures a Renderer.
type Options struct {
	Width     int  // total line width
	Color     bool // style output with lipgloss
	CacheSize int  // entries per query cache
}

// Stats counts cache lookups since the renderer was created.
type Stats struct {
	Hits, Misses, Purges int
}

// Renderer draws one space. It is not safe for concurrent use.
type Renderer struct {
	sp   *model.Space
	opts Options

	zkeys    *lru.Cache[string, model.ZKey]
	overlaps *lru.Cache[string, []string]
	stats    Stats
	dirty    []model.FrameRange

	disconnect []func()
}

// New returns a renderer attached to sp. Call Close to detach it.
func New(sp *model.Space, opts Options) (*Renderer, error) {
	if opts.CacheSize < 1 {
		opts.CacheSize = 256
	}
	zkeys, err := lru.New[string, model.ZKey](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("render: z key cache: %w", err)
	}
	overlaps, err := lru.New[string, []string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("render: overlap cache: %w", err)
	}
	r := &Renderer{sp: sp, opts: opts, zkeys: zkeys, overlaps: overlaps}
	r.disconnect = []func(){
		sp.ItemAdded.Connect(func(model.Item) { r.purge() }),
		sp.ItemRemoved.Connect(func(model.Item) { r.purge() }),
		sp.ItemUpdated.Connect(func(model.ItemUpdate) { r.purge() }),
		sp.FramesUpdated.Connect(func(fr model.FrameRange) {
			r.dirty = append(r.dirty, fr)
			r.purge()
		}),
	}
	return r, nil
}

// Close disconnects the renderer from the space.
func (r *Renderer) Close() {
	for _, d := range r.disconnect {
		d()
	}
	r.disconnect = nil
}

func (r *Renderer) purge() {
	if r.zkeys.Len() == 0 && r.overlaps.Len() == 0 {
		return
	}
	r.zkeys.Purge()
	r.overlaps.Purge()
	r.stats.Purges++
}

// SetWidth changes the total line width used by Render.
func (r *Renderer) SetWidth(w int) { r.opts.Width = w }

// Stats returns the cache counters.
func (r *Renderer) Stats() Stats { return r.stats }

// ZKey returns the depth sort key of it, cached until the space changes.
func (r *Renderer) ZKey(it model.Item) model.ZKey {
	if k, ok := r.zkeys.Get(it.ID()); ok {
		r.stats.Hits++
		return k
	}
	r.stats.Misses++
	k := r.sp.ZSortKey(it)
	r.zkeys.Add(it.ID(), k)
	return k
}

// Overlaps returns the IDs of the items overlapping it, bottom to top,
// cached until the space changes.
func (r *Renderer) Overlaps(it model.Item) []string {
	if ids, ok := r.overlaps.Get(it.ID()); ok {
		r.stats.Hits++
		return ids
	}
	r.stats.Misses++
	var ids []string
	for _, o := range r.sp.FindOverlaps(it) {
		ids = append(ids, o.ID())
	}
	r.overlaps.Add(it.ID(), ids)
	return ids
}

// Ordered returns the items in drawing order: deepest first by ZSortKey.
func (r *Renderer) Ordered() []model.Item {
	items := r.sp.Items()
	slices.SortStableFunc(items, func(a, b model.Item) int {
		ka, kb := r.ZKey(a), r.ZKey(b)
		switch {
		case ka.Less(kb):
			return -1
		case kb.Less(ka):
			return 1
		}
		return 0
	})
	return items
}

// Dirty returns the frame ranges reported since the last call, merged per
// stream type and sorted.
func (r *Renderer) Dirty() []model.FrameRange {
	out := MergeRanges(r.dirty)
	r.dirty = nil
	return out
}

// MergeRanges merges overlapping or adjacent ranges of the same type.
func MergeRanges(in []model.FrameRange) []model.FrameRange {
	rs := slices.Clone(in)
	slices.SortFunc(rs, func(a, b model.FrameRange) int {
		if a.Type != b.Type {
			return strings.Compare(string(a.Type), string(b.Type))
		}
		return a.Min - b.Min
	})
	var out []model.FrameRange
	for _, fr := range rs {
		if n := len(out); n > 0 && out[n-1].Type == fr.Type && fr.Min <= out[n-1].Max+1 {
			out[n-1].Max = max(out[n-1].Max, fr.Max)
			continue
		}
		out = append(out, fr)
	}
	return out
}

// scale maps nanoseconds onto bar columns.
type scale struct {
	start, span int64
	cols        int
}

func (s scale) col(ns int64) int {
	if s.span <= 0 {
		return 0
	}
	c := int((ns - s.start) * int64(s.cols) / s.span)
	return min(max(c, 0), s.cols)
}

func (r *Renderer) scaleFor(items []model.Item, cols int) scale {
	if len(items) == 0 {
		return scale{cols: cols}
	}
	lo, hi := int64(0), int64(0)
	for i, it := range items {
		rate := r.sp.Rate(it.Type())
		s, e := rate.FramesToNS(it.X()), rate.FramesToNS(it.End())
		if i == 0 || s < lo {
			lo = s
		}
		if i == 0 || e > hi {
			hi = e
		}
	}
	return scale{start: min(lo, 0), span: hi - min(lo, 0), cols: cols}
}

// Render draws the whole space. The item with ID selected, if any, is
// highlighted.
func (r *Renderer) Render(selected string) string {
	barWidth := max(r.opts.Width-labelWidth-infoWidth-2, minBarWidth)
	items := r.Ordered()
	sc := r.scaleFor(items, barWidth)

	var b strings.Builder
	v, a := r.sp.VideoFormat(), r.sp.AudioFormat()
	b.WriteString(r.paint(styleHeader, fmt.Sprintf("video %s %dx%d  audio %dHz/%dch  items %d",
		v.Rate, v.Width, v.Height, a.SampleRate, a.Channels, len(items))))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", labelWidth+2))
	b.WriteString(r.paint(styleMuted, ruler(barWidth)))
	b.WriteByte('\n')

	for _, it := range items {
		b.WriteString(r.row(it, sc, it.ID() == selected))
		b.WriteByte('\n')
		if seq, ok := it.(*model.Sequence); ok && seq.Expanded() {
			for _, si := range seq.Items() {
				b.WriteString(r.childRow(seq, si, sc, si.ID() == selected))
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

func ruler(cols int) string {
	var b strings.Builder
	for i := range cols {
		if i%10 == 0 {
			b.WriteByte('|')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// fit pads or truncates s to w columns.
func fit(s string, w int) string {
	rs := []rune(s)
	if len(rs) > w {
		return string(rs[:w-1]) + "~"
	}
	return s + strings.Repeat(" ", w-len(rs))
}

func (r *Renderer) row(it model.Item, sc scale, selected bool) string {
	rate := r.sp.Rate(it.Type())
	from, to := sc.col(rate.FramesToNS(it.X())), sc.col(rate.FramesToNS(it.End()))
	to = max(to, from+1)

	var bar string
	switch v := it.(type) {
	case *model.Sequence:
		bar = r.sequenceBar(v, sc, from, to)
	default:
		bar = strings.Repeat(glyphClip, to-from)
	}

	icon := iconClip
	if it.Kind() == model.KindSequence {
		icon = iconSequence
	}
	label := fit(icon+" "+it.ID(), labelWidth)
	info := fmt.Sprintf("x=%d len=%d y=%g z=%d", it.X(), it.Length(), it.Y(), it.Z())
	if n := len(r.Overlaps(it)); n > 0 {
		info += fmt.Sprintf(" %s%d", iconOverlap, n)
	}

	style := styleVideo
	if it.Type() == model.TypeAudio {
		style = styleAudio
	}
	if it.InMotion() {
		style = styleMotion
	}
	line := label + " " + strings.Repeat(" ", from) + r.paint(style, bar) +
		strings.Repeat(" ", max(sc.cols-to, 0)) + " " + r.paint(styleMuted, info)
	if selected {
		return r.paint(styleSelected, selectionIndicator) + line
	}
	return " " + line
}

// sequenceBar draws each item of seq with alternating glyphs and marks
// transitions where neighbours overlap.
func (r *Renderer) sequenceBar(seq *model.Sequence, sc scale, from, to int) string {
	cells := []rune(strings.Repeat(" ", to-from))
	rate := r.sp.Rate(seq.Type())
	abs := func(rel int) int { return sc.col(rate.FramesToNS(seq.X()+rel)) - from }
	for i, si := range seq.Items() {
		g := glyphEven
		if i%2 == 1 {
			g = glyphOdd
		}
		for c := max(abs(si.X()), 0); c < min(max(abs(si.End()), abs(si.X())+1), len(cells)); c++ {
			if cells[c] != ' ' {
				cells[c] = glyphTransition
				continue
			}
			cells[c] = g
		}
	}
	return string(cells)
}

func (r *Renderer) childRow(seq *model.Sequence, si *model.SequenceItem, sc scale, selected bool) string {
	rate := r.sp.Rate(seq.Type())
	from := sc.col(rate.FramesToNS(seq.X() + si.X()))
	to := max(sc.col(rate.FramesToNS(seq.X()+si.End())), from+1)
	label := fit("  "+si.ID(), labelWidth)
	info := fmt.Sprintf("@%d len=%d t=%d", si.X(), si.Length(), si.TransitionLength())
	style := styleChild
	if si.InMotion() {
		style = styleMotion
	}
	line := label + " " + strings.Repeat(" ", from) + r.paint(style, strings.Repeat(glyphChild, to-from)) +
		strings.Repeat(" ", max(sc.cols-to, 0)) + " " + r.paint(styleMuted, info)
	if selected {
		return r.paint(styleSelected, selectionIndicator) + line
	}
	return " " + line
}

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if !r.opts.Color {
		return text
	}
	return s.Render(text)
}
