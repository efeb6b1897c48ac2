package model

import "testing"

func TestRateConversion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rate   Rate
		frames int
		ns     int64
	}{
		{rate: Rate{Num: 25, Den: 1}, frames: 25, ns: 1_000_000_000},
		{rate: Rate{Num: 30000, Den: 1001}, frames: 30, ns: 1_001_000_000},
		{rate: Rate{Num: 48000, Den: 1}, frames: 1, ns: 20_833},
		{rate: Rate{Num: 25, Den: 1}, frames: -5, ns: -200_000_000},
	}
	for _, tt := range tests {
		if got := tt.rate.FramesToNS(tt.frames); got != tt.ns {
			t.Errorf("%s FramesToNS(%d) = %d, want %d", tt.rate, tt.frames, got, tt.ns)
		}
		if got := tt.rate.NSToFrames(tt.ns); got != tt.frames {
			t.Errorf("%s NSToFrames(%d) = %d, want %d", tt.rate, tt.ns, got, tt.frames)
		}
	}
}

func TestNewClipRejectsInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		spec ClipSpec
	}{
		{name: "zero length", spec: ClipSpec{Length: 0, Type: TypeVideo}},
		{name: "negative height", spec: ClipSpec{Length: 1, Height: -1, Type: TypeVideo}},
		{name: "no type", spec: ClipSpec{Length: 1}},
		{name: "self anchor", spec: ClipSpec{ID: "x", Length: 1, Type: TypeVideo, Anchor: &Anchor{TargetID: "x"}}},
	}
	for _, tt := range tests {
		if _, err := NewClip(tt.spec); err == nil {
			t.Errorf("%s: NewClip succeeded", tt.name)
		}
	}
}
