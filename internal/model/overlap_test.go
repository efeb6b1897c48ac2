package model

import (
	"slices"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// overlapFixture builds a stack where a < b < c chain up in z, d sits on
// another row and e is audio under a.
func overlapFixture(t *testing.T) (*Space, map[string]Item) {
	t.Helper()
	sp := newSpace(t)
	byID := map[string]Item{
		"a": addClip(t, sp, "a", 0, 10, 0),
		"b": addClip(t, sp, "b", 5, 10, 0),
		"c": addClip(t, sp, "c", 12, 5, 0),
		"d": addClip(t, sp, "d", 0, 3, 5),
	}
	e, err := NewClip(ClipSpec{ID: "e", X: 0, Length: 10, Height: 1, Type: TypeAudio})
	if err != nil {
		t.Fatalf("NewClip: %v", err)
	}
	if err := sp.Append(e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	byID["e"] = e
	return sp, byID
}

func TestFindOverlaps(t *testing.T) {
	t.Parallel()
	sp, byID := overlapFixture(t)
	want := map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {"b"},
		"d": {},
		"e": {},
	}
	for id, w := range want {
		if diff := cmp.Diff(w, ids(sp.FindOverlaps(byID[id]))); diff != "" {
			t.Errorf("FindOverlaps(%s) (-want +got):\n%s", id, diff)
		}
	}
}

func TestFindOverlapsSymmetric(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	// A deterministic scatter of clips on three rows.
	for i := 0; i < 24; i++ {
		addClip(t, sp, "clip"+string(rune('A'+i)), (i*7)%31, 3+(i*5)%9, float64(i%3)*0.6)
	}
	for _, p := range sp.Items() {
		for _, o := range sp.FindOverlaps(p) {
			if !slices.Contains(sp.FindOverlaps(o), p) {
				t.Errorf("%s overlaps %s but not the other way round", p.ID(), o.ID())
			}
		}
	}
}

func TestFindOverlapsRecursive(t *testing.T) {
	t.Parallel()
	sp, byID := overlapFixture(t)
	tests := []struct {
		id       string
		wantUp   []string
		wantDown []string
	}{
		{id: "a", wantUp: []string{"b", "c"}, wantDown: []string{}},
		{id: "b", wantUp: []string{"c"}, wantDown: []string{"a"}},
		{id: "c", wantUp: []string{}, wantDown: []string{"a", "b"}},
		{id: "d", wantUp: []string{}, wantDown: []string{}},
	}
	for _, tt := range tests {
		up, down := sp.FindOverlapsRecursive(byID[tt.id])
		if diff := cmp.Diff(tt.wantUp, ids(up)); diff != "" {
			t.Errorf("up(%s) (-want +got):\n%s", tt.id, diff)
		}
		if diff := cmp.Diff(tt.wantDown, ids(down)); diff != "" {
			t.Errorf("down(%s) (-want +got):\n%s", tt.id, diff)
		}
	}
}

func TestRecursiveSetsNeverMerge(t *testing.T) {
	t.Parallel()
	sp := newSpace(t)
	for i := 0; i < 30; i++ {
		addClip(t, sp, "clip"+string(rune('A'+i)), (i*11)%40, 4+(i*3)%7, float64(i%4)*0.5)
	}
	for _, it := range sp.Items() {
		up, down := sp.FindOverlapsRecursive(it)
		for _, u := range up {
			if u.Z() <= it.Z() {
				t.Errorf("%s: up member %s has z %d <= %d", it.ID(), u.ID(), u.Z(), it.Z())
			}
			if slices.Contains(down, u) {
				t.Errorf("%s: %s is both above and below", it.ID(), u.ID())
			}
		}
		for _, d := range down {
			if d.Z() >= it.Z() {
				t.Errorf("%s: down member %s has z %d >= %d", it.ID(), d.ID(), d.Z(), it.Z())
			}
		}
	}
}

func TestZSortKeyGivesCompositingOrder(t *testing.T) {
	t.Parallel()
	sp, _ := overlapFixture(t)
	items := sp.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return sp.ZSortKey(items[i]).Less(sp.ZSortKey(items[j]))
	})
	if diff := cmp.Diff([]string{"a", "d", "e", "b", "c"}, ids(items)); diff != "" {
		t.Errorf("sorted order (-want +got):\n%s", diff)
	}
	pos := make(map[Item]int, len(items))
	for i, it := range items {
		pos[it] = i
	}
	for _, it := range items {
		for _, o := range sp.FindOverlaps(it) {
			if o.Z() < it.Z() && pos[o] > pos[it] {
				t.Errorf("%s composited after %s which is above it", o.ID(), it.ID())
			}
		}
	}
}

func TestOverlapFollowsMoves(t *testing.T) {
	t.Parallel()
	sp, byID := overlapFixture(t)
	if err := byID["c"].Update(ItemPatch{X: Set(100)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := ids(sp.FindOverlaps(byID["b"])); !cmp.Equal(got, []string{"a"}) {
		t.Errorf("FindOverlaps(b) after move = %v, want [a]", got)
	}
	if err := byID["d"].Update(ItemPatch{Y: Set(0.5)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := ids(sp.FindOverlaps(byID["d"])); !cmp.Equal(got, []string{"a"}) {
		t.Errorf("FindOverlaps(d) after move = %v, want [a]", got)
	}
}
