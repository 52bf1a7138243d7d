package scopes

import (
	"testing"
)

func stagedFooBar() ChangedFiles {
	return NewChangedFiles("foo", "bar")
}

func TestFindBestScope(t *testing.T) {
	tests := []struct {
		name     string
		staged   ChangedFiles
		index    Index
		want     string
		wantNone bool
	}{
		{
			name:   "exact match beats distraction",
			staged: stagedFooBar(),
			index: Index{
				"needle": NewChangedFiles("foo", "bar"),
				"cruft":  NewChangedFiles("baz"),
			},
			want: "needle",
		},
		{
			name:   "disjoint distraction is ignored",
			staged: stagedFooBar(),
			index: Index{
				"needle": NewChangedFiles("foo", "bar"),
				"cruft":  NewChangedFiles("qux"),
			},
			want: "needle",
		},
		{
			name:   "tie goes to smaller name",
			staged: stagedFooBar(),
			index: Index{
				"needle":       NewChangedFiles("foo", "bar"),
				"other_needle": NewChangedFiles("foo", "bar"),
			},
			want: "needle",
		},
		{
			name:   "tie goes to smaller name regardless of position",
			staged: stagedFooBar(),
			index: Index{
				"z_needle": NewChangedFiles("foo", "bar"),
				"needle":   NewChangedFiles("foo", "bar"),
				"cruft":    NewChangedFiles("baz"),
			},
			want: "needle",
		},
		{
			name:   "staged is subset of scope",
			staged: stagedFooBar(),
			index: Index{
				"needle": NewChangedFiles("foo", "bar", "qux"),
				"cruft":  NewChangedFiles("baz"),
			},
			want: "needle",
		},
		{
			name:   "staged is superset of scope",
			staged: stagedFooBar(),
			index: Index{
				"needle": NewChangedFiles("foo"),
				"cruft":  NewChangedFiles("baz"),
			},
			want: "needle",
		},
		{
			name:   "partial overlap",
			staged: stagedFooBar(),
			index: Index{
				"needle": NewChangedFiles("foo", "baz"),
				"cruft":  NewChangedFiles("baz"),
			},
			want: "needle",
		},
		{
			name:   "larger overlap wins over smaller name",
			staged: NewChangedFiles("a", "b", "c"),
			index: Index{
				"alpha": NewChangedFiles("a"),
				"omega": NewChangedFiles("a", "b"),
			},
			want: "omega",
		},
		{
			name:   "no overlap anywhere",
			staged: stagedFooBar(),
			index: Index{
				"needle": NewChangedFiles("qux"),
				"cruft":  NewChangedFiles("qux"),
			},
			wantNone: true,
		},
		{
			name:     "empty index",
			staged:   stagedFooBar(),
			index:    Index{},
			wantNone: true,
		},
		{
			name:     "nil index",
			staged:   stagedFooBar(),
			wantNone: true,
		},
		{
			name:     "nothing staged",
			index:    Index{"needle": NewChangedFiles("foo")},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindBestScope(tt.staged, tt.index)
			if tt.wantNone {
				if ok {
					t.Errorf("FindBestScope() = %v, want no match", got)
				}
				return
			}
			if !ok {
				t.Fatalf("FindBestScope() found nothing, want %q", tt.want)
			}
			if got.Name != tt.want {
				t.Errorf("FindBestScope() = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestFindBestScopeIsOrderIndependent(t *testing.T) {
	staged := NewChangedFiles("a", "b")
	names := []string{"delta", "bravo", "charlie", "alpha", "echo"}

	// Build the same index many times with different insertion orders; map
	// iteration order is randomized by the runtime on top of that.
	for shift := 0; shift < len(names); shift++ {
		idx := Index{}
		for i := range names {
			name := names[(i+shift)%len(names)]
			idx.Add(name, NewChangedFiles("a", "b"))
		}
		for run := 0; run < 20; run++ {
			got, ok := FindBestScope(staged, idx)
			if !ok || got.Name != "alpha" {
				t.Fatalf("shift %d run %d: FindBestScope() = %v, %v, want alpha", shift, run, got, ok)
			}
		}
	}
}

func TestFindBestScopeRoundTrip(t *testing.T) {
	idx := Index{
		"parser": NewChangedFiles("parse.go", "lex.go"),
		"cli":    NewChangedFiles("main.go", "flags.go"),
		"docs":   NewChangedFiles("README.md"),
	}
	for name, files := range idx {
		got, ok := FindBestScope(files, idx)
		if !ok || got.Name != name {
			t.Errorf("FindBestScope(files of %q) = %v, %v", name, got, ok)
		}
	}
}

func TestRank(t *testing.T) {
	staged := NewChangedFiles("a", "b", "c")
	idx := Index{
		"one":   NewChangedFiles("a"),
		"two":   NewChangedFiles("a", "b"),
		"also2": NewChangedFiles("b", "c"),
		"none":  NewChangedFiles("z"),
	}

	got := Rank(staged, idx)
	want := []Match{
		{Scope: Scope{Name: "also2"}, Overlap: 2},
		{Scope: Scope{Name: "two"}, Overlap: 2},
		{Scope: Scope{Name: "one"}, Overlap: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("Rank() returned %d matches, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Rank()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	best, _ := FindBestScope(staged, idx)
	if best != got[0].Scope {
		t.Errorf("FindBestScope() = %v, Rank()[0] = %v", best, got[0].Scope)
	}

	if Rank(nil, idx) != nil {
		t.Error("Rank() with nothing staged should be nil")
	}
}
