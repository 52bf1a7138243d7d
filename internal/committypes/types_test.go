package committypes

import (
	"reflect"
	"testing"
)

func TestDefaults(t *testing.T) {
	got := Defaults()
	if len(got) != 11 {
		t.Fatalf("len(Defaults()) = %d, want 11", len(got))
	}
	if got[0].Name != "feat" || got[len(got)-1].Name != "test" {
		t.Errorf("unexpected order: first %q, last %q", got[0].Name, got[len(got)-1].Name)
	}
	for _, typ := range got {
		if typ.Description == "" {
			t.Errorf("type %q has no description", typ.Name)
		}
	}

	got[0].Name = "mutated"
	if Defaults()[0].Name != "feat" {
		t.Error("Defaults() should return a copy")
	}
}

func TestSelect(t *testing.T) {
	custom := []Type{{Name: "foo", Description: "bar"}}

	tests := []struct {
		name       string
		configured []Type
		want       []Type
	}{
		{"absent uses defaults", nil, Defaults()},
		{"configured wins", custom, custom},
		{"declared empty stays empty", []Type{}, []Type{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.configured); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}
