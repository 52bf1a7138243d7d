// Package scopes holds the scope data model and the pure parts of scope
// inference: matching staged files against a scope index and assembling the
// final scope list.
package scopes

import (
	"encoding/json"
	"sort"
)

// Scope is a conventional commit scope label.
type Scope struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Equal reports whether both fields match.
func (s Scope) Equal(other Scope) bool {
	return s.Name == other.Name && s.Description == other.Description
}

// String renders the scope the way the human output prints it.
func (s Scope) String() string {
	return s.Name + ": " + s.Description
}

// Less orders by name, then description.
func (s Scope) Less(other Scope) bool {
	if s.Name != other.Name {
		return s.Name < other.Name
	}
	return s.Description < other.Description
}

// SortScopes sorts in place by name, then description.
func SortScopes(list []Scope) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Less(list[j])
	})
}

// ChangedFiles is an unordered set of repo-relative file paths.
type ChangedFiles map[string]struct{}

// NewChangedFiles builds a set from the given paths.
func NewChangedFiles(paths ...string) ChangedFiles {
	files := make(ChangedFiles, len(paths))
	for _, p := range paths {
		files[p] = struct{}{}
	}
	return files
}

// Add inserts a path.
func (f ChangedFiles) Add(path string) {
	f[path] = struct{}{}
}

// Contains reports whether path is in the set.
func (f ChangedFiles) Contains(path string) bool {
	_, ok := f[path]
	return ok
}

// Union adds every path of other into f.
func (f ChangedFiles) Union(other ChangedFiles) {
	for p := range other {
		f[p] = struct{}{}
	}
}

// Overlap returns |f ∩ other|.
func (f ChangedFiles) Overlap(other ChangedFiles) int {
	small, large := f, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for p := range small {
		if _, ok := large[p]; ok {
			n++
		}
	}
	return n
}

// Equal reports set equality.
func (f ChangedFiles) Equal(other ChangedFiles) bool {
	if len(f) != len(other) {
		return false
	}
	return f.Overlap(other) == len(f)
}

// Sorted returns the paths in lexical order.
func (f ChangedFiles) Sorted() []string {
	out := make([]string, 0, len(f))
	for p := range f {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (f ChangedFiles) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Sorted())
}

// UnmarshalJSON decodes a JSON array into the set.
func (f *ChangedFiles) UnmarshalJSON(data []byte) error {
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return err
	}
	*f = NewChangedFiles(paths...)
	return nil
}

// Index maps a scope name to the union of files changed under it.
// A nil Index means no index is available.
type Index map[string]ChangedFiles

// Add unions files into the entry for name, creating it when missing.
// An empty files set still creates the entry.
func (idx Index) Add(name string, files ChangedFiles) {
	existing, ok := idx[name]
	if !ok {
		existing = make(ChangedFiles, len(files))
		idx[name] = existing
	}
	existing.Union(files)
}

// Names returns the scope names sorted.
func (idx Index) Names() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scopes returns one Scope per entry, sorted by name. Historical scopes carry
// no description.
func (idx Index) Scopes() []Scope {
	names := idx.Names()
	out := make([]Scope, len(names))
	for i, name := range names {
		out[i] = Scope{Name: name}
	}
	return out
}

// FileCount returns the number of distinct files across all entries.
func (idx Index) FileCount() int {
	all := make(ChangedFiles)
	for _, files := range idx {
		all.Union(files)
	}
	return len(all)
}
