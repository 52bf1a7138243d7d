package scopes

import "sort"

// Match is a scope together with the number of staged files it shares.
type Match struct {
	Scope   Scope `json:"scope" yaml:"scope"`
	Overlap int   `json:"overlap" yaml:"overlap"`
}

// Rank scores every index entry against the staged files. Entries without
// overlap are dropped. The result is ordered by overlap descending, then by
// scope name ascending, so the first element is the best match.
func Rank(staged ChangedFiles, index Index) []Match {
	if len(staged) == 0 || len(index) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(index))
	for name, files := range index {
		overlap := staged.Overlap(files)
		if overlap == 0 {
			continue
		}
		matches = append(matches, Match{Scope: Scope{Name: name}, Overlap: overlap})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Overlap != matches[j].Overlap {
			return matches[i].Overlap > matches[j].Overlap
		}
		return matches[i].Scope.Name < matches[j].Scope.Name
	})
	return matches
}

// FindBestScope returns the scope whose historical files overlap the staged
// files the most. Ties go to the lexicographically smallest name. The second
// result is false when nothing overlaps, including when either input is empty.
func FindBestScope(staged ChangedFiles, index Index) (Scope, bool) {
	var (
		best       string
		maxOverlap int
	)
	for name, files := range index {
		overlap := staged.Overlap(files)
		switch {
		case overlap == 0:
			continue
		case overlap > maxOverlap:
			maxOverlap = overlap
			best = name
		case overlap == maxOverlap && name < best:
			best = name
		}
	}
	if maxOverlap == 0 {
		return Scope{}, false
	}
	return Scope{Name: best}, true
}
