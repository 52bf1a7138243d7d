package scopes

// Assemble builds the scope list offered to the user.
//
// configured is the project's explicit scope list (nil when there is no
// configuration), index the historical scope index (nil when unavailable) and
// staged the staged files (nil when nothing is staged). The result is nil only
// when both sources are absent.
//
// Configured scopes win over historical ones with the same name. When history
// is present the list is sorted by name; a configured-only list keeps its
// order. If staged files match a historical scope, the entry with that name is
// moved to the front.
func Assemble(configured []Scope, index Index, staged ChangedFiles) []Scope {
	var list []Scope

	switch {
	case configured == nil && index == nil:
		return nil
	case index == nil:
		list = append([]Scope(nil), configured...)
	case configured == nil:
		list = index.Scopes()
	default:
		known := make(map[string]struct{}, len(configured))
		for _, s := range configured {
			known[s.Name] = struct{}{}
		}
		list = make([]Scope, 0, len(configured)+len(index))
		list = append(list, configured...)
		for _, s := range index.Scopes() {
			if _, ok := known[s.Name]; ok {
				continue
			}
			list = append(list, s)
		}
		SortScopes(list)
	}

	if index != nil && staged != nil {
		if matched, ok := FindBestScope(staged, index); ok {
			list = PushToFront(list, matched.Name)
		}
	}
	return list
}

// PushToFront moves the first scope named name to index 0, keeping the
// relative order of the others. The list is returned unchanged when no scope
// has that name.
func PushToFront(list []Scope, name string) []Scope {
	pos := -1
	for i, s := range list {
		if s.Name == name {
			pos = i
			break
		}
	}
	if pos <= 0 {
		return list
	}
	found := list[pos]
	copy(list[1:pos+1], list[:pos])
	list[0] = found
	return list
}
