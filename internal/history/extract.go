package history

import (
	"regexp"
	"strings"
)

// scopePattern matches the "(scope):" or "(scope)!:" part of a conventional
// commit summary. Letters and digits of any script, combining marks,
// underscores, spaces and dashes are allowed in a scope.
var scopePattern = regexp.MustCompile(`\(([\p{L}\p{N}\p{M}_ -]+)\)!?:`)

// Summary returns the first line of a commit message.
func Summary(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSuffix(message, "\r")
}

// ExtractScope returns the scope declared in a commit message summary.
// The first match wins, so a later parenthesised token is ignored.
// Surrounding spaces are trimmed and an all-blank scope is not a scope.
func ExtractScope(message string) (string, bool) {
	m := scopePattern.FindStringSubmatch(Summary(message))
	if m == nil {
		return "", false
	}
	scope := strings.TrimSpace(m[1])
	if scope == "" {
		return "", false
	}
	return scope, true
}
