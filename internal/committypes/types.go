// Package committypes holds the conventional commit types offered when a
// project declares none of its own.
package committypes

import "cch/internal/scopes"

// Type is a commit type; it shares the name/description shape of a scope.
type Type = scopes.Scope

var defaults = []Type{
	{Name: "feat", Description: "A new feature"},
	{Name: "fix", Description: "A bug fix"},
	{Name: "docs", Description: "Documentation only changes"},
	{Name: "chore", Description: "Other changes that don't modify src or test files"},
	{Name: "style", Description: "Changes that do not affect the meaning of the code"},
	{Name: "refactor", Description: "A code change that neither fixes a bug nor adds a feature"},
	{Name: "build", Description: "Changes that affect the build system or external dependencies"},
	{Name: "ci", Description: "Changes to CI configuration files and scripts"},
	{Name: "perf", Description: "A code change that improves performance"},
	{Name: "revert", Description: "Reverts a previous commit"},
	{Name: "test", Description: "Adding missing tests or correcting existing tests"},
}

// Defaults returns a copy of the built-in types in their canonical order.
func Defaults() []Type {
	return append([]Type(nil), defaults...)
}

// Select returns the configured types when a [types] table was declared
// (even an empty one) and the built-in defaults otherwise.
func Select(configured []Type) []Type {
	if configured != nil {
		return configured
	}
	return Defaults()
}
