// Package slug derives URL slugs from organization names.
package slug

import (
	"regexp"
	"strings"
)

// Runs of whitespace collapse into a single hyphen. Punctuation is left
// untouched; slugs are display identifiers, not guaranteed unique.
var separators = regexp.MustCompile(`\s+`)

// Derive lowercases the name and replaces whitespace runs with hyphens.
// The transformation is deterministic and idempotent.
func Derive(name string) string {
	return separators.ReplaceAllString(strings.ToLower(name), "-")
}
