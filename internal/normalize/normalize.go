// Package normalize canonicalizes company names into comparison keys.
//
// The same function is applied to candidate names at index-build time and to
// roster names at match time; the two sides must never diverge.
package normalize

import (
	"strings"
	"unicode"
)

// Normalize converts a raw company name into its comparison key: uppercase,
// characters outside [A-Z0-9 &] replaced by spaces, runs of whitespace
// collapsed to a single space, leading/trailing whitespace trimmed.
//
// Normalize is pure, total, and idempotent. Garbage in yields an empty or
// garbage key out, never an error.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pending := false // a separator is owed before the next kept rune
	for _, r := range raw {
		r = unicode.ToUpper(r)
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '&' {
			if pending && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// FirstToken returns the leading whitespace-delimited token of a normalized
// name ("" for an empty name).
func FirstToken(normalized string) string {
	if i := strings.IndexByte(normalized, ' '); i >= 0 {
		return normalized[:i]
	}
	return normalized
}
