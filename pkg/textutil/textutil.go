// Package textutil provides accent-insensitive text matching for catalog
// search. Comparisons decompose the input (NFD), strip combining marks and
// lowercase the result, so "Café" matches "cafe".
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns text lowercased with diacritics removed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// transformers carry state and are not safe for concurrent reuse
	folded, _, err := transform.String(transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), text)
	if err != nil {
		// Fall back to plain lowercasing on malformed input.
		return strings.ToLower(text)
	}
	return strings.ToLower(folded)
}

// ContainsFold reports whether text contains term, ignoring case and accents.
func ContainsFold(text, term string) bool {
	return strings.Contains(Normalize(text), Normalize(term))
}
