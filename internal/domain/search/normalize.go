// Package search filters the song catalog by free-text queries.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// apostrophes lists typographic variants folded to a plain ASCII apostrophe.
var apostrophes = map[rune]struct{}{
	'‘': {}, // left single quotation mark
	'’': {}, // right single quotation mark
	'‛': {}, // single high-reversed-9 quotation mark
	'′': {}, // prime
	'‵': {}, // reversed prime
	'ʼ': {}, // modifier letter apostrophe
	'ʹ': {}, // modifier letter prime
	'＇': {}, // fullwidth apostrophe
	'`': {}, // grave accent
	'´': {}, // acute accent
}

// Normalize lowercases s, strips diacritics and folds apostrophe variants.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	s = strings.ToLower(s)

	// Transformers keep state, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	return strings.Map(func(r rune) rune {
		if _, ok := apostrophes[r]; ok {
			return '\''
		}
		return r
	}, s)
}
