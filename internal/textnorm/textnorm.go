// Package textnorm cleans raw text before segmentation.
//
// Smart punctuation is folded to its ASCII form, whitespace runs collapse
// to single spaces, and characters the synthesis vocabulary cannot render
// are dropped with a warning. Warnings are advisory; normalization never
// fails.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"
)

// punctuation folds typographic characters into the synthesis vocabulary.
var punctuation = map[rune]string{
	'‘': "'",   // left single quote
	'’': "'",   // right single quote / apostrophe
	'“': `"`,   // left double quote
	'”': `"`,   // right double quote
	'–': "-",   // en dash
	'—': "-",   // em dash
	'…': "...", // ellipsis
	' ': " ",   // non-breaking space
}

// Normalize cleans text for synthesis. It returns the cleaned text and any
// warnings raised along the way (unsupported characters, for instance).
// Warnings are surfaced to the caller and never abort synthesis.
func Normalize(text string) (string, []string) {
	var b strings.Builder
	b.Grow(len(text))

	var warnings []string
	dropped := map[rune]bool{}

	for _, r := range text {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteByte(' ')
		case punctuation[r] != "":
			b.WriteString(punctuation[r])
		case supported(r):
			b.WriteRune(r)
		default:
			if !dropped[r] {
				dropped[r] = true
				warnings = append(warnings, fmt.Sprintf("unsupported character %q dropped", r))
			}
		}
	}

	clean := strings.Join(strings.Fields(b.String()), " ")
	return clean, warnings
}

// supported reports whether the synthesis vocabulary can render r. The
// vocabulary is printable ASCII plus basic Latin letters with diacritics.
func supported(r rune) bool {
	if r >= 0x20 && r < 0x7F {
		return true
	}
	return r <= 0x24F && (unicode.IsLetter(r) || unicode.IsSpace(r))
}
