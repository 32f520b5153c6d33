// Package nlu turns free-form match utterances into intents and
// structured state hints. All extraction tables are data-driven and
// evaluated in declared order with first-match-wins semantics.
package nlu

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips diacritics and folds case. Idempotent; never fails.
func Normalize(text string) string {
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the
		// raw input so extraction still sees something.
		stripped = text
	}
	return strings.ToLower(stripped)
}
