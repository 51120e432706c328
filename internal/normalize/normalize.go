// Package normalize canonicalizes author and venue strings.
//
// All functions are total: blank input passes through unchanged and nothing
// panics. Applying a normalizer to its own output returns the same string.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/pubx/internal/publication"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Func transforms a single cell value.
type Func func(string) string

var (
	// yearToken matches a standalone 4-digit token embedded in a venue.
	yearToken = regexp.MustCompile(`\b\d{4}\b`)

	// boilerplateWords matches venue words that carry no identity.
	boilerplateWords = regexp.MustCompile(`(?i)\b(Conference|Proceedings|Workshop|Symposium|International|Journal|on|of|the)\b`)

	// venuePunctuation matches characters replaced by a space.
	venuePunctuation = regexp.MustCompile(`[,\-:()]`)
)

// StandardizeAuthor converts a single author name to "I. I. Family" form.
//
// All tokens but the last contribute a one-rune uppercase initial when they
// start with a letter; the last token is kept verbatim as the family name:
//   - "John Q. Public" → "J. Q. Public"
//   - "Madonna"        → "Madonna"
//   - "3rd Jane Doe"   → "J. Doe"
func StandardizeAuthor(name string) string {
	if isBlank(name) {
		return name
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		return parts[0]
	}

	var initials []string
	for _, part := range parts[:len(parts)-1] {
		r, _ := utf8.DecodeRuneInString(part)
		if unicode.IsLetter(r) {
			initials = append(initials, string(unicode.ToUpper(r))+".")
		}
	}

	family := parts[len(parts)-1]
	if len(initials) == 0 {
		return family
	}
	return strings.Join(initials, " ") + " " + family
}

// StandardizeAuthors normalizes a comma-separated author list.
// Each piece is normalized independently and the list is rejoined with ", ".
// A name written "Last, First" is split into two pieces; this is a known
// limitation of comma-separated author fields.
func StandardizeAuthors(field string) string {
	if isBlank(field) {
		return field
	}

	pieces := strings.Split(field, ",")
	for i, p := range pieces {
		pieces[i] = StandardizeAuthor(strings.TrimSpace(p))
	}
	return strings.Join(pieces, ", ")
}

// StandardizeVenue strips years, boilerplate words and punctuation from a
// venue and uppercases what remains:
//   - "Proceedings of the 2021 International Conference on Machine Learning" → "MACHINE LEARNING"
//   - "ACM SIGKDD (2019)" → "ACM SIGKDD"
//
// Years and words are removed before punctuation so that orphaned separators
// are cleaned up by the punctuation pass.
func StandardizeVenue(venue string) string {
	if isBlank(venue) {
		return venue
	}

	v := yearToken.ReplaceAllString(venue, "")
	v = boilerplateWords.ReplaceAllString(v, "")
	v = venuePunctuation.ReplaceAllString(v, " ")
	v = strings.Join(strings.Fields(v), " ")

	return upper(v)
}

// ForField returns the normalizer applied to a logical column.
// Fields without normalization get the identity function.
func ForField(f publication.Field) Func {
	switch f {
	case publication.FieldAuthors:
		return StandardizeAuthors
	case publication.FieldVenue:
		return StandardizeVenue
	default:
		return func(s string) string { return s }
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// upper uses full Unicode case mapping (e.g. "ß" → "SS"). Venues only;
// initials stay a single rune.
// A Caser is stateful, so one is created per call.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}
