// Package export renders publication records in bibliography formats.
package export

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/matsen/pubx/internal/publication"
)

// ToBibTeX converts a record to a BibTeX entry with the given citation key.
// Empty fields are omitted; the title is always written.
func ToBibTeX(key string, r publication.Record) string {
	entryType := determineEntryType(r.Venue)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, key))

	// Authors
	if authors := formatAuthors(r.Authors); authors != "" {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", escapeLatex(authors)))
	}

	// Title
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(r.Title)))

	// Venue
	if venue := strings.TrimSpace(r.Venue); venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(venue)))
	}

	// Year is written as given
	if year := strings.TrimSpace(r.Year); year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", escapeLatex(year)))
	}

	b.WriteString("}\n")

	return b.String()
}

// WriteBibTeX writes one entry per record, separated by blank lines.
// Citation keys come from CitationKeys.
func WriteBibTeX(w io.Writer, records []publication.Record) error {
	keys := CitationKeys(records)
	for i, r := range records {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ToBibTeX(keys[i], r)); err != nil {
			return fmt.Errorf("writing entry %s: %w", keys[i], err)
		}
	}
	return nil
}

// CitationKeys derives a unique key per record: the first author's family
// name followed by the year ("Lovelace2020"). Repeats get a letter suffix
// ("Lovelace2020b"); records without an author use "anon". Keys never repeat.
func CitationKeys(records []publication.Record) []string {
	keys := make([]string, len(records))
	seen := make(map[string]int) // uses per base
	used := make(map[string]bool)
	for i, r := range records {
		base := keyPart(firstFamilyName(r.Authors))
		if base == "" {
			base = "anon"
		}
		base += keyPart(r.Year)

		n := seen[base] + 1
		key := base
		if n > 1 {
			key += suffix(n)
		}
		// A year such as "2020b" can produce a base equal to a suffixed key
		for used[key] {
			n++
			key = base + suffix(n)
		}
		seen[base] = n
		used[key] = true
		keys[i] = key
	}
	return keys
}

// suffix returns b, c, ..., z, then numbers for the nth use of a key.
func suffix(n int) string {
	if n <= 26 {
		return string(rune('a' + n - 1))
	}
	return fmt.Sprintf("-%d", n)
}

// keyPart keeps the letters and digits of s.
func keyPart(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func firstFamilyName(authors string) string {
	first, _, _ := strings.Cut(authors, ",")
	tokens := strings.Fields(first)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// determineEntryType returns the BibTeX entry type for a venue.
func determineEntryType(venue string) string {
	venue = strings.ToLower(venue)

	// Preprints
	if strings.Contains(venue, "arxiv") ||
		strings.Contains(venue, "biorxiv") ||
		strings.Contains(venue, "medrxiv") {
		return "article"
	}

	// Conference proceedings
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	// Default to article
	return "article"
}

// formatAuthors converts "First Last, First Last" to BibTeX style:
// "Last, First and Last, First". The last word of each name is the family name.
func formatAuthors(authors string) string {
	var formatted []string
	for _, name := range strings.Split(authors, ",") {
		tokens := strings.Fields(name)
		switch len(tokens) {
		case 0:
			continue
		case 1:
			formatted = append(formatted, tokens[0])
		default:
			last := tokens[len(tokens)-1]
			given := strings.Join(tokens[:len(tokens)-1], " ")
			formatted = append(formatted, fmt.Sprintf("%s, %s", last, given))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	return latexReplacer.Replace(s)
}

var latexReplacer = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)
