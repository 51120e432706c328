package dataset

import (
	"strings"

	"github.com/matsen/pubx/internal/publication"
	"golang.org/x/text/cases"
)

// Criteria holds the four substring predicates of a filter.
// An empty predicate matches everything. Non-empty predicates are ANDed.
//
// Title, Authors and Venue match case-insensitively; Year is a plain,
// case-sensitive containment check on the year string. Matching is literal.
type Criteria struct {
	Title   string `json:"title,omitempty"`
	Authors string `json:"authors,omitempty"`
	Year    string `json:"year,omitempty"`
	Venue   string `json:"venue,omitempty"`
}

// IsEmpty reports whether no predicate is set.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// matcher is a Criteria compiled against a schema.
type matcher struct {
	fold   cases.Caser
	checks []check
}

type check struct {
	field  publication.Field
	needle string
	fold   bool
}

// compile drops empty predicates and predicates on columns the schema lacks.
func (c Criteria) compile(schema publication.Schema) *matcher {
	m := &matcher{fold: cases.Fold()}
	add := func(f publication.Field, needle string, fold bool) {
		if needle == "" || !schema.Has(f) {
			return
		}
		if fold {
			needle = m.fold.String(needle)
		}
		m.checks = append(m.checks, check{field: f, needle: needle, fold: fold})
	}
	add(publication.FieldTitle, c.Title, true)
	add(publication.FieldAuthors, c.Authors, true)
	add(publication.FieldYear, c.Year, false)
	add(publication.FieldVenue, c.Venue, true)
	return m
}

func (m *matcher) matches(r publication.Record) bool {
	for _, c := range m.checks {
		value := r.Get(c.field)
		if value == "" {
			return false
		}
		if c.fold {
			value = m.fold.String(value)
		}
		if !strings.Contains(value, c.needle) {
			return false
		}
	}
	return true
}

// Filter returns a view of the rows matching c, in dataset order.
// It always filters the full dataset, never a previous view.
func (d *Dataset) Filter(c Criteria) View {
	m := c.compile(d.schema)
	rows := make([]int, 0, d.Len())
	for i, r := range d.records {
		if m.matches(r) {
			rows = append(rows, i)
		}
	}
	return View{rows: rows}
}
