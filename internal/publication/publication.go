// Package publication defines the core domain types for publication datasets.
package publication

// Record represents one publication row.
// Absent values are empty strings. Year is kept as given, never coerced.
type Record struct {
	Title   string `json:"title"`
	Authors string `json:"authors"` // Comma-separated display names
	Year    string `json:"year"`
	Venue   string `json:"venue"` // Journal, conference, or publisher
}

// Field identifies one of the recognized logical columns.
type Field int

const (
	FieldTitle Field = iota
	FieldAuthors
	FieldYear
	FieldVenue
)

// Fields lists the recognized logical columns in display order.
var Fields = []Field{FieldTitle, FieldAuthors, FieldYear, FieldVenue}

// String returns the logical column name.
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldAuthors:
		return "authors"
	case FieldYear:
		return "year"
	case FieldVenue:
		return "venue"
	default:
		return "unknown"
	}
}

// Get returns the value of field f.
func (r Record) Get(f Field) string {
	switch f {
	case FieldTitle:
		return r.Title
	case FieldAuthors:
		return r.Authors
	case FieldYear:
		return r.Year
	case FieldVenue:
		return r.Venue
	default:
		return ""
	}
}

// Set assigns value to field f.
func (r *Record) Set(f Field, value string) {
	switch f {
	case FieldTitle:
		r.Title = value
	case FieldAuthors:
		r.Authors = value
	case FieldYear:
		r.Year = value
	case FieldVenue:
		r.Venue = value
	}
}
