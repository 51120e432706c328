package publication

import "strings"

// Column identifies a physical column in a loaded file.
type Column struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Schema maps each logical field to the physical column that holds it, if any.
// It is resolved once per dataset load.
type Schema struct {
	columns map[Field]Column
}

// ResolveSchema matches headers against the logical field names.
// Matching is case-insensitive and ignores surrounding whitespace.
// The first matching header wins; unrecognized headers are ignored.
func ResolveSchema(headers []string) Schema {
	s := Schema{columns: make(map[Field]Column, len(Fields))}
	for i, h := range headers {
		name := strings.TrimSpace(h)
		for _, f := range Fields {
			if _, taken := s.columns[f]; taken {
				continue
			}
			if strings.EqualFold(name, f.String()) {
				s.columns[f] = Column{Index: i, Name: h}
			}
		}
	}
	return s
}

// Column returns the physical column for f and whether it is present.
func (s Schema) Column(f Field) (Column, bool) {
	c, ok := s.columns[f]
	return c, ok
}

// Has reports whether f was found in the headers.
func (s Schema) Has(f Field) bool {
	_, ok := s.columns[f]
	return ok
}

// Missing returns the logical fields not present in the headers.
func (s Schema) Missing() []Field {
	var missing []Field
	for _, f := range Fields {
		if !s.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Mapping returns logical name -> physical column name for present fields.
func (s Schema) Mapping() map[string]string {
	m := make(map[string]string, len(s.columns))
	for f, c := range s.columns {
		m[f.String()] = c.Name
	}
	return m
}
