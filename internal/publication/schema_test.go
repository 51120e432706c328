package publication

import (
	"reflect"
	"testing"
)

func TestResolveSchema(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    map[Field]int
		missing []Field
	}{
		{
			name:    "lowercase headers",
			headers: []string{"title", "authors", "year", "venue"},
			want:    map[Field]int{FieldTitle: 0, FieldAuthors: 1, FieldYear: 2, FieldVenue: 3},
		},
		{
			name:    "mixed case and extra columns",
			headers: []string{"ID", "Title", "AUTHORS", "Year", "doi", "Venue"},
			want:    map[Field]int{FieldTitle: 1, FieldAuthors: 2, FieldYear: 3, FieldVenue: 5},
		},
		{
			name:    "surrounding whitespace",
			headers: []string{" Title ", "Authors"},
			want:    map[Field]int{FieldTitle: 0, FieldAuthors: 1},
			missing: []Field{FieldYear, FieldVenue},
		},
		{
			name:    "first match wins",
			headers: []string{"year", "Year"},
			want:    map[Field]int{FieldYear: 0},
			missing: []Field{FieldTitle, FieldAuthors, FieldVenue},
		},
		{
			name:    "no recognized columns",
			headers: []string{"a", "b"},
			want:    map[Field]int{},
			missing: []Field{FieldTitle, FieldAuthors, FieldYear, FieldVenue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ResolveSchema(tt.headers)
			for _, f := range Fields {
				c, ok := s.Column(f)
				wantIdx, wantOK := tt.want[f]
				if ok != wantOK {
					t.Fatalf("Column(%s) present = %v, want %v", f, ok, wantOK)
				}
				if ok && c.Index != wantIdx {
					t.Errorf("Column(%s).Index = %d, want %d", f, c.Index, wantIdx)
				}
			}
			if got := s.Missing(); !reflect.DeepEqual(got, tt.missing) {
				t.Errorf("Missing() = %v, want %v", got, tt.missing)
			}
		})
	}
}

func TestSchemaMapping(t *testing.T) {
	s := ResolveSchema([]string{"TITLE", "Authors"})
	want := map[string]string{"title": "TITLE", "authors": "Authors"}
	if got := s.Mapping(); !reflect.DeepEqual(got, want) {
		t.Errorf("Mapping() = %v, want %v", got, want)
	}
}

func TestRecordGetSet(t *testing.T) {
	var r Record
	for i, f := range Fields {
		r.Set(f, f.String())
		if got := r.Get(f); got != f.String() {
			t.Errorf("field %d: Get() = %q after Set(%q)", i, got, f.String())
		}
	}
	if got := Field(99).String(); got != "unknown" {
		t.Errorf("Field(99).String() = %q, want unknown", got)
	}
}
