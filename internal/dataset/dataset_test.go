package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/pubx/internal/publication"
)

const sampleCSV = `ID,Title,Authors,Year,Venue,Notes
1,Deep Learning for Trees,"John Q. Public, Ada King Lovelace",2020,Proceedings of the 2020 International Conference on Machine Learning,first
2,Phylogenetics at Scale,Ada King Lovelace,2019,ACM SIGKDD (2019),
3,A Survey,"Grace Hopper, John Q. Public",2020,Journal of the ACM,"has ""quotes"""
4,Untitled Draft,,n.d.,,
`

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	d, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	return d
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	d := loadSample(t)

	if d.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", d.Len())
	}
	wantCols := []string{"ID", "Title", "Authors", "Year", "Venue", "Notes"}
	if !reflect.DeepEqual(d.Columns(), wantCols) {
		t.Errorf("Columns() = %v, want %v", d.Columns(), wantCols)
	}
	if missing := d.Schema().Missing(); len(missing) != 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}

	want := publication.Record{
		Title:   "Phylogenetics at Scale",
		Authors: "Ada King Lovelace",
		Year:    "2019",
		Venue:   "ACM SIGKDD (2019)",
	}
	if got := d.Record(1); got != want {
		t.Errorf("Record(1) = %+v, want %+v", got, want)
	}
	if got := d.Record(3); got.Authors != "" || got.Year != "n.d." {
		t.Errorf("Record(3) = %+v, want empty authors and year n.d.", got)
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	d, err := ReadCSV(strings.NewReader("name,title\nx,Only Title\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	r := d.Record(0)
	if r.Title != "Only Title" || r.Authors != "" || r.Year != "" || r.Venue != "" {
		t.Errorf("Record(0) = %+v", r)
	}

	// Normalization of absent columns is a no-op
	stats, err := d.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if stats.HasAuthors || stats.HasVenue {
		t.Errorf("Normalize() stats = %+v, want no columns", stats)
	}
}

func TestReadCSV_RepeatedHeaders(t *testing.T) {
	input := "Title,Title,Year,\nA,B,2020,x\n"
	d, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	wantCols := []string{"Title", "Title", "Year", ""}
	if !reflect.DeepEqual(d.Columns(), wantCols) {
		t.Errorf("Columns() = %q, want %q", d.Columns(), wantCols)
	}
	if got := d.Record(0); got.Title != "A" || got.Year != "2020" {
		t.Errorf("Record(0) = %+v, want first Title column", got)
	}
	if c, _ := d.Schema().Column(publication.FieldTitle); c.Index != 0 {
		t.Errorf("title column index = %d, want 0", c.Index)
	}

	// Only the first Title column is searched
	if got := d.Filter(Criteria{Title: "a"}).Indices(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Filter(title=a) = %v, want [0]", got)
	}
	if got := d.Filter(Criteria{Title: "b"}).Indices(); len(got) != 0 {
		t.Errorf("Filter(title=b) = %v, want none", got)
	}

	var buf bytes.Buffer
	if err := d.Write(&buf, d.All(), FormatCSV); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.String() != input {
		t.Errorf("Write() = %q, want %q", buf.String(), input)
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	d, err := ReadCSV(strings.NewReader("Title,Authors,Year,Venue\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if d.Len() != 0 || len(d.Records()) != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
	if len(d.Columns()) != 4 || len(d.Schema().Missing()) != 0 {
		t.Errorf("Columns() = %v, missing %v", d.Columns(), d.Schema().Missing())
	}
	if got := d.Filter(Criteria{Title: "x"}).Len(); got != 0 {
		t.Errorf("Filter() = %d rows, want 0", got)
	}
	if _, err := d.Normalize(); err != nil {
		t.Errorf("Normalize() error = %v", err)
	}
	if err := d.Write(&bytes.Buffer{}, d.All(), FormatCSV); !errors.Is(err, ErrEmptyView) {
		t.Errorf("Write() error = %v, want ErrEmptyView", err)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged rows", "title,year\na,2020,extra\n"},
		{"unterminated quote", "title,year\n\"a,2020\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadCSV() expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "pubs.csv", sampleCSV)
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Source != path {
		t.Errorf("Source = %q, want %q", d.Source, path)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_JSONL(t *testing.T) {
	path := writeFile(t, "pubs.jsonl", `{"Title": "A", "Authors": "John Smith", "Year": 2021}
{"Title": "B", "Venue": "Nature", "Year": null}
`)
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if got := d.Record(0).Year; got != "2021" {
		t.Errorf("Record(0).Year = %q, want 2021", got)
	}
	if got := d.Record(1).Venue; got != "Nature" {
		t.Errorf("Record(1).Venue = %q, want Nature", got)
	}
}

func TestRoundTrip(t *testing.T) {
	d := loadSample(t)

	var buf bytes.Buffer
	if err := d.Write(&buf, d.All(), FormatCSV); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.String() != sampleCSV {
		t.Errorf("round trip mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), sampleCSV)
	}
}

func TestNormalize(t *testing.T) {
	d := loadSample(t)

	stats, err := d.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if stats.AuthorsChanged != 3 || stats.VenuesChanged != 3 {
		t.Errorf("stats = %+v, want 3 authors and 3 venues changed", stats)
	}

	wantAuthors := []string{"J. Q. Public, A. K. Lovelace", "A. K. Lovelace", "G. Hopper, J. Q. Public", ""}
	wantVenues := []string{"MACHINE LEARNING", "ACM SIGKDD", "ACM", ""}
	for i := range wantAuthors {
		r := d.Record(i)
		if r.Authors != wantAuthors[i] {
			t.Errorf("row %d authors = %q, want %q", i, r.Authors, wantAuthors[i])
		}
		if r.Venue != wantVenues[i] {
			t.Errorf("row %d venue = %q, want %q", i, r.Venue, wantVenues[i])
		}
	}

	// Other columns are untouched
	if got := d.Record(0).Title; got != "Deep Learning for Trees" {
		t.Errorf("title changed to %q", got)
	}

	// A second pass changes nothing
	stats, err = d.Normalize()
	if err != nil {
		t.Fatalf("second Normalize() error = %v", err)
	}
	if stats.AuthorsChanged != 0 || stats.VenuesChanged != 0 {
		t.Errorf("second pass stats = %+v, want no changes", stats)
	}

	// The exported table carries the normalized values
	header, rows, err := d.Rows(d.All())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if header[2] != "Authors" || rows[0][2] != wantAuthors[0] {
		t.Errorf("exported authors = %q, want %q", rows[0][2], wantAuthors[0])
	}
}

func TestExport(t *testing.T) {
	d := loadSample(t)
	view := d.Filter(Criteria{Year: "2020"})
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := d.Export(out, view, FormatCSV); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("export has %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if lines[0] != "ID,Title,Authors,Year,Venue,Notes" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,") || !strings.HasPrefix(lines[2], "3,") {
		t.Errorf("unexpected rows:\n%s", data)
	}

	// The exported file reloads to the same rows
	reloaded, err := Load(out)
	if err != nil {
		t.Fatalf("Load(export) error = %v", err)
	}
	if reloaded.Len() != 2 || reloaded.Record(1) != d.Record(2) {
		t.Errorf("reloaded export differs: %+v", reloaded.Records())
	}
}

func TestExport_JSONL(t *testing.T) {
	d := loadSample(t)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := d.Export(out, d.Filter(Criteria{Title: "survey"}), FormatJSONL); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	want := `{"ID":"3","Title":"A Survey","Authors":"Grace Hopper, John Q. Public","Year":"2020","Venue":"Journal of the ACM","Notes":"has \"quotes\""}` + "\n"
	if string(data) != want {
		t.Errorf("export = %s, want %s", data, want)
	}
}

func TestExport_BibTeX(t *testing.T) {
	d := loadSample(t)
	out := filepath.Join(t.TempDir(), "out.bib")

	if err := d.Export(out, d.Filter(Criteria{Year: "2019"}), FormatForPath(out)); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	want := "@article{Lovelace2019,\n" +
		"  author = {Lovelace, Ada King},\n" +
		"  title = {Phylogenetics at Scale},\n" +
		"  journal = {ACM SIGKDD (2019)},\n" +
		"  year = {2019},\n" +
		"}\n"
	if string(data) != want {
		t.Errorf("export = %q, want %q", data, want)
	}

	if _, err := Load(out); err == nil {
		t.Error("Load(.bib) expected error")
	}
}

func TestExport_Errors(t *testing.T) {
	d := loadSample(t)
	dir := t.TempDir()

	err := d.Export(filepath.Join(dir, "empty.csv"), d.Filter(Criteria{Title: "no such title"}), FormatCSV)
	if !errors.Is(err, ErrEmptyView) {
		t.Errorf("Export(empty view) error = %v, want ErrEmptyView", err)
	}

	err = d.Export(filepath.Join(dir, "missing-dir", "out.csv"), d.All(), FormatCSV)
	if err == nil {
		t.Error("Export() expected error for missing directory")
	}

	// No temporary files are left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("directory not empty after failed exports: %v", entries)
	}
}

func TestFilter(t *testing.T) {
	d := loadSample(t)

	tests := []struct {
		name     string
		criteria Criteria
		want     []int
	}{
		{"empty criteria", Criteria{}, []int{0, 1, 2, 3}},
		{"title case-insensitive", Criteria{Title: "DEEP"}, []int{0}},
		{"author substring", Criteria{Authors: "public"}, []int{0, 2}},
		{"year containment", Criteria{Year: "20"}, []int{0, 1, 2}},
		{"year exact", Criteria{Year: "2019"}, []int{1}},
		{"venue", Criteria{Venue: "acm"}, []int{1, 2}},
		{"anded", Criteria{Authors: "lovelace", Year: "2020"}, []int{0}},
		{"literal match", Criteria{Title: "."}, []int{}},
		{"no match", Criteria{Venue: "nature"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Filter(tt.criteria).Indices()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%+v) = %v, want %v", tt.criteria, got, tt.want)
			}
		})
	}
}

func TestFilter_AbsentColumnIgnored(t *testing.T) {
	d, err := ReadCSV(strings.NewReader("title\nAlpha\nBeta\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	got := d.Filter(Criteria{Title: "alpha", Venue: "anything"}).Indices()
	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Filter() = %v, want [0]", got)
	}
}

func TestViewRecords(t *testing.T) {
	d := loadSample(t)
	v := d.Filter(Criteria{Year: "2019"})

	records := d.ViewRecords(v)
	if len(records) != 1 || records[0].Title != "Phylogenetics at Scale" {
		t.Errorf("ViewRecords() = %+v", records)
	}

	header, rows, err := d.Rows(d.Filter(Criteria{Title: "zzz"}))
	if err != nil {
		t.Fatalf("Rows(empty) error = %v", err)
	}
	if len(header) != 6 || len(rows) != 0 {
		t.Errorf("Rows(empty) = %v, %v", header, rows)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", "CSV", "jsonl", "BibTeX"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("ParseFormat(xlsx) expected error")
	}
	if got := FormatForPath("out.JSONL"); got != FormatJSONL {
		t.Errorf("FormatForPath(out.JSONL) = %q", got)
	}
	if got := FormatForPath("refs.bib"); got != FormatBibTeX {
		t.Errorf("FormatForPath(refs.bib) = %q", got)
	}
	if got := FormatForPath("out.txt"); got != FormatCSV {
		t.Errorf("FormatForPath(out.txt) = %q", got)
	}
}
