// Package dataset loads, normalizes, filters and exports publication tables.
//
// A Dataset keeps every column of the source file so that an export
// reproduces the original column set. The recognized publication fields are
// located once, at load time, through a publication.Schema.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/matsen/pubx/internal/export"
	"github.com/matsen/pubx/internal/normalize"
	"github.com/matsen/pubx/internal/publication"
	"github.com/matsen/pubx/internal/storage"
)

// Format identifies a flat-file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSONL  Format = "jsonl"
	FormatBibTeX Format = "bibtex" // export only
)

// ValidFormats lists the supported file formats.
var ValidFormats = []Format{FormatCSV, FormatJSONL, FormatBibTeX}

// ErrEmptyView is returned when an operation needs at least one row.
var ErrEmptyView = errors.New("no rows in the current view")

// Dataset is an in-memory publication table.
type Dataset struct {
	Source  string              // Path the dataset was loaded from, if any
	header  []string            // Column names as read, possibly repeated or blank
	frame   dataframe.DataFrame // Columns keyed by position, see frameName
	schema  publication.Schema
	records []publication.Record
}

// NormalizeStats reports what a normalization pass changed.
type NormalizeStats struct {
	AuthorsChanged int  `json:"authors_changed"`
	VenuesChanged  int  `json:"venues_changed"`
	HasAuthors     bool `json:"has_authors"`
	HasVenue       bool `json:"has_venue"`
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	for _, f := range ValidFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q (valid: %v)", s, ValidFormats)
}

// FormatForPath picks a format from a file extension, defaulting to CSV.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".bib":
		return FormatBibTeX
	default:
		return FormatCSV
	}
}

// frameName is the DataFrame name of column i. File headers may repeat or
// be blank, which the frame would rename, so the frame is keyed by position
// and the file's own names are kept in Dataset.header.
func frameName(i int) string {
	return "c" + strconv.Itoa(i)
}

// Load reads a dataset from a CSV or JSONL file, chosen by extension.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var d *Dataset
	switch FormatForPath(path) {
	case FormatJSONL:
		d, err = ReadJSONL(f)
	case FormatBibTeX:
		err = errors.New("BibTeX files can be exported but not loaded")
	default:
		d, err = ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	d.Source = path
	return d, nil
}

// ReadCSV reads a comma-separated table with a header row.
// A header without data rows is an empty dataset.
func ReadCSV(r io.Reader) (*Dataset, error) {
	all, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, errors.New("parsing CSV: no header row")
	}
	return FromRows(all[0], all[1:])
}

// ReadJSONL reads one JSON object per line.
func ReadJSONL(r io.Reader) (*Dataset, error) {
	header, rows, err := storage.ReadJSONL(r)
	if err != nil {
		return nil, err
	}
	return FromRows(header, rows)
}

// FromRows builds a dataset from a header and string rows.
// Every cell is kept as an uninterpreted string.
func FromRows(header []string, rows [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, errors.New("no columns")
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), len(header))
		}
	}

	cols := make([]series.Series, len(header))
	for j := range header {
		values := make([]string, len(rows))
		for i, row := range rows {
			values[i] = row[j]
		}
		cols[j] = series.New(values, series.String, frameName(j))
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("building table: %w", df.Err)
	}

	d := &Dataset{
		header: append([]string(nil), header...),
		frame:  df,
		schema: publication.ResolveSchema(header),
	}
	d.records = d.extractRecords()
	return d, nil
}

// extractRecords reads the recognized columns into records.
// Missing columns and NaN cells become empty values.
func (d *Dataset) extractRecords() []publication.Record {
	records := make([]publication.Record, d.frame.Nrow())
	for _, f := range publication.Fields {
		c, ok := d.schema.Column(f)
		if !ok {
			continue
		}
		col := d.frame.Col(frameName(c.Index))
		for i := range records {
			e := col.Elem(i)
			if e.IsNA() {
				continue
			}
			records[i].Set(f, e.String())
		}
	}
	return records
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.frame.Nrow()
}

// Columns returns the physical column names in file order, as read.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.header...)
}

// Schema returns the resolved logical-to-physical column mapping.
func (d *Dataset) Schema() publication.Schema {
	return d.schema
}

// Records returns all rows as publication records.
// The returned slice is shared; callers must not modify it.
func (d *Dataset) Records() []publication.Record {
	return d.records
}

// Record returns row i.
func (d *Dataset) Record(i int) publication.Record {
	return d.records[i]
}

// Normalize rewrites the authors and venue columns in place.
// Columns that are absent are skipped; NaN cells are left as they are.
func (d *Dataset) Normalize() (NormalizeStats, error) {
	stats := NormalizeStats{
		HasAuthors: d.schema.Has(publication.FieldAuthors),
		HasVenue:   d.schema.Has(publication.FieldVenue),
	}

	for _, f := range []publication.Field{publication.FieldAuthors, publication.FieldVenue} {
		c, ok := d.schema.Column(f)
		if !ok {
			continue
		}

		fn := normalize.ForField(f)
		col := d.frame.Col(frameName(c.Index))
		values := make([]string, col.Len())
		changed := 0
		for i := range values {
			e := col.Elem(i)
			values[i] = e.String()
			if e.IsNA() {
				continue
			}
			if v := fn(values[i]); v != values[i] {
				values[i] = v
				changed++
			}
		}

		mutated := d.frame.Mutate(series.New(values, series.String, frameName(c.Index)))
		if mutated.Err != nil {
			return stats, fmt.Errorf("updating %s column: %w", f, mutated.Err)
		}
		d.frame = mutated

		if f == publication.FieldAuthors {
			stats.AuthorsChanged = changed
		} else {
			stats.VenuesChanged = changed
		}
	}

	d.records = d.extractRecords()
	return stats, nil
}

// Rows returns the header and the raw cells of the rows in v, in view order.
func (d *Dataset) Rows(v View) ([]string, [][]string, error) {
	if v.Len() == 0 {
		return d.Columns(), [][]string{}, nil
	}
	sub := d.frame.Subset(v.rows)
	if sub.Err != nil {
		return nil, nil, fmt.Errorf("selecting rows: %w", sub.Err)
	}
	return d.Columns(), sub.Records()[1:], nil
}

// Write writes the rows in v with a header row, in the given format.
func (d *Dataset) Write(w io.Writer, v View, format Format) error {
	if v.Len() == 0 {
		return ErrEmptyView
	}

	switch format {
	case FormatJSONL:
		header, rows, err := d.Rows(v)
		if err != nil {
			return err
		}
		return storage.WriteJSONL(w, header, rows)
	case FormatBibTeX:
		return export.WriteBibTeX(w, d.ViewRecords(v))
	case FormatCSV, "":
		header, rows, err := d.Rows(v)
		if err != nil {
			return err
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		return cw.WriteAll(rows)
	default:
		return fmt.Errorf("invalid format %q", format)
	}
}

// Export writes the rows in v to path.
// The file is written to a temporary sibling and renamed into place, so a
// failed export leaves any existing file untouched.
func (d *Dataset) Export(path string, v View, format Format) (err error) {
	if v.Len() == 0 {
		return ErrEmptyView
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("setting export permissions: %w", err)
	}
	if err := d.Write(tmp, v, format); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving export into place: %w", err)
	}
	return nil
}
