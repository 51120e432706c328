package dataset

import "github.com/matsen/pubx/internal/publication"

// View is an ordered selection of dataset rows.
// It holds row indices only; rows are never copied.
type View struct {
	rows []int
}

// All returns a view of every row, in order.
func (d *Dataset) All() View {
	rows := make([]int, d.Len())
	for i := range rows {
		rows[i] = i
	}
	return View{rows: rows}
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	return len(v.rows)
}

// Indices returns a copy of the selected row indices.
func (v View) Indices() []int {
	rows := make([]int, len(v.rows))
	copy(rows, v.rows)
	return rows
}

// ViewRecords returns the rows in v as publication records.
func (d *Dataset) ViewRecords(v View) []publication.Record {
	records := make([]publication.Record, len(v.rows))
	for i, idx := range v.rows {
		records[i] = d.records[idx]
	}
	return records
}
