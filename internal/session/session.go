// Package session holds the state of one exploration: the loaded dataset
// and the rows currently selected by the active filter.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/matsen/pubx/internal/aggregate"
	"github.com/matsen/pubx/internal/dataset"
	"github.com/matsen/pubx/internal/logging"
	"github.com/matsen/pubx/internal/publication"
	"github.com/matsen/pubx/internal/storage"
	"github.com/matsen/pubx/internal/viz"
)

// ErrNoDataset is returned by operations that need a loaded dataset.
var ErrNoDataset = errors.New("no dataset loaded")

// ErrEmptyView is returned when visualizing or exporting zero rows.
var ErrEmptyView = dataset.ErrEmptyView

// Session owns a dataset and its current view.
// The view always holds rows of the current dataset; loading or normalizing
// resets it to every row.
type Session struct {
	logger   logging.Logger
	data     *dataset.Dataset
	view     dataset.View
	criteria dataset.Criteria

	db      *storage.DB
	dbStale bool
}

// Status describes the loaded dataset and the current view.
type Status struct {
	Source  string            `json:"source"`
	File    string            `json:"file"`
	Records int               `json:"records"`
	Visible int               `json:"visible"`
	Columns []string          `json:"columns"`
	Schema  map[string]string `json:"schema"`
	Missing []string          `json:"missing_fields,omitempty"`
	Filter  dataset.Criteria  `json:"filter"`
}

// New creates an empty session. A nil logger discards output.
func New(logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Session{logger: logger}
}

// Load reads path and makes it the current dataset.
// On failure the previous dataset and view are kept.
func (s *Session) Load(path string) (Status, error) {
	d, err := dataset.Load(path)
	if err != nil {
		s.logger.Warn("load failed", "path", path, "error", err)
		return Status{}, fmt.Errorf("loading dataset: %w", err)
	}
	return s.Use(d), nil
}

// Use installs an already loaded dataset.
func (s *Session) Use(d *dataset.Dataset) Status {
	s.data = d
	s.view = d.All()
	s.criteria = dataset.Criteria{}
	s.dbStale = true

	st := s.status()
	s.logger.Info("dataset loaded", "file", st.File, "records", st.Records, "columns", len(st.Columns))
	if len(st.Missing) > 0 {
		s.logger.Warn("recognized columns missing", "fields", st.Missing)
	}
	return st
}

// Loaded reports whether a dataset is present.
func (s *Session) Loaded() bool {
	return s.data != nil
}

// Dataset returns the current dataset.
func (s *Session) Dataset() (*dataset.Dataset, error) {
	if s.data == nil {
		return nil, ErrNoDataset
	}
	return s.data, nil
}

// View returns the current view.
func (s *Session) View() dataset.View {
	return s.view
}

// Criteria returns the filter that produced the current view.
func (s *Session) Criteria() dataset.Criteria {
	return s.criteria
}

// Status describes the session.
func (s *Session) Status() (Status, error) {
	if s.data == nil {
		return Status{}, ErrNoDataset
	}
	return s.status(), nil
}

func (s *Session) status() Status {
	st := Status{
		Source:  s.data.Source,
		Records: s.data.Len(),
		Visible: s.view.Len(),
		Columns: s.data.Columns(),
		Schema:  s.data.Schema().Mapping(),
		Filter:  s.criteria,
	}
	if st.Source != "" {
		st.File = filepath.Base(st.Source)
	}
	for _, f := range s.data.Schema().Missing() {
		st.Missing = append(st.Missing, f.String())
	}
	return st
}

// Normalize standardizes authors and venues and resets the view.
func (s *Session) Normalize() (dataset.NormalizeStats, error) {
	if s.data == nil {
		return dataset.NormalizeStats{}, ErrNoDataset
	}
	stats, err := s.data.Normalize()
	if err != nil {
		return stats, fmt.Errorf("normalizing dataset: %w", err)
	}
	s.view = s.data.All()
	s.criteria = dataset.Criteria{}
	s.dbStale = true

	s.logger.Info("dataset normalized",
		"authors_changed", stats.AuthorsChanged,
		"venues_changed", stats.VenuesChanged)
	return stats, nil
}

// ApplyFilter replaces the view with the rows matching c and returns the row count.
func (s *Session) ApplyFilter(c dataset.Criteria) (int, error) {
	if s.data == nil {
		return 0, ErrNoDataset
	}
	s.view = s.data.Filter(c)
	s.criteria = c
	s.dbStale = true

	s.logger.Info("filter applied", "criteria", c, "rows", s.view.Len())
	return s.view.Len(), nil
}

// ClearFilter restores the full view and returns the row count.
func (s *Session) ClearFilter() (int, error) {
	if s.data == nil {
		return 0, ErrNoDataset
	}
	s.view = s.data.All()
	s.criteria = dataset.Criteria{}
	s.dbStale = true

	s.logger.Info("filter cleared", "rows", s.view.Len())
	return s.view.Len(), nil
}

// Records returns the publication records of the current view.
func (s *Session) Records() ([]publication.Record, error) {
	if s.data == nil {
		return nil, ErrNoDataset
	}
	return s.data.ViewRecords(s.view), nil
}

// Summary aggregates the current view.
func (s *Session) Summary(topAuthors int) (aggregate.Summary, error) {
	records, err := s.Records()
	if err != nil {
		return aggregate.Summary{}, err
	}
	if len(records) == 0 {
		return aggregate.Summary{}, ErrEmptyView
	}
	return aggregate.Summarize(records, topAuthors), nil
}

// Charts lays out the current view's summary for rendering.
func (s *Session) Charts(topAuthors int, title string) (*viz.Charts, error) {
	summary, err := s.Summary(topAuthors)
	if err != nil {
		return nil, err
	}
	return viz.BuildCharts(summary, title), nil
}

// Export writes the current view to path and returns the number of rows written.
// A failed export leaves the session unchanged.
func (s *Session) Export(path string, format dataset.Format) (int, error) {
	if s.data == nil {
		return 0, ErrNoDataset
	}
	if err := s.data.Export(path, s.view, format); err != nil {
		if !errors.Is(err, ErrEmptyView) {
			s.logger.Error("export failed", "path", path, "error", err)
		}
		return 0, fmt.Errorf("exporting dataset: %w", err)
	}

	s.logger.Info("view exported", "path", path, "rows", s.view.Len(), "format", string(format))
	return s.view.Len(), nil
}

// Query runs SQL over the current view, loaded into the in-memory table
// storage.TableName.
func (s *Session) Query(ctx context.Context, query string) (*storage.Result, error) {
	if s.data == nil {
		return nil, ErrNoDataset
	}
	if err := s.syncDB(ctx); err != nil {
		return nil, err
	}
	return s.db.Query(ctx, query)
}

// syncDB reloads the SQL table when the view has changed since the last query.
func (s *Session) syncDB(ctx context.Context) error {
	if s.db == nil {
		db, err := storage.OpenMemory()
		if err != nil {
			return err
		}
		s.db = db
		s.dbStale = true
	}
	if !s.dbStale {
		return nil
	}

	header, rows, err := s.data.Rows(s.view)
	if err != nil {
		return err
	}
	if err := s.db.Load(ctx, header, rows); err != nil {
		return fmt.Errorf("loading view into SQL table: %w", err)
	}
	n, err := s.db.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting SQL table rows: %w", err)
	}
	if n != len(rows) {
		return fmt.Errorf("SQL table holds %d rows, want %d", n, len(rows))
	}
	s.dbStale = false
	s.logger.Debug("SQL table refreshed", "rows", n, "columns", s.db.Columns())
	return nil
}

// Close releases the SQL table, if one was opened.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
