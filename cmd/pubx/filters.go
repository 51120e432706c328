package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matsen/pubx/internal/dataset"
	"github.com/matsen/pubx/internal/session"
	"github.com/spf13/cobra"
)

// filterFlags are the row selection flags shared by the data commands.
type filterFlags struct {
	title     string
	author    string
	year      string
	venue     string
	normalize bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Keep rows whose title contains this text (case-insensitive)")
	cmd.Flags().StringVarP(&f.author, "author", "a", "", "Keep rows whose authors contain this text (case-insensitive)")
	cmd.Flags().StringVar(&f.year, "year", "", "Keep rows whose year contains this text")
	cmd.Flags().StringVar(&f.venue, "venue", "", "Keep rows whose venue contains this text (case-insensitive)")
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "Standardize authors and venues before filtering")
}

func (f *filterFlags) criteria() dataset.Criteria {
	return dataset.Criteria{
		Title:   f.title,
		Authors: f.author,
		Year:    f.year,
		Venue:   f.venue,
	}
}

// mustOpenSession loads path, normalizes if requested and applies the filter.
// Exits on error, closing the session first through atExit. The caller is
// responsible for calling Close() on success.
func mustOpenSession(path string, f *filterFlags) *session.Session {
	s := session.New(logger)
	atExit = append(atExit, func() { s.Close() })
	if _, err := s.Load(path); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if f == nil {
		return s
	}

	if f.normalize {
		if _, err := s.Normalize(); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}
	if c := f.criteria(); !c.IsEmpty() {
		if _, err := s.ApplyFilter(c); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}
	return s
}

// exitCodeFor maps session errors to exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, session.ErrEmptyView), errors.Is(err, session.ErrNoDataset):
		return ExitDataError
	default:
		return ExitError
	}
}

// resolveExportFormat picks the export format: an explicit flag wins, then the
// output file extension, then the configured default.
func resolveExportFormat(flag string, flagSet bool, path, configured string) (dataset.Format, error) {
	if flagSet {
		return dataset.ParseFormat(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson", ".csv", ".bib":
		return dataset.FormatForPath(path), nil
	}
	if configured == "" {
		return dataset.FormatCSV, nil
	}
	return dataset.ParseFormat(configured)
}

// describeCriteria formats the active predicates for human output.
func describeCriteria(c dataset.Criteria) string {
	var parts []string
	for _, p := range []struct{ name, value string }{
		{"title", c.Title},
		{"authors", c.Authors},
		{"year", c.Year},
		{"venue", c.Venue},
	} {
		if p.value != "" {
			parts = append(parts, fmt.Sprintf("%s~%q", p.name, p.value))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
