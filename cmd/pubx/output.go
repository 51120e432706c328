package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/pubx/internal/publication"
)

// Constants for output formatting.
const (
	DefaultShowLimit = 50 // Default row limit for show

	// Column widths for the human table
	TitleMaxLen   = 48
	AuthorsMaxLen = 32
	YearMaxLen    = 6
	VenueMaxLen   = 28
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// atExit holds cleanups for exitWithError; os.Exit skips deferred calls.
var atExit []func()

// runAtExit runs the registered cleanups, newest first, and clears them.
func runAtExit() {
	for i := len(atExit) - 1; i >= 0; i-- {
		atExit[i]()
	}
	atExit = nil
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	runAtExit()
	logger.Close()
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OutputResponse reports a file written by a command.
type OutputResponse struct {
	Output string `json:"output"`
	Rows   int    `json:"rows"`
	Format string `json:"format,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// formatRecordRow formats one record as a fixed-width table row.
func formatRecordRow(r publication.Record) string {
	return strings.Join([]string{
		padRight(truncateString(r.Title, TitleMaxLen), TitleMaxLen),
		padRight(truncateString(r.Authors, AuthorsMaxLen), AuthorsMaxLen),
		padRight(truncateString(r.Year, YearMaxLen), YearMaxLen),
		truncateString(r.Venue, VenueMaxLen),
	}, "  ")
}

// recordTableHeader returns the header line for formatRecordRow output.
func recordTableHeader() string {
	return formatRecordRow(publication.Record{
		Title:   "TITLE",
		Authors: "AUTHORS",
		Year:    "YEAR",
		Venue:   "VENUE",
	})
}

// formatCount formats n with a noun, pluralized.
func formatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
