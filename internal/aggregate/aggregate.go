// Package aggregate derives chart data from publication records.
// Nothing here modifies its input.
package aggregate

import (
	"sort"
	"strings"

	"github.com/matsen/pubx/internal/publication"
)

// DefaultTopAuthors is the number of authors shown in the author chart.
const DefaultTopAuthors = 10

// YearCount is the number of publications for one year value.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// AuthorCount is the number of publications credited to one author string.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// Summary bundles both aggregations for a set of records.
type Summary struct {
	Records    int           `json:"records"`
	PerYear    []YearCount   `json:"per_year"`
	TopAuthors []AuthorCount `json:"top_authors"`
}

// PublicationsPerYear counts records per distinct year value, ascending by year.
//
// Year values are grouped as given: "2020" and "2020.0" are different buckets.
// Records without a year are not counted.
func PublicationsPerYear(records []publication.Record) []YearCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Year == "" {
			continue
		}
		counts[r.Year]++
	}

	result := make([]YearCount, 0, len(counts))
	for year, n := range counts {
		result = append(result, YearCount{Year: year, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Year < result[j].Year
	})
	return result
}

// TopAuthors returns the k authors with the most publication credits.
//
// Each non-empty, trimmed piece of a comma-separated authors field is one
// credit for that exact string. Results are ordered by count descending; equal
// counts keep the order in which authors were first seen.
func TopAuthors(records []publication.Record, k int) []AuthorCount {
	if k <= 0 {
		return []AuthorCount{}
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if r.Authors == "" {
			continue
		}
		for _, piece := range strings.Split(r.Authors, ",") {
			name := strings.TrimSpace(piece)
			if name == "" {
				continue
			}
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	result := make([]AuthorCount, len(order))
	for i, name := range order {
		result[i] = AuthorCount{Author: name, Count: counts[name]}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if len(result) > k {
		result = result[:k]
	}
	return result
}

// Summarize computes both aggregations. A k of zero or less selects
// DefaultTopAuthors.
func Summarize(records []publication.Record, k int) Summary {
	if k <= 0 {
		k = DefaultTopAuthors
	}
	return Summary{
		Records:    len(records),
		PerYear:    PublicationsPerYear(records),
		TopAuthors: TopAuthors(records, k),
	}
}
