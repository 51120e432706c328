package aggregate

import (
	"reflect"
	"testing"

	"github.com/matsen/pubx/internal/publication"
)

func yearRecords(years ...string) []publication.Record {
	records := make([]publication.Record, len(years))
	for i, y := range years {
		records[i] = publication.Record{Year: y}
	}
	return records
}

func authorRecords(fields ...string) []publication.Record {
	records := make([]publication.Record, len(fields))
	for i, a := range fields {
		records[i] = publication.Record{Authors: a}
	}
	return records
}

func TestPublicationsPerYear(t *testing.T) {
	tests := []struct {
		name    string
		records []publication.Record
		want    []YearCount
	}{
		{
			name:    "basic grouping",
			records: yearRecords("2020", "2019", "2020"),
			want:    []YearCount{{"2019", 1}, {"2020", 2}},
		},
		{
			name:    "missing years excluded",
			records: yearRecords("2021", "", "2021", ""),
			want:    []YearCount{{"2021", 2}},
		},
		{
			name:    "distinct representations are distinct buckets",
			records: yearRecords("2020", "2020.0", "n.d.", "2020"),
			want:    []YearCount{{"2020", 2}, {"2020.0", 1}, {"n.d.", 1}},
		},
		{
			name:    "no year column",
			records: []publication.Record{{Title: "a"}, {Title: "b"}},
			want:    []YearCount{},
		},
		{
			name:    "no records",
			records: nil,
			want:    []YearCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PublicationsPerYear(tt.records)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PublicationsPerYear() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopAuthors(t *testing.T) {
	tests := []struct {
		name    string
		records []publication.Record
		k       int
		want    []AuthorCount
	}{
		{
			name:    "ties broken by first seen",
			records: authorRecords("A, B", "B", "A"),
			k:       2,
			want:    []AuthorCount{{"A", 2}, {"B", 2}},
		},
		{
			name:    "count descending",
			records: authorRecords("A", "B, C", "C", "C, B"),
			k:       10,
			want:    []AuthorCount{{"C", 3}, {"B", 2}, {"A", 1}},
		},
		{
			name:    "truncated to k",
			records: authorRecords("A, B, C", "C"),
			k:       1,
			want:    []AuthorCount{{"C", 2}},
		},
		{
			name:    "empty pieces skipped and names trimmed",
			records: authorRecords(" A ,, ", "A", ""),
			k:       10,
			want:    []AuthorCount{{"A", 2}},
		},
		{
			name:    "exact strings are distinct",
			records: authorRecords("J. Smith", "John Smith", "J. Smith"),
			k:       10,
			want:    []AuthorCount{{"J. Smith", 2}, {"John Smith", 1}},
		},
		{
			name:    "k zero",
			records: authorRecords("A"),
			k:       0,
			want:    []AuthorCount{},
		},
		{
			name:    "no authors column",
			records: []publication.Record{{Year: "2020"}},
			k:       10,
			want:    []AuthorCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopAuthors(tt.records, tt.k)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopAuthors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregationDoesNotMutate(t *testing.T) {
	records := []publication.Record{
		{Authors: " A , B", Year: "2020"},
		{Authors: "B", Year: "2019"},
	}
	before := make([]publication.Record, len(records))
	copy(before, records)

	PublicationsPerYear(records)
	TopAuthors(records, 10)

	if !reflect.DeepEqual(records, before) {
		t.Errorf("records mutated: %v, want %v", records, before)
	}
}

func TestSummarize(t *testing.T) {
	records := []publication.Record{
		{Authors: "A, B", Year: "2020"},
		{Authors: "B", Year: "2019"},
	}
	got := Summarize(records, 0)
	want := Summary{
		Records:    2,
		PerYear:    []YearCount{{"2019", 1}, {"2020", 1}},
		TopAuthors: []AuthorCount{{"B", 2}, {"A", 1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}
