package main

import (
	"fmt"
	"io"
	"os"

	"github.com/matsen/pubx/internal/dataset"
	"github.com/matsen/pubx/internal/publication"
	"github.com/spf13/cobra"
)

var (
	showFilters filterFlags
	showLimit   int
)

func init() {
	showFilters.register(showCmd)
	showCmd.Flags().IntVar(&showLimit, "limit", DefaultShowLimit, "Maximum rows to print (0 for all)")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "List the rows of a publication table",
	Long: `List title, authors, year and venue for the selected rows.

All filters are substring matches and are combined with AND.
Title, author and venue matching ignores case; year matching does not.

Examples:
  pubx show papers.csv --human
  pubx show papers.csv --author smith --year 2020
  pubx show papers.csv --normalize --venue "MACHINE LEARNING" --limit 0`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// ShowResponse is the JSON output of show.
type ShowResponse struct {
	Total   int                  `json:"total"`
	Matched int                  `json:"matched"`
	Shown   int                  `json:"shown"`
	Filter  dataset.Criteria     `json:"filter"`
	Records []publication.Record `json:"records"`
}

func runShow(cmd *cobra.Command, args []string) error {
	s := mustOpenSession(args[0], &showFilters)
	defer s.Close()

	records, err := s.Records()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	st, _ := s.Status()

	matched := len(records)
	if showLimit > 0 && len(records) > showLimit {
		records = records[:showLimit]
	}

	if !humanOutput {
		return outputJSON(ShowResponse{
			Total:   st.Records,
			Matched: matched,
			Shown:   len(records),
			Filter:  st.Filter,
			Records: records,
		})
	}

	printRecordTable(os.Stdout, records)
	fmt.Printf("\nShowing %d of %s (filter: %s, %d total)\n",
		len(records), formatCount(matched, "record"), describeCriteria(st.Filter), st.Records)
	return nil
}

// printRecordTable prints records as a fixed-width table.
func printRecordTable(w io.Writer, records []publication.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No matching records")
		return
	}
	fmt.Fprintln(w, recordTableHeader())
	for _, r := range records {
		fmt.Fprintln(w, formatRecordRow(r))
	}
}
