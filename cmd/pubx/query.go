package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/pubx/internal/storage"
	"github.com/spf13/cobra"
)

var queryFilters filterFlags

func init() {
	queryFilters.register(queryCmd)
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query FILE SQL",
	Short: "Run SQL over the selected rows",
	Long: `Load the selected rows into an in-memory SQLite table named "publications"
and run a query against it. Every column is TEXT; the extra column "_row"
holds the 1-based position of the row in the selection.

Examples:
  pubx query papers.csv "SELECT venue, COUNT(*) AS n FROM publications GROUP BY venue ORDER BY n DESC"
  pubx query papers.csv --normalize "SELECT DISTINCT authors FROM publications" --human`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	s := mustOpenSession(args[0], &queryFilters)
	defer s.Close()

	res, err := s.Query(context.Background(), args[1])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(res)
	}
	printResultTable(os.Stdout, res)
	return nil
}

// printResultTable prints a query result as tab-separated lines.
func printResultTable(w io.Writer, res *storage.Result) {
	fmt.Fprintln(w, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			if v := row[col]; v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(w, "(%s)\n", formatCount(len(res.Rows), "row"))
}
