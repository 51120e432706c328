package main

import (
	"os"

	"github.com/matsen/pubx/internal/viz"
	"github.com/spf13/cobra"
)

var (
	statsFilters filterFlags
	statsTop     int
	statsWidth   int
)

func init() {
	statsFilters.register(statsCmd)
	statsCmd.Flags().IntVar(&statsTop, "top", 0, "Number of authors to rank (default: top_authors from config)")
	statsCmd.Flags().IntVar(&statsWidth, "width", viz.DefaultTextWidth, "Longest bar in --human output")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats FILE",
	Short: "Count publications per year and rank authors",
	Long: `Count the selected rows per year value and rank authors by the number
of rows they appear in. Authors are split on commas; normalize first so that
different spellings of one name are counted together.

Examples:
  pubx stats papers.csv
  pubx stats papers.csv --normalize --top 5 --human
  pubx stats papers.csv --venue nature`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	s := mustOpenSession(args[0], &statsFilters)
	defer s.Close()

	summary, err := s.Summary(topAuthors(statsTop))
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if !humanOutput {
		return outputJSON(summary)
	}
	return viz.RenderText(os.Stdout, viz.BuildCharts(summary, cfg.ChartTitle), statsWidth)
}

// topAuthors returns flag when set, else the configured default.
func topAuthors(flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.TopAuthors
}
