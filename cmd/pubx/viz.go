package main

import (
	"fmt"
	"os"

	"github.com/matsen/pubx/internal/viz"
	"github.com/spf13/cobra"
)

var (
	vizFilters filterFlags
	vizOutput  string
	vizTop     int
	vizTitle   string
	vizTheme   string
)

func init() {
	vizFilters.register(vizCmd)
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().IntVar(&vizTop, "top", 0, "Number of authors to chart (default: top_authors from config)")
	vizCmd.Flags().StringVar(&vizTitle, "chart-title", "", "Page title (default: chart_title from config)")
	vizCmd.Flags().StringVar(&vizTheme, "theme", "light", "Colour theme: light or dark")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz FILE",
	Short: "Chart publications per year and top authors",
	Long: `Generate a self-contained HTML page with two charts for the selected rows:
a line chart of publications per year and a bar chart of the most frequent
authors. The page has no external dependencies.

Examples:
  # Generate HTML to stdout
  pubx viz papers.csv > charts.html

  # Generate to file, normalized, ten authors
  pubx viz papers.csv --normalize --top 10 --output charts.html`,
	Args: cobra.ExactArgs(1),
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	s := mustOpenSession(args[0], &vizFilters)
	defer s.Close()

	title := vizTitle
	if title == "" {
		title = cfg.ChartTitle
	}
	charts, err := s.Charts(topAuthors(vizTop), title)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	html, err := viz.GenerateHTML(charts, viz.HTMLOptions{Theme: vizTheme})
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(vizOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	logger.Info("charts written", "path", vizOutput, "rows", charts.Records)

	if humanOutput {
		fmt.Printf("Visualization written to %s\n", vizOutput)
		return nil
	}
	return outputJSON(OutputResponse{Output: vizOutput, Rows: charts.Records})
}
