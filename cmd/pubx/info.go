package main

import (
	"fmt"
	"strings"

	"github.com/matsen/pubx/internal/publication"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Describe a publication table",
	Long: `Load a publication table and report its size, its columns, and which
columns were recognized as title, authors, year and venue.

Examples:
  pubx info papers.csv
  pubx info papers.jsonl --human`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	s := mustOpenSession(args[0], nil)
	defer s.Close()

	st, err := s.Status()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if !humanOutput {
		return outputJSON(st)
	}

	fmt.Printf("Loaded %s (%s)\n", st.File, formatCount(st.Records, "record"))
	fmt.Printf("Columns: %s\n", strings.Join(st.Columns, ", "))
	fmt.Println("Recognized:")
	for _, f := range publication.Fields {
		name, ok := st.Schema[f.String()]
		if !ok {
			name = "(missing)"
		}
		fmt.Printf("  %-8s %s\n", f.String()+":", name)
	}
	return nil
}
