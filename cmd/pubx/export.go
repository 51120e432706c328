package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportFilters filterFlags
	exportOutput  string
	exportFormat  string
)

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: csv, jsonl or bibtex (default: from extension, then config)")
	exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Save the selected rows",
	Long: `Write the selected rows to a new file with every original column, in the
original column order. The file is replaced only when the write succeeds.

Examples:
  pubx export papers.csv --year 2020 -o papers-2020.csv
  pubx export papers.csv --normalize --author lovelace -o ada.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := resolveExportFormat(exportFormat, cmd.Flags().Changed("format"), exportOutput, cfg.ExportFormat)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	s := mustOpenSession(args[0], &exportFilters)
	defer s.Close()

	n, err := s.Export(exportOutput, format)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		fmt.Printf("Exported %s to %s\n", formatCount(n, "record"), exportOutput)
		return nil
	}
	return outputJSON(OutputResponse{Output: exportOutput, Rows: n, Format: string(format)})
}
