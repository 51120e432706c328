// Package main provides the pubx CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/pubx/internal/config"
	"github.com/matsen/pubx/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	logJSON     bool
)

// Set up by the root command before any subcommand runs.
var (
	cfg    = config.Defaults()
	logger = logging.Nop()
)

func main() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubx",
	Short: "Explore tables of publications",
	Long: `pubx loads a table of publications (CSV or JSON Lines), cleans up
author and venue spellings, filters rows, charts publications per year and
the most prolific authors, and exports the selected rows.

Recognized columns (matched case-insensitively): title, authors, year, venue.
Any other columns are carried through unchanged.

All commands output JSON by default; use --human for readable output.
Run 'pubx shell' for an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write log lines as JSON")
	rootCmd.PersistentPreRunE = setup
	rootCmd.Version = Version
}

// setup loads .env and the global config, then builds the logger.
// Flags given on the command line win over config values.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	loaded, err := config.LoadGlobalConfig()
	if err != nil {
		// The config command must still run so a broken file can be fixed
		if cmd != configCmd {
			exitWithError(ExitConfigError, "loading config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		loaded = config.Defaults()
	}
	cfg = loaded

	flags := cmd.Flags()
	if !flags.Changed("human") {
		humanOutput = cfg.Human
	}
	if !flags.Changed("log-json") {
		logJSON = cfg.LogJSON
	}

	l, err := logging.New(logging.Options{Output: os.Stderr, JSON: logJSON, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger = l
	logger.Debug("configuration loaded", "path", config.GlobalConfigPath(), "top_authors", cfg.TopAuthors)
	return nil
}
