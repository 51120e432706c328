package main

import (
	"errors"
	"fmt"

	"github.com/matsen/pubx/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values in the global config file.

Usage:
  pubx config                        # Show all config
  pubx config top_authors            # Get specific value
  pubx config top_authors 20         # Set value
  pubx config export_format jsonl    # Default format for export and normalize

Keys:
  top_authors     Number of authors in stats and charts (default 10)
  export_format   Default output format: csv, jsonl or bibtex (default csv)
  human           Use human-readable output by default (true/false)
  log_json        Write log lines as JSON (true/false)
  chart_title     Title of generated charts

Environment variables PUBX_TOP_AUTHORS, PUBX_EXPORT_FORMAT and PUBX_HUMAN
override the file. Set PUBX_CONFIG to use a different file.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for config show.
type ConfigResponse struct {
	Path   string            `json:"path"`
	Values map[string]string `json:"values"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := config.GlobalConfigPath()

	// Reading and writing use the file alone, without environment overrides
	fileCfg, err := config.ReadGlobalConfig(path)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		values := make(map[string]string)
		for _, key := range config.Keys() {
			values[key], _ = fileCfg.Get(key)
		}
		if humanOutput {
			fmt.Printf("# %s\n", path)
			for _, key := range config.Keys() {
				fmt.Printf("%-14s %s\n", key+":", values[key])
			}
		} else {
			outputJSON(ConfigResponse{Path: path, Values: values})
		}
		return nil
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := fileCfg.Get(key)
		if err != nil {
			exitWithError(configExitCode(err), "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	if err := fileCfg.Set(key, args[1]); err != nil {
		exitWithError(configExitCode(err), "%v", err)
	}
	if err := fileCfg.Save(path); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}
	config.ResetGlobalConfigCache()

	value, _ := fileCfg.Get(key)
	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}
	return nil
}

func configExitCode(err error) int {
	if errors.Is(err, config.ErrUnknownKey) {
		return ExitError
	}
	return ExitConfigError
}
