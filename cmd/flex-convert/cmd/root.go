// Package cmd provides CLI commands for flex-convert.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "flex-convert",
	Short: "Convert financial transaction feeds between layouts",
	Long: `flex-convert reshapes financial back-office feeds (fixed-width .dat
files, delimited files) into a target layout with computed fields, driven
entirely by three configuration documents: an input schema, an output schema
and a set of processing rules.

It supports:
- Fixed-width and CSV input
- CSV and Excel output
- Schema-driven validation with an optional strict mode
- Conversion run history in SQLite

Example:
  flex-convert convert --input feed.dat --output out.csv
  flex-convert validate --input feed.dat
  flex-convert stats`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statsCmd)
}

// getConfigFile returns the configured .env path, empty for the default.
func getConfigFile() string {
	return cfgFile
}

// exitOnError logs the error with context and exits with status 1.
func exitOnError(err error, message string) {
	if err != nil {
		slog.Error(message, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, err)
		os.Exit(1)
	}
}
