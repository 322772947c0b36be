package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/flex-convert/pkg/config"
	"github.com/pigeonworks-llc/flex-convert/pkg/db"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display conversion run statistics",
	Long: `Display statistics about recorded conversion runs.

Shows:
- Total, completed and failed run counts
- Total output records and dropped rows
- Last run timestamp

Example:
  flex-convert stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	slog.Debug("opening database", "path", cfg.DBPath)
	conn, err := db.Open(cfg.DBPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewRunHistory(conn)

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Conversion Statistics ===")
	fmt.Printf("Total runs:      %d\n", stats.TotalRuns)
	fmt.Printf("Completed runs:  %d\n", stats.CompletedRuns)
	fmt.Printf("Failed runs:     %d\n", stats.FailedRuns)
	fmt.Printf("Output records:  %d\n", stats.TotalRecords)
	fmt.Printf("Dropped rows:    %d\n", stats.TotalDropped)

	if stats.LastRun.Valid {
		fmt.Printf("Last run:        %s\n", stats.LastRun.String)
	} else {
		fmt.Printf("Last run:        (never)\n")
	}

	fmt.Println()
}
