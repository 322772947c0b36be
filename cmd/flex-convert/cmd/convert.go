package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/flex-convert/pkg/config"
	"github.com/pigeonworks-llc/flex-convert/pkg/converter"
	"github.com/pigeonworks-llc/flex-convert/pkg/db"
	"github.com/pigeonworks-llc/flex-convert/pkg/diag"
	"github.com/pigeonworks-llc/flex-convert/pkg/exporter"
	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
)

var (
	inputFile    string
	outputFile   string
	outputFormat string
	strict       bool
	dryRun       bool
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an input file to the target layout",
	Long: `Convert a fixed-width .dat or delimited .csv input file into the
configured output layout.

This command:
1. Loads the input schema, output schema and processing rules
2. Parses and validates the input file
3. Applies transformation rules and field mappings to every row
4. Writes the output table as CSV or Excel
5. Records the run in SQLite history

Example:
  flex-convert convert --input feed.dat --output out.csv
  flex-convert convert --input feed.csv --output out.xlsx --format excel
  flex-convert convert --input feed.dat --output out.csv --strict
  flex-convert convert --input feed.dat --dry-run`,
	Run: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&inputFile, "input", "", "Input file (.dat or .csv) (required)")
	convertCmd.Flags().StringVar(&outputFile, "output", "", "Output file path")
	convertCmd.Flags().StringVar(&outputFormat, "format", "csv", "Output format (csv or excel)")
	convertCmd.Flags().BoolVar(&strict, "strict", false, "Make named validation rules fatal")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Convert without writing output")

	convertCmd.MarkFlagRequired("input")
}

func runConvert(cmd *cobra.Command, args []string) {
	slog.Info("starting conversion", "input", inputFile, "dry_run", dryRun)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")
	exitOnError(cfg.Validate(), "invalid configuration")

	if !dryRun && outputFile == "" {
		exitOnError(fmt.Errorf("--output is required unless --dry-run is set"), "invalid arguments")
	}

	conv, reporter := buildConverter(cfg, strict || cfg.Strict)

	result, err := conv.ConvertFile(inputFile)

	// Record the run either way; a failed run is history too.
	recordRun(cfg, conv, result, err)
	exitOnError(err, "conversion failed")

	if dryRun {
		fmt.Printf("[DRY RUN] Converted %d records (%d dropped), no output written\n",
			result.Table.Len(), result.DroppedRows)
	} else {
		exitOnError(exporter.Save(result.Table, outputFile, outputFormat), "failed to save output")
		fmt.Printf("Converted %d records (%d dropped) to %s\n",
			result.Table.Len(), result.DroppedRows, outputFile)
	}

	warnings, errors := reporter.Counts()
	if warnings+errors > 0 {
		fmt.Printf("Diagnostics: %d warnings, %d errors (run with --debug for details)\n",
			warnings, errors)
	}

	slog.Info("conversion finished",
		"output_records", result.Table.Len(),
		"dropped_rows", result.DroppedRows,
		"warnings", warnings,
		"errors", errors,
	)
}

// buildConverter loads the three configuration documents and assembles a
// converter around a fresh reporter.
func buildConverter(cfg *config.Config, strict bool) (*converter.Converter, *diag.Reporter) {
	inputSchema, err := schema.LoadInputSchema(cfg.Documents.InputSchema)
	exitOnError(err, "failed to load input schema")

	outputSchema, err := schema.LoadOutputSchema(cfg.Documents.OutputSchema)
	exitOnError(err, "failed to load output schema")

	rules, err := schema.LoadProcessingRules(cfg.Documents.ProcessingRules)
	exitOnError(err, "failed to load processing rules")

	reporter := diag.NewReporter(nil)
	conv, err := converter.New(converter.Config{
		Input:    inputSchema,
		Output:   outputSchema,
		Rules:    rules,
		Reporter: reporter,
		Strict:   strict,
	})
	exitOnError(err, "failed to initialize converter")

	return conv, reporter
}

// recordRun writes the run outcome to history. History failures are logged,
// never fatal.
func recordRun(cfg *config.Config, conv *converter.Converter, result *converter.Result, convErr error) {
	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open run history database", "error", err, "path", cfg.DBPath)
		return
	}
	defer conn.Close()

	record := db.RunRecord{
		ProcessingName: conv.ProcessingName(),
		InputSource:    inputFile,
		Status:         db.RunCompleted,
	}
	if convErr != nil {
		record.Status = db.RunFailed
	}
	if result != nil {
		record.InputRecords = result.InputRecords
		record.OutputRecords = result.Table.Len()
		record.DroppedRows = result.DroppedRows
	}
	record.WarningCount, record.ErrorCount = conv.Reporter().Counts()
	if !dryRun && outputFile != "" && convErr == nil {
		record.OutputFile = sql.NullString{String: outputFile, Valid: true}
		record.OutputFormat = sql.NullString{String: outputFormat, Valid: true}
	}

	if err := db.NewRunHistory(conn).Record(record); err != nil {
		slog.Error("failed to record run history", "error", err)
	}
}
