package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/flex-convert/pkg/config"
)

var validateInput string

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an input file against the input schema",
	Long: `Parse an input file and run schema validation without converting it.

Missing required columns fail validation. Findings from the named validation
rules (required_fields, currency_validation, product_type_validation) are
reported; with --strict they fail validation too.

Example:
  flex-convert validate --input feed.dat
  flex-convert validate --input feed.csv --strict`,
	Run: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateInput, "input", "", "Input file (.dat or .csv) (required)")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Make named validation rules fatal")

	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) {
	slog.Info("validating input file", "input", validateInput)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")
	exitOnError(cfg.Validate(), "invalid configuration")

	conv, reporter := buildConverter(cfg, strict || cfg.Strict)

	t, err := conv.ReadInput(validateInput)
	exitOnError(err, "failed to read input")

	err = conv.ValidateTable(t)

	warnings, errors := reporter.Counts()
	fmt.Printf("Parsed %d records from %s\n", t.Len(), validateInput)
	for _, f := range reporter.Findings() {
		fmt.Printf("  [%s] %s\n", f.Level, f.Message)
	}

	if err != nil {
		exitOnError(err, "validation failed")
	}

	fmt.Printf("Validation passed (%d warnings, %d errors)\n", warnings, errors)
}
