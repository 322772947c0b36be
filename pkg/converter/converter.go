package converter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pigeonworks-llc/flex-convert/pkg/datfile"
	"github.com/pigeonworks-llc/flex-convert/pkg/diag"
	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// Config assembles the immutable inputs of a conversion run.
type Config struct {
	Input    *schema.InputSchema
	Output   *schema.OutputSchema
	Rules    *schema.ProcessingRules
	Reporter *diag.Reporter

	// Strict makes the named validation rules fatal instead of advisory.
	Strict bool
}

// Converter transforms input tables into the output layout, driven entirely
// by the three configuration documents. A Converter is safe to reuse across
// runs; it holds no per-run state.
type Converter struct {
	input    *schema.InputSchema
	output   *schema.OutputSchema
	rules    *schema.ProcessingRules
	reporter *diag.Reporter
	strict   bool

	compiled     []compiledRule
	outputFields []string
}

// New creates a converter from loaded configuration. Condition patterns are
// parsed into predicates once, here; unrecognized patterns are reported and
// will never match.
func New(cfg Config) (*Converter, error) {
	if cfg.Input == nil || cfg.Output == nil || cfg.Rules == nil {
		return nil, fmt.Errorf("input schema, output schema and processing rules are all required")
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = diag.NewReporter(nil)
	}

	c := &Converter{
		input:        cfg.Input,
		output:       cfg.Output,
		rules:        cfg.Rules,
		reporter:     reporter,
		strict:       cfg.Strict,
		outputFields: cfg.Output.AllFields(),
	}

	for i := range cfg.Rules.TransformationRules {
		rule := &cfg.Rules.TransformationRules[i]

		if _, ok := handlers[rule.RuleID]; !ok {
			reporter.Warnf("unknown transformation rule id: %s", rule.RuleID)
		}

		conditions := make([]compiledCondition, 0, len(rule.Logic.Conditions))
		for j := range rule.Logic.Conditions {
			entry := &rule.Logic.Conditions[j]
			pred := ParsePredicate(entry.Condition)
			if pred.Kind == PredNone {
				reporter.Warnf("rule %s: unrecognized condition pattern: %q",
					rule.RuleID, entry.Condition)
			}
			conditions = append(conditions, compiledCondition{entry: entry, pred: pred})
		}
		c.compiled = append(c.compiled, compiledRule{rule: rule, conditions: conditions})
	}

	slog.Info("loaded configuration", "processing_name", cfg.Rules.ProcessingName)
	return c, nil
}

// Reporter returns the reporter collecting this converter's findings.
func (c *Converter) Reporter() *diag.Reporter {
	return c.reporter
}

// ProcessingName returns the processing_name of the loaded rules document.
func (c *Converter) ProcessingName() string {
	return c.rules.ProcessingName
}

// TransformRow transforms one input row into an output row: transformation
// rules first, then field mappings (which may overwrite rule output), then
// empty-string fill for any output field left unset. The output row carries
// exactly the output schema's fields; anything a rule or mapping produces
// outside that set is discarded. The input row is not mutated.
func (c *Converter) TransformRow(row table.Row) table.Row {
	computed := make(table.Row, len(c.outputFields))

	for i := range c.compiled {
		rule := &c.compiled[i]
		handler, ok := handlers[rule.rule.RuleID]
		if !ok {
			continue
		}

		result := handler(row, rule)
		if result.group {
			for field, value := range result.fields {
				computed[field] = value
			}
		} else if rule.rule.OutputField != "" {
			computed[rule.rule.OutputField] = result.scalar
		}
	}

	for i := range c.rules.FieldMappings {
		mapping := &c.rules.FieldMappings[i]
		computed[mapping.OutputField] = ApplyMapping(row, mapping)
	}

	out := make(table.Row, len(c.outputFields))
	for _, field := range c.outputFields {
		if value, ok := computed[field]; ok {
			out[field] = value
		} else {
			out[field] = ""
		}
	}

	return out
}

// transformRowSafe converts a per-row panic into a reported error so that a
// single bad row is dropped without aborting the run. rowNum is 1-based so
// a failure on the first row still carries its row context.
func (c *Converter) transformRowSafe(row table.Row, rowNum int) (out table.Row, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.reporter.RowErrorf(rowNum, "error transforming row %d: %v", rowNum, r)
			out, ok = nil, false
		}
	}()
	return c.TransformRow(row), true
}

// ValidateTable runs input validation only, without converting.
func (c *Converter) ValidateTable(t *table.Table) error {
	validator := NewValidator(c.input, c.reporter)
	validator.Strict = c.strict
	return validator.Validate(t)
}

// Result is the outcome of a conversion run: the output table plus the
// diagnostics accumulated along the way.
type Result struct {
	Table        *table.Table
	Findings     []diag.Finding
	InputRecords int
	DroppedRows  int
}

// Convert validates the input table and transforms every row, strictly in
// input order. A failing row is dropped and recorded; a validation failure
// aborts the whole conversion.
func (c *Converter) Convert(t *table.Table) (*Result, error) {
	slog.Info("converting input records",
		"records", t.Len(), "processing_name", c.rules.ProcessingName)

	validator := NewValidator(c.input, c.reporter)
	validator.Strict = c.strict
	if err := validator.Validate(t); err != nil {
		return nil, err
	}

	out := table.New(c.outputFields)
	dropped := 0
	for i, row := range t.Rows {
		converted, ok := c.transformRowSafe(row, i+1)
		if !ok {
			dropped++
			continue
		}
		out.Append(converted)
	}

	slog.Info("conversion complete",
		"input_records", t.Len(), "output_records", out.Len(), "dropped_rows", dropped)

	return &Result{
		Table:        out,
		Findings:     c.reporter.Findings(),
		InputRecords: t.Len(),
		DroppedRows:  dropped,
	}, nil
}

// ConvertFile resolves a file path into a table and converts it. Fixed-width
// .dat files and delimited .csv files are supported.
func (c *Converter) ConvertFile(path string) (*Result, error) {
	t, err := c.ReadInput(path)
	if err != nil {
		return nil, err
	}
	return c.Convert(t)
}

// ReadInput reads an input file into a table, dispatching on extension.
func (c *Converter) ReadInput(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat":
		parser := datfile.NewParser(c.input, c.reporter)
		return parser.ParseFile(path)
	case ".csv":
		return c.readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}
}
