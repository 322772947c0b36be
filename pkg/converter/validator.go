package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pigeonworks-llc/flex-convert/pkg/diag"
	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// ErrValidationFailed is returned when input validation fails and the whole
// conversion must be aborted.
var ErrValidationFailed = errors.New("input data validation failed")

// Validator checks an input table against the input schema.
//
// Missing required columns are always fatal. The named validation rules
// (required_fields, currency_validation, product_type_validation) only log
// their findings by default; Strict promotes those findings to fatal errors.
type Validator struct {
	schema   *schema.InputSchema
	reporter *diag.Reporter

	// Strict makes the named validation rules fail the run instead of
	// only recording findings.
	Strict bool
}

// NewValidator creates a validator for the given input schema.
func NewValidator(s *schema.InputSchema, reporter *diag.Reporter) *Validator {
	return &Validator{schema: s, reporter: reporter}
}

// Validate decides pass/fail for the input table. Warnings and advisory
// errors are recorded on the reporter either way.
func (v *Validator) Validate(t *table.Table) error {
	slog.Info("validating input data", "records", t.Len())

	if missing := v.missingRequiredColumns(t); len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns: %s",
			ErrValidationFailed, strings.Join(missing, ", "))
	}

	for i := range v.schema.ValidationRules {
		if err := v.applyRule(t, &v.schema.ValidationRules[i]); err != nil {
			return err
		}
	}

	slog.Info("input data validation passed")
	return nil
}

func (v *Validator) missingRequiredColumns(t *table.Table) []string {
	var missing []string
	for _, name := range v.schema.RequiredColumns() {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func (v *Validator) applyRule(t *table.Table, rule *schema.ValidationRule) error {
	switch rule.RuleType {
	case schema.RuleTypeRequiredFields:
		var missing []string
		for _, field := range rule.Fields {
			if !t.HasColumn(field) {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			v.reporter.Errorf("missing required fields: %s", strings.Join(missing, ", "))
			if v.Strict {
				return fmt.Errorf("%w: missing required fields: %s",
					ErrValidationFailed, strings.Join(missing, ", "))
			}
		}

	case schema.RuleTypeCurrencyValidation:
		if invalid := v.invalidValues(t, rule); len(invalid) > 0 {
			v.reporter.Warnf("invalid currency values found: %s", strings.Join(invalid, ", "))
			if v.Strict {
				return fmt.Errorf("%w: invalid currency values in %s: %s",
					ErrValidationFailed, rule.Field, strings.Join(invalid, ", "))
			}
		}

	case schema.RuleTypeProductTypeValidation:
		if invalid := v.invalidValues(t, rule); len(invalid) > 0 {
			v.reporter.Warnf("invalid product type values found: %s", strings.Join(invalid, ", "))
			if v.Strict {
				return fmt.Errorf("%w: invalid product type values in %s: %s",
					ErrValidationFailed, rule.Field, strings.Join(invalid, ", "))
			}
		}
	}

	return nil
}

// invalidValues returns the distinct observed values of the rule's column
// that fall outside its permitted set. Empty strings count as observed
// values. A column absent from the table produces no findings.
func (v *Validator) invalidValues(t *table.Table, rule *schema.ValidationRule) []string {
	if !t.HasColumn(rule.Field) {
		return nil
	}

	valid := make(map[string]bool, len(rule.ValidValues))
	for _, val := range rule.ValidValues {
		valid[val] = true
	}

	seen := make(map[string]bool)
	for _, row := range t.Rows {
		if !row.Has(rule.Field) {
			continue
		}
		val := row.GetString(rule.Field)
		if valid[val] || seen[val] {
			continue
		}
		seen[val] = true
	}

	invalid := make([]string, 0, len(seen))
	for val := range seen {
		invalid = append(invalid, val)
	}
	sort.Strings(invalid)
	return invalid
}
