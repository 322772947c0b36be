package converter

import (
	"math"
	"strings"
	"time"

	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// compiledRule pairs a transformation rule with its predicates, parsed once
// at converter construction.
type compiledRule struct {
	rule       *schema.TransformationRule
	conditions []compiledCondition
}

type compiledCondition struct {
	entry *schema.ConditionEntry
	pred  Predicate
}

// firstMatch returns the first condition entry whose predicate matches the
// row. Conditions are evaluated in declared order; the first match wins.
func (c *compiledRule) firstMatch(row table.Row) *schema.ConditionEntry {
	for _, cond := range c.conditions {
		if cond.pred.Matches(row) {
			return cond.entry
		}
	}
	return nil
}

// ruleResult is what a handler produces for one row: either a group of
// output fields, or a scalar assigned to the rule's declared output field.
type ruleResult struct {
	scalar string
	fields map[string]any
	group  bool
}

func scalarResult(v string) ruleResult {
	return ruleResult{scalar: v}
}

func groupResult(fields map[string]any) ruleResult {
	return ruleResult{fields: fields, group: true}
}

// handlerFunc computes one transformation rule against one row.
type handlerFunc func(row table.Row, rule *compiledRule) ruleResult

// handlers is the rule registry. New rule kinds register here instead of
// extending a dispatch chain.
var handlers = map[schema.RuleID]handlerFunc{
	schema.RuleLeafGL:      calculateLeafGL,
	schema.RuleAccrual:     calculateAccrualAccount,
	schema.RuleDrOrCr:      calculateDrOrCr,
	schema.RuleBalanceSign: calculateBalanceSign,
	schema.RuleDateFormat:  formatDates,
	schema.RuleAmount:      calculateAmounts,
}

// calculateLeafGL appends a currency/product-type suffix to the row's
// LEAF_GL value, selected by substring match against the first matching
// condition's action tag. No match leaves LEAF_GL unchanged.
func calculateLeafGL(row table.Row, rule *compiledRule) ruleResult {
	leafGL := row.GetString(FieldLeafGL)

	if entry := rule.firstMatch(row); entry != nil {
		// NOJPY tags contain the JPY tags as substrings, so they must be
		// checked first.
		switch {
		case strings.Contains(entry.Action, "NOJPY_D_G"):
			return scalarResult(leafGL + "_NOJPY_D_G")
		case strings.Contains(entry.Action, "NOJPY_OTHER"):
			return scalarResult(leafGL + "_NOJPY_OTHER")
		case strings.Contains(entry.Action, "JPY_D_G"):
			return scalarResult(leafGL + "_JPY_D_G")
		case strings.Contains(entry.Action, "JPY_OTHER"):
			return scalarResult(leafGL + "_JPY_OTHER")
		}
	}

	return scalarResult(leafGL)
}

// calculateAccrualAccount copies the first matching condition's source field
// from the row. No match yields an empty string.
func calculateAccrualAccount(row table.Row, rule *compiledRule) ruleResult {
	if entry := rule.firstMatch(row); entry != nil {
		return scalarResult(row.GetString(entry.SourceField))
	}
	return scalarResult("")
}

// calculateDrOrCr returns the first matching condition's literal value. With
// no match and a configured default action, the debit/credit marker falls
// back to the sign of FACE_VALUE; without a default action it is 'C'.
func calculateDrOrCr(row table.Row, rule *compiledRule) ruleResult {
	if entry := rule.firstMatch(row); entry != nil {
		return scalarResult(entry.Value)
	}

	if rule.rule.Logic.DefaultAction != nil {
		if row.GetFloat(FieldFaceValue) >= 0 {
			return scalarResult("C")
		}
		return scalarResult("D")
	}

	return scalarResult("C")
}

// conditionalAmount selects the amount source by currency: LCY_FACE_VALUE
// for JPY flex-currency rows, FACE_VALUE otherwise.
func conditionalAmount(row table.Row) float64 {
	if row.GetString(FieldCurrencyFlex) == "JPY" {
		return row.GetFloat(FieldLcyFaceValue)
	}
	return row.GetFloat(FieldFaceValue)
}

// calculateBalanceSign sets OPBALSIGN and CLBALSIGN to 'D' for negative
// amounts and 'C' otherwise.
func calculateBalanceSign(row table.Row, _ *compiledRule) ruleResult {
	sign := "C"
	if conditionalAmount(row) < 0 {
		sign = "D"
	}
	return groupResult(map[string]any{
		"OPBALSIGN": sign,
		"CLBALSIGN": sign,
	})
}

// dateMappings is the fixed output-to-input mapping for DATE_FORMATTING.
var dateMappings = []struct {
	output string
	input  string
}{
	{"VALUEDATE", FieldValueDate},
	{"ENTRYDATE", FieldDealDate},
	{"OPBALDATE", FieldValueDate},
	{"CLBALDATE", FieldValueDate},
}

// formatDates re-emits the mapped date fields in YYYYMMDD form.
func formatDates(row table.Row, _ *compiledRule) ruleResult {
	fields := make(map[string]any, len(dateMappings))
	for _, m := range dateMappings {
		fields[m.output] = FormatDate(row.GetString(m.input))
	}
	return groupResult(fields)
}

// calculateAmounts produces AMOUNT as the absolute value and OPBAL/CLBAL as
// the signed value of the currency-conditional amount source.
func calculateAmounts(row table.Row, _ *compiledRule) ruleResult {
	amount := conditionalAmount(row)
	return groupResult(map[string]any{
		"AMOUNT": math.Abs(amount),
		"OPBAL":  amount,
		"CLBAL":  amount,
	})
}

// dateFormats is the fallback chain for date parsing, tried in order.
var dateFormats = []string{
	"2006-01-02", // YYYY-MM-DD
	"20060102",   // YYYYMMDD
	"02/01/2006", // DD/MM/YYYY
	"01/02/2006", // MM/DD/YYYY
}

// FormatDate normalizes a date string to YYYYMMDD. If no format in the
// fallback chain matches, the first 8 characters of the raw value are used.
// Empty input yields empty output.
func FormatDate(value string) string {
	if value == "" {
		return ""
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("20060102")
		}
	}

	if runes := []rune(value); len(runes) > 8 {
		return string(runes[:8])
	}
	return value
}
