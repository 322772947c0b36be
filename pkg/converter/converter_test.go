package converter

import (
	"testing"

	"github.com/pigeonworks-llc/flex-convert/pkg/diag"
	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

func testOutputSchema() *schema.OutputSchema {
	return &schema.OutputSchema{
		SchemaName: "flex_output",
		Columns: []schema.OutputColumn{
			{Name: "CONTRACT_REF_NO"},
			{Name: "LEAF_GL"},
			{Name: "DRORCR"},
			{Name: "REMARKS"},
		},
		AdditionalFields: schema.AdditionalFields{
			Fields: []string{"AMOUNT", "OPBAL", "CLBAL"},
		},
	}
}

func testProcessingRules() *schema.ProcessingRules {
	return &schema.ProcessingRules{
		ProcessingName: "flex_to_gl",
		TransformationRules: []schema.TransformationRule{
			{
				RuleID:      schema.RuleLeafGL,
				OutputField: "LEAF_GL",
				Logic: schema.RuleLogic{
					Conditions: []schema.ConditionEntry{
						{Condition: "CURRENCY_Cosmos == 'JPY' AND PRODUCT_TYPE IN ['D', 'G']", Action: "APPEND_JPY_D_G"},
						{Condition: "CURRENCY_Cosmos == 'JPY' AND PRODUCT_TYPE NOT IN ['D', 'G']", Action: "APPEND_JPY_OTHER"},
						{Condition: "CURRENCY_Cosmos != 'JPY' AND PRODUCT_TYPE IN ['D', 'G']", Action: "APPEND_NOJPY_D_G"},
						{Condition: "CURRENCY_Cosmos != 'JPY' AND PRODUCT_TYPE NOT IN ['D', 'G']", Action: "APPEND_NOJPY_OTHER"},
					},
				},
			},
			{
				RuleID:      schema.RuleDrOrCr,
				OutputField: "DRORCR",
				Logic: schema.RuleLogic{
					Conditions: []schema.ConditionEntry{
						{Condition: "CONTRACT_STATUS == 'Y' AND FACE_VALUE < 0", Value: "D"},
					},
					DefaultAction: &schema.DefaultAction{Action: "SIGN_BASED"},
				},
			},
			{
				RuleID: schema.RuleAmount,
				Logic:  schema.RuleLogic{},
			},
		},
		FieldMappings: []schema.FieldMapping{
			{
				OutputField:    "CONTRACT_REF_NO",
				InputField:     "CONTRACT_REF_NO",
				Transformation: schema.TransformDirectCopy,
			},
			{
				OutputField:    "REMARKS",
				Transformation: schema.TransformDefaultValue,
				DefaultValue:   "CONVERTED",
			},
		},
	}
}

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := New(Config{
		Input:    testInputSchema(),
		Output:   testOutputSchema(),
		Rules:    testProcessingRules(),
		Reporter: diag.NewReporter(nil),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestTransformRowFieldSet(t *testing.T) {
	c := newTestConverter(t)
	out := c.TransformRow(table.Row{
		"CONTRACT_REF_NO":   "CTR001",
		FieldCurrencyCosmos: "JPY",
		FieldProductType:    "D",
		FieldLeafGL:         "LEAF001",
		FieldFaceValue:      100000.0,
	})

	want := testOutputSchema().AllFields()
	if len(out) != len(want) {
		t.Fatalf("output has %d fields, want %d: %v", len(out), len(want), out)
	}
	for _, field := range want {
		if !out.Has(field) {
			t.Errorf("output missing field %q", field)
		}
	}
}

// Group handlers can emit fields the output schema does not declare; those
// must not survive into the output row.
func TestTransformRowDropsUndeclaredFields(t *testing.T) {
	rules := testProcessingRules()
	rules.TransformationRules = append(rules.TransformationRules, schema.TransformationRule{
		RuleID: schema.RuleBalanceSign,
		Logic:  schema.RuleLogic{},
	})

	output := &schema.OutputSchema{
		SchemaName: "flex_output",
		Columns:    []schema.OutputColumn{{Name: "CONTRACT_REF_NO"}, {Name: "LEAF_GL"}},
	}

	c, err := New(Config{
		Input:  testInputSchema(),
		Output: output,
		Rules:  rules,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	out := c.TransformRow(table.Row{
		"CONTRACT_REF_NO": "CTR001",
		FieldCurrencyFlex: "USD",
		FieldFaceValue:    -500.0,
	})

	if len(out) != 2 {
		t.Fatalf("output has %d fields, want 2: %v", len(out), out)
	}
	for _, field := range []string{"OPBALSIGN", "CLBALSIGN", "AMOUNT", "OPBAL", "CLBAL"} {
		if out.Has(field) {
			t.Errorf("undeclared field %q present in output row", field)
		}
	}
}

func TestTransformRowEndToEnd(t *testing.T) {
	c := newTestConverter(t)
	out := c.TransformRow(table.Row{
		"CONTRACT_REF_NO":   "CTR001",
		FieldCurrencyCosmos: "JPY",
		FieldProductType:    "D",
		FieldLeafGL:         "LEAF001",
		FieldContractStatus: "ACTV",
		FieldCurrencyFlex:   "JPY",
		FieldFaceValue:      100000.0,
		FieldLcyFaceValue:   -500.0,
	})

	if got := out.GetString("LEAF_GL"); got != "LEAF001_JPY_D_G" {
		t.Errorf("LEAF_GL = %q, want %q", got, "LEAF001_JPY_D_G")
	}
	// No condition matched; FACE_VALUE >= 0 with a default action present.
	if got := out.GetString("DRORCR"); got != "C" {
		t.Errorf("DRORCR = %q, want %q", got, "C")
	}
	if got := out.GetFloat("AMOUNT"); got != 500 {
		t.Errorf("AMOUNT = %v, want 500", got)
	}
	if got := out.GetFloat("OPBAL"); got != -500 {
		t.Errorf("OPBAL = %v, want -500", got)
	}
	if got := out.GetString("CONTRACT_REF_NO"); got != "CTR001" {
		t.Errorf("CONTRACT_REF_NO = %q, want %q", got, "CTR001")
	}
	if got := out.GetString("REMARKS"); got != "CONVERTED" {
		t.Errorf("REMARKS = %q, want %q", got, "CONVERTED")
	}
}

// Field mappings run after transformation rules and overwrite their output.
func TestFieldMappingsOverwriteRules(t *testing.T) {
	rules := testProcessingRules()
	rules.FieldMappings = append(rules.FieldMappings, schema.FieldMapping{
		OutputField:    "DRORCR",
		Transformation: schema.TransformDefaultValue,
		DefaultValue:   "X",
	})

	c, err := New(Config{
		Input:  testInputSchema(),
		Output: testOutputSchema(),
		Rules:  rules,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// The rule would yield "D" here; the later mapping must win.
	out := c.TransformRow(table.Row{FieldContractStatus: "Y", FieldFaceValue: -1.0})
	if got := out.GetString("DRORCR"); got != "X" {
		t.Errorf("DRORCR = %q, want mapping value %q", got, "X")
	}
}

func TestTransformRowFillsMissingWithEmpty(t *testing.T) {
	c := newTestConverter(t)
	out := c.TransformRow(table.Row{})
	if got := out.GetString("OPBAL"); got != "0" {
		t.Errorf("OPBAL = %q, want %q", got, "0")
	}
	if v, ok := out["CONTRACT_REF_NO"]; !ok || v != "" {
		t.Errorf("CONTRACT_REF_NO = %v, want empty string", v)
	}
}

func TestConvertPreservesRowOrder(t *testing.T) {
	c := newTestConverter(t)

	tbl := table.New([]string{"CONTRACT_REF_NO", FieldCurrencyCosmos})
	for _, ref := range []string{"CTR003", "CTR001", "CTR002"} {
		tbl.Append(table.Row{"CONTRACT_REF_NO": ref, FieldCurrencyCosmos: "JPY"})
	}

	result, err := c.Convert(tbl)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if result.InputRecords != 3 || result.DroppedRows != 0 {
		t.Fatalf("InputRecords = %d, DroppedRows = %d, want 3 and 0",
			result.InputRecords, result.DroppedRows)
	}
	if result.Table.Len() != 3 {
		t.Fatalf("output has %d rows, want 3", result.Table.Len())
	}
	for i, want := range []string{"CTR003", "CTR001", "CTR002"} {
		if got := result.Table.Rows[i].GetString("CONTRACT_REF_NO"); got != want {
			t.Errorf("row %d CONTRACT_REF_NO = %q, want %q", i, got, want)
		}
	}
}

func TestConvertFailsValidation(t *testing.T) {
	c := newTestConverter(t)

	tbl := table.New([]string{FieldProductType})
	tbl.Append(table.Row{FieldProductType: "D"})

	if _, err := c.Convert(tbl); err == nil {
		t.Fatal("Convert() = nil error, want validation failure")
	}
}

func TestConvertFileUnsupportedFormat(t *testing.T) {
	c := newTestConverter(t)
	if _, err := c.ConvertFile("input.xml"); err == nil {
		t.Fatal("ConvertFile() = nil error, want unsupported format")
	}
}

func TestNewRequiresAllDocuments(t *testing.T) {
	if _, err := New(Config{Input: testInputSchema()}); err == nil {
		t.Fatal("New() = nil error, want missing configuration error")
	}
}

func TestNewWarnsOnUnknownRuleID(t *testing.T) {
	rules := testProcessingRules()
	rules.TransformationRules = append(rules.TransformationRules, schema.TransformationRule{
		RuleID: "INTEREST_SPLIT",
	})

	reporter := diag.NewReporter(nil)
	if _, err := New(Config{
		Input:    testInputSchema(),
		Output:   testOutputSchema(),
		Rules:    rules,
		Reporter: reporter,
	}); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if warnings, _ := reporter.Counts(); warnings != 1 {
		t.Errorf("got %d warnings, want 1", warnings)
	}
}
