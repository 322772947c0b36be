package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadInputSchemaJSON(t *testing.T) {
	path := writeFile(t, "input_schema.json", `{
		"schema_name": "Financial Transaction Data",
		"version": "1.0",
		"columns": [
			{"name": "RECORD_TYPE", "length": 3, "data_type": "string", "required": true},
			{"name": "FACE_VALUE", "length": 12, "data_type": "numeric"},
			{"name": "FLAG"}
		],
		"validation_rules": [
			{"rule_type": "currency_validation", "field": "CURRENCY_Cosmos", "valid_values": ["JPY", "USD"]}
		]
	}`)

	s, err := LoadInputSchema(path)
	if err != nil {
		t.Fatalf("LoadInputSchema() error = %v", err)
	}

	if s.SchemaName != "Financial Transaction Data" {
		t.Errorf("SchemaName = %q", s.SchemaName)
	}
	if len(s.Columns) != 3 {
		t.Fatalf("len(Columns) = %d, expected 3", len(s.Columns))
	}
	if s.Columns[1].DataType != TypeNumeric {
		t.Errorf("FACE_VALUE data type = %q, expected numeric", s.Columns[1].DataType)
	}
	// Defaults: length 1, data type string.
	if s.Columns[2].Length != 1 {
		t.Errorf("FLAG length = %d, expected default 1", s.Columns[2].Length)
	}
	if s.Columns[2].DataType != TypeString {
		t.Errorf("FLAG data type = %q, expected default string", s.Columns[2].DataType)
	}

	required := s.RequiredColumns()
	if len(required) != 1 || required[0] != "RECORD_TYPE" {
		t.Errorf("RequiredColumns() = %v", required)
	}
}

func TestLoadInputSchemaYAML(t *testing.T) {
	path := writeFile(t, "input_schema.yaml", `
schema_name: Financial Transaction Data
version: "1.0"
columns:
  - name: RECORD_TYPE
    length: 3
    required: true
  - name: FACE_VALUE
    length: 12
    data_type: numeric
`)

	s, err := LoadInputSchema(path)
	if err != nil {
		t.Fatalf("LoadInputSchema() error = %v", err)
	}
	if len(s.Columns) != 2 {
		t.Fatalf("len(Columns) = %d, expected 2", len(s.Columns))
	}
	if s.Columns[0].DataType != TypeString {
		t.Errorf("RECORD_TYPE data type = %q, expected string default", s.Columns[0].DataType)
	}
}

func TestLoadInputSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"missing schema_name", "s.json", `{"columns": [{"name": "A"}]}`},
		{"no columns", "s.json", `{"schema_name": "x", "columns": []}`},
		{"duplicate column", "s.json", `{"schema_name": "x", "columns": [{"name": "A"}, {"name": "A"}]}`},
		{"unnamed column", "s.json", `{"schema_name": "x", "columns": [{"length": 3}]}`},
		{"malformed json", "s.json", `{`},
		{"unsupported extension", "s.txt", `schema_name: x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			if _, err := LoadInputSchema(path); err == nil {
				t.Error("LoadInputSchema() expected error, got nil")
			}
		})
	}
}

func TestLoadOutputSchema(t *testing.T) {
	path := writeFile(t, "output_schema.json", `{
		"schema_name": "FLEX PP Balance Format",
		"version": "2.1",
		"columns": [{"name": "SIDE"}, {"name": "TERMID"}, {"name": "AMOUNT"}],
		"additional_fields": {"fields": ["OPBALSIGN", "CLBALSIGN"]}
	}`)

	s, err := LoadOutputSchema(path)
	if err != nil {
		t.Fatalf("LoadOutputSchema() error = %v", err)
	}

	all := s.AllFields()
	expected := []string{"SIDE", "TERMID", "AMOUNT", "OPBALSIGN", "CLBALSIGN"}
	if len(all) != len(expected) {
		t.Fatalf("AllFields() = %v", all)
	}
	for i := range expected {
		if all[i] != expected[i] {
			t.Errorf("AllFields()[%d] = %q, expected %q", i, all[i], expected[i])
		}
	}
}

func TestLoadProcessingRules(t *testing.T) {
	path := writeFile(t, "processing_rules.json", `{
		"processing_name": "FLEX PP Balance Conversion",
		"transformation_rules": [
			{
				"rule_id": "DRORCR_CALCULATION",
				"output_field": "DRORCR",
				"logic": {
					"conditions": [
						{"condition": "CONTRACT_STATUS == 'Y' AND FACE_VALUE >= 0", "value": "C"}
					],
					"default_action": {"action": "SIGN_BASED"}
				}
			}
		],
		"field_mappings": [
			{"output_field": "TERMID", "input_field": "CONTRACT_REF_NO", "transformation": "DIRECT_COPY"}
		]
	}`)

	r, err := LoadProcessingRules(path)
	if err != nil {
		t.Fatalf("LoadProcessingRules() error = %v", err)
	}

	if r.ProcessingName != "FLEX PP Balance Conversion" {
		t.Errorf("ProcessingName = %q", r.ProcessingName)
	}
	if len(r.TransformationRules) != 1 {
		t.Fatalf("len(TransformationRules) = %d", len(r.TransformationRules))
	}
	rule := r.TransformationRules[0]
	if rule.RuleID != RuleDrOrCr {
		t.Errorf("RuleID = %q", rule.RuleID)
	}
	if rule.Logic.DefaultAction == nil {
		t.Error("DefaultAction = nil, expected present")
	}
	if len(r.FieldMappings) != 1 || r.FieldMappings[0].Transformation != TransformDirectCopy {
		t.Errorf("FieldMappings = %+v", r.FieldMappings)
	}
}

func TestLoadProcessingRulesErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing processing_name", `{"transformation_rules": [], "field_mappings": []}`},
		{"rule without id", `{"processing_name": "x", "transformation_rules": [{"output_field": "A"}]}`},
		{"mapping without output", `{"processing_name": "x", "field_mappings": [{"input_field": "A", "transformation": "DIRECT_COPY"}]}`},
		{"mapping without transformation", `{"processing_name": "x", "field_mappings": [{"output_field": "A", "input_field": "B"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "rules.json", tt.content)
			if _, err := LoadProcessingRules(path); err == nil {
				t.Error("LoadProcessingRules() expected error, got nil")
			}
		})
	}
}
