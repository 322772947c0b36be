package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadInputSchema loads and validates an input schema document.
// JSON and YAML documents are supported, selected by file extension.
func LoadInputSchema(path string) (*InputSchema, error) {
	var s InputSchema
	if err := decodeFile(path, &s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid input schema %s: %w", path, err)
	}
	return &s, nil
}

// LoadOutputSchema loads and validates an output schema document.
func LoadOutputSchema(path string) (*OutputSchema, error) {
	var s OutputSchema
	if err := decodeFile(path, &s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid output schema %s: %w", path, err)
	}
	return &s, nil
}

// LoadProcessingRules loads and validates a processing rules document.
func LoadProcessingRules(path string) (*ProcessingRules, error) {
	var r ProcessingRules
	if err := decodeFile(path, &r); err != nil {
		return nil, err
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid processing rules %s: %w", path, err)
	}
	return &r, nil
}

// decodeFile reads a configuration document, dispatched on extension.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	return nil
}

func (s *InputSchema) validate() error {
	if s.SchemaName == "" {
		return fmt.Errorf("schema_name is required")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}

	seen := make(map[string]bool, len(s.Columns))
	for i := range s.Columns {
		col := &s.Columns[i]
		if col.Name == "" {
			return fmt.Errorf("column %d: name is required", i)
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate column name: %s", col.Name)
		}
		seen[col.Name] = true

		if col.Length < 0 {
			return fmt.Errorf("column %s: negative length", col.Name)
		}
		if col.Length == 0 {
			col.Length = 1
		}
		// Unrecognized data types are treated as string downstream.
		if col.DataType == "" {
			col.DataType = TypeString
		}
	}

	for i, rule := range s.ValidationRules {
		if rule.RuleType == "" {
			return fmt.Errorf("validation rule %d: rule_type is required", i)
		}
	}
	return nil
}

func (s *OutputSchema) validate() error {
	if s.SchemaName == "" {
		return fmt.Errorf("schema_name is required")
	}
	if len(s.Columns) == 0 && len(s.AdditionalFields.Fields) == 0 {
		return fmt.Errorf("output field set is empty")
	}
	for i, col := range s.Columns {
		if col.Name == "" {
			return fmt.Errorf("column %d: name is required", i)
		}
	}
	return nil
}

func (r *ProcessingRules) validate() error {
	if r.ProcessingName == "" {
		return fmt.Errorf("processing_name is required")
	}
	for i, rule := range r.TransformationRules {
		if rule.RuleID == "" {
			return fmt.Errorf("transformation rule %d: rule_id is required", i)
		}
	}
	for i, m := range r.FieldMappings {
		if m.OutputField == "" {
			return fmt.Errorf("field mapping %d: output_field is required", i)
		}
		if m.Transformation == "" {
			return fmt.Errorf("field mapping %d: transformation is required", i)
		}
	}
	return nil
}
