// Package schema provides the typed representation of the three
// configuration documents that drive a conversion: the input schema, the
// output schema and the processing rules. Documents are loaded once, before
// any row processing, and are immutable for the lifetime of a run.
package schema

// DataType is the declared type of an input column.
type DataType string

const (
	TypeString  DataType = "string"
	TypeNumeric DataType = "numeric"
)

// RuleID identifies a transformation rule handler.
type RuleID string

const (
	RuleLeafGL      RuleID = "LEAF_GL_CALCULATION"
	RuleAccrual     RuleID = "ACCRUAL_ACCOUNT_LOGIC"
	RuleDrOrCr      RuleID = "DRORCR_CALCULATION"
	RuleBalanceSign RuleID = "BALANCE_SIGN_CALCULATION"
	RuleDateFormat  RuleID = "DATE_FORMATTING"
	RuleAmount      RuleID = "AMOUNT_CALCULATION"
)

// TransformKind identifies a field mapping transformation.
type TransformKind string

const (
	TransformDirectCopy       TransformKind = "DIRECT_COPY"
	TransformDefaultValue     TransformKind = "DEFAULT_VALUE"
	TransformStringConversion TransformKind = "STRING_CONVERSION"
)

// Validation rule kinds.
const (
	RuleTypeRequiredFields        = "required_fields"
	RuleTypeCurrencyValidation    = "currency_validation"
	RuleTypeProductTypeValidation = "product_type_validation"
)

// Column defines one field of the input schema. Column order is significant:
// fixed-width byte offsets are cumulative sums of prior column lengths.
type Column struct {
	Name     string   `json:"name" yaml:"name"`
	Length   int      `json:"length" yaml:"length"`
	DataType DataType `json:"data_type" yaml:"data_type"`
	Required bool     `json:"required" yaml:"required"`
}

// ValidationRule is a named validation applied to the whole input table.
type ValidationRule struct {
	RuleType    string   `json:"rule_type" yaml:"rule_type"`
	Field       string   `json:"field,omitempty" yaml:"field,omitempty"`
	ValidValues []string `json:"valid_values,omitempty" yaml:"valid_values,omitempty"`
	Fields      []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// InputSchema describes the layout and validation of the input side.
type InputSchema struct {
	SchemaName      string           `json:"schema_name" yaml:"schema_name"`
	Version         string           `json:"version" yaml:"version"`
	Columns         []Column         `json:"columns" yaml:"columns"`
	ValidationRules []ValidationRule `json:"validation_rules,omitempty" yaml:"validation_rules,omitempty"`
}

// RequiredColumns returns the names of all columns marked required.
func (s *InputSchema) RequiredColumns() []string {
	var out []string
	for _, col := range s.Columns {
		if col.Required {
			out = append(out, col.Name)
		}
	}
	return out
}

// OutputColumn names one expected output field. Only the name is
// significant on the output side.
type OutputColumn struct {
	Name string `json:"name" yaml:"name"`
}

// AdditionalFields lists computed-only output fields that have no explicit
// column definition.
type AdditionalFields struct {
	Fields []string `json:"fields" yaml:"fields"`
}

// OutputSchema enumerates the complete set of expected output fields.
type OutputSchema struct {
	SchemaName       string           `json:"schema_name" yaml:"schema_name"`
	Version          string           `json:"version" yaml:"version"`
	Columns          []OutputColumn   `json:"columns" yaml:"columns"`
	AdditionalFields AdditionalFields `json:"additional_fields,omitempty" yaml:"additional_fields,omitempty"`
}

// AllFields returns output columns followed by additional fields,
// preserving declared order.
func (s *OutputSchema) AllFields() []string {
	out := make([]string, 0, len(s.Columns)+len(s.AdditionalFields.Fields))
	for _, col := range s.Columns {
		out = append(out, col.Name)
	}
	out = append(out, s.AdditionalFields.Fields...)
	return out
}

// ConditionEntry is one entry of a rule's logic block: a condition pattern
// plus the action tag, literal value or source field it selects.
type ConditionEntry struct {
	Condition   string `json:"condition" yaml:"condition"`
	Action      string `json:"action,omitempty" yaml:"action,omitempty"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
	SourceField string `json:"source_field,omitempty" yaml:"source_field,omitempty"`
}

// DefaultAction is the optional fallback of a rule's logic block. Its
// presence (non-nil) matters more than its content.
type DefaultAction struct {
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
}

// RuleLogic is the ordered condition list of a transformation rule.
// Conditions are evaluated in declared order; the first match wins.
type RuleLogic struct {
	Conditions    []ConditionEntry `json:"conditions" yaml:"conditions"`
	DefaultAction *DefaultAction   `json:"default_action,omitempty" yaml:"default_action,omitempty"`
}

// TransformationRule is one named unit of computed-field logic.
// OutputField is used only when the rule's handler returns a scalar.
type TransformationRule struct {
	RuleID      RuleID    `json:"rule_id" yaml:"rule_id"`
	OutputField string    `json:"output_field,omitempty" yaml:"output_field,omitempty"`
	Logic       RuleLogic `json:"logic" yaml:"logic"`
}

// FieldMapping is an unconditional copy/default/convert operation from one
// input field to one output field.
type FieldMapping struct {
	OutputField    string        `json:"output_field" yaml:"output_field"`
	InputField     string        `json:"input_field" yaml:"input_field"`
	Transformation TransformKind `json:"transformation" yaml:"transformation"`
	DefaultValue   string        `json:"default_value,omitempty" yaml:"default_value,omitempty"`
}

// ProcessingRules is the rule document: ordered transformation rules
// followed by ordered field mappings.
type ProcessingRules struct {
	ProcessingName      string               `json:"processing_name" yaml:"processing_name"`
	TransformationRules []TransformationRule `json:"transformation_rules" yaml:"transformation_rules"`
	FieldMappings       []FieldMapping       `json:"field_mappings" yaml:"field_mappings"`
}
