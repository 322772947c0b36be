package converter

import (
	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// ApplyMapping computes one field mapping against a row.
//
// DIRECT_COPY returns the input field's value verbatim (empty string if
// absent), DEFAULT_VALUE returns the configured literal ignoring the row,
// STRING_CONVERSION coerces the input field's value to text. Unrecognized
// transformation kinds yield an empty string.
func ApplyMapping(row table.Row, mapping *schema.FieldMapping) any {
	switch mapping.Transformation {
	case schema.TransformDirectCopy:
		if v, ok := row[mapping.InputField]; ok && v != nil {
			return v
		}
		return ""
	case schema.TransformDefaultValue:
		return mapping.DefaultValue
	case schema.TransformStringConversion:
		return row.GetString(mapping.InputField)
	default:
		return ""
	}
}
