// Package api exposes the converter over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/pigeonworks-llc/flex-convert/pkg/converter"
	"github.com/pigeonworks-llc/flex-convert/pkg/diag"
	"github.com/pigeonworks-llc/flex-convert/pkg/schema"
	"github.com/pigeonworks-llc/flex-convert/pkg/table"
)

// ConvertHandler handles conversion requests against a fixed set of loaded
// configuration documents.
type ConvertHandler struct {
	input  *schema.InputSchema
	output *schema.OutputSchema
	rules  *schema.ProcessingRules
	strict bool
}

// NewConvertHandler creates a ConvertHandler.
func NewConvertHandler(input *schema.InputSchema, output *schema.OutputSchema, rules *schema.ProcessingRules, strict bool) *ConvertHandler {
	return &ConvertHandler{input: input, output: output, rules: rules, strict: strict}
}

// ConvertRequest is the body of POST /api/1/convert.
type ConvertRequest struct {
	Records []map[string]any `json:"records"`
}

// ConvertResponse is the result of a conversion request.
type ConvertResponse struct {
	ProcessingName string           `json:"processing_name"`
	Columns        []string         `json:"columns"`
	Records        []map[string]any `json:"records"`
	InputRecords   int              `json:"input_records"`
	DroppedRows    int              `json:"dropped_rows"`
	Findings       []diag.Finding   `json:"findings,omitempty"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Convert handles POST /api/1/convert. Each request gets its own reporter,
// so findings in the response belong to that request alone.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if len(req.Records) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "No records supplied")
		return
	}

	reporter := diag.NewReporter(nil)
	conv, err := converter.New(converter.Config{
		Input:    h.input,
		Output:   h.output,
		Rules:    h.rules,
		Reporter: reporter,
		Strict:   h.strict,
	})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to initialize converter")
		return
	}

	t := tableFromRecords(h.input, req.Records)

	result, err := conv.Convert(t)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
		return
	}

	records := make([]map[string]any, 0, result.Table.Len())
	for _, row := range result.Table.Rows {
		records = append(records, row)
	}

	response := ConvertResponse{
		ProcessingName: h.rules.ProcessingName,
		Columns:        result.Table.Columns,
		Records:        records,
		InputRecords:   result.InputRecords,
		DroppedRows:    result.DroppedRows,
		Findings:       result.Findings,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// tableFromRecords builds an input table from posted records. The column
// set is the union of input schema columns and any extra posted fields.
func tableFromRecords(in *schema.InputSchema, records []map[string]any) *table.Table {
	columns := make([]string, 0, len(in.Columns))
	seen := make(map[string]bool, len(in.Columns))
	for _, col := range in.Columns {
		columns = append(columns, col.Name)
		seen[col.Name] = true
	}
	for _, record := range records {
		for name := range record {
			if !seen[name] {
				columns = append(columns, name)
				seen[name] = true
			}
		}
	}

	t := table.New(columns)
	for _, record := range records {
		row := make(table.Row, len(record))
		for name, value := range record {
			row[name] = value
		}
		t.Append(row)
	}
	return t
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}
