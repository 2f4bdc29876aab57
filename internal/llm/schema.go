package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildEnvelopeJSONSchema returns the JSON-Schema (draft 2020-12 subset) for
// the parsed-query envelope as a generic map. Intent and entity_type are left
// as free strings here: the classifier coerces them into the closed sets and
// defaults on anything unrecognized, so schema-level enums would only turn
// recoverable input into hard failures.
func BuildEnvelopeJSONSchema() map[string]any {
	entityProps := map[string]any{
		"timesheet_id":   map[string]any{"type": "string"},
		"invoice_number": map[string]any{"type": "string"},
		"expense_id":     map[string]any{"type": "string"},
		"project_id":     map[string]any{"type": "string"},
		"talent_id":      map[string]any{"type": "string"},
		"user_id":        map[string]any{"type": "string"},
		"start_date":     map[string]any{"type": "string"},
		"end_date":       map[string]any{"type": "string"},
		"status":         map[string]any{"type": "string"},
		"hours":          map[string]any{"type": "number"},
		"amount":         map[string]any{"type": "number"},
		"currency":       map[string]any{"type": "string"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent":      map[string]any{"type": "string"},
			"entity_type": map[string]any{"type": "string"},
			"entities": map[string]any{
				"type":                 "object",
				"properties":           entityProps,
				"additionalProperties": false,
			},
			"operation":  map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"additionalProperties": false,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
