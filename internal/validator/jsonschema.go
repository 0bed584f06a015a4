package validator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

// SchemaValidator accepts output that parses as JSON and conforms to a
// fixed JSON schema.
type SchemaValidator struct {
	resolved   *jsonschema.Resolved
	schemaJSON string
}

// NewSchemaValidator resolves the schema up front; an unresolvable
// schema is a configuration error.
func NewSchemaValidator(schema *jsonschema.Schema) (*SchemaValidator, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema validator: schema is nil")
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("schema validator: failed to resolve schema: %w", err)
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("schema validator: failed to serialize schema: %w", err)
	}

	return &SchemaValidator{
		resolved:   resolved,
		schemaJSON: string(raw),
	}, nil
}

func (v *SchemaValidator) Name() string {
	return "json-schema-validator"
}

func (v *SchemaValidator) Validate(ctx context.Context, output string, vctx map[string]any) models.ValidationResult {
	var parsed any
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		return models.Invalid(fmt.Sprintf("output is not valid JSON: %v", err))
	}

	if err := v.resolved.Validate(parsed); err != nil {
		return models.ValidationResult{
			IsValid:  false,
			Errors:   []string{fmt.Sprintf("output does not conform to schema: %v", err)},
			Metadata: map[string]any{"parsed": parsed},
		}
	}

	return models.ValidationResult{
		IsValid:  true,
		Metadata: map[string]any{"parsed": parsed},
	}
}

func (v *SchemaValidator) Instructions() string {
	return fmt.Sprintf("JSON SCHEMA VALIDATION:\n- Output must be valid JSON matching this schema, with no surrounding text or markdown:\n%s", v.schemaJSON)
}
