package validator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
)

func profileSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()

	raw := `{
		"type": "object",
		"required": ["name", "age"],
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer", "minimum": 0, "maximum": 120}
		}
	}`

	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		t.Fatalf("Failed to parse test schema: %v", err)
	}
	return &schema
}

func TestNewSchemaValidator_NilSchema(t *testing.T) {
	if _, err := NewSchemaValidator(nil); err == nil {
		t.Error("Expected construction error for nil schema, got nil")
	}
}

func TestSchemaValidator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantValid bool
		wantError string
	}{
		{"conforming object", `{"name": "Ada", "age": 36}`, true, ""},
		{"missing required field", `{"name": "Ada"}`, false, "does not conform to schema"},
		{"age out of bounds", `{"name": "Ada", "age": 200}`, false, "does not conform to schema"},
		{"wrong type", `{"name": "Ada", "age": "old"}`, false, "does not conform to schema"},
		{"not json", `name: Ada`, false, "not valid JSON"},
		{"json with trailing prose", `{"name": "Ada", "age": 36} hope this helps!`, false, "not valid JSON"},
	}

	v, err := NewSchemaValidator(profileSchema(t))
	if err != nil {
		t.Fatalf("NewSchemaValidator() failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(context.Background(), tt.output, nil)

			if result.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v (errors: %v)", result.IsValid, tt.wantValid, result.Errors)
			}
			if !tt.wantValid {
				if len(result.Errors) == 0 {
					t.Fatal("Failing result has no errors")
				}
				if !strings.Contains(result.Errors[0], tt.wantError) {
					t.Errorf("Error = %q, want it to contain %q", result.Errors[0], tt.wantError)
				}
			}
		})
	}
}

func TestSchemaValidator_ParsedMetadata(t *testing.T) {
	v, err := NewSchemaValidator(profileSchema(t))
	if err != nil {
		t.Fatalf("NewSchemaValidator() failed: %v", err)
	}

	result := v.Validate(context.Background(), `{"name": "Ada", "age": 36}`, nil)
	if !result.IsValid {
		t.Fatalf("Expected valid result, got errors: %v", result.Errors)
	}

	parsed, ok := result.Metadata["parsed"].(map[string]any)
	if !ok {
		t.Fatalf("Metadata parsed = %T, want map", result.Metadata["parsed"])
	}
	if parsed["name"] != "Ada" {
		t.Errorf("parsed name = %v, want Ada", parsed["name"])
	}
}

func TestSchemaValidator_Instructions(t *testing.T) {
	v, err := NewSchemaValidator(profileSchema(t))
	if err != nil {
		t.Fatalf("NewSchemaValidator() failed: %v", err)
	}

	instructions := v.Instructions()
	if !strings.Contains(instructions, "valid JSON") {
		t.Errorf("Instructions should require valid JSON: %s", instructions)
	}
	if !strings.Contains(instructions, `"required"`) {
		t.Errorf("Instructions should embed the schema: %s", instructions)
	}
}
