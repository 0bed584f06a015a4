package validator

import (
	"context"
	"strings"
	"testing"
)

func TestNewRangeValidator_InvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		min       float64
		max       float64
		valueType ValueType
	}{
		{"min greater than max", 10, 1, ValueTypeInteger},
		{"unknown value type", 0, 10, ValueType("decimal")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRangeValidator(tt.min, tt.max, tt.valueType); err == nil {
				t.Error("Expected construction error, got nil")
			}
		})
	}
}

func TestRangeValidator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		valueType ValueType
		output    string
		wantValid bool
		wantError string
	}{
		{"integer in range", ValueTypeInteger, "3", true, ""},
		{"integer at min", ValueTypeInteger, "1", true, ""},
		{"integer at max", ValueTypeInteger, "5", true, ""},
		{"integer below min", ValueTypeInteger, "0", false, "below the minimum"},
		{"integer above max", ValueTypeInteger, "6", false, "above the maximum"},
		{"integer with whitespace", ValueTypeInteger, "  4\n", true, ""},
		{"float rejected as integer", ValueTypeInteger, "3.5", false, "not a valid integer"},
		{"not a number", ValueTypeInteger, "three", false, "not a valid integer"},
		{"empty output", ValueTypeInteger, "", false, "output is empty"},
		{"float in range", ValueTypeFloat, "3.5", true, ""},
		{"float out of range", ValueTypeFloat, "5.01", false, "above the maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewRangeValidator(1, 5, tt.valueType)
			if err != nil {
				t.Fatalf("NewRangeValidator() failed: %v", err)
			}

			result := v.Validate(context.Background(), tt.output, nil)

			if result.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v (errors: %v)", result.IsValid, tt.wantValid, result.Errors)
			}
			if tt.wantValid && len(result.Errors) != 0 {
				t.Errorf("Valid result carries errors: %v", result.Errors)
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

func TestRangeValidator_Metadata(t *testing.T) {
	v, err := NewRangeValidator(0, 100, ValueTypeInteger)
	if err != nil {
		t.Fatalf("NewRangeValidator() failed: %v", err)
	}

	result := v.Validate(context.Background(), "42", nil)
	if !result.IsValid {
		t.Fatalf("Expected valid result, got errors: %v", result.Errors)
	}

	value, ok := result.Metadata["value"].(float64)
	if !ok || value != 42 {
		t.Errorf("Metadata value = %v, want 42", result.Metadata["value"])
	}
}

func TestRangeValidator_Instructions(t *testing.T) {
	v, err := NewRangeValidator(1, 5, ValueTypeInteger)
	if err != nil {
		t.Fatalf("NewRangeValidator() failed: %v", err)
	}

	instructions := v.Instructions()
	for _, want := range []string{"integer", "1", "5"} {
		if !strings.Contains(instructions, want) {
			t.Errorf("Instructions missing %q: %s", want, instructions)
		}
	}
}
