package validator

import (
	"context"
	"strings"
	"testing"
)

func TestNewRegexValidator_InvalidPattern(t *testing.T) {
	if _, err := NewRegexValidator("(unclosed"); err == nil {
		t.Error("Expected construction error for invalid pattern, got nil")
	}
}

func TestRegexValidator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		output    string
		wantValid bool
	}{
		{"iso date match", `^\d{4}-\d{2}-\d{2}$`, "2026-08-25", true},
		{"iso date mismatch", `^\d{4}-\d{2}-\d{2}$`, "25/08/2026", false},
		{"prefix match", `^[A-Z][^:]*:`, "Widget: a fine widget", true},
		{"prefix mismatch", `^[A-Z][^:]*:`, "a fine widget", false},
		{"empty output", `^\d+$`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewRegexValidator(tt.pattern)
			if err != nil {
				t.Fatalf("NewRegexValidator() failed: %v", err)
			}

			result := v.Validate(context.Background(), tt.output, nil)
			if result.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v (errors: %v)", result.IsValid, tt.wantValid, result.Errors)
			}
			if !tt.wantValid {
				if len(result.Errors) != 1 {
					t.Fatalf("Expected exactly one error, got %v", result.Errors)
				}
				if !strings.Contains(result.Errors[0], tt.pattern) {
					t.Errorf("Error should name the pattern, got %q", result.Errors[0])
				}
			}
		})
	}
}

func TestRegexValidator_Instructions(t *testing.T) {
	v, err := NewRegexValidator(`^\d+$`)
	if err != nil {
		t.Fatalf("NewRegexValidator() failed: %v", err)
	}

	if !strings.Contains(v.Instructions(), `^\d+$`) {
		t.Errorf("Instructions missing pattern: %s", v.Instructions())
	}
}
