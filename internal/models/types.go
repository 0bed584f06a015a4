package models

import (
	"fmt"
	"strings"
	"time"
)

// ValidationResult is the immutable outcome of one validation call.
// Validators build a fresh instance per invocation and never mutate it
// afterwards; composites merge children's results into a new instance.
type ValidationResult struct {
	IsValid  bool           `json:"is_valid"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Valid returns a passing result with no errors or warnings.
func Valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Invalid returns a failing result with the given errors.
func Invalid(errors ...string) ValidationResult {
	return ValidationResult{IsValid: false, Errors: errors}
}

// FeedbackText renders the errors and warnings as corrective feedback
// for the next model attempt.
func (r ValidationResult) FeedbackText() string {
	var b strings.Builder

	if len(r.Errors) > 0 {
		b.WriteString("Errors:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Input message

type GenerationRequest struct {
	EventID    string         `json:"event_id"`
	Task       string         `json:"task"`
	InputData  map[string]any `json:"input_data"`
	MaxRetries int            `json:"max_retries,omitempty"`
	Debug      bool           `json:"debug,omitempty"`
}

// AttemptRecord captures one prompt/response cycle. Collected only in
// debug mode; never affects control flow.
type AttemptRecord struct {
	Attempt     int       `json:"attempt"`
	Prompt      string    `json:"prompt"`
	RawResponse string    `json:"raw_response,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// GenerationResult is the outcome of one full retry-loop execution.
// Success implies ValidationResult.IsValid; exhaustion is reported
// here, not as an error.
type GenerationResult struct {
	ID               string            `json:"id"`
	Success          bool              `json:"success"`
	Output           string            `json:"output"`
	Attempts         int               `json:"attempts"`
	ValidationResult *ValidationResult `json:"validation_result,omitempty"`
	ExecutionTime    time.Duration     `json:"execution_time_ns"`
	DebugInfo        []AttemptRecord   `json:"debug_info,omitempty"`
}
