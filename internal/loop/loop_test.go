package loop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/task"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

// scriptedClient returns canned responses in order and records every
// request it received.
type scriptedClient struct {
	responses []string
	errs      []error
	requests  []llm.LLMRequest
}

func (c *scriptedClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	call := len(c.requests)
	c.requests = append(c.requests, request)

	if call < len(c.errs) && c.errs[call] != nil {
		return nil, c.errs[call]
	}
	if call >= len(c.responses) {
		return nil, fmt.Errorf("unexpected call %d", call+1)
	}
	return &llm.LLMResponse{Content: c.responses[call], StopReason: "end_turn"}, nil
}

func (c *scriptedClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return c.InvokeModel(ctx, request)
}

func newLoop(t *testing.T, client llm.LLMClient, maxRetries int) *ValidationLoop {
	t.Helper()
	logger := zerolog.Nop()
	return NewValidationLoop(client, Config{MaxRetries: maxRetries, MaxTokens: 128}, &logger)
}

func ratingTask(t *testing.T) *task.Task {
	t.Helper()

	v, err := validator.NewRangeValidator(1, 5, validator.ValueTypeInteger)
	if err != nil {
		t.Fatalf("NewRangeValidator() failed: %v", err)
	}

	tk, err := task.NewTask("rating", "Rate this review: {{.review}}", v)
	if err != nil {
		t.Fatalf("NewTask() failed: %v", err)
	}
	return tk
}

func TestExecute_FirstAttemptSucceeds(t *testing.T) {
	client := &scriptedClient{responses: []string{" 3 \n"}}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), ratingTask(t), map[string]any{"review": "decent"}, Options{})

	if !result.Success {
		t.Fatalf("Expected success, got %+v", result)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if result.Output != "3" {
		t.Errorf("Output = %q, want trimmed response", result.Output)
	}
	if result.ValidationResult == nil || !result.ValidationResult.IsValid {
		t.Errorf("ValidationResult = %+v, want valid", result.ValidationResult)
	}

	req := client.requests[0]
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatalf("Messages = %+v, want single user message", req.Messages)
	}
	if req.Messages[0].Content != "Rate this review: decent" {
		t.Errorf("Prompt = %q, want interpolated task prompt", req.Messages[0].Content)
	}
	if !strings.Contains(req.System, "RANGE VALIDATION") {
		t.Errorf("System prompt should embed validator instructions: %q", req.System)
	}
	if !strings.Contains(req.System, "automatically validated") {
		t.Errorf("System prompt missing validation notice: %q", req.System)
	}
}

func TestExecute_RecoversWithFeedback(t *testing.T) {
	client := &scriptedClient{responses: []string{"15", "3"}}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), ratingTask(t), map[string]any{"review": "great"}, Options{})

	if !result.Success {
		t.Fatalf("Expected success, got %+v", result)
	}
	if result.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", result.Attempts)
	}
	if result.Output != "3" {
		t.Errorf("Output = %q, want 3", result.Output)
	}

	// Attempt 2 sends feedback only; the task prompt is not resent and
	// the prior exchange stays in the conversation.
	second := client.requests[1]
	if len(second.Messages) != 3 {
		t.Fatalf("Second request has %d messages, want 3", len(second.Messages))
	}
	if second.Messages[1].Role != llm.RoleAssistant || second.Messages[1].Content != "15" {
		t.Errorf("Conversation missing previous response: %+v", second.Messages)
	}
	feedback := second.Messages[2].Content
	if !strings.Contains(feedback, "previous response had validation errors") {
		t.Errorf("Feedback prompt = %q", feedback)
	}
	if !strings.Contains(feedback, "above the maximum") {
		t.Errorf("Feedback should carry the validation error: %q", feedback)
	}
	if strings.Contains(feedback, "Rate this review") {
		t.Errorf("Feedback must not resend the task prompt: %q", feedback)
	}
}

func TestExecute_Exhaustion(t *testing.T) {
	client := &scriptedClient{responses: []string{"10", "20", "30"}}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), ratingTask(t), map[string]any{"review": "bad"}, Options{})

	if result.Success {
		t.Fatal("Expected failure after exhaustion")
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	if result.Output != "30" {
		t.Errorf("Output = %q, want last response", result.Output)
	}
	if result.ValidationResult == nil || len(result.ValidationResult.Errors) == 0 {
		t.Errorf("Exhausted result should carry the final validation: %+v", result.ValidationResult)
	}
}

func TestExecute_MaxRetriesOverride(t *testing.T) {
	client := &scriptedClient{responses: []string{"10"}}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), ratingTask(t), map[string]any{"review": "x"}, Options{MaxRetries: 1})

	if result.Success {
		t.Fatal("Expected failure")
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if len(client.requests) != 1 {
		t.Errorf("Model called %d times, want 1", len(client.requests))
	}
}

func TestExecute_ModelErrorCountsAsAttempt(t *testing.T) {
	client := &scriptedClient{
		responses: []string{"", "3"},
		errs:      []error{errors.New("throttled"), nil},
	}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), ratingTask(t), map[string]any{"review": "ok"}, Options{Debug: true})

	if !result.Success {
		t.Fatalf("Expected recovery after model error, got %+v", result)
	}
	if result.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", result.Attempts)
	}

	// The failed call's unanswered message is dropped so the retry
	// conversation still alternates user/assistant.
	second := client.requests[1]
	if len(second.Messages) != 1 {
		t.Fatalf("Second request has %d messages, want 1", len(second.Messages))
	}

	if len(result.DebugInfo) != 2 {
		t.Fatalf("DebugInfo has %d records, want 2", len(result.DebugInfo))
	}
	if result.DebugInfo[0].Error != "throttled" {
		t.Errorf("First record error = %q, want throttled", result.DebugInfo[0].Error)
	}
	if result.DebugInfo[1].RawResponse != "3" {
		t.Errorf("Second record response = %q, want 3", result.DebugInfo[1].RawResponse)
	}
}

func TestExecute_DebugRecordsPerAttempt(t *testing.T) {
	client := &scriptedClient{responses: []string{"15", "3"}}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), ratingTask(t), map[string]any{"review": "fine"}, Options{Debug: true})

	if len(result.DebugInfo) != 2 {
		t.Fatalf("DebugInfo has %d records, want 2", len(result.DebugInfo))
	}
	if result.DebugInfo[0].Attempt != 1 || result.DebugInfo[1].Attempt != 2 {
		t.Errorf("Attempt numbers = %d, %d", result.DebugInfo[0].Attempt, result.DebugInfo[1].Attempt)
	}
	if !strings.Contains(result.DebugInfo[0].Prompt, "Rate this review") {
		t.Errorf("First record prompt = %q", result.DebugInfo[0].Prompt)
	}
	if !strings.Contains(result.DebugInfo[1].Prompt, "validation errors") {
		t.Errorf("Second record prompt = %q", result.DebugInfo[1].Prompt)
	}
}

func TestExecute_NoDebugByDefault(t *testing.T) {
	client := &scriptedClient{responses: []string{"3"}}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), ratingTask(t), map[string]any{"review": "fine"}, Options{})
	if result.DebugInfo != nil {
		t.Errorf("DebugInfo = %+v, want nil without debug", result.DebugInfo)
	}
}

func TestExecute_RenderFailure(t *testing.T) {
	v, err := validator.NewRegexValidator(".*")
	if err != nil {
		t.Fatalf("NewRegexValidator() failed: %v", err)
	}
	// Parses fine, fails at execution.
	tk, err := task.NewTask("strict", `{{index .items 5}}`, v)
	if err != nil {
		t.Fatalf("NewTask() failed: %v", err)
	}

	client := &scriptedClient{}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), tk, map[string]any{"items": []any{}}, Options{})

	if result.Success {
		t.Fatal("Expected failure on render error")
	}
	if result.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", result.Attempts)
	}
	if len(client.requests) != 0 {
		t.Errorf("Model called %d times, want 0", len(client.requests))
	}
	if result.ValidationResult == nil || !strings.Contains(result.ValidationResult.Errors[0], "render") {
		t.Errorf("ValidationResult = %+v, want render error", result.ValidationResult)
	}
}

func TestExecute_PanickingValidator(t *testing.T) {
	panicky := validator.NewFuncValidator("panicky", "", func(ctx context.Context, output string, vctx map[string]any) models.ValidationResult {
		panic("boom")
	})
	tk, err := task.NewTask("risky", "Say something", panicky)
	if err != nil {
		t.Fatalf("NewTask() failed: %v", err)
	}

	client := &scriptedClient{responses: []string{"hello", "hello", "hello"}}
	l := newLoop(t, client, 3)

	result := l.Execute(context.Background(), tk, nil, Options{})

	if result.Success {
		t.Fatal("Expected failure when validator panics every attempt")
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	if !strings.Contains(result.ValidationResult.Errors[0], "failed with exception") {
		t.Errorf("Errors = %v", result.ValidationResult.Errors)
	}
}
