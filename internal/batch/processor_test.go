package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/loop"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/task"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

// fixedClient always returns the same response.
type fixedClient struct {
	content string
}

func (c *fixedClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return &llm.LLMResponse{Content: c.content, StopReason: "end_turn"}, nil
}

func (c *fixedClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return c.InvokeModel(ctx, request)
}

func testSetup(t *testing.T) (*loop.ValidationLoop, *task.Set) {
	t.Helper()

	v, err := validator.NewRangeValidator(1, 5, validator.ValueTypeInteger)
	if err != nil {
		t.Fatalf("NewRangeValidator() failed: %v", err)
	}
	rating, err := task.NewTask("rating", "Rate: {{.review}}", v)
	if err != nil {
		t.Fatalf("NewTask() failed: %v", err)
	}

	l := loop.NewValidationLoop(&fixedClient{content: "3"}, loop.Config{MaxRetries: 3}, newTestLogger())
	return l, task.NewSet(rating)
}

func TestProcessor_Process(t *testing.T) {
	l, tasks := testSetup(t)
	p := NewProcessor(l, tasks, 2, newTestLogger())

	records := []InputRecord{
		{LineNumber: 1, Request: models.GenerationRequest{EventID: "a", Task: "rating", InputData: map[string]any{"review": "nice"}}},
		{LineNumber: 2, Request: models.GenerationRequest{EventID: "b", Task: "unknown-task"}},
		{LineNumber: 3, Error: errInvalidLine},
	}

	results := map[string]models.GenerationResult{}
	count := 0
	for result := range p.Process(context.Background(), records) {
		results[result.ID] = result
		count++
	}

	if count != 3 {
		t.Fatalf("Got %d results, want 3", count)
	}

	good := results["a"]
	if !good.Success || good.Output != "3" {
		t.Errorf("Expected successful generation for record a, got %+v", good)
	}

	unknown := results["b"]
	if unknown.Success {
		t.Error("Unknown task should fail")
	}
	if unknown.ValidationResult == nil || len(unknown.ValidationResult.Errors) == 0 {
		t.Errorf("Unknown-task result missing errors: %+v", unknown.ValidationResult)
	}

	parseFailure := results[""]
	if parseFailure.Success {
		t.Error("Unparseable record should fail")
	}
}

var errInvalidLine = errors.New("line 3: invalid character")
