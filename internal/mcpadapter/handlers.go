package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/loop"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/task"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

// GenerateInput is the MCP tool input schema for validated generation.
type GenerateInput struct {
	EventID    string         `json:"event_id,omitempty" jsonschema:"optional event identifier"`
	Task       string         `json:"task" jsonschema:"name of the configured task to run"`
	InputData  map[string]any `json:"input_data,omitempty" jsonschema:"data for the task's prompt template"`
	MaxRetries int            `json:"max_retries,omitempty" jsonschema:"attempt budget override (default from config)"`
	Debug      bool           `json:"debug,omitempty" jsonschema:"include per-attempt debug records"`
}

// ValidateInput is the MCP tool input schema for standalone validation.
type ValidateInput struct {
	Task string `json:"task" jsonschema:"task whose validator to run"`
	Text string `json:"text" jsonschema:"text to validate"`
}

// NewGenerateHandler returns a tool handler that runs the validation
// loop for a configured task. Pass the returned function to mcp.AddTool.
func NewGenerateHandler(validationLoop *loop.ValidationLoop, tasks *task.Set) func(context.Context, *mcp.CallToolRequest, GenerateInput) (*mcp.CallToolResult, models.GenerationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, models.GenerationResult, error) {
		t, err := tasks.Get(input.Task)
		if err != nil {
			return nil, models.GenerationResult{}, err
		}

		result := validationLoop.Execute(ctx, t, input.InputData, loop.Options{
			MaxRetries: input.MaxRetries,
			Debug:      input.Debug,
		})
		result.ID = input.EventID

		return nil, result, nil
	}
}

// NewValidateHandler returns a tool handler that validates text
// without a model call.
func NewValidateHandler(tasks *task.Set) func(context.Context, *mcp.CallToolRequest, ValidateInput) (*mcp.CallToolResult, models.ValidationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, models.ValidationResult, error) {
		t, err := tasks.Get(input.Task)
		if err != nil {
			return nil, models.ValidationResult{}, err
		}

		result := validator.Run(ctx, t.Validator(), input.Text, nil)
		return nil, result, nil
	}
}
