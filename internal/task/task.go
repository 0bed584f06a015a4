package task

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

// Task pairs a prompt template with the validator that judges the
// model's responses. Configuration is fixed at construction so the
// same instance can serve concurrent executions.
type Task struct {
	name      string
	tmpl      *template.Template
	validator validator.Validator
	prepare   func(map[string]any) map[string]any
}

type Option func(*Task)

// WithPromptData installs a hook that enriches or normalizes the
// caller-supplied input before template interpolation.
func WithPromptData(fn func(map[string]any) map[string]any) Option {
	return func(t *Task) {
		t.prepare = fn
	}
}

func NewTask(name, promptTemplate string, v validator.Validator, opts ...Option) (*Task, error) {
	if v == nil {
		return nil, fmt.Errorf("task %s has no validator", name)
	}

	tmpl, err := template.New(name).Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template for task %s: %w", name, err)
	}

	t := &Task{
		name:      name,
		tmpl:      tmpl,
		validator: v,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) Validator() validator.Validator {
	return t.validator
}

// RenderPrompt interpolates the task template with the input data.
func (t *Task) RenderPrompt(data map[string]any) (string, error) {
	if t.prepare != nil {
		data = t.prepare(data)
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution failed for task %s: %w", t.name, err)
	}
	return buf.String(), nil
}
