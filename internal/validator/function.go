package validator

import (
	"context"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

// ValidateFunc is a plain function satisfying the validation contract.
type ValidateFunc func(ctx context.Context, output string, vctx map[string]any) models.ValidationResult

// FuncValidator adapts a function into a Validator so ad-hoc checks can
// participate in composites, caching and the retry loop.
type FuncValidator struct {
	name         string
	instructions string
	fn           ValidateFunc
}

func NewFuncValidator(name, instructions string, fn ValidateFunc) *FuncValidator {
	return &FuncValidator{
		name:         name,
		instructions: instructions,
		fn:           fn,
	}
}

func (v *FuncValidator) Name() string {
	return v.name
}

func (v *FuncValidator) Validate(ctx context.Context, output string, vctx map[string]any) models.ValidationResult {
	return v.fn(ctx, output, vctx)
}

func (v *FuncValidator) Instructions() string {
	return v.instructions
}
