package validator

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

// Validator judges a model response against acceptance criteria fixed
// at construction time. Implementations must be safe for concurrent
// use: the same instance may be invoked from several goroutines at
// once, so no mutable per-call state on the receiver.
//
// Validate reports malformed output as a failing result, never as a
// panic; panics are reserved for programmer errors and are converted
// into synthetic errors at the composite and loop boundaries.
//
// Instructions renders the acceptance criteria for the model-facing
// system prompt and must be stable for a given configuration.
type Validator interface {
	Name() string
	Validate(ctx context.Context, output string, vctx map[string]any) models.ValidationResult
	Instructions() string
}

// Run invokes v.Validate and converts a panic into a synthetic failing
// result instead of letting it propagate. Composites, the async
// adapter and the retry loop all call children through here.
func Run(ctx context.Context, v Validator, output string, vctx map[string]any) (result models.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.Invalid(fmt.Sprintf("%s failed with exception: %v", v.Name(), r))
		}
	}()

	return v.Validate(ctx, output, vctx)
}
