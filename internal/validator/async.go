package validator

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

// AsyncValidator runs a wrapped validator on its own goroutine so a
// slow or blocking implementation cannot stall a concurrent composite.
// The wrapped call always runs to completion; on timeout or context
// cancellation its late result is discarded and a failing result is
// returned instead.
type AsyncValidator struct {
	inner   Validator
	timeout time.Duration
}

// NewAsyncValidator wraps inner. A zero timeout means no deadline
// beyond the caller's context.
func NewAsyncValidator(inner Validator, timeout time.Duration) *AsyncValidator {
	return &AsyncValidator{
		inner:   inner,
		timeout: timeout,
	}
}

func (a *AsyncValidator) Name() string {
	return fmt.Sprintf("Async(%s)", a.inner.Name())
}

func (a *AsyncValidator) Validate(ctx context.Context, output string, vctx map[string]any) models.ValidationResult {
	// Buffered so the worker can always deliver and exit.
	done := make(chan models.ValidationResult, 1)

	go func() {
		done <- Run(ctx, a.inner, output, vctx)
	}()

	var timeout <-chan time.Time
	if a.timeout > 0 {
		timer := time.NewTimer(a.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case result := <-done:
		return result
	case <-timeout:
		return models.Invalid(fmt.Sprintf("%s timed out after %s", a.inner.Name(), a.timeout))
	case <-ctx.Done():
		return models.Invalid(fmt.Sprintf("%s cancelled: %v", a.inner.Name(), ctx.Err()))
	}
}

func (a *AsyncValidator) Instructions() string {
	return a.inner.Instructions()
}
