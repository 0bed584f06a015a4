package validator

import (
	"context"
	"fmt"
	"regexp"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

// RegexValidator accepts output matching a fixed pattern.
type RegexValidator struct {
	pattern *regexp.Regexp
}

// NewRegexValidator compiles the pattern; an invalid pattern is a
// configuration error reported at construction, never from Validate.
func NewRegexValidator(pattern string) (*RegexValidator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("regex validator: invalid pattern %q: %w", pattern, err)
	}

	return &RegexValidator{pattern: re}, nil
}

func (v *RegexValidator) Name() string {
	return "regex-validator"
}

func (v *RegexValidator) Validate(ctx context.Context, output string, vctx map[string]any) models.ValidationResult {
	if !v.pattern.MatchString(output) {
		return models.Invalid(fmt.Sprintf("output does not match required pattern %q", v.pattern.String()))
	}

	return models.ValidationResult{
		IsValid:  true,
		Metadata: map[string]any{"pattern": v.pattern.String()},
	}
}

func (v *RegexValidator) Instructions() string {
	return fmt.Sprintf("FORMAT VALIDATION:\n- Output must match the regular expression: %s", v.pattern.String())
}
