package validator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

type ValueType string

const (
	ValueTypeInteger ValueType = "integer"
	ValueTypeFloat   ValueType = "float"
)

// RangeValidator accepts a single numeric value within [min, max].
type RangeValidator struct {
	min       float64
	max       float64
	valueType ValueType
}

func NewRangeValidator(min, max float64, valueType ValueType) (*RangeValidator, error) {
	if min > max {
		return nil, fmt.Errorf("range validator: min %v is greater than max %v", min, max)
	}
	if valueType != ValueTypeInteger && valueType != ValueTypeFloat {
		return nil, fmt.Errorf("range validator: unknown value type %q", valueType)
	}

	return &RangeValidator{
		min:       min,
		max:       max,
		valueType: valueType,
	}, nil
}

func (v *RangeValidator) Name() string {
	return "range-validator"
}

func (v *RangeValidator) Validate(ctx context.Context, output string, vctx map[string]any) models.ValidationResult {
	raw := strings.TrimSpace(output)
	if raw == "" {
		return models.Invalid("output is empty, expected a single number")
	}

	var value float64
	if v.valueType == ValueTypeInteger {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.Invalid(fmt.Sprintf("output %q is not a valid integer", raw))
		}
		value = float64(parsed)
	} else {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Invalid(fmt.Sprintf("output %q is not a valid number", raw))
		}
		value = parsed
	}

	if value < v.min {
		return models.Invalid(fmt.Sprintf("value %v is below the minimum %v", value, v.min))
	}
	if value > v.max {
		return models.Invalid(fmt.Sprintf("value %v is above the maximum %v", value, v.max))
	}

	return models.ValidationResult{
		IsValid:  true,
		Metadata: map[string]any{"value": value},
	}
}

func (v *RangeValidator) Instructions() string {
	kind := "number"
	if v.valueType == ValueTypeInteger {
		kind = "integer"
	}
	return fmt.Sprintf("RANGE VALIDATION:\n- Output must be a single %s between %v and %v (inclusive), with no surrounding text.", kind, v.min, v.max)
}
