package validator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

type LogicOperator string

const (
	OperatorAnd LogicOperator = "AND"
	OperatorOr  LogicOperator = "OR"
)

// CompositeConfig controls how a Composite combines its children.
// ShortCircuit only takes effect in sequential mode: in concurrent
// mode every dispatched child runs to completion and is awaited, even
// when the verdict is already determined.
type CompositeConfig struct {
	Operator     LogicOperator
	ShortCircuit bool
	Concurrent   bool
}

// Composite combines child validators with AND/OR logic. Under AND the
// composite is valid iff all evaluated children are valid; under OR iff
// at least one is. Child errors and warnings are merged with a
// "[name] " prefix, always in child-declaration order so the output is
// deterministic regardless of completion order.
type Composite struct {
	validators   []Validator
	operator     LogicOperator
	shortCircuit bool
	concurrent   bool
}

func NewComposite(cfg CompositeConfig, validators ...Validator) (*Composite, error) {
	if len(validators) == 0 {
		return nil, fmt.Errorf("composite validator: at least one validator must be provided")
	}

	switch cfg.Operator {
	case OperatorAnd, OperatorOr:
	default:
		return nil, fmt.Errorf("composite validator: unknown operator %q", cfg.Operator)
	}

	return &Composite{
		validators:   validators,
		operator:     cfg.Operator,
		shortCircuit: cfg.ShortCircuit,
		concurrent:   cfg.Concurrent,
	}, nil
}

// All builds a sequential AND composite.
func All(validators ...Validator) (*Composite, error) {
	return NewComposite(CompositeConfig{Operator: OperatorAnd}, validators...)
}

// Any builds a sequential OR composite.
func Any(validators ...Validator) (*Composite, error) {
	return NewComposite(CompositeConfig{Operator: OperatorOr}, validators...)
}

func (c *Composite) Name() string {
	return fmt.Sprintf("composite-%s", strings.ToLower(string(c.operator)))
}

type childResult struct {
	index  int
	result models.ValidationResult
}

func (c *Composite) Validate(ctx context.Context, output string, vctx map[string]any) models.ValidationResult {
	return c.aggregate(c.evaluate(ctx, output, vctx))
}

func (c *Composite) evaluate(ctx context.Context, output string, vctx map[string]any) []childResult {
	if c.concurrent {
		results := make([]models.ValidationResult, len(c.validators))

		var wg sync.WaitGroup
		for i, v := range c.validators {
			wg.Add(1)
			go func(i int, v Validator) {
				defer wg.Done()
				results[i] = Run(ctx, v, output, vctx)
			}(i, v)
		}
		wg.Wait()

		evaluated := make([]childResult, len(results))
		for i, res := range results {
			evaluated[i] = childResult{index: i, result: res}
		}
		return evaluated
	}

	var evaluated []childResult
	for i, v := range c.validators {
		res := Run(ctx, v, output, vctx)
		evaluated = append(evaluated, childResult{index: i, result: res})

		if c.shortCircuit {
			if c.operator == OperatorAnd && !res.IsValid {
				break
			}
			if c.operator == OperatorOr && res.IsValid {
				break
			}
		}
	}

	return evaluated
}

func (c *Composite) aggregate(evaluated []childResult) models.ValidationResult {
	valid := c.operator == OperatorAnd

	merged := models.ValidationResult{
		Metadata: map[string]any{},
	}

	for _, cr := range evaluated {
		name := c.validators[cr.index].Name()
		res := cr.result

		switch c.operator {
		case OperatorAnd:
			if !res.IsValid {
				valid = false
			}
		case OperatorOr:
			if res.IsValid {
				valid = true
			}
		}

		errs := res.Errors
		if !res.IsValid && len(errs) == 0 {
			// Contract breach in the child; keep the invariant that a
			// failing result carries at least one error.
			errs = []string{"validation failed without error details"}
		}
		for _, e := range errs {
			merged.Errors = append(merged.Errors, fmt.Sprintf("[%s] %s", name, e))
		}
		for _, w := range res.Warnings {
			merged.Warnings = append(merged.Warnings, fmt.Sprintf("[%s] %s", name, w))
		}

		if len(res.Metadata) > 0 {
			merged.Metadata[fmt.Sprintf("validator_%d", cr.index+1)] = res.Metadata
		}
	}

	merged.Metadata["operation"] = map[string]any{
		"operator":      string(c.operator),
		"child_count":   len(c.validators),
		"short_circuit": c.shortCircuit,
	}

	merged.IsValid = valid
	return merged
}

func (c *Composite) Instructions() string {
	header := "ALL of the following requirements must be satisfied:"
	if c.operator == OperatorOr {
		header = "AT LEAST ONE of the following requirements must be satisfied:"
	}

	var b strings.Builder
	b.WriteString(header)
	for i, v := range c.validators {
		fmt.Fprintf(&b, "\n\n%d. %s", i+1, v.Instructions())
	}

	return b.String()
}
