package task

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/config"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

// Pool builds tasks and their validator trees from configuration.
type Pool struct {
	registry *validator.Registry
	cache    cache.Cache
	logger   *zerolog.Logger
}

func NewPool(registry *validator.Registry, c cache.Cache, logger *zerolog.Logger) *Pool {
	return &Pool{
		registry: registry,
		cache:    c,
		logger:   logger,
	}
}

func (p *Pool) BuildFromConfig(cfg *config.TasksConfig) (*Set, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tasks config is nil")
	}

	var tasks []*Task

	for _, taskCfg := range cfg.Tasks {
		if !taskCfg.Enabled {
			p.logger.Info().
				Str("task", taskCfg.Name).
				Msg("task disabled in config, skipping")
			continue
		}

		v, err := p.BuildValidator(taskCfg.Validator)
		if err != nil {
			return nil, fmt.Errorf("failed to build validator for task %s: %w", taskCfg.Name, err)
		}

		t, err := NewTask(taskCfg.Name, taskCfg.Prompt, v)
		if err != nil {
			return nil, fmt.Errorf("failed to create task %s: %w", taskCfg.Name, err)
		}

		tasks = append(tasks, t)

		model := taskCfg.Model
		if model == nil {
			model = &cfg.Defaults
		}
		p.logger.Info().
			Str("task", taskCfg.Name).
			Str("validator", v.Name()).
			Int("max_tokens", model.MaxTokens).
			Float64("temperature", model.Temperature).
			Msg("task created successfully")
	}

	if len(tasks) == 0 {
		return nil, fmt.Errorf("no enabled tasks found in config")
	}

	p.logger.Info().
		Int("total_tasks", len(tasks)).
		Msg("task pool built successfully")

	return NewSet(tasks...), nil
}

// BuildValidator resolves a validator spec, recursing into composite
// children and applying the cache wrapper when requested.
func (p *Pool) BuildValidator(spec config.ValidatorSpec) (validator.Validator, error) {
	var built validator.Validator

	if spec.Type == "composite" {
		if len(spec.Validators) == 0 {
			return nil, fmt.Errorf("composite validator: at least one validator must be provided")
		}

		children := make([]validator.Validator, 0, len(spec.Validators))
		for _, childSpec := range spec.Validators {
			child, err := p.BuildValidator(childSpec)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}

		operator := validator.LogicOperator(spec.Operator)
		if operator == "" {
			operator = validator.OperatorAnd
		}

		composite, err := validator.NewComposite(validator.CompositeConfig{
			Operator:     operator,
			ShortCircuit: spec.ShortCircuit,
			Concurrent:   spec.Concurrent,
		}, children...)
		if err != nil {
			return nil, err
		}
		built = composite
	} else {
		v, err := p.registry.Build(spec.Type, spec.Params)
		if err != nil {
			return nil, err
		}
		built = v
	}

	if spec.Cache {
		if p.cache == nil {
			return nil, fmt.Errorf("validator %s requests caching but no cache is configured", built.Name())
		}
		built = cache.NewCachedValidator(built, p.cache)
	}

	return built, nil
}
