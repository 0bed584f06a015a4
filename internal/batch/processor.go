package batch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/loop"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/task"
)

// Processor runs many generation requests through the loop with a
// bounded worker pool. Executions are independent; only the attempts
// within one execution are sequential.
type Processor struct {
	loop    *loop.ValidationLoop
	tasks   *task.Set
	workers int
	logger  *zerolog.Logger
}

func NewProcessor(validationLoop *loop.ValidationLoop, tasks *task.Set, workers int, logger *zerolog.Logger) *Processor {
	if workers <= 0 {
		workers = 1
	}

	return &Processor{
		loop:    validationLoop,
		tasks:   tasks,
		workers: workers,
		logger:  logger,
	}
}

func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan models.GenerationResult {
	out := make(chan models.GenerationResult)

	go func() {
		defer close(out)

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)

		for _, record := range records {
			g.Go(func() error {
				result := p.processRecord(ctx, record)
				select {
				case out <- result:
				case <-ctx.Done():
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			p.logger.Error().Err(err).Msg("batch processing failed")
		}
	}()

	return out
}

func (p *Processor) processRecord(ctx context.Context, record InputRecord) models.GenerationResult {
	if record.Error != nil {
		validation := models.Invalid(record.Error.Error())
		return models.GenerationResult{
			ID:               record.Request.EventID,
			ValidationResult: &validation,
		}
	}

	t, err := p.tasks.Get(record.Request.Task)
	if err != nil {
		p.logger.Error().
			Err(err).
			Int("line", record.LineNumber).
			Str("task", record.Request.Task).
			Msg("unknown task")
		validation := models.Invalid(fmt.Sprintf("line %d: %v", record.LineNumber, err))
		return models.GenerationResult{
			ID:               record.Request.EventID,
			ValidationResult: &validation,
		}
	}

	result := p.loop.Execute(ctx, t, record.Request.InputData, loop.Options{
		MaxRetries: record.Request.MaxRetries,
		Debug:      record.Request.Debug,
	})
	result.ID = record.Request.EventID
	return result
}
