package loop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/task"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

// Config holds loop-wide defaults. Per-execution overrides come in via
// Options.
type Config struct {
	MaxRetries  int
	MaxTokens   int
	Temperature float64
	Retry       bool
}

// Options tune a single execution.
type Options struct {
	MaxRetries int
	Debug      bool
	Context    map[string]any
}

// ValidationLoop drives the generate -> validate -> feedback cycle:
// it sends the task prompt, validates the response, and on failure
// feeds the validation errors back to the model until the output is
// valid or the attempt budget is exhausted. Attempts are strictly
// sequential; attempt N+1 needs the feedback from attempt N.
type ValidationLoop struct {
	client llm.LLMClient
	cfg    Config
	logger *zerolog.Logger
}

func NewValidationLoop(client llm.LLMClient, cfg Config, logger *zerolog.Logger) *ValidationLoop {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	return &ValidationLoop{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Execute runs the loop for one task. Exhaustion is not an error: the
// returned result carries Success=false plus the final failing
// validation, and callers decide whether that is fatal to them.
func (l *ValidationLoop) Execute(ctx context.Context, t *task.Task, inputData map[string]any, opts Options) models.GenerationResult {
	start := time.Now()

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = l.cfg.MaxRetries
	}

	v := t.Validator()
	systemPrompt := buildSystemPrompt(v)

	result := models.GenerationResult{}

	taskPrompt, err := t.RenderPrompt(inputData)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("task", t.Name()).
			Msg("failed to render task prompt")
		validation := models.Invalid(fmt.Sprintf("failed to render task prompt: %v", err))
		result.ValidationResult = &validation
		result.ExecutionTime = time.Since(start)
		return result
	}

	l.logger.Info().
		Str("task", t.Name()).
		Str("validator", v.Name()).
		Int("max_retries", maxRetries).
		Msg("starting validation loop")

	var messages []llm.Message
	var lastValidation *models.ValidationResult
	output := ""

	for attempt := 1; attempt <= maxRetries; attempt++ {
		prompt := taskPrompt
		if attempt > 1 {
			prompt = feedbackPrompt(lastValidation)
		}

		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})

		resp, err := l.invoke(ctx, llm.LLMRequest{
			System:      systemPrompt,
			Messages:    messages,
			MaxTokens:   l.cfg.MaxTokens,
			Temperature: l.cfg.Temperature,
		})
		if err != nil {
			l.logger.Error().
				Err(err).
				Str("task", t.Name()).
				Int("attempt", attempt).
				Msg("model call failed")

			if opts.Debug {
				result.DebugInfo = append(result.DebugInfo, models.AttemptRecord{
					Attempt:   attempt,
					Prompt:    prompt,
					Error:     err.Error(),
					Timestamp: time.Now(),
				})
			}

			// Drop the unanswered message so the conversation keeps
			// alternating user/assistant roles on the next attempt.
			messages = messages[:len(messages)-1]
			result.Attempts = attempt
			continue
		}

		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})

		// Strip only incidental whitespace; format correctness is the
		// validator's job.
		output = strings.TrimSpace(resp.Content)

		validation := validator.Run(ctx, v, output, opts.Context)
		lastValidation = &validation
		result.Attempts = attempt

		if opts.Debug {
			result.DebugInfo = append(result.DebugInfo, models.AttemptRecord{
				Attempt:     attempt,
				Prompt:      prompt,
				RawResponse: resp.Content,
				Timestamp:   time.Now(),
			})
		}

		if validation.IsValid {
			l.logger.Info().
				Str("task", t.Name()).
				Int("attempts", attempt).
				Dur("duration", time.Since(start)).
				Msg("validation successful")

			result.Success = true
			result.Output = output
			result.ValidationResult = lastValidation
			result.ExecutionTime = time.Since(start)
			return result
		}

		l.logger.Warn().
			Str("task", t.Name()).
			Int("attempt", attempt).
			Int("errors", len(validation.Errors)).
			Msg("validation failed")
	}

	l.logger.Error().
		Str("task", t.Name()).
		Int("max_retries", maxRetries).
		Msg("validation failed after all attempts")

	result.Output = output
	result.ValidationResult = lastValidation
	result.ExecutionTime = time.Since(start)
	return result
}

func (l *ValidationLoop) invoke(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	if l.cfg.Retry {
		return l.client.InvokeModelWithRetry(ctx, request)
	}
	return l.client.InvokeModel(ctx, request)
}

// buildSystemPrompt embeds the validator's acceptance criteria so the
// model knows them up front. Built once per execution.
func buildSystemPrompt(v validator.Validator) string {
	return fmt.Sprintf(`You are an expert assistant that provides precise, well-formatted responses according to the given instructions.

%s

IMPORTANT: Your responses will be automatically validated. Please ensure they exactly match the required format.
When I ask you to correct previous errors, please analyze the feedback carefully and provide an improved response that addresses all the validation issues.`, v.Instructions())
}

// feedbackPrompt builds the corrective follow-up from the previous
// validation errors. The original task is not resent; the model's own
// conversational memory supplies the context.
func feedbackPrompt(last *models.ValidationResult) string {
	if last == nil {
		return "Please provide a corrected response."
	}

	return fmt.Sprintf(`Your previous response had validation errors:
%s

Please provide a corrected response that addresses these issues.`, last.FeedbackText())
}
