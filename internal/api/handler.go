package api

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/loop"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/task"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

type Handler struct {
	loop   *loop.ValidationLoop
	tasks  *task.Set
	cache  cache.Cache
	logger *zerolog.Logger
}

func NewHandler(validationLoop *loop.ValidationLoop, tasks *task.Set, c cache.Cache, logger *zerolog.Logger) *Handler {
	return &Handler{
		loop:   validationLoop,
		tasks:  tasks,
		cache:  c,
		logger: logger,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ValidateRequest asks for one validation pass with no model call.
type ValidateRequest struct {
	Text    string         `json:"text"`
	Context map[string]any `json:"context,omitempty"`
}

// POST /api/v1/generate
// Body: GenerationRequest
// Returns: GenerationResult
func (h *Handler) Generate(req *restful.Request, resp *restful.Response) {
	var genRequest models.GenerationRequest
	if err := req.ReadEntity(&genRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("event_id", genRequest.EventID).
		Str("task", genRequest.Task).
		Msg("Start generation")

	t, err := h.tasks.Get(genRequest.Task)
	if err != nil {
		h.logger.Error().Err(err).Str("task", genRequest.Task).Msg("Task not found")
		middleware.HandleError(resp, err, http.StatusNotFound)
		return
	}

	ctx := req.Request.Context()
	result := h.loop.Execute(ctx, t, genRequest.InputData, loop.Options{
		MaxRetries: genRequest.MaxRetries,
		Debug:      genRequest.Debug,
	})
	result.ID = genRequest.EventID

	h.logger.Info().
		Str("event_id", result.ID).
		Bool("success", result.Success).
		Int("attempts", result.Attempts).
		Msg("Generation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/validate/{task_name}
// Runs the task's validator against caller-supplied text, no model
// call involved.
func (h *Handler) Validate(req *restful.Request, resp *restful.Response) {
	taskName := req.PathParameter("task_name")

	var valRequest ValidateRequest
	if err := req.ReadEntity(&valRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	t, err := h.tasks.Get(taskName)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			middleware.HandleError(resp, err, http.StatusNotFound)
			return
		}
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	result := validator.Run(req.Request.Context(), t.Validator(), valRequest.Text, valRequest.Context)

	h.logger.Info().
		Str("task", taskName).
		Bool("is_valid", result.IsValid).
		Int("errors", len(result.Errors)).
		Msg("Validation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// GET /api/v1/cache/stats
func (h *Handler) CacheStats(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, h.cache.Stats())
}

// DELETE /api/v1/cache
func (h *Handler) ClearCache(req *restful.Request, resp *restful.Response) {
	h.cache.Clear(req.Request.Context())
	h.logger.Info().Msg("Validation cache cleared")
	resp.WriteHeader(http.StatusNoContent)
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}
