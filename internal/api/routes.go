package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/generate").
			To(handler.Generate).
			Doc("Generate validated model output for a task").
			Metadata(restfulspec.KeyOpenAPITags, []string{"generate"}).
			Reads(models.GenerationRequest{}).
			Writes(models.GenerationResult{}).
			Returns(200, "OK", models.GenerationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Task Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/validate/{task_name}").
			To(handler.Validate).
			Doc("Validate text against a task's validator without calling the model").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Param(ws.PathParameter("task_name", "Task whose validator to run").DataType("string")).
			Reads(ValidateRequest{}).
			Writes(models.ValidationResult{}).
			Returns(200, "OK", models.ValidationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Task Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/cache/stats").
			To(handler.CacheStats).
			Doc("Validation cache statistics").
			Metadata(restfulspec.KeyOpenAPITags, []string{"cache"}).
			Writes(cache.Stats{}).
			Returns(200, "OK", cache.Stats{}))

	ws.
		Route(ws.DELETE("/cache").
			To(handler.ClearCache).
			Doc("Clear the validation cache").
			Metadata(restfulspec.KeyOpenAPITags, []string{"cache"}).
			Returns(204, "No Content", nil))

	container.Add(ws)
}
