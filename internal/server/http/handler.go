// Package http exposes the alignment pipeline over HTTP: a JSON align
// endpoint wire-compatible with the original service, health and method
// discovery endpoints, and a websocket endpoint for batch alignment.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/nimyab/word-aligner/internal/errors"
	"github.com/nimyab/word-aligner/internal/logging"
	"github.com/nimyab/word-aligner/internal/server/ports"
)

// APIHandler serves the JSON endpoints.
type APIHandler struct {
	service ports.AlignmentService
	health  ports.HealthChecker
	logger  logging.Logger
}

// HandlerOption configures an APIHandler.
type HandlerOption func(*APIHandler)

// WithHandlerLogger replaces the handler logger.
func WithHandlerLogger(logger logging.Logger) HandlerOption {
	return func(h *APIHandler) {
		if !logging.IsNil(logger) {
			h.logger = logger
		}
	}
}

// NewAPIHandler creates the handler for the alignment endpoints.
func NewAPIHandler(service ports.AlignmentService, health ports.HealthChecker, opts ...HandlerOption) *APIHandler {
	h := &APIHandler{
		service: service,
		health:  health,
		logger:  logging.NewComponentLogger("http"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// HandleAlign aligns one sentence pair.
func (h *APIHandler) HandleAlign(c *gin.Context) {
	var req alignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(c, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return
		}
		h.writeError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.Align(c.Request.Context(), req.SourceText, req.TargetText, req.Method)
	if err != nil {
		h.writeAlignError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlignResponse(req.SourceText, req.TargetText, result))
}

// HandleHealth reports readiness: 200 when every component is ready or
// disabled, 503 otherwise.
func (h *APIHandler) HandleHealth(c *gin.Context) {
	components := h.health.CheckAll(c.Request.Context())

	for _, component := range components {
		if component.Status == ports.HealthStatusNotReady {
			h.logger.Warn("Health check failed: %s: %s", component.Name, component.Message)
			c.JSON(http.StatusServiceUnavailable, healthResponse{
				Status:     "unhealthy",
				Message:    component.Name + ": " + component.Message,
				Components: components,
			})
			return
		}
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:     "healthy",
		Message:    "Service is running normally, provider is ready",
		Components: components,
	})
}

// HandleMethods lists the supported matching methods and the default.
func (h *APIHandler) HandleMethods(c *gin.Context) {
	c.JSON(http.StatusOK, methodsResponse{
		Methods: h.service.Methods(),
		Default: h.service.DefaultMethod(),
	})
}

// writeAlignError maps pipeline errors onto the wire: validation
// failures carry their message verbatim in the error field, upstream
// and internal failures get a stable message with the cause in detail.
func (h *APIHandler) writeAlignError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		h.logger.Warn("HTTP 400 - %v", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case apperrors.IsUpstream(err):
		h.logger.Error("HTTP 502 - %v", err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: "Embedding provider unavailable", Detail: err.Error()})
	default:
		h.logger.Error("HTTP 500 - %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error", Detail: err.Error()})
	}
}

func (h *APIHandler) writeError(c *gin.Context, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		h.logger.Warn("HTTP %d - %s: %v", status, message, err)
		resp.Detail = err.Error()
	} else {
		h.logger.Warn("HTTP %d - %s", status, message)
	}
	c.JSON(status, resp)
}
