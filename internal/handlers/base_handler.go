package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/services"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/utils"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps successful payloads that carry extra context.
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the shared logging and error mapping for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming request with the request-scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// LogError logs a handler-level failure with the request-scoped logger.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.LoggerFromContext(c, h.logger).Error(msg, args...)
}

// ===== ERROR HANDLING =====

// handleServiceError maps service errors to HTTP status codes. Persistence
// failures map to 503 so callers can tell a store outage from a bad request.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: "Validation failed",
			Details: validationErrs,
		})
	case services.IsEntryNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "entry_not_found",
			Message: err.Error(),
		})
	case services.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case services.IsConflictError(err),
		errors.Is(err, services.ErrInvalidStatusChange),
		errors.Is(err, services.ErrSameStudentNumber):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case services.IsCapacityExceededError(err):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "capacity_exceeded",
			Message: err.Error(),
		})
	case services.IsPersistenceError(err):
		h.LogError(c, err, "Persistence failure")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "persistence_failure",
			Message: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}
