package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/services"
	"github.com/edustack/lms-service/internal/utils"
	"github.com/edustack/lms-service/internal/validator"
)

type ErrorResponse struct {
	Error            string                           `json:"error"`
	Message          string                           `json:"message"`
	Details          interface{}                      `json:"details,omitempty"`
	Timestamp        time.Time                        `json:"timestamp"`
	ValidationErrors []models.ValidationErrorResponse `json:"validation_errors,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the pieces every handler needs: the request logger and
// the shared service-error to HTTP-status mapping.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context()).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.FromContext(c.Request.Context()).Error(msg, append(args, "error", err)...)
}

// parseIDParam parses a numeric path parameter. On failure it writes the 400
// response itself and returns 0; callers treat 0 as "already handled".
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "bad_request",
			Message:   "Invalid " + name + " parameter",
			Timestamp: time.Now(),
		})
		return 0
	}
	return uint(id)
}

// currentUser reads the authenticated identity set by the auth middleware. A
// missing identity means the route was wired without the middleware, which is
// a server error rather than a client one, but 401 is still the safer answer.
func (h *BaseHandler) currentUser(c *gin.Context) (string, models.UserRole, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:     "unauthorized",
			Message:   "User not authenticated",
			Timestamp: time.Now(),
		})
		return "", "", false
	}
	role, _ := c.Get("user_role")
	userRole, ok := role.(models.UserRole)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:     "unauthorized",
			Message:   "User not authenticated",
			Timestamp: time.Now(),
		})
		return "", "", false
	}
	return userID.(string), userRole, true
}

// handleServiceError maps service-layer errors to HTTP status codes. Order
// matters: the most specific sentinel wins before the generic fallthrough.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]models.ValidationErrorResponse, 0, len(validationErrs))
		for _, ve := range validationErrs {
			value := ""
			if ve.Value != nil {
				value = fmt.Sprintf("%v", ve.Value)
			}
			details = append(details, models.ValidationErrorResponse{
				Field:   ve.Field,
				Message: ve.Message,
				Value:   value,
				Code:    ve.Rule,
			})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:            "validation_failed",
			Message:          "Request validation failed",
			Timestamp:        time.Now(),
			ValidationErrors: details,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:     "not_found",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:     "forbidden",
			Message:   "You do not have access to this resource",
			Timestamp: time.Now(),
		})
	case errors.Is(err, services.ErrInvalidScope), errors.Is(err, services.ErrValidationFailed), errors.Is(err, services.ErrDuplicateCode):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "bad_request",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:     "unauthorized",
			Message:   "Invalid credentials",
			Timestamp: time.Now(),
		})
	default:
		h.LogError(c, err, "unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "internal_error",
			Message:   "An unexpected error occurred",
			Timestamp: time.Now(),
		})
	}
}
