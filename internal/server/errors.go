package server

import (
	"errors"
	"net/http"

	storedomain "github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/gin-gonic/gin"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware maps errors collected on the context to a JSON
// payload after the handler chain ran.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var validation *ValidationErrors
	if errors.As(err, &validation) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  validation.Errors,
		}
	}

	switch {
	case errors.Is(err, storedomain.ErrNoTenant):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "tenant not identified",
		}
	case errors.Is(err, storedomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "record not found",
		}
	case errors.Is(err, storedomain.ErrNotEditable):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "record is no longer editable",
		}
	case errors.Is(err, storedomain.ErrInvalidAudience),
		errors.Is(err, storedomain.ErrInvalidStatus),
		errors.Is(err, storedomain.ErrMessageTooLong),
		errors.Is(err, storedomain.ErrEmptyMessage),
		errors.Is(err, storedomain.ErrEmptyPatch):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal error",
		}
	}
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}
