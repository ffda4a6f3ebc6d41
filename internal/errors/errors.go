package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeStorage            = "STORAGE_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response and stops the handler chain
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, orDefault(message, "Authentication required")))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, orDefault(message, "Access denied")))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, orDefault(message, "Resource not found")))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, orDefault(message, "Invalid request")))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, orDefault(message, "Resource conflict")))
}

// StorageError sends a 500 response for a failed attachment write. details carries
// whatever was persisted before the failure.
func StorageError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError,
		NewAPIErrorWithDetails(ErrCodeStorage, orDefault(message, "Could not save file"), details))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, orDefault(message, "Internal server error")))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, orDefault(message, "Service temporarily unavailable")))
}
