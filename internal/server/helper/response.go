package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string       `json:"code"`
	Errors  []FieldError `json:"errors"`
	Details any          `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

// SendSuccess writes the resource as the response body. Collections and
// single resources go over the wire unwrapped.
func SendSuccess(c *gin.Context, statusCode int, data any) {
	if data == nil {
		c.Status(statusCode)
		return
	}

	c.JSON(statusCode, data)
}

func SendError(c *gin.Context, statusCode int, code string, errors []FieldError, details ...any) {
	errorResponse := ErrorResponse{
		Error: ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

// SendValidationError reports todo validation messages in the order the
// rules are declared.
func SendValidationError(c *gin.Context, messages []string) {
	errors := make([]FieldError, 0, len(messages))

	for _, message := range messages {
		errors = append(errors, FieldError{
			Field:   "todo",
			Message: message,
		})
	}

	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", errors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []FieldError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errors := []FieldError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []FieldError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []FieldError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errors)
}
