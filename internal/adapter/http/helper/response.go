package helper

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "todoservice/internal/adapter/http/validation"
	"todoservice/internal/core/model/response"
)

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

func fieldError(field, message string) []response.ValidationError {
	return []response.ValidationError{{Field: field, Message: message}}
}

func SendValidationError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", FormatValidationErrors(err))
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusBadRequest, "BAD_REQUEST", fieldError(field, message))
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, "NOT_FOUND", fieldError("resource", message))
}

func SendConflictError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusConflict, "CONFLICT", fieldError(field, message))
}

func SendTooManyRequests(c *gin.Context, message string, retryAfter int) {
	SendError(c, http.StatusTooManyRequests, "RATE_LIMITED", fieldError("request", message), gin.H{
		"retry_after": retryAfter,
	})
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", fieldError("server", message), details...)
}

func SendServiceUnavailable(c *gin.Context, message string) {
	SendError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", fieldError("store", message))
}
