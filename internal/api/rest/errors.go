package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/api/shared/errors"
	"github.com/waycover/waycover/internal/logger"
)

// errorResponse wraps an API error in the response envelope
type errorResponse struct {
	Error *errors.APIError `json:"error"`
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: errors.NewBadRequestError(message, details...)})
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errorResponse{Error: errors.NewNotFoundError(message, details...)})
}

// respondValidationError sends a 422 Unprocessable Entity response
func respondValidationError(c *gin.Context, details string) {
	c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: errors.NewValidationError(details)})
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: errors.NewInternalError(message)})
}
