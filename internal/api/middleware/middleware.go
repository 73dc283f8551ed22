package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/waycover/waycover/internal/api/shared/errors"
	"github.com/waycover/waycover/internal/logger"
)

// Logger returns a gin middleware that writes one structured log line per
// request. Server errors are logged at warn so they stand out from normal
// traffic.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		if status >= http.StatusInternalServerError {
			logger.Warn("API request", fields...)
			return
		}
		logger.Info("API request", fields...)
	}
}

// Recovery converts handler panics into 500 responses instead of dropping
// the connection
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Errorf("panic recovered: %v", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": apierrors.NewInternalError("Internal server error"),
				})
			}
		}()
		c.Next()
	}
}
