package middleware

import (
	"time"

	"taskdeck/internal/shared"
	"taskdeck/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logging emits one structured line per request with trace context attached.
func Logging(logger *shared.AppLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		if traceID := tracing.GetTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}

		if c.Writer.Status() >= 500 {
			logger.ErrorCtx(c.Request.Context(), "HTTP Request", fields...)
			return
		}

		logger.InfoCtx(c.Request.Context(), "HTTP Request", fields...)
	}
}
