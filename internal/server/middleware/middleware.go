// Package middleware holds the gin middleware chain for the API server.
package middleware

import (
	"strings"
	"time"

	"taskdeck/internal/server/helper"
	"taskdeck/internal/shared"
	"taskdeck/pkg/auth"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UserIDKey is the gin context key carrying the authenticated user id.
const UserIDKey = "x-user-id"

// Session authenticates the request from the session cookie, falling back
// to a bearer token for non-browser clients.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.SessionCookie)

		if err != nil || token == "" {
			bearer := c.GetHeader("Authorization")
			if strings.HasPrefix(bearer, "Bearer ") {
				token = bearer[len("Bearer "):]
			}
		}

		if token == "" {
			helper.SendUnauthorizedError(c, "Unauthorized request")
			c.Abort()
			return
		}

		userID, err := auth.VerifySessionToken(token)

		if err != nil {
			helper.SendUnauthorizedError(c, "Unauthorized request")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by Session.
func CurrentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}

	userID, ok := value.(int)
	return userID, ok
}

func Metrics(metrics *shared.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		metrics.RecordRequest(
			c.Request.Method,
			path,
			statusLabel(c.Writer.Status()),
			duration,
		)
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// Setup wires the shared middleware chain onto the router. Session auth,
// the rate limiter and the response cache are applied per route group so
// that limiter and cache keys on authenticated routes are scoped to the
// user rather than the client address.
func Setup(router *gin.Engine, serviceName string, logger *shared.AppLogger, metrics *shared.AppMetrics) {
	router.Use(otelgin.Middleware(serviceName))
	router.Use(Logging(logger))
	router.Use(Metrics(metrics))
}

// GetClientIP resolves the client address, honoring proxy headers.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	ip := c.ClientIP()
	if ip == "" {
		return "unknown"
	}

	return ip
}
