package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskdeck/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// RateLimiter enforces per-route request budgets keyed by user or client IP.
type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]shared.RateLimitConfig
	logger  *zap.Logger
	metrics *shared.AppMetrics
	mutex   sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(logger *zap.Logger, metrics *shared.AppMetrics, configs map[string]shared.RateLimitConfig) *RateLimiter {
	c := cache.New(5*time.Minute, 10*time.Minute)

	return &RateLimiter{
		cache:   c,
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		normalizedPath := normalizePath(path)
		methodPath := c.Request.Method + " " + normalizedPath

		config, exists := rl.config[methodPath]
		if !exists {
			if config, exists = rl.config[normalizedPath]; !exists {
				config = rl.config["default"]
			}
		}

		key := rl.generateKey(c, methodPath)

		allowed, remaining, resetTime := rl.check(key, config)

		keyType := "ip"
		if strings.Contains(key, "user_") {
			keyType = "user"
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(path, keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(key string, config shared.RateLimitConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if existing, found := rl.cache.Get(key); found {
		entry := existing.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= config.Requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, cache.DefaultExpiration)

			return true, config.Requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(config.Window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, config.Window)

	return true, config.Requests - 1, resetTime
}

// normalizePath collapses todo ids so every item route shares one budget.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/api/todos/") {
		parts := strings.Split(path, "/")
		if len(parts) >= 4 && parts[3] != "dashboard" && parts[3] != "reorder" {
			parts[3] = ":id"
			return strings.Join(parts, "/")
		}
	}

	return path
}

func (rl *RateLimiter) generateKey(c *gin.Context, path string) string {
	identifier := GetClientIP(c)

	if userID, exists := c.Get(UserIDKey); exists {
		identifier = fmt.Sprintf("user_%v", userID)
	}

	return fmt.Sprintf("rate_limit:%s:%s", path, identifier)
}
