package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/shared"
	"taskdeck/internal/store"
	"taskdeck/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ResponseCache serves short-lived cached GET responses from the cache
// backend. Write handlers invalidate per user through Invalidate.
type ResponseCache struct {
	backend store.CacheRepository
	config  map[string]shared.ResponseCacheConfig
	logger  *zap.Logger
	metrics *shared.AppMetrics
}

type cachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

func NewResponseCache(backend store.CacheRepository, logger *zap.Logger, metrics *shared.AppMetrics, configs map[string]shared.ResponseCacheConfig) *ResponseCache {
	return &ResponseCache{
		backend: backend,
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		config, exists := rc.config["GET "+path]
		if !exists {
			c.Next()
			return
		}

		if !config.Enabled {
			c.Next()
			return
		}

		cacheKey := rc.generateCacheKey(c, path)

		if raw, err := rc.backend.Get(c.Request.Context(), cacheKey); err == nil {
			var cached cachedResponse

			if err := json.Unmarshal(raw, &cached); err == nil && time.Since(cached.Timestamp) < config.TTL {
				_, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
					attribute.String("cache.key", cacheKey),
					attribute.String("cache.path", path),
					attribute.String("cache.age", time.Since(cached.Timestamp).String()),
				})
				defer span.End()

				if rc.metrics != nil {
					rc.metrics.RecordCacheHit(path)
				}

				rc.logger.Debug("Cache hit",
					zap.String("path", path),
					zap.String("cache_key", cacheKey))

				for key, values := range cached.Headers {
					for _, value := range values {
						c.Header(key, value)
					}
				}

				c.Header("X-Cache", "HIT")
				c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))

				c.Data(cached.StatusCode, "application/json", cached.Body)
				c.Abort()
				return
			}

			rc.backend.Delete(c.Request.Context(), cacheKey)
		}

		ctx, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.miss", []attribute.KeyValue{
			attribute.String("cache.key", cacheKey),
			attribute.String("cache.path", path),
		})
		defer span.End()

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(path)
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.statusCode >= 200 && writer.statusCode < 300 {
			_, storeSpan := tracing.CreateChildSpan(ctx, "cache.response.store", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.Int("cache.status_code", writer.statusCode),
				attribute.Int("cache.body_size", writer.body.Len()),
			})
			storeSpan.End()

			raw, err := json.Marshal(cachedResponse{
				StatusCode: writer.statusCode,
				Headers:    writer.Header(),
				Body:       writer.body.Bytes(),
				Timestamp:  time.Now(),
			})

			if err == nil {
				rc.backend.Set(ctx, cacheKey, raw, config.TTL)
			}

			c.Header("X-Cache", "MISS")
		}
	}
}

// generateCacheKey scopes entries by user first so Invalidate can drop a
// whole user's entries by prefix.
func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	owner := fmt.Sprintf("ip_%s", GetClientIP(c))

	if userID, exists := c.Get(UserIDKey); exists {
		owner = fmt.Sprintf("user_%v", userID)
	}

	keyParts := []string{path}

	if c.Request.URL.RawQuery != "" {
		keyParts = append(keyParts, c.Request.URL.RawQuery)
	}

	hash := md5.Sum([]byte(strings.Join(keyParts, "|")))

	return fmt.Sprintf("cache:%s:%s:%x", owner, path, hash)
}

// Invalidate drops every cached response owned by userID.
func (rc *ResponseCache) Invalidate(c *gin.Context, userID int) {
	prefix := fmt.Sprintf("cache:user_%d:", userID)

	if err := rc.backend.DeleteByPrefix(c.Request.Context(), prefix); err != nil {
		rc.logger.Warn("Cache invalidation failed",
			zap.Int("user_id", userID),
			zap.Error(err))
	}
}

type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
