package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskdeck/internal/shared"
	"taskdeck/internal/store/cache"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func cacheRouter(rc *ResponseCache, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	hits := 0

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	})
	router.Use(rc.Middleware())
	router.GET("/api/todos", func(c *gin.Context) {
		hits++
		c.JSON(200, gin.H{"serial": fmt.Sprintf("%d", hits)})
	})

	return router
}

func newResponseCache() *ResponseCache {
	return NewResponseCache(cache.NewMemory(time.Minute), zap.NewNop(), nil, map[string]shared.ResponseCacheConfig{
		"GET /api/todos": {TTL: time.Minute, Enabled: true},
	})
}

func get(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/todos", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestResponseCacheServesSecondRequestFromCache(t *testing.T) {
	RegisterTestingT(t)

	router := cacheRouter(newResponseCache(), 1)

	first := get(router)
	Expect(first.Code).To(Equal(200))
	Expect(first.Header().Get("X-Cache")).To(Equal("MISS"))

	second := get(router)
	Expect(second.Code).To(Equal(200))
	Expect(second.Header().Get("X-Cache")).To(Equal("HIT"))
	Expect(second.Body.String()).To(Equal(first.Body.String()))
}

func TestResponseCacheInvalidatePerUser(t *testing.T) {
	RegisterTestingT(t)

	rc := newResponseCache()
	router := cacheRouter(rc, 1)

	first := get(router)
	Expect(first.Header().Get("X-Cache")).To(Equal("MISS"))

	// Invalidate through a request-scoped context, as write handlers do.
	invalidator := gin.New()
	invalidator.POST("/x", func(c *gin.Context) {
		rc.Invalidate(c, 1)
		c.Status(204)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/x", nil)
	invalidator.ServeHTTP(w, req)

	refreshed := get(router)
	Expect(refreshed.Header().Get("X-Cache")).To(Equal("MISS"))
	Expect(refreshed.Body.String()).ToNot(Equal(first.Body.String()))
}

func TestResponseCacheIsolatesUsers(t *testing.T) {
	RegisterTestingT(t)

	rc := newResponseCache()

	alice := cacheRouter(rc, 1)
	Expect(get(alice).Header().Get("X-Cache")).To(Equal("MISS"))

	bob := cacheRouter(rc, 2)
	Expect(get(bob).Header().Get("X-Cache")).To(Equal("MISS"))
}

func TestResponseCacheSkipsUnconfiguredRoutes(t *testing.T) {
	RegisterTestingT(t)

	rc := newResponseCache()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rc.Middleware())
	router.GET("/api/other", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/other", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(200))
	Expect(w.Header().Get("X-Cache")).To(BeEmpty())
}
