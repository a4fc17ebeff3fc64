// Package server assembles the HTTP API: router, dependency container and
// the process bootstrap.
package server

import (
	"taskdeck/internal/server/handler"
	"taskdeck/internal/server/middleware"
	"taskdeck/internal/shared"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth *handler.AuthHandler
	Todo *handler.TodoHandler
}

func SetupRouter(handlers Handlers, logger *shared.AppLogger, metrics *shared.AppMetrics, cache *middleware.ResponseCache, config *shared.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.Setup(router, "taskdeck", logger, metrics)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	var limiter *middleware.RateLimiter
	if config.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(logger.Zap(), metrics, config.RateLimitConfigs)
	}

	registerRoutes(router, handlers, limiter, cache, config)

	return router
}

// SetupRouterForTests builds the same route tree without the observability
// chain.
func SetupRouterForTests(handlers Handlers) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, handlers, nil, nil, nil)

	return router
}

func registerRoutes(router *gin.Engine, handlers Handlers, limiter *middleware.RateLimiter, cache *middleware.ResponseCache, config *shared.AppConfig) {
	public := router.Group("/api/auth")

	// Anonymous routes are limited by client address.
	if limiter != nil {
		public.Use(limiter.Middleware())
	}

	{
		public.POST("/signup", handlers.Auth.Signup)
		public.POST("/challenge/submit", handlers.Auth.SubmitChallenge)
		public.POST("/login", handlers.Auth.Login)
		public.POST("/logout", handlers.Auth.Logout)
	}

	profile := router.Group("/api/auth")
	profile.Use(middleware.Session())

	if limiter != nil {
		profile.Use(limiter.Middleware())
	}

	{
		profile.GET("/profile", handlers.Auth.Profile)
	}

	todos := router.Group("/api/todos")
	todos.Use(middleware.Session())

	// Limiter and cache run after Session so their keys are per user.
	if limiter != nil {
		todos.Use(limiter.Middleware())
	}

	if cache != nil && config != nil && config.CacheEnabled {
		todos.Use(cache.Middleware())
	}

	{
		todos.GET("", handlers.Todo.List)
		todos.POST("", handlers.Todo.Create)
		todos.PUT("/:id", handlers.Todo.Update)
		todos.DELETE("/:id", handlers.Todo.Delete)
		todos.POST("/reorder", handlers.Todo.Reorder)
		todos.GET("/dashboard/stats", handlers.Todo.Stats)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
