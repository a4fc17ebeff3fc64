package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"taskdeck/internal/server/handler"
	"taskdeck/internal/server/middleware"
	"taskdeck/internal/service"
	"taskdeck/internal/shared"
	"taskdeck/internal/store"
	"taskdeck/internal/store/cache"
	"taskdeck/internal/store/memory"
	"taskdeck/internal/store/postgres"
	"taskdeck/internal/store/sqlite"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the API process. Backend
// selection follows the environment: DATABASE_URL picks postgres,
// DATABASE_PATH picks sqlite, otherwise the in-memory store serves as the
// mock backend. REDIS_ADDR switches the response cache to redis.
type Container struct {
	Users store.UserRepository
	Todos store.TodoRepository
	Cache store.CacheRepository

	AuthService *service.AuthService
	TodoService *service.TodoService

	closers []func() error
}

func NewContainer(ctx context.Context, logger *shared.AppLogger) (*Container, error) {
	c := &Container{}

	switch {
	case os.Getenv("DATABASE_URL") != "":
		db, err := postgres.NewDB(ctx)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}

		c.Users = postgres.NewUserRepository(db)
		c.Todos = postgres.NewTodoRepository(db)
		c.closers = append(c.closers, func() error {
			db.Pool.Close()
			return nil
		})

		logger.Zap().Info("Storage backend", zap.String("backend", "postgres"))

	case os.Getenv("DATABASE_PATH") != "":
		db, err := sqlite.NewDB()
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}

		c.Users = sqlite.NewUserRepository(db)
		c.Todos = sqlite.NewTodoRepository(db)
		c.closers = append(c.closers, db.Close)

		logger.Zap().Info("Storage backend", zap.String("backend", "sqlite"))

	default:
		c.Users = memory.NewUserRepository()
		c.Todos = memory.NewTodoRepository()

		logger.Zap().Info("Storage backend", zap.String("backend", "memory"))
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache, err := cache.NewRedis(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}

		c.Cache = redisCache
		logger.Zap().Info("Cache backend", zap.String("backend", "redis"))
	} else {
		c.Cache = cache.NewMemory(5 * time.Minute)
	}

	c.closers = append(c.closers, c.Cache.Close)

	challenges := service.NewChallengeService()
	c.AuthService = service.NewAuthService(c.Users, challenges)
	c.TodoService = service.NewTodoService(c.Todos)

	return c, nil
}

// Handlers builds the handler set backed by this container.
func (c *Container) Handlers(responseCache *middleware.ResponseCache, metrics *shared.AppMetrics) Handlers {
	return Handlers{
		Auth: handler.NewAuthHandler(c.AuthService, metrics),
		Todo: handler.NewTodoHandler(c.TodoService, responseCache, metrics),
	}
}

func (c *Container) Close() error {
	var firstErr error

	for _, close := range c.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
