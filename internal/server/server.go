package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"taskdeck/internal/server/middleware"
	"taskdeck/internal/shared"

	"go.uber.org/zap"
)

// Run starts the API server and blocks until ctx is canceled, then shuts
// down gracefully.
func Run(ctx context.Context, logger *shared.AppLogger, metrics *shared.AppMetrics) error {
	config := shared.GetDefaultConfig()

	container, err := NewContainer(ctx, logger)

	if err != nil {
		return err
	}

	defer container.Close()

	responseCache := middleware.NewResponseCache(container.Cache, logger.Zap(), metrics, config.CacheConfigs)

	router := SetupRouter(container.Handlers(responseCache, metrics), logger, metrics, responseCache, config)

	port := os.Getenv("PORT")

	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Zap().Info("API server listening", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Zap().Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
