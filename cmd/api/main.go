package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/internal/server"
	"taskdeck/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := shared.NewAppLogger("taskdeck", os.Getenv("LOKI_URL"))

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	telemetry, err := shared.InitTelemetry(shared.TelemetryConfig{
		ServiceName:    "taskdeck",
		ServiceVersion: "1.0.0",
		MetricsPort:    "9091",
		OTLPEndpoint:   "localhost:4317",
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(context.Background())

	metrics := shared.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	if err := server.Run(ctx, logger, metrics); err != nil {
		log.Fatal("Server error:", err)
	}
}
