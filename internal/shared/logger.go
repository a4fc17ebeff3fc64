package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger is the server-side structured logger: zap wrapped with otelzap
// for automatic trace correlation, with an optional async push to Loki.
type AppLogger struct {
	Logger      *otelzap.Logger
	serviceName string
	lokiURL     string
	httpClient  *http.Client
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

// NewAppLogger builds the logger. An empty lokiURL disables log shipping;
// logs still go to stdout either way.
func NewAppLogger(serviceName, lokiURL string) (*AppLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	logger := &AppLogger{
		Logger:      otelzap.New(zapLogger),
		serviceName: serviceName,
	}

	if lokiURL != "" {
		logger.lokiURL = lokiURL + "/loki/api/v1/push"
		logger.httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	return logger, nil
}

func (l *AppLogger) Sync() error {
	return l.Logger.Sync()
}

// Zap exposes the raw zap logger for packages that only need plain fields.
func (l *AppLogger) Zap() *zap.Logger {
	return l.Logger.Logger
}

func (l *AppLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Info(msg, fields...)
	l.ship(ctx, "info", msg)
}

func (l *AppLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Error(msg, fields...)
	l.ship(ctx, "error", msg)
}

// ship forwards the entry to Loki on a best-effort basis. Failures are
// dropped; shipping must never affect request handling.
func (l *AppLogger) ship(ctx context.Context, level, msg string) {
	if l.lokiURL == "" {
		return
	}

	stream := map[string]string{
		"service": l.serviceName,
		"level":   level,
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		stream["trace_id"] = span.SpanContext().TraceID().String()
	}

	entry := lokiPush{
		Streams: []lokiStream{{
			Stream: stream,
			Values: [][]string{{
				strconv.FormatInt(time.Now().UnixNano(), 10),
				msg,
			}},
		}},
	}

	go func() {
		payload, err := json.Marshal(entry)

		if err != nil {
			return
		}

		req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(payload))

		if err != nil {
			return
		}

		req.Header.Set("Content-Type", "application/json")

		resp, err := l.httpClient.Do(req)

		if err != nil {
			return
		}

		resp.Body.Close()
	}()
}
