package observability

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type sessionIDKey struct{}

// InitLogger initializes the global zerolog logger
func InitLogger(serviceName, env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().
			Str("service", serviceName).
			Logger()
		return
	}

	log.Logger = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

// WithSessionID stores the browser session id for log correlation
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext returns the session id stored by WithSessionID
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// LoggerFromContext returns a logger with trace and session context
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	builder := log.With()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		builder = builder.
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String())
	}
	if id := SessionIDFromContext(ctx); id != "" {
		builder = builder.Str("session_id", id)
	}

	logger := builder.Logger()
	return &logger
}

// GetLogger returns the global logger
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
