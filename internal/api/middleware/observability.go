package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

// ObservabilityMiddleware traces every request under its route pattern and
// records the request metrics
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), "bff.request")
			defer span.End()

			rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			r = r.WithContext(ctx)
			next.ServeHTTP(rw, r)

			// r.Pattern is only set once the mux matched; unmatched paths share one series
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))
			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", rw.statusCode),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
