package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes front-desk metrics in the Prometheus text format for
// scrapers that do not speak OTLP
type Collector struct {
	service  string
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry
func NewCollector(service string) *Collector {
	c := &Collector{
		service:  service,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hms_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code", "service"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hms_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "service"},
		),
	}
	c.registry.MustRegister(c.requests, c.duration)
	return c
}

// Gauge registers a gauge sampled from fn at scrape time
func (c *Collector) Gauge(name, help string, fn func() float64) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        name,
		Help:        help,
		ConstLabels: prometheus.Labels{"service": c.service},
	}, fn))
}

// Handler serves the registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by matched route. It must wrap the mux
// directly so the route pattern is visible after dispatch.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &codeRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode), c.service).Inc()
		c.duration.WithLabelValues(r.Method, route, c.service).Observe(time.Since(start).Seconds())
	})
}

type codeRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *codeRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *codeRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
