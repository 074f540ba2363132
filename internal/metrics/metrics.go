// Package metrics holds the prometheus collectors for the API server
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "applytrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "applytrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	moves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "applytrack",
			Subsystem: "lifecycle",
			Name:      "moves_total",
			Help:      "Application moves by target state and outcome.",
		},
		[]string{"to_state", "outcome"},
	)

	hotCleared = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "applytrack",
			Subsystem: "maintenance",
			Name:      "hot_cleared_total",
			Help:      "Applications whose stale hot flag was cleared.",
		},
	)
)

// Move outcomes
const (
	OutcomeOK         = "ok"
	OutcomeConflict   = "conflict"
	OutcomeConcurrent = "concurrent_modification"
	OutcomeNotFound   = "not_found"
	OutcomeError      = "error"
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		moves,
		hotCleared,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// FiberHandler exposes Handler as a fiber route handler
func FiberHandler() fiber.Handler {
	return adaptor.HTTPHandler(Handler())
}

// Middleware records request counts and latency keyed by the matched route
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		method := strings.ToUpper(c.Method())
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordMove counts a move attempt
func RecordMove(toState, outcome string) {
	moves.WithLabelValues(toState, outcome).Inc()
}

// RecordHotCleared counts applications cleared by a stale hot sweep
func RecordHotCleared(n int64) {
	if n > 0 {
		hotCleared.Add(float64(n))
	}
}
