package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RequestDuration tracks HTTP request latency by route pattern.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "church",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)

// AssistantSessions counts session lifecycle events: opened, rebuilt, terminated, reaped.
var AssistantSessions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "church",
		Subsystem: "assistant",
		Name:      "sessions_total",
		Help:      "Assistant session lifecycle events.",
	},
	[]string{"event"},
)

// AssistantDirectives counts directives extracted from replies by kind.
var AssistantDirectives = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "church",
		Subsystem: "assistant",
		Name:      "directives_total",
		Help:      "Directives extracted from assistant replies.",
	},
	[]string{"kind"},
)

// AssistantProviderErrors counts failed text-generation calls.
var AssistantProviderErrors = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "church",
		Subsystem: "assistant",
		Name:      "provider_errors_total",
		Help:      "Failed text-generation provider calls.",
	},
)

// NewRegistry creates a Prometheus registry with default and custom collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestDuration,
		AssistantSessions,
		AssistantDirectives,
		AssistantProviderErrors,
	)
	return reg
}

// Middleware observes request latency. The path label is the matched route
// pattern so ids do not explode the label set.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		RequestDuration.WithLabelValues(
			c.Method(),
			c.Route().Path,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler exposes reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
