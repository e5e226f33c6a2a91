package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "partnership_gateway"

// Gateway call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics stores Prometheus collectors used by API and worker flows.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal     *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	gatewayCallsTotal     *prometheus.CounterVec
	gatewayCallDuration   *prometheus.HistogramVec
	fanoutDeliveriesTotal *prometheus.CounterVec
	workerInflight        *prometheus.GaugeVec
	agendaSyncScheduled   prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		gatewayCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_calls_total",
				Help:      "Total number of provider gateway calls by usage, provider and outcome.",
			},
			[]string{"usage", "provider", "outcome"},
		),
		gatewayCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_call_duration_seconds",
				Help:      "Provider gateway call duration in seconds by usage and provider.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"usage", "provider"},
		),
		fanoutDeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fanout_deliveries_total",
				Help:      "Total number of fan-out dispatches by usage and aggregate status.",
			},
			[]string{"usage", "status"},
		),
		workerInflight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "worker_inflight",
				Help:      "Current number of in-flight worker operations grouped by queue.",
			},
			[]string{"queue"},
		),
		agendaSyncScheduled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "agenda_sync_scheduled_total",
				Help:      "Total number of agenda sync requests published by the scheduler.",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.gatewayCallsTotal,
		m.gatewayCallDuration,
		m.fanoutDeliveriesTotal,
		m.workerInflight,
		m.agendaSyncScheduled,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

// ObserveGatewayCall records one provider call. A nil err is a success.
func (m *Metrics) ObserveGatewayCall(usage string, provider string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	usageLabel, providerLabel := normalizeLabel(usage), normalizeLabel(provider)

	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.gatewayCallsTotal.WithLabelValues(usageLabel, providerLabel, outcome).Inc()
	m.gatewayCallDuration.WithLabelValues(usageLabel, providerLabel).Observe(seconds)
}

func (m *Metrics) IncFanoutDelivery(usage string, status string) {
	if m == nil {
		return
	}
	m.fanoutDeliveriesTotal.WithLabelValues(normalizeLabel(usage), normalizeLabel(status)).Inc()
}

func (m *Metrics) IncWorkerInFlight(queue string) {
	if m == nil {
		return
	}
	m.workerInflight.WithLabelValues(normalizeLabel(queue)).Inc()
}

func (m *Metrics) DecWorkerInFlight(queue string) {
	if m == nil {
		return
	}
	m.workerInflight.WithLabelValues(normalizeLabel(queue)).Dec()
}

func (m *Metrics) IncAgendaSyncScheduled() {
	if m == nil {
		return
	}
	m.agendaSyncScheduled.Inc()
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeLabel(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
