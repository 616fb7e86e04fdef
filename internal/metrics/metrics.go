package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for courtdesk
type Metrics struct {
	// Session metrics
	SessionEvents *prometheus.CounterVec

	// Route guard metrics
	GuardDecisions *prometheus.CounterVec

	// Toast queue metrics
	ToastsEnqueued *prometheus.CounterVec
	ToastsRemoved  *prometheus.CounterVec
	ToastsActive   prometheus.Gauge

	// API client metrics
	APIRequests     *prometheus.CounterVec
	APILatency      *prometheus.HistogramVec
	APIUnauthorized prometheus.Counter

	// Shell host metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		SessionEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtdesk_session_events_total",
				Help: "Session lifecycle events (login, logout, restored, purged)",
			},
			[]string{"event"},
		),

		GuardDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtdesk_guard_decisions_total",
				Help: "Route guard decisions by outcome and reason",
			},
			[]string{"outcome", "reason"},
		),

		ToastsEnqueued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtdesk_toasts_enqueued_total",
				Help: "Toasts enqueued by severity",
			},
			[]string{"severity"},
		),
		ToastsRemoved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtdesk_toasts_removed_total",
				Help: "Toasts removed by reason (expired, dismissed, closed)",
			},
			[]string{"reason"},
		),
		ToastsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "courtdesk_toasts_active",
				Help: "Toasts currently displayed",
			},
		),

		APIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtdesk_api_requests_total",
				Help: "Backend API requests by method and status code",
			},
			[]string{"method", "status"},
		),
		APILatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtdesk_api_latency_seconds",
				Help:    "Backend API request latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"method"},
		),
		APIUnauthorized: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "courtdesk_api_unauthorized_total",
				Help: "Backend 401 responses that reset the session",
			},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtdesk_http_requests_total",
				Help: "Shell host requests by route pattern and status code",
			},
			[]string{"route", "code"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtdesk_http_duration_seconds",
				Help:    "Shell host request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtdesk_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}
