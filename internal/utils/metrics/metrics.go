package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Payment metrics
	SessionsCreatedTotal *prometheus.CounterVec
	ResolutionsTotal     *prometheus.CounterVec
	ConflictsTotal       *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	StatusChecksTotal    *prometheus.CounterVec

	// Provider metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
	BreakerState            prometheus.Gauge

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance registered with the default registry.
func New(namespace string) *Metrics {
	return NewWithRegisterer(namespace, prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a new Metrics instance registered with reg.
func NewWithRegisterer(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "furatpay"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Payment metrics
		SessionsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "sessions_created_total",
				Help:      "Total number of payment sessions created",
			},
			[]string{"source"}, // classic, blocks
		),
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "resolutions_total",
				Help:      "Total number of session resolutions",
			},
			[]string{"channel", "status", "result"}, // result: applied, duplicate, superseded
		),
		ConflictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "conflicts_total",
				Help:      "Terminal outcomes that disagreed with an already resolved session",
			},
			[]string{"channel"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "notifications_total",
				Help:      "Total number of provider notifications received",
			},
			[]string{"result"}, // accepted, replayed, bad_signature, malformed
		),
		StatusChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "status_checks_total",
				Help:      "Total number of payer status polls",
			},
			[]string{"status"},
		),

		// Provider metrics
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of payment provider API requests",
			},
			[]string{"operation", "status"},
		),
		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Payment provider API request duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		BreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "breaker_state",
				Help:      "Provider circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
		),

		// Cache metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSessionCreated records a new payment session.
func (m *Metrics) RecordSessionCreated(source string) {
	m.SessionsCreatedTotal.WithLabelValues(source).Inc()
}

// RecordResolution records the result of resolving a session.
func (m *Metrics) RecordResolution(channel, status, result string) {
	m.ResolutionsTotal.WithLabelValues(channel, status, result).Inc()
}

// RecordConflict records a terminal outcome that lost to an earlier one.
func (m *Metrics) RecordConflict(channel string) {
	m.ConflictsTotal.WithLabelValues(channel).Inc()
}

// RecordNotification records a received provider notification.
func (m *Metrics) RecordNotification(result string) {
	m.NotificationsTotal.WithLabelValues(result).Inc()
}

// RecordStatusCheck records a payer status poll.
func (m *Metrics) RecordStatusCheck(status string) {
	m.StatusChecksTotal.WithLabelValues(status).Inc()
}

// RecordUpstreamRequest records a provider API call.
func (m *Metrics) RecordUpstreamRequest(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.UpstreamRequestsTotal.WithLabelValues(operation, status).Inc()
	m.UpstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetBreakerState sets the provider circuit breaker state.
func (m *Metrics) SetBreakerState(state int) {
	m.BreakerState.Set(float64(state))
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
