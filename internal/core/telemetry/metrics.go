package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"todoservice/internal/core/domain"
)

const namespace = "todoservice"

// Store operation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// AppMetrics holds the service's own Prometheus collectors. Runtime and
// connection pool series come from the OTel meter provider instead.
type AppMetrics struct {
	httpDuration       *prometheus.HistogramVec
	httpRequests       *prometheus.CounterVec
	httpInFlight       prometheus.Gauge
	domainEvents       *prometheus.CounterVec
	storeOperations    *prometheus.CounterVec
	storeDuration      *prometheus.HistogramVec
	rateLimitDecisions *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of todo and user API requests by route.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests served, by route and status code.",
		}, []string{"method", "route", "status"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "API requests currently being handled.",
		}),
		domainEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_total",
			Help:      "Todo and user lifecycle events (created, updated, deleted).",
		}, []string{"entity", "event"}),
		storeOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Todo store calls by entity, operation and outcome.",
		}, []string{"entity", "operation", "outcome"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Time spent in a single store call.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .5},
		}, []string{"entity", "operation"}),
		rateLimitDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rate_limit",
			Name:      "decisions_total",
			Help:      "Rate limiter verdicts per route (allowed or rejected).",
		}, []string{"route", "decision"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Todo list cache lookups by key and result (hit or miss).",
		}, []string{"key", "result"}),
	}

	registry.MustRegister(
		metrics.httpDuration,
		metrics.httpRequests,
		metrics.httpInFlight,
		metrics.domainEvents,
		metrics.storeOperations,
		metrics.storeDuration,
		metrics.rateLimitDecisions,
		metrics.cacheLookups,
	)

	return metrics
}

func (m *AppMetrics) RecordRequest(ctx context.Context, method, route, status string, duration time.Duration) {
	m.httpDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}

// TrackInFlight increments the in-flight gauge and returns its release.
func (m *AppMetrics) TrackInFlight(ctx context.Context) func() {
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}

func (m *AppMetrics) RecordDomainEvent(ctx context.Context, entity, event string) {
	m.domainEvents.WithLabelValues(entity, event).Inc()
}

func (m *AppMetrics) RecordStoreOperation(ctx context.Context, entity, operation string, duration time.Duration, err error) {
	m.storeOperations.WithLabelValues(entity, operation, StoreOutcome(err)).Inc()
	m.storeDuration.WithLabelValues(entity, operation).Observe(duration.Seconds())
}

func (m *AppMetrics) RecordRateLimitDecision(ctx context.Context, route string, allowed bool) {
	decision := "allowed"

	if !allowed {
		decision = "rejected"
	}

	m.rateLimitDecisions.WithLabelValues(route, decision).Inc()
}

func (m *AppMetrics) RecordCacheLookup(ctx context.Context, key string, hit bool) {
	result := "miss"

	if hit {
		result = "hit"
	}

	m.cacheLookups.WithLabelValues(key, result).Inc()
}

// StoreOutcome classifies a store error for the outcome label. Not-found
// and duplicate results are normal answers, not failures.
func StoreOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrTodoNotFound), errors.Is(err, domain.ErrUserNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
