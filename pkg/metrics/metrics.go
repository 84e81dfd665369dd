// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks conversation turns by intent and outcome.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_turns_total",
			Help: "Total conversation turns",
		},
		[]string{"intent", "outcome"},
	)

	// TurnDuration tracks how long a turn takes, external calls included.
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_turn_duration_seconds",
			Help:    "Conversation turn duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"intent"},
	)

	// ExternalCallDuration tracks booking engine call duration.
	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cruise_api_duration_seconds",
			Help:    "Booking engine call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"service", "status"},
	)

	// HoldsPlacedTotal tracks courtesy holds placed.
	HoldsPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_holds_placed_total",
			Help: "Total courtesy holds placed",
		},
	)

	// PhoneFallbacksTotal tracks phone numbers replaced by the fallback number.
	PhoneFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_phone_fallbacks_total",
			Help: "Total phone numbers replaced by the fallback number",
		},
	)

	// EstimateCacheLookups tracks estimate cache hits and misses.
	EstimateCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimate_cache_lookups_total",
			Help: "Estimate cache lookups",
		},
		[]string{"result"},
	)

	// SessionsActive tracks sessions held by the in-memory store.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of sessions held in memory",
		},
	)

	// EventsPublished tracks booking events published to NATS.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_events_published_total",
			Help: "Booking events published",
		},
		[]string{"type", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTurn records metrics for a conversation turn.
func RecordTurn(intent, outcome string, duration float64) {
	TurnsTotal.WithLabelValues(intent, outcome).Inc()
	TurnDuration.WithLabelValues(intent).Observe(duration)
}

// RecordExternalCall records metrics for a booking engine call.
func RecordExternalCall(service, status string, duration float64) {
	ExternalCallDuration.WithLabelValues(service, status).Observe(duration)
}
