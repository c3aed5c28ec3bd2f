// Package observability holds the Prometheus collectors and OpenTelemetry setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntriesCreated counts persisted tracker entries by kind (activity, diet, weight, goal).
	EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtracker_entries_created_total",
		Help: "Total number of tracker entries persisted, by kind",
	}, []string{"kind"})

	// ValidationFailures counts rejected form submissions by form name.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtracker_validation_failures_total",
		Help: "Total number of form submissions rejected by validation",
	}, []string{"form"})

	// Registrations counts completed sign-ups.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtracker_registrations_total",
		Help: "Total number of users registered",
	})

	// LoginAttempts counts login submissions by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtracker_login_attempts_total",
		Help: "Total number of login attempts, by outcome",
	}, []string{"outcome"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtracker_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records repository call latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "healthtracker_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
