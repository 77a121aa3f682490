// Package metrics holds the application Prometheus collectors. They are
// registered on the default registry, which fiberprometheus serves at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tripsit"

var (
	graphqlOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "Total number of GraphQL operations by outcome.",
		},
		[]string{"outcome"},
	)

	graphqlDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operation_duration_seconds",
			Help:      "Duration of GraphQL operations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"outcome"},
	)

	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "rejections_total",
			Help:      "Total number of rejected requests by reason code.",
		},
		[]string{"reason"},
	)

	discordLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "lookups_total",
			Help:      "Total number of Discord user lookups by result.",
		},
		[]string{"result"},
	)
)

// GraphQL operation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeErrors  = "errors"
	OutcomeRefused = "refused"
)

// Discord lookup results.
const (
	LookupCacheHit = "cache_hit"
	LookupFetched  = "fetched"
	LookupError    = "error"
)

func init() {
	prometheus.MustRegister(
		graphqlOperations,
		graphqlDuration,
		authRejections,
		discordLookups,
	)
}

// RecordGraphQLOperation records one executed GraphQL operation.
func RecordGraphQLOperation(outcome string, duration time.Duration) {
	graphqlOperations.WithLabelValues(outcome).Inc()
	graphqlDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordAuthRejection records a request refused before any resolver ran.
func RecordAuthRejection(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	authRejections.WithLabelValues(reason).Inc()
}

// RecordDiscordLookup records the result of a Discord user lookup.
func RecordDiscordLookup(result string) {
	discordLookups.WithLabelValues(result).Inc()
}
