// Package telemetry registers the Prometheus metrics exported on /metrics.
//
// HTTP metrics are labelled by gin route template (c.FullPath()) rather than
// the raw URL to keep label cardinality bounded. Authentication metrics never
// carry the api key as a label for the same reason.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeRejected   = "rejected"
	OutcomeDecryptErr = "decryption_failed"
	OutcomeError      = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	KeyLockoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_key_lockouts_total",
			Help: "Number of api keys deactivated after reaching the failed attempt threshold.",
		},
	)

	KeyPairsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_keypairs_issued_total",
			Help: "Key pair issuance requests by result.",
		},
		[]string{"result"},
	)

	DecryptionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_decryption_duration_seconds",
			Help:    "Time spent decrypting one credential field.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
		},
	)
)
