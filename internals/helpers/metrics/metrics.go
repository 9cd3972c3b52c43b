// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "route"})

	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_processed_total",
		Help: "Background jobs handled, by topic and outcome",
	}, []string{"topic", "outcome"})

	GradingSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grading_submissions_total",
		Help: "Graded submissions by kind and result",
	}, []string{"kind", "result"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})
)

// ObserveGrading counts one graded submission.
func ObserveGrading(kind string, passed bool) {
	result := "failed"
	if passed {
		result = "passed"
	}
	GradingSubmissionsTotal.WithLabelValues(kind, result).Inc()
}
