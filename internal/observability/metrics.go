package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	requestsTotal           *prometheus.CounterVec
	requestLatencySeconds   *prometheus.HistogramVec
	gradingOpsTotal         *prometheus.CounterVec
	sessionTransitionsTotal *prometheus.CounterVec
	privacyExpiriesTotal    prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the grading API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradebook_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gradebook_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		gradingOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradebook_grading_ops_total",
			Help: "Total number of grade ledger operations by outcome.",
		}, []string{"op", "outcome"})

		sessionTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradebook_session_transitions_total",
			Help: "Total number of grading session state transitions.",
		}, []string{"transition"})

		privacyExpiriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gradebook_privacy_expiries_total",
			Help: "Total number of privacy session expiries that cleared working state.",
		})

		prometheus.MustRegister(
			requestsTotal,
			requestLatencySeconds,
			gradingOpsTotal,
			sessionTransitionsTotal,
			privacyExpiriesTotal,
		)
	})
}

// Requests exposes the counter for served requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the request latency histogram.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// GradingOps exposes the grade ledger operation counter.
func GradingOps() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingOpsTotal
}

// SessionTransitions exposes the session transition counter.
func SessionTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return sessionTransitionsTotal
}

// PrivacyExpiries exposes the privacy expiry counter.
func PrivacyExpiries() prometheus.Counter {
	RegisterMetrics()
	return privacyExpiriesTotal
}
