package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorTotal      *prometheus.CounterVec

	EmailsDispatched *prometheus.CounterVec
	EmailsFailed     *prometheus.CounterVec

	OTPIssued   prometheus.Counter
	OTPVerified *prometheus.CounterVec

	ApplicationsSubmitted prometheus.Counter
	ApplicationsReviewed  *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		ErrorTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses",
		}, []string{"method", "path", "status"}),
		EmailsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_dispatched_total",
			Help:      "Total number of emails handed to the dispatcher",
		}, []string{"kind"}),
		EmailsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_failed_total",
			Help:      "Total number of email sends that failed",
		}, []string{"kind"}),
		OTPIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_issued_total",
			Help:      "Total number of verification codes issued",
		}),
		OTPVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_verify_total",
			Help:      "Verification attempts by outcome",
		}, []string{"outcome"}),
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clinician_applications_submitted_total",
			Help:      "Total number of clinician applications submitted",
		}),
		ApplicationsReviewed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clinician_applications_reviewed_total",
			Help:      "Clinician application reviews by decision",
		}, []string{"decision"}),
	}
}
