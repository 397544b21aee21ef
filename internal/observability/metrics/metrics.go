package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genwork_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "genwork_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	leadSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genwork_lead_submissions_total",
		Help: "Count of lead submissions by kind and result",
	}, []string{"kind", "result"})

	notificationEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genwork_notification_emails_total",
		Help: "Count of notification email sends by kind and result",
	}, []string{"kind", "result"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genwork_auth_attempts_total",
		Help: "Count of authentication attempts by operation and result",
	}, []string{"operation", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveLeadSubmission increments the lead submission counter.
// kind is demo_request or access_request; result is created, duplicate or error.
func ObserveLeadSubmission(kind, result string) {
	leadSubmissions.WithLabelValues(kind, result).Inc()
}

// ObserveEmail increments the notification email counter
func ObserveEmail(kind, result string) {
	notificationEmails.WithLabelValues(kind, result).Inc()
}

// ObserveAuthAttempt increments the auth attempt counter
func ObserveAuthAttempt(operation, result string) {
	authAttempts.WithLabelValues(operation, result).Inc()
}
