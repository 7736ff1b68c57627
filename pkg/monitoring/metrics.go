package monitoring

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total number of booking attempts",
		},
		[]string{"outcome"},
	)

	slotConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slot_conflicts_total",
			Help: "Booking attempts lost to an already-held slot",
		},
	)

	authFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Token verifications rejected, by reason",
		},
		[]string{"reason"},
	)
)

// Collector registers and records the scheduler's Prometheus metrics.
type Collector struct{}

var registerOnce sync.Once

// NewCollector creates a collector and registers the metric families.
// Registration is idempotent per process.
func NewCollector() *Collector {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			bookingsTotal,
			slotConflictsTotal,
			authFailuresTotal,
		)
	})
	return &Collector{}
}

// RecordHTTPRequest records a completed HTTP request.
func (c *Collector) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordBooking records a booking attempt outcome ("booked", "conflict",
// "rejected", "error").
func (c *Collector) RecordBooking(outcome string) {
	bookingsTotal.WithLabelValues(outcome).Inc()
	if outcome == "conflict" {
		slotConflictsTotal.Inc()
	}
}

// RecordAuthFailure records a rejected token verification.
func (c *Collector) RecordAuthFailure(reason string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
}

// Handler returns the Prometheus scrape handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.Handler()
}
