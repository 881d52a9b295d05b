// Package metrics exposes Prometheus counters for the HTTP surface and the
// authentication and attachment flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware depend on.
type Recorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordLoginFailure()
	RecordUpload(success bool)
	RecordCleanupFailure(kind string)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginFailures   prometheus.Counter
	uploads         *prometheus.CounterVec
	cleanupFailures *prometheus.CounterVec
}

// NewCollector registers all blog metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_login_failures_total",
			Help: "Rejected login attempts.",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_attachment_uploads_total",
			Help: "Attachment uploads to blob storage by result.",
		}, []string{"result"}),
		cleanupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_attachment_cleanup_failures_total",
			Help: "Blob or staged file removals that failed and were only logged.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.loginFailures,
		c.uploads,
		c.cleanupFailures,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordLoginFailure() {
	c.loginFailures.Inc()
}

func (c *Collector) RecordUpload(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	c.uploads.WithLabelValues(result).Inc()
}

// RecordCleanupFailure counts a swallowed cleanup error. kind is "blob" or "staged".
func (c *Collector) RecordCleanupFailure(kind string) {
	c.cleanupFailures.WithLabelValues(kind).Inc()
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used when metrics are disabled and in tests.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordLoginFailure()                              {}
func (Nop) RecordUpload(bool)                                {}
func (Nop) RecordCleanupFailure(string)                      {}
