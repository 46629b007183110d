package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the site collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sideEffects     *prometheus.CounterVec
	rsvps           *prometheus.CounterVec
	photoUploads    *prometheus.CounterVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wedding",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wedding",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sideEffects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wedding",
			Name:      "side_effect_failures_total",
			Help:      "Failed side effects (email, media host, sms) by kind.",
		}, []string{"effect"}),
		rsvps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wedding",
			Name:      "rsvps_submitted_total",
			Help:      "Accepted RSVP submissions by attendance.",
		}, []string{"attendance"}),
		photoUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wedding",
			Name:      "photo_uploads_total",
			Help:      "Guest photo uploads by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.sideEffects,
		m.rsvps,
		m.photoUploads,
	)
	return m
}

// Registry exposes the registry for tests and custom exporters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) SideEffectFailed(effect string) {
	if m == nil {
		return
	}
	m.sideEffects.WithLabelValues(effect).Inc()
}

func (m *Metrics) RSVPSubmitted(attendance string) {
	if m == nil {
		return
	}
	m.rsvps.WithLabelValues(attendance).Inc()
}

func (m *Metrics) PhotoUpload(result string) {
	if m == nil {
		return
	}
	m.photoUploads.WithLabelValues(result).Inc()
}
