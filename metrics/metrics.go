// Package metrics exposes Prometheus collectors for clock actions, absences and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "timetracker"

// Metrics bundles the collectors on their own registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	clockActions     *prometheus.CounterVec
	clockRejections  *prometheus.CounterVec
	locationFailures *prometheus.CounterVec
	absences         prometheus.Counter
	sheetsPublishes  *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them together with the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		clockActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_actions_total",
			Help:      "Time log records appended, by action.",
		}, []string{"action"}),
		clockRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_rejections_total",
			Help:      "Clock actions rejected before anything was appended, by reason.",
		}, []string{"reason"}),
		locationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_failures_total",
			Help:      "Clock actions recorded without a location, by failure reason.",
		}, []string{"reason"}),
		absences: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "absences_total",
			Help:      "Absence records appended.",
		}),
		sheetsPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheets_publishes_total",
			Help:      "Records mirrored to the spreadsheet webhook, by record type and outcome.",
		}, []string{"type", "outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.clockActions,
		m.clockRejections,
		m.locationFailures,
		m.absences,
		m.sheetsPublishes,
		m.httpDuration,
	)
	return m
}

// Registry returns the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ClockAction(action string) {
	if m == nil {
		return
	}
	m.clockActions.WithLabelValues(action).Inc()
}

func (m *Metrics) ClockRejected(reason string) {
	if m == nil {
		return
	}
	m.clockRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) LocationFailed(reason string) {
	if m == nil {
		return
	}
	m.locationFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) AbsenceLogged() {
	if m == nil {
		return
	}
	m.absences.Inc()
}

func (m *Metrics) SheetsPublished(recordType string, ok bool) {
	if m == nil {
		return
	}
	outcome := "acknowledged"
	if !ok {
		outcome = "failed"
	}
	m.sheetsPublishes.WithLabelValues(recordType, outcome).Inc()
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
