// Package metrics exposes Prometheus instruments for inbound HTTP traffic,
// outbound provider calls and reference-data refreshes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "mlbhr"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder is the subset used by outbound clients and services. A nil
// *Metrics is a valid no-op Recorder.
type Recorder interface {
	ObserveOutbound(provider, operation string, statusCode int, duration time.Duration)
	ObserveRefresh(kind, outcome string, duration time.Duration)
}

type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	outboundCalls       *prometheus.CounterVec
	outboundDuration    *prometheus.HistogramVec
	refreshes           *prometheus.CounterVec
	refreshDuration     *prometheus.HistogramVec
}

type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
	runtime   bool
}

func WithNamespace(namespace string) Option {
	return func(o *options) {
		if namespace != "" {
			o.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(o *options) {
		o.runtime = true
	}
}

// New builds a Metrics instance on its own registry.
func New(opts ...Option) *Metrics {
	o := options{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry := prometheus.NewRegistry()
	if o.runtime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Inbound HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Inbound HTTP request latency.",
			Buckets:   o.buckets,
		}, []string{"route", "method"}),
		outboundCalls: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "outbound",
			Name:      "calls_total",
			Help:      "Outbound provider calls by provider, operation and status code (0 for transport errors).",
		}, []string{"provider", "operation", "status_code"}),
		outboundDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "outbound",
			Name:      "call_duration_seconds",
			Help:      "Outbound provider call latency including retries.",
			Buckets:   o.buckets,
		}, []string{"provider", "operation"}),
		refreshes: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "cache",
			Name:      "refreshes_total",
			Help:      "Cache refreshes by kind and outcome.",
		}, []string{"kind", "outcome"}),
		refreshDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "cache",
			Name:      "refresh_duration_seconds",
			Help:      "Cache refresh latency.",
			Buckets:   o.buckets,
		}, []string{"kind"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (m *Metrics) ObserveOutbound(provider, operation string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.outboundCalls.WithLabelValues(provider, operation, strconv.Itoa(statusCode)).Inc()
	m.outboundDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

func (m *Metrics) ObserveRefresh(kind, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(kind, outcome).Inc()
	m.refreshDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
