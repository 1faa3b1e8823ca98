// Package metrics exposes Prometheus counters for kernel writes, domain
// resolutions and control API requests. A nil *Metrics is valid and
// records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "captivegate"

// Resolution outcomes.
const (
	ResolutionLiteral  = "literal"
	ResolutionResolved = "resolved"
	ResolutionFailed   = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	kmodWrites       *prometheus.CounterVec
	kmodWriteSeconds *prometheus.HistogramVec
	resolutions      *prometheus.CounterVec
	resolvedAddrs    *prometheus.CounterVec
	inflight         prometheus.Gauge
	apiRequests      *prometheus.CounterVec
}

// New creates a metrics set on its own registry, including Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		kmodWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kmod",
			Name:      "writes_total",
			Help:      "Control file writes by channel and result code.",
		}, []string{"channel", "result"}),
		kmodWriteSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "kmod",
			Name:      "write_duration_seconds",
			Help:      "Time spent waiting for and writing a control file.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"channel"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Domain rule resolutions by intent and outcome.",
		}, []string{"intent", "outcome"}),
		resolvedAddrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "addresses_total",
			Help:      "Addresses produced by successful resolutions.",
		}, []string{"intent"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "inflight",
			Help:      "Resolutions submitted and not yet completed.",
		}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Control API requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.kmodWrites,
		m.kmodWriteSeconds,
		m.resolutions,
		m.resolvedAddrs,
		m.inflight,
		m.apiRequests,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveKmodWrite records one control write. result is "ok" or an error code.
func (m *Metrics) ObserveKmodWrite(channel, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.kmodWrites.WithLabelValues(channel, result).Inc()
	m.kmodWriteSeconds.WithLabelValues(channel).Observe(d.Seconds())
}

// ResolutionStarted marks a non-literal resolution as in flight.
func (m *Metrics) ResolutionStarted() {
	if m == nil {
		return
	}
	m.inflight.Inc()
}

// ResolutionFinished records the outcome of a resolution. Non-literal
// outcomes also decrement the in-flight gauge.
func (m *Metrics) ResolutionFinished(intent, outcome string, addrs int) {
	if m == nil {
		return
	}
	if outcome != ResolutionLiteral {
		m.inflight.Dec()
	}
	m.resolutions.WithLabelValues(intent, outcome).Inc()
	if addrs > 0 {
		m.resolvedAddrs.WithLabelValues(intent).Add(float64(addrs))
	}
}

// ObserveAPIRequest records one control API request.
func (m *Metrics) ObserveAPIRequest(method, code string) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, code).Inc()
}
