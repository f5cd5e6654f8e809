// Package metrics exposes Prometheus metrics for the edforge API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edforge"

// Metrics owns a private registry and the server's collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	catalogItems    prometheus.Gauge
	catalogVersion  prometheus.Gauge
	catalogRefresh  prometheus.Counter
	libraryEntries  prometheus.Gauge
	libraryRunning  prometheus.Gauge
	libraryChanges  *prometheus.CounterVec
	realtimeClients *prometheus.GaugeVec
}

// New creates the collectors and registers them with a fresh registry,
// together with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		catalogItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "items",
			Help:      "Items in the current catalog snapshot.",
		}),
		catalogVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "version",
			Help:      "Version of the current catalog snapshot.",
		}),
		catalogRefresh: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "refreshes_total",
			Help:      "Catalog rebuilds swapped in.",
		}),
		libraryEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "library",
			Name:      "entries",
			Help:      "Saved library entries.",
		}),
		libraryRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "library",
			Name:      "running",
			Help:      "Library entries in the running state.",
		}),
		libraryChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "library",
			Name:      "changes_total",
			Help:      "Committed library mutations by action.",
		}, []string{"action"}),
		realtimeClients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "clients",
			Help:      "Connected realtime clients by transport.",
		}, []string{"transport"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.catalogItems,
		m.catalogVersion,
		m.catalogRefresh,
		m.libraryEntries,
		m.libraryRunning,
		m.libraryChanges,
		m.realtimeClients,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Instrument records request count and latency for a route. The route label
// is the pattern, never the raw path, to keep label cardinality bounded.
func (m *Metrics) Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveCatalog records the current snapshot size and version.
func (m *Metrics) ObserveCatalog(items int, version uint64) {
	m.catalogItems.Set(float64(items))
	m.catalogVersion.Set(float64(version))
}

// CatalogRefreshed counts a swapped-in rebuild.
func (m *Metrics) CatalogRefreshed(items int) {
	m.catalogRefresh.Inc()
	m.catalogItems.Set(float64(items))
	m.catalogVersion.Inc()
}

// ObserveLibrary records the library size and running count.
func (m *Metrics) ObserveLibrary(entries, running int) {
	m.libraryEntries.Set(float64(entries))
	m.libraryRunning.Set(float64(running))
}

// LibraryChanged counts a committed library mutation.
func (m *Metrics) LibraryChanged(action string) {
	m.libraryChanges.WithLabelValues(action).Inc()
}

// ObserveClients records connected realtime clients for a transport.
func (m *Metrics) ObserveClients(transport string, n int) {
	m.realtimeClients.WithLabelValues(transport).Set(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
