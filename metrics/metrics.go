// Package metrics exposes Prometheus instrumentation for ingestion and
// retrieval. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sovereign"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry          *prometheus.Registry
	ingestTotal       *prometheus.CounterVec
	chunksTotal       prometheus.Counter
	queryTotal        *prometheus.CounterVec
	retrievalDuration prometheus.Histogram
	inferenceDuration prometheus.Histogram
	indexSize         prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		ingestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_total",
			Help:      "Documents ingested, by status.",
		}, []string{"status"}),
		chunksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_indexed_total",
			Help:      "Chunks written to the vector index.",
		}),
		queryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_total",
			Help:      "Queries answered, by outcome.",
		}, []string{"outcome"}),
		retrievalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Vector index search latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		inferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Inference engine call latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		indexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_records",
			Help:      "Records currently stored in the vector index.",
		}),
	}
	registry.MustRegister(
		m.ingestTotal,
		m.chunksTotal,
		m.queryTotal,
		m.retrievalDuration,
		m.inferenceDuration,
		m.indexSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) IngestDone(status string, chunks int) {
	if m == nil {
		return
	}
	m.ingestTotal.WithLabelValues(status).Inc()
	if chunks > 0 {
		m.chunksTotal.Add(float64(chunks))
	}
}

func (m *Metrics) QueryDone(outcome string) {
	if m == nil {
		return
	}
	m.queryTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRetrieval(d time.Duration) {
	if m == nil {
		return
	}
	m.retrievalDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveInference(d time.Duration) {
	if m == nil {
		return
	}
	m.inferenceDuration.Observe(d.Seconds())
}

func (m *Metrics) SetIndexSize(n int) {
	if m == nil {
		return
	}
	m.indexSize.Set(float64(n))
}
