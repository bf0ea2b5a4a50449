// Package metrics defines the Prometheus collectors used by the index,
// query and link-ranking packages and exposes an HTTP handler for scraping.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the search core.
type Metrics struct {
	PostingsInsertedTotal  *prometheus.CounterVec
	DocumentsIndexedTotal  prometheus.Counter
	IndexFlushesTotal      *prometheus.CounterVec
	QueriesTotal           *prometheus.CounterVec
	QueryLatency           *prometheus.HistogramVec
	QueryResultsCount      prometheus.Histogram
	MissingDocLengthsTotal prometheus.Counter
	CacheHitsTotal         prometheus.Counter
	CacheMissesTotal       prometheus.Counter
	MalformedLinesTotal    *prometheus.CounterVec
	PageRankIterations     prometheus.Gauge
	PageRankConverged      prometheus.Gauge
	PageRankDuration       *prometheus.HistogramVec
	GraphDocuments         prometheus.Gauge
}

// New creates all collectors and registers them on reg. Passing
// prometheus.DefaultRegisterer exposes them on Handler().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PostingsInsertedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "postings_inserted_total",
				Help: "Total postings inserted by index structure (unigram, bigram).",
			},
			[]string{"structure"},
		),
		DocumentsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "documents_indexed_total",
				Help: "Total documents registered with the index engine.",
			},
		),
		IndexFlushesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "index_flushes_total",
				Help: "Total postings-file flush operations by status.",
			},
			[]string{"status"},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total queries by query type, ranking type and structure.",
			},
			[]string{"query_type", "ranking_type", "structure"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Query evaluation latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"query_type"},
		),
		QueryResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of postings returned per query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),
		MissingDocLengthsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_missing_doc_lengths_total",
				Help: "Ranked postings skipped because no document length was available.",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of result cache misses.",
			},
		),
		MalformedLinesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "malformed_lines_total",
				Help: "Input lines rejected while loading, by source.",
			},
			[]string{"source"},
		),
		PageRankIterations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pagerank_iterations",
				Help: "Iterations performed by the last power iteration run.",
			},
		),
		PageRankConverged: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pagerank_converged",
				Help: "1 if the last power iteration run converged before the cap.",
			},
		),
		PageRankDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagerank_duration_seconds",
				Help:    "Authority computation time by method.",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"method"},
		),
		GraphDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "link_graph_documents",
				Help: "Number of documents in the last loaded link graph.",
			},
		),
	}

	reg.MustRegister(
		m.PostingsInsertedTotal,
		m.DocumentsIndexedTotal,
		m.IndexFlushesTotal,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResultsCount,
		m.MissingDocLengthsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.MalformedLinesTotal,
		m.PageRankIterations,
		m.PageRankConverged,
		m.PageRankDuration,
		m.GraphDocuments,
	)

	return m
}

func (m *Metrics) ObservePosting(structure string) {
	if m == nil {
		return
	}
	m.PostingsInsertedTotal.WithLabelValues(structure).Inc()
}

func (m *Metrics) ObserveDocument() {
	if m == nil {
		return
	}
	m.DocumentsIndexedTotal.Inc()
}

func (m *Metrics) ObserveFlush(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.IndexFlushesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveQuery(queryType, rankingType, structure string, elapsed time.Duration, results int) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(queryType, rankingType, structure).Inc()
	m.QueryLatency.WithLabelValues(queryType).Observe(elapsed.Seconds())
	m.QueryResultsCount.Observe(float64(results))
}

func (m *Metrics) ObserveMissingDocLength() {
	if m == nil {
		return
	}
	m.MissingDocLengthsTotal.Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.Inc()
		return
	}
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) ObserveMalformedLine(source string) {
	if m == nil {
		return
	}
	m.MalformedLinesTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveGraph(docs int) {
	if m == nil {
		return
	}
	m.GraphDocuments.Set(float64(docs))
}

func (m *Metrics) ObservePowerIteration(iterations int, converged bool) {
	if m == nil {
		return
	}
	m.PageRankIterations.Set(float64(iterations))
	if converged {
		m.PageRankConverged.Set(1)
	} else {
		m.PageRankConverged.Set(0)
	}
}

func (m *Metrics) ObserveRanking(method string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PageRankDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
