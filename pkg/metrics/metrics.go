// Package metrics defines the Prometheus collectors for the query server and
// exposes an HTTP handler for scraping.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors.
type Metrics struct {
	QueriesTotal      *prometheus.CounterVec
	QueryLatency      *prometheus.HistogramVec
	QueryMatches      prometheus.Histogram
	HintsTotal        prometheus.Counter
	RequestErrors     *prometheus.CounterVec
	CorpusWords       prometheus.Gauge
	IndexBuildSeconds prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg. A nil reg uses a
// fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordswords_queries_total",
				Help: "Total subsequence queries by procedure.",
			},
			[]string{"procedure"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordswords_query_latency_seconds",
				Help:    "Query latency in seconds by procedure.",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"procedure"},
		),
		QueryMatches: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordswords_query_matches",
				Help:    "Total matches per query.",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
			},
		),
		HintsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordswords_hints_total",
				Help: "Total hint panel computations.",
			},
		),
		RequestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordswords_request_errors_total",
				Help: "Rejected IPC requests by error code.",
			},
			[]string{"code"},
		),
		CorpusWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordswords_corpus_words",
				Help: "Number of indexed words.",
			},
		),
		IndexBuildSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordswords_index_build_seconds",
				Help: "Duration of the last index build.",
			},
		),
		gatherer: reg,
	}
	reg.MustRegister(
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryMatches,
		m.HintsTotal,
		m.RequestErrors,
		m.CorpusWords,
		m.IndexBuildSeconds,
	)
	return m
}

// ObserveQuery records one query.
func (m *Metrics) ObserveQuery(procedure string, elapsed time.Duration, total int) {
	m.QueriesTotal.WithLabelValues(procedure).Inc()
	m.QueryLatency.WithLabelValues(procedure).Observe(elapsed.Seconds())
	m.QueryMatches.Observe(float64(total))
}

// ObserveCorpus records the size and build time of the loaded corpus.
func (m *Metrics) ObserveCorpus(words int, indexTime time.Duration) {
	m.CorpusWords.Set(float64(words))
	m.IndexBuildSeconds.Set(indexTime.Seconds())
}

// Handler returns the scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// StartServer serves /metrics on addr in the background and returns its
// shutdown function.
func (m *Metrics) StartServer(addr string) (shutdown func(context.Context) error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("metrics server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server error: %v", err)
		}
	}()
	return server.Shutdown
}
