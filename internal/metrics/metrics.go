// Package metrics holds the prometheus collectors for card generation and
// the HTTP API. A nil *Metrics records nothing.
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

const namespace = "bingo"

// Metrics is the set of collectors registered by New
type Metrics struct {
	registry *prometheus.Registry

	CardsGenerated     *prometheus.CounterVec // partitioned by game mode and grid size
	GenerationFailures *prometheus.CounterVec // partitioned by reason
	GenerationDuration prometheus.Histogram
	SelectionPasses    prometheus.Histogram
	SelectionDiscards  prometheus.Counter
	TemplateErrors     prometheus.Counter

	SourcesLoaded   *prometheus.CounterVec // partitioned by format and origin
	SourcesRejected *prometheus.CounterVec // partitioned by reason

	RequestDuration *prometheus.HistogramVec // partitioned by method, route and status
}

var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.010, 0.050, 0.100, 0.250, 1}

// New creates the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,

		CardsGenerated: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_generated_total",
			Help:      "cards generated; partitioned by game mode and grid size",
		}, []string{"mode", "grid_size"}),
		GenerationFailures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "card generations that produced no card; partitioned by reason",
		}, []string{"reason"}),
		GenerationDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "time spent selecting and expanding categories",
			Buckets:   durationBuckets,
		}),
		SelectionPasses: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_passes",
			Help:      "passes over the category pool needed to fill a card",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}),
		SelectionDiscards: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_discards_total",
			Help:      "categories deferred to a later pass because their group was used",
		}),
		TemplateErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_errors_total",
			Help:      "malformed NUMBER/CHOOSE tokens met while expanding cards",
		}),

		SourcesLoaded: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_loaded_total",
			Help:      "card sources accepted; partitioned by format and origin",
		}, []string{"format", "origin"}),
		SourcesRejected: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_rejected_total",
			Help:      "card sources refused; partitioned by reason",
		}, []string{"reason"}),

		RequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request durations; partitioned by method, route and status",
			Buckets:   durationBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CardGenerated records a successful generation
func (m *Metrics) CardGenerated(mode, gridSize string, passes, discards, templateErrors int, took time.Duration) {
	if m == nil {
		return
	}
	m.CardsGenerated.WithLabelValues(mode, gridSize).Inc()
	m.GenerationDuration.Observe(took.Seconds())
	m.SelectionPasses.Observe(float64(passes))
	m.SelectionDiscards.Add(float64(discards))
	m.TemplateErrors.Add(float64(templateErrors))
}

// GenerationFailed records a generation that produced no card
func (m *Metrics) GenerationFailed(reason string) {
	if m == nil {
		return
	}
	m.GenerationFailures.WithLabelValues(reason).Inc()
}

// SourceLoaded records an accepted card source
func (m *Metrics) SourceLoaded(format, origin string) {
	if m == nil {
		return
	}
	m.SourcesLoaded.WithLabelValues(format, origin).Inc()
}

// SourceRejected records a refused card source
func (m *Metrics) SourceRejected(reason string) {
	if m == nil {
		return
	}
	m.SourcesRejected.WithLabelValues(reason).Inc()
}

// ObserveRequest records one API request
func (m *Metrics) ObserveRequest(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(took.Seconds())
}
