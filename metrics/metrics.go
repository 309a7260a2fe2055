package metrics

import (
	"net/http"
	"time"

	"eventguard/deduplication"
	"eventguard/localisation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for dedup and localisation outcomes on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	dedupRecords          *prometheus.CounterVec
	localisationResults   *prometheus.CounterVec
	localisationViolation *prometheus.CounterVec
	pipelineDuration      prometheus.Histogram
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.dedupRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventguard",
		Name:      "dedup_records_total",
		Help:      "Event records seen by the near-duplicate detector, by outcome",
	}, []string{"outcome"})
	m.localisationResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventguard",
		Name:      "localisation_results_total",
		Help:      "Results checked by the localisation guard, by expected country and outcome",
	}, []string{"expected_country", "outcome"})
	m.localisationViolation = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventguard",
		Name:      "localisation_violations_total",
		Help:      "Localisation violations by expected and detected country",
	}, []string{"expected_country", "detected_country"})
	m.pipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "eventguard",
		Name:      "pipeline_duration_seconds",
		Help:      "Time spent running one batch through dedup and localisation",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	m.Registry.MustRegister(
		m.dedupRecords, m.localisationResults, m.localisationViolation, m.pipelineDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveDeduplication counts canonical and duplicate records of one pass
func (m *Metrics) ObserveDeduplication(stats deduplication.Stats) {
	if m == nil {
		return
	}
	m.dedupRecords.WithLabelValues("canonical").Add(float64(stats.Canonical))
	m.dedupRecords.WithLabelValues("duplicate").Add(float64(stats.Duplicates))
}

// ObserveLocalisation counts passed and failed results and each violation
func (m *Metrics) ObserveLocalisation(expectedCountry string, result localisation.Result) {
	if m == nil {
		return
	}
	m.localisationResults.WithLabelValues(expectedCountry, "passed").Add(float64(result.Stats.Passed))
	m.localisationResults.WithLabelValues(expectedCountry, "failed").Add(float64(result.Stats.Failed))
	for _, v := range result.Violations {
		m.localisationViolation.WithLabelValues(v.ExpectedCountry, v.DetectedCountry).Inc()
	}
}

// ObservePipeline records how long one batch took
func (m *Metrics) ObservePipeline(d time.Duration) {
	if m == nil {
		return
	}
	m.pipelineDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
