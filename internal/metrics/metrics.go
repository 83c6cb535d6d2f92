// Package metrics provides centralized Prometheus metrics registry for turf-analytics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "turf_analytics"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RacesScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "races_scored_total",
		Help:      "Total number of races scored, by profile source",
	}, []string{"profile_source"})
	RunnersScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runners_scored_total",
		Help:      "Total number of runners scored",
	})
	ProfilesGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profiles_generated_total",
		Help:      "Total number of weighting profiles generated, by outcome",
	}, []string{"outcome"})
	RacesImportedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "races_imported_total",
		Help:      "Total number of races imported, by source",
	}, []string{"source"})
	ImportErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_errors_total",
		Help:      "Total number of rejected import rows, by source",
	}, []string{"source"})
)

// Gauge metrics
var (
	FieldConfidence = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_field_confidence",
		Help:      "Field confidence of the most recently scored race",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scored_field_cache_hit_ratio",
		Help:      "Hit ratio of the scored field cache",
	})
)

// Histogram metrics
var (
	ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_duration_seconds",
		Help:      "Duration of a race scoring run in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
	ImportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_duration_seconds",
		Help:      "Duration of a daily import in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RacesScoredTotal)
		registry.MustRegister(RunnersScoredTotal)
		registry.MustRegister(ProfilesGeneratedTotal)
		registry.MustRegister(RacesImportedTotal)
		registry.MustRegister(ImportErrorsTotal)

		registry.MustRegister(FieldConfidence)
		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(ScoringDuration)
		registry.MustRegister(ImportDuration)

		registry.MustRegister(RecommendationsBuiltTotal)
		registry.MustRegister(InsufficientConfidenceTotal)
		registry.MustRegister(RecommendationCost)

		registry.MustRegister(BetsRecordedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(LedgerROIPercent)
		registry.MustRegister(LedgerHitRatePercent)
		registry.MustRegister(LedgerPendingBets)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRaceScored records a scoring run.
func RecordRaceScored(profileSource string, runners int, fieldConfidence, durationSeconds float64) {
	RacesScoredTotal.WithLabelValues(profileSource).Inc()
	RunnersScoredTotal.Add(float64(runners))
	FieldConfidence.Set(fieldConfidence)
	ScoringDuration.Observe(durationSeconds)
}

// RecordProfileGenerated records a generator run. Fallback means default weights were kept.
func RecordProfileGenerated(fallback bool) {
	outcome := "fitted"
	if fallback {
		outcome = "fallback"
	}
	ProfilesGeneratedTotal.WithLabelValues(outcome).Inc()
}

// RecordImport records a finished daily import.
func RecordImport(source string, races, rejected int, durationSeconds float64) {
	RacesImportedTotal.WithLabelValues(source).Add(float64(races))
	ImportErrorsTotal.WithLabelValues(source).Add(float64(rejected))
	ImportDuration.Observe(durationSeconds)
}

// UpdateCacheHitRatio updates the scored field cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}
