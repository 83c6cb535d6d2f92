// Package metrics defines recommendation-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecommendationsBuiltTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_built_total",
		Help:      "Total number of bet recommendations built, by bet type and tier",
	}, []string{"bet_type", "tier"})

	InsufficientConfidenceTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "insufficient_confidence_total",
		Help:      "Total number of races whose recommendations were withheld",
	})

	RecommendationCost = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendation_cost",
		Help:      "Total cost of recommended tickets in currency units",
		Buckets:   []float64{1, 2, 3, 5, 7, 10, 15, 20, 30, 50},
	}, []string{"bet_type"})
)

// RecordRecommendation records one built recommendation.
func RecordRecommendation(betType, tier string, cost float64) {
	RecommendationsBuiltTotal.WithLabelValues(betType, tier).Inc()
	RecommendationCost.WithLabelValues(betType).Observe(cost)
}

// RecordInsufficientConfidence records a withheld recommendation set.
func RecordInsufficientConfidence() {
	InsufficientConfidenceTotal.Inc()
}
