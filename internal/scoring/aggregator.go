package scoring

import (
	"math"

	"github.com/yourusername/turf-analytics/internal/models"
)

// Aggregator combines normalized contributions into a score and a confidence
type Aggregator struct {
	normalizer *Normalizer
	confidence ConfidenceConfig
}

// NewAggregator creates an aggregator
func NewAggregator(normalizer *Normalizer, confidence ConfidenceConfig) *Aggregator {
	return &Aggregator{normalizer: normalizer, confidence: confidence}
}

// Aggregate scores one runner against a profile. Criteria the runner lacks
// contribute nothing and are left out of the weight denominator.
func (a *Aggregator) Aggregate(runner *models.RunnerAttributes, profile *models.WeightingProfile, field map[models.Criterion]FieldStats) models.ScoredRunner {
	var (
		contributions []models.Contribution
		weighted      float64
		totalWeight   float64
	)

	for _, c := range profile.Criteria() {
		raw, ok := runner.Value(c)
		if !ok || math.IsNaN(raw) || math.IsInf(raw, 0) {
			continue
		}
		w := profile.Weight(c)
		norm := a.normalizer.Normalize(c, raw, field[c])
		contributions = append(contributions, models.Contribution{
			Criterion:  c,
			Raw:        raw,
			Normalized: norm,
			Weight:     w,
		})
		weighted += norm * w
		totalWeight += w
	}

	var score float64
	if totalWeight > 0 {
		score = clamp(100*weighted/totalWeight, 0, 100)
	}
	confidence := a.Confidence(contributions)

	return models.ScoredRunner{
		Runner:         runner,
		Contributions:  contributions,
		Score:          score,
		Confidence:     confidence,
		Classification: models.Classify(score, confidence),
	}
}

// Confidence measures agreement between criteria. Uniform contributions give
// high confidence and widely dispersed ones give low confidence.
func (a *Aggregator) Confidence(contributions []models.Contribution) float64 {
	values := make([]float64, 0, len(contributions))
	for _, c := range contributions {
		if c.Normalized != 0 {
			values = append(values, c.Normalized)
		}
	}
	if len(values) < 2 {
		return a.confidence.Neutral
	}

	sigma := populationStdDev(values)
	return clamp(100-sigma*a.confidence.DispersionPenalty, a.confidence.Floor, a.confidence.Ceiling)
}

func populationStdDev(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
