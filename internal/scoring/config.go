package scoring

import (
	"fmt"

	"github.com/yourusername/turf-analytics/internal/config"
	"github.com/yourusername/turf-analytics/internal/models"
)

// Policy selects how a raw criterion value is mapped onto [0,1]
type Policy string

const (
	PolicyLowerBetter      Policy = "lower_better"
	PolicySweetSpot        Policy = "sweet_spot"
	PolicyHigherBetter     Policy = "higher_better"
	PolicyReferenceCeiling Policy = "reference_ceiling"
	PolicyAbsoluteScale    Policy = "absolute_scale"
	PolicyBanded           Policy = "banded"
)

// NormalizerConfig holds the constants used by the normalization policies
type NormalizerConfig struct {
	OddsBandLow         float64
	OddsBandHigh        float64
	InBandScore         float64
	BelowBandFraction   float64
	AboveBandFraction   float64
	EloFloor            float64
	EloCeiling          float64
	EarningsCeiling     float64
	TurfPointsCeiling   float64
	BordaCeiling        float64
	RestDaysAcceptLow   float64
	RestDaysOptimalLow  float64
	RestDaysOptimalHigh float64
	RestDaysAcceptHigh  float64
}

// ConfidenceConfig parameterizes the dispersion-based confidence
type ConfidenceConfig struct {
	DispersionPenalty float64
	Floor             float64
	Ceiling           float64
	Neutral           float64
}

// Config is the scoring engine configuration
type Config struct {
	Normalizer     NormalizerConfig
	Confidence     ConfidenceConfig
	Policies       map[models.Criterion]Policy
	DefaultWeights map[models.Criterion]float64
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		Normalizer: NormalizerConfig{
			OddsBandLow:         3,
			OddsBandHigh:        15,
			InBandScore:         1.0,
			BelowBandFraction:   0.7,
			AboveBandFraction:   0.5,
			EloFloor:            1200,
			EloCeiling:          1800,
			EarningsCeiling:     100000,
			TurfPointsCeiling:   2000,
			BordaCeiling:        300,
			RestDaysAcceptLow:   7,
			RestDaysOptimalLow:  14,
			RestDaysOptimalHigh: 28,
			RestDaysAcceptHigh:  42,
		},
		Confidence: ConfidenceConfig{
			DispersionPenalty: 200,
			Floor:             20,
			Ceiling:           100,
			Neutral:           50,
		},
		Policies: map[models.Criterion]Policy{},
		DefaultWeights: map[models.Criterion]float64{
			models.CriterionAIWin:     30,
			models.CriterionAIPair:    15,
			models.CriterionAITrio:    10,
			models.CriterionOddsBZH:   20,
			models.CriterionEloHorse:  15,
			models.CriterionEloJockey: 10,
		},
	}
}

// FromConfig converts app config to scoring config
func FromConfig(cfg *config.ScoringConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("scoring config is required")
	}

	n := cfg.Normalizer
	sc := Config{
		Normalizer: NormalizerConfig{
			OddsBandLow:         n.OddsBandLow,
			OddsBandHigh:        n.OddsBandHigh,
			InBandScore:         n.InBandScore,
			BelowBandFraction:   n.BelowBandFraction,
			AboveBandFraction:   n.AboveBandFraction,
			EloFloor:            n.EloFloor,
			EloCeiling:          n.EloCeiling,
			EarningsCeiling:     n.EarningsCeiling,
			TurfPointsCeiling:   n.TurfPointsCeiling,
			BordaCeiling:        n.BordaCeiling,
			RestDaysAcceptLow:   n.RestDaysAcceptLow,
			RestDaysOptimalLow:  n.RestDaysOptimalLow,
			RestDaysOptimalHigh: n.RestDaysOptimalHigh,
			RestDaysAcceptHigh:  n.RestDaysAcceptHigh,
		},
		Confidence: ConfidenceConfig{
			DispersionPenalty: cfg.Confidence.DispersionPenalty,
			Floor:             cfg.Confidence.Floor,
			Ceiling:           cfg.Confidence.Ceiling,
			Neutral:           cfg.Confidence.Neutral,
		},
		Policies:       make(map[models.Criterion]Policy, len(n.Policies)),
		DefaultWeights: make(map[models.Criterion]float64, len(cfg.DefaultWeights)),
	}
	for name, policy := range n.Policies {
		sc.Policies[models.Criterion(name)] = Policy(policy)
	}
	for name, w := range cfg.DefaultWeights {
		sc.DefaultWeights[models.Criterion(name)] = w
	}

	return sc, sc.Validate()
}

// Validate validates scoring config parameters
func (c Config) Validate() error {
	if c.Normalizer.OddsBandLow >= c.Normalizer.OddsBandHigh {
		return fmt.Errorf("odds band low must be below odds band high")
	}
	if c.Normalizer.EloFloor >= c.Normalizer.EloCeiling {
		return fmt.Errorf("elo floor must be below elo ceiling")
	}
	if c.Confidence.Floor > c.Confidence.Ceiling {
		return fmt.Errorf("confidence floor cannot exceed ceiling")
	}
	if c.Confidence.DispersionPenalty <= 0 {
		return fmt.Errorf("dispersion penalty must be positive")
	}
	for crit, p := range c.Policies {
		switch p {
		case PolicyLowerBetter, PolicySweetSpot, PolicyHigherBetter, PolicyReferenceCeiling, PolicyAbsoluteScale, PolicyBanded:
		default:
			return fmt.Errorf("unknown normalization policy %q for %s", p, crit)
		}
	}
	if len(c.DefaultWeights) == 0 {
		return fmt.Errorf("default weights are required")
	}
	return nil
}

// DefaultProfile builds the catch-all weighting profile from the default weights
func (c Config) DefaultProfile() *models.WeightingProfile {
	return models.NewWeightingProfile(models.DefaultProfileName, c.DefaultWeights).
		WithSource(models.ProfileSourceDefault)
}
