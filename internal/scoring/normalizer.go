// Package scoring implements the weighted multi-criteria ranking of a race field.
package scoring

import (
	"math"
	"strings"

	"github.com/yourusername/turf-analytics/internal/models"
)

// FieldStats summarizes one criterion across the runners that carry it
type FieldStats struct {
	Count int
	Min   float64
	Max   float64
}

// ComputeFieldStats collects per-criterion statistics over a field.
// Runners without a value for a criterion do not count towards it.
func ComputeFieldStats(runners []*models.RunnerAttributes) map[models.Criterion]FieldStats {
	stats := make(map[models.Criterion]FieldStats)
	for _, r := range runners {
		for c, v := range r.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			s, ok := stats[c]
			if !ok {
				stats[c] = FieldStats{Count: 1, Min: v, Max: v}
				continue
			}
			s.Count++
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
			stats[c] = s
		}
	}
	return stats
}

// Normalizer maps raw criterion values onto [0,1]
type Normalizer struct {
	cfg      NormalizerConfig
	policies map[models.Criterion]Policy
}

// NewNormalizer creates a normalizer. Policy overrides take precedence over the built-in assignment.
func NewNormalizer(cfg Config) *Normalizer {
	policies := make(map[models.Criterion]Policy, len(cfg.Policies))
	for c, p := range cfg.Policies {
		policies[c] = p
	}
	return &Normalizer{cfg: cfg.Normalizer, policies: policies}
}

// PolicyFor returns the policy applied to a criterion
func (n *Normalizer) PolicyFor(c models.Criterion) Policy {
	if p, ok := n.policies[c]; ok {
		return p
	}
	switch {
	case c == models.CriterionPopularity, c == models.CriterionDraw:
		return PolicyLowerBetter
	case c == models.CriterionOddsPMU, c == models.CriterionOddsBZH:
		return PolicySweetSpot
	case c == models.CriterionEarnings, c == models.CriterionTurfPoints,
		c == models.CriterionBordaScore, c.IsBordaSystem():
		return PolicyReferenceCeiling
	case strings.HasPrefix(string(c), "elo_"), c == models.CriterionRecentForm:
		return PolicyAbsoluteScale
	case c == models.CriterionRestDays:
		return PolicyBanded
	default:
		return PolicyHigherBetter
	}
}

// Normalize maps one raw value onto [0,1] given the field statistics for its criterion
func (n *Normalizer) Normalize(c models.Criterion, raw float64, stats FieldStats) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}

	var v float64
	switch n.PolicyFor(c) {
	case PolicyLowerBetter:
		v = n.lowerBetter(raw, stats)
	case PolicySweetSpot:
		v = n.sweetSpot(raw)
	case PolicyReferenceCeiling:
		v = n.referenceCeiling(c, raw, stats)
	case PolicyAbsoluteScale:
		floor, ceiling := n.scaleBounds(c)
		v = (raw - floor) / (ceiling - floor)
	case PolicyBanded:
		v = n.banded(raw)
	default:
		v = n.higherBetter(raw, stats)
	}
	return clamp(v, 0, 1)
}

const neutral = 0.5

func (n *Normalizer) lowerBetter(raw float64, stats FieldStats) float64 {
	if stats.Count < 2 || stats.Max <= 0 {
		return neutral
	}
	return (stats.Max - raw) / stats.Max
}

func (n *Normalizer) higherBetter(raw float64, stats FieldStats) float64 {
	if stats.Count < 2 || stats.Max <= 0 {
		return neutral
	}
	return raw / stats.Max
}

// sweetSpot favours mid-range odds: favourites pay too little and long shots rarely place
func (n *Normalizer) sweetSpot(raw float64) float64 {
	switch {
	case raw <= 0:
		return 0
	case raw < n.cfg.OddsBandLow:
		return n.cfg.InBandScore * n.cfg.BelowBandFraction
	case raw > n.cfg.OddsBandHigh:
		return n.cfg.InBandScore * n.cfg.AboveBandFraction
	default:
		return n.cfg.InBandScore
	}
}

func (n *Normalizer) referenceCeiling(c models.Criterion, raw float64, stats FieldStats) float64 {
	ceiling := n.ceilingFor(c)
	if ceiling <= 0 {
		return n.higherBetter(raw, stats)
	}
	return math.Min(raw/ceiling, 1)
}

func (n *Normalizer) ceilingFor(c models.Criterion) float64 {
	switch {
	case c == models.CriterionEarnings:
		return n.cfg.EarningsCeiling
	case c == models.CriterionTurfPoints:
		return n.cfg.TurfPointsCeiling
	case c == models.CriterionBordaScore, c.IsBordaSystem():
		return n.cfg.BordaCeiling
	default:
		return 0
	}
}

func (n *Normalizer) scaleBounds(c models.Criterion) (float64, float64) {
	if strings.HasPrefix(string(c), "elo_") {
		return n.cfg.EloFloor, n.cfg.EloCeiling
	}
	return 0, 1
}

func (n *Normalizer) banded(raw float64) float64 {
	switch {
	case raw >= n.cfg.RestDaysOptimalLow && raw <= n.cfg.RestDaysOptimalHigh:
		return 1.0
	case raw >= n.cfg.RestDaysAcceptLow && raw <= n.cfg.RestDaysAcceptHigh:
		return 0.7
	default:
		return 0.4
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
