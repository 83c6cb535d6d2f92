package profile

import (
	"math"

	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/scoring"
)

const (
	minWeightFactor = 0.5
	maxWeightFactor = 1.5
)

// Generator derives a weighting profile from finished races by measuring how
// well each criterion separated the placed runners from the rest.
type Generator struct {
	normalizer *scoring.Normalizer
	defaults   *models.WeightingProfile
	minRaces   int
}

// NewGenerator creates a profile generator. Histories with fewer than minRaces
// usable races yield the default profile.
func NewGenerator(normalizer *scoring.Normalizer, defaults *models.WeightingProfile, minRaces int) *Generator {
	return &Generator{normalizer: normalizer, defaults: defaults, minRaces: minRaces}
}

// Generate builds a profile for the venue, discipline and band from history.
// The returned profile has source "generated", or is the default profile when
// the history is too thin.
func (g *Generator) Generate(venue string, discipline models.Discipline, band models.FieldBand, history []*models.HistoricalRace) *models.WeightingProfile {
	races := usableRaces(history)
	if len(races) < g.minRaces {
		return g.defaults
	}

	samples := make(map[models.Criterion]*correlation)
	for _, race := range races {
		stats := scoring.ComputeFieldStats(race.Runners)
		for _, runner := range race.Runners {
			placed := 0.0
			if runner.Placed() {
				placed = 1
			}
			for _, c := range g.defaults.Criteria() {
				raw, ok := runner.Value(c)
				if !ok || math.IsNaN(raw) || math.IsInf(raw, 0) {
					continue
				}
				acc, ok := samples[c]
				if !ok {
					acc = &correlation{}
					samples[c] = acc
				}
				acc.add(g.normalizer.Normalize(c, raw, stats[c]), placed)
			}
		}
	}

	weights := g.defaults.Weights()
	for _, c := range g.defaults.Criteria() {
		acc, ok := samples[c]
		if !ok {
			continue
		}
		factor := clampFactor(minWeightFactor + math.Abs(acc.pearson()))
		weights[c] = math.Round(weights[c]*factor*100) / 100
	}

	return models.NewWeightingProfile(ProfileKey(venue, discipline, band), weights).
		WithPredicates(venue, discipline, band).
		WithSource(models.ProfileSourceGenerated)
}

// usableRaces keeps races whose result is known
func usableRaces(history []*models.HistoricalRace) []*models.HistoricalRace {
	seen := make(map[string]bool, len(history))
	out := make([]*models.HistoricalRace, 0, len(history))
	for _, h := range history {
		if h == nil || h.Race == nil || len(h.Runners) == 0 {
			continue
		}
		key := h.Race.ID.String()
		if seen[key] {
			continue
		}
		hasResult := false
		for _, r := range h.Runners {
			if r != nil && r.FinishPosition != nil {
				hasResult = true
				break
			}
		}
		if !hasResult {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

func clampFactor(f float64) float64 {
	return math.Max(minWeightFactor, math.Min(maxWeightFactor, f))
}

// correlation accumulates the sums needed for a Pearson coefficient
type correlation struct {
	n, sx, sy, sxx, syy, sxy float64
}

func (c *correlation) add(x, y float64) {
	c.n++
	c.sx += x
	c.sy += y
	c.sxx += x * x
	c.syy += y * y
	c.sxy += x * y
}

// pearson returns the correlation coefficient, zero when either variable is constant
func (c *correlation) pearson() float64 {
	if c.n < 2 {
		return 0
	}
	cov := c.n*c.sxy - c.sx*c.sy
	vx := c.n*c.sxx - c.sx*c.sx
	vy := c.n*c.syy - c.sy*c.sy
	if vx <= 0 || vy <= 0 {
		return 0
	}
	r := cov / math.Sqrt(vx*vy)
	return math.Max(-1, math.Min(1, r))
}
