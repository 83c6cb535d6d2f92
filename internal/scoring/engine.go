package scoring

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/turf-analytics/internal/models"
)

// Engine scores and ranks a complete race field. It keeps no state between
// calls and is safe for concurrent use.
type Engine struct {
	normalizer *Normalizer
	aggregator *Aggregator
	config     Config
}

// NewEngine creates a scoring engine
func NewEngine(cfg Config) *Engine {
	normalizer := NewNormalizer(cfg)
	return &Engine{
		normalizer: normalizer,
		aggregator: NewAggregator(normalizer, cfg.Confidence),
		config:     cfg,
	}
}

// Normalizer exposes the engine's normalizer
func (e *Engine) Normalizer() *Normalizer {
	return e.normalizer
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// Score normalizes, aggregates and ranks every runner of a race with the given profile
func (e *Engine) Score(race *models.Race, runners []*models.RunnerAttributes, profile *models.WeightingProfile) (*models.ScoredField, error) {
	raceID := uuid.Nil
	raceRef := ""
	if race != nil {
		raceID = race.ID
		raceRef = race.Reference()
	}

	if profile == nil {
		return nil, &models.MalformedInputError{RaceID: raceID, Reason: "no weighting profile"}
	}
	if err := validateField(raceID, runners); err != nil {
		return nil, err
	}

	stats := ComputeFieldStats(runners)
	scored := make([]models.ScoredRunner, 0, len(runners))
	for _, r := range runners {
		scored = append(scored, e.aggregator.Aggregate(r, profile, stats))
	}
	ranked := Rank(scored)

	// summed in rank order so the mean does not depend on input order
	var confidenceSum float64
	for _, sr := range ranked {
		confidenceSum += sr.Confidence
	}

	return &models.ScoredField{
		RaceID:         raceID,
		RaceRef:        raceRef,
		ProfileName:    profile.Name,
		ProfileVersion: profile.Version,
		Runners:        ranked,
		Confidence:     confidenceSum / float64(len(ranked)),
	}, nil
}

func validateField(raceID uuid.UUID, runners []*models.RunnerAttributes) error {
	if len(runners) == 0 {
		return &models.MalformedInputError{RaceID: raceID, Reason: "empty field"}
	}
	seen := make(map[int]bool, len(runners))
	for _, r := range runners {
		if r == nil {
			return &models.MalformedInputError{RaceID: raceID, Reason: "nil runner"}
		}
		if r.ProgramNumber <= 0 {
			return &models.MalformedInputError{RaceID: raceID, Reason: fmt.Sprintf("non-positive program number %d", r.ProgramNumber)}
		}
		if seen[r.ProgramNumber] {
			return &models.MalformedInputError{RaceID: raceID, Reason: fmt.Sprintf("duplicate program number %d", r.ProgramNumber)}
		}
		seen[r.ProgramNumber] = true
	}
	return nil
}
