package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/turf-analytics/internal/logger"
	"github.com/yourusername/turf-analytics/internal/metrics"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/profile"
	"github.com/yourusername/turf-analytics/internal/repository"
)

// ProfileService manages the versioned weighting profile catalogue
type ProfileService struct {
	store     repository.WeightingProfileRepository
	generator *profile.Generator
	history   *HistoryLoader
	audit     *logger.AuditLogger
	logger    *logger.ScoringLogger
	now       func() time.Time
}

// NewProfileService creates a profile service
func NewProfileService(
	store repository.WeightingProfileRepository,
	generator *profile.Generator,
	history *HistoryLoader,
	audit *logger.AuditLogger,
	log *logger.ScoringLogger,
) *ProfileService {
	return &ProfileService{
		store:     store,
		generator: generator,
		history:   history,
		audit:     audit,
		logger:    log,
		now:       time.Now,
	}
}

// List returns the latest version of every profile
func (s *ProfileService) List(ctx context.Context) ([]*models.WeightingProfile, error) {
	profiles, err := s.store.ListLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Get returns a profile version, or the latest one when version is zero
func (s *ProfileService) Get(ctx context.Context, name string, version int) (*models.WeightingProfile, error) {
	if version > 0 {
		return s.store.GetVersion(ctx, name, version)
	}
	return s.store.GetLatest(ctx, name)
}

// Save stores the profile as the next version of its name
func (s *ProfileService) Save(ctx context.Context, p *models.WeightingProfile) (*models.WeightingProfile, error) {
	if p == nil || p.Name == "" {
		return nil, &models.MalformedInputError{Reason: "profile needs a name"}
	}
	if len(p.Weights()) == 0 {
		return nil, &models.MalformedInputError{Reason: fmt.Sprintf("profile %q has no weights", p.Name)}
	}

	saved, err := s.store.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile %q: %w", p.Name, err)
	}
	s.audit.LogProfileSaved(saved.Name, saved.Version, string(saved.Source), weightsByName(saved))
	return saved, nil
}

// Generate fits a profile for the venue, discipline and band on the history
// preceding today. The returned flag is false when history was too thin and
// the default weights came back; such a result is never saved.
func (s *ProfileService) Generate(ctx context.Context, venue string, discipline models.Discipline, band models.FieldBand, save bool) (*models.WeightingProfile, bool, error) {
	history, err := s.history.Load(ctx, venue, discipline, band, s.now())
	if err != nil {
		return nil, false, err
	}

	generated := s.generator.Generate(venue, discipline, band, history)
	fitted := generated.Source == models.ProfileSourceGenerated
	s.logger.LogProfileGenerated(generated.Name, len(history), weightsByName(generated), !fitted)
	metrics.RecordProfileGenerated(!fitted)

	if !fitted || !save {
		return generated, fitted, nil
	}

	saved, err := s.Save(ctx, generated)
	if err != nil {
		return nil, true, err
	}
	return saved, true, nil
}

func weightsByName(p *models.WeightingProfile) map[string]float64 {
	out := make(map[string]float64, len(p.Weights()))
	for c, w := range p.Weights() {
		out[string(c)] = w
	}
	return out
}
