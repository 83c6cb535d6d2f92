package profile

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/logger"
	"github.com/yourusername/turf-analytics/internal/metrics"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/repository"
)

// Resolver picks the weighting profile that applies to a race. Resolution never
// fails: when nothing more specific matches, or the store is unavailable, the
// default profile is returned.
type Resolver struct {
	store        repository.WeightingProfileRepository
	fallback     *models.WeightingProfile
	generator    *Generator
	autoGenerate bool
	logger       *logger.ScoringLogger

	mu sync.Mutex
}

// NewResolver creates a resolver. fallback is the configured default profile,
// saved to the store the first time it is missing. generator may be nil.
func NewResolver(
	store repository.WeightingProfileRepository,
	fallback *models.WeightingProfile,
	generator *Generator,
	autoGenerate bool,
	log *logger.ScoringLogger,
) *Resolver {
	return &Resolver{
		store:        store,
		fallback:     fallback,
		generator:    generator,
		autoGenerate: autoGenerate && generator != nil,
		logger:       log,
	}
}

// Resolve returns the most specific profile matching the race attributes
func (r *Resolver) Resolve(ctx context.Context, venue string, discipline models.Discipline, fieldSize int) *models.WeightingProfile {
	band := models.BandFor(fieldSize)

	profiles, err := r.store.ListLatest(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("Failed to list weighting profiles, using default")
		return r.Default(ctx)
	}

	if best := selectProfile(profiles, venue, discipline, band); best != nil {
		return best
	}
	return r.Default(ctx)
}

// ResolveOrGenerate resolves a profile for the race and, when only the default
// applies and auto-generation is enabled, derives and saves a profile from history.
func (r *Resolver) ResolveOrGenerate(ctx context.Context, race *models.Race, history []*models.HistoricalRace) *models.WeightingProfile {
	resolved := r.Resolve(ctx, race.Venue, race.Discipline, race.FieldSize)
	if !resolved.IsDefault() || !r.autoGenerate {
		return resolved
	}

	band := models.BandFor(race.FieldSize)
	generated := r.generator.Generate(race.Venue, race.Discipline, band, history)
	fallback := generated.Source != models.ProfileSourceGenerated
	r.logger.LogProfileGenerated(ProfileKey(race.Venue, race.Discipline, band), len(history), weightsByName(generated), fallback)
	metrics.RecordProfileGenerated(fallback)
	if fallback {
		return resolved
	}

	saved, err := r.store.Save(ctx, generated)
	if err != nil {
		r.logger.WithError(err).WithField("profile_name", generated.Name).Warn("Failed to save generated profile")
		return generated
	}
	return saved
}

// AutoGenerates reports whether ResolveOrGenerate may derive profiles from history
func (r *Resolver) AutoGenerates() bool {
	return r.autoGenerate
}

// Default returns the stored default profile, saving the configured one when absent
func (r *Resolver) Default(ctx context.Context) *models.WeightingProfile {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.store.GetLatest(ctx, models.DefaultProfileName)
	if err == nil {
		return stored
	}
	if !errors.Is(err, models.ErrProfileNotFound) {
		r.logger.WithError(err).Warn("Failed to load default profile, using configured weights")
		return r.fallback
	}

	saved, err := r.store.Save(ctx, r.fallback)
	if err != nil {
		r.logger.WithError(err).Warn("Failed to save default profile")
		return r.fallback
	}
	r.logger.WithFields(logrus.Fields{
		"profile_name":    saved.Name,
		"profile_version": saved.Version,
	}).Info("Default weighting profile created")
	return saved
}

// ByName returns the latest version of a named profile
func (r *Resolver) ByName(ctx context.Context, name string) (*models.WeightingProfile, error) {
	if name == models.DefaultProfileName {
		return r.Default(ctx), nil
	}
	return r.store.GetLatest(ctx, name)
}

// selectProfile picks the matching profile with the highest specificity.
// Ties go to the newest version, then to the smallest name. Profiles without
// predicates never match implicitly; they are only used when named.
func selectProfile(profiles []*models.WeightingProfile, venue string, discipline models.Discipline, band models.FieldBand) *models.WeightingProfile {
	candidates := make([]*models.WeightingProfile, 0, len(profiles))
	for _, p := range profiles {
		if p == nil || p.IsDefault() || p.Specificity() == 0 {
			continue
		}
		if p.Matches(venue, discipline, band) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Specificity() != b.Specificity() {
			return a.Specificity() > b.Specificity()
		}
		if a.Version != b.Version {
			return a.Version > b.Version
		}
		return a.Name < b.Name
	})
	return candidates[0]
}

func weightsByName(p *models.WeightingProfile) map[string]float64 {
	out := make(map[string]float64)
	for c, w := range p.Weights() {
		out[string(c)] = w
	}
	return out
}
