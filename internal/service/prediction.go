package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/logger"
	"github.com/yourusername/turf-analytics/internal/metrics"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/profile"
	"github.com/yourusername/turf-analytics/internal/recommendation"
	"github.com/yourusername/turf-analytics/internal/repository"
	"github.com/yourusername/turf-analytics/internal/scoring"
)

// Prediction is a scored race together with its bet recommendations
type Prediction struct {
	Race            *models.Race
	Profile         *models.WeightingProfile
	Field           *models.ScoredField
	Recommendations *models.RecommendationSet
	Cached          bool
}

// PredictionService scores stored races and builds their recommendations
type PredictionService struct {
	races    repository.RaceRepository
	runners  repository.RunnerRepository
	resolver *profile.Resolver
	history  *HistoryLoader
	engine   *scoring.Engine
	builder  *recommendation.Builder
	cache    *scoring.FieldCache
	logger   *logger.ScoringLogger
	now      func() time.Time
}

// NewPredictionService creates a prediction service. history and cache may be nil.
func NewPredictionService(
	races repository.RaceRepository,
	runners repository.RunnerRepository,
	resolver *profile.Resolver,
	history *HistoryLoader,
	engine *scoring.Engine,
	builder *recommendation.Builder,
	cache *scoring.FieldCache,
	log *logger.ScoringLogger,
) *PredictionService {
	return &PredictionService{
		races:    races,
		runners:  runners,
		resolver: resolver,
		history:  history,
		engine:   engine,
		builder:  builder,
		cache:    cache,
		logger:   log,
		now:      time.Now,
	}
}

// PredictRace scores one race. An empty profileName lets the resolver choose.
func (s *PredictionService) PredictRace(ctx context.Context, raceID uuid.UUID, profileName string) (*Prediction, error) {
	race, err := s.races.GetByID(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load race %s: %w", raceID, err)
	}
	return s.predict(ctx, race, profileName)
}

// PredictDay scores every non-cancelled race of the day in scheduled order.
// Races that fail are reported in the joined error; the others are still returned.
func (s *PredictionService) PredictDay(ctx context.Context, date time.Time) ([]*Prediction, error) {
	races, err := s.races.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load races for %s: %w", date.Format("2006-01-02"), err)
	}

	predictions := make([]*Prediction, 0, len(races))
	var errs []error
	for _, race := range races {
		if err := ctx.Err(); err != nil {
			return predictions, err
		}
		if race.Status == models.RaceStatusCancelled {
			continue
		}

		p, err := s.predict(ctx, race, "")
		if err != nil {
			s.logger.WithError(err).WithField("race_ref", race.Reference()).Warn("Failed to score race")
			errs = append(errs, fmt.Errorf("%s: %w", race.Reference(), err))
			continue
		}
		predictions = append(predictions, p)
	}

	if s.cache != nil {
		hits, misses, ratio := s.cache.Stats()
		s.logger.LogCacheStats(int64(hits), int64(misses), ratio, s.cache.ItemCount())
	}

	return predictions, errors.Join(errs...)
}

// RankByConfidence orders predictions across races by field confidence, highest first
func RankByConfidence(predictions []*Prediction) []*Prediction {
	out := make([]*Prediction, len(predictions))
	copy(out, predictions)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field.Confidence != out[j].Field.Confidence {
			return out[i].Field.Confidence > out[j].Field.Confidence
		}
		return out[i].Field.RaceRef < out[j].Field.RaceRef
	})
	return out
}

func (s *PredictionService) predict(ctx context.Context, race *models.Race, profileName string) (*Prediction, error) {
	runners, err := s.runners.GetByRaceID(ctx, race.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load runners: %w", err)
	}

	prof, err := s.profileFor(ctx, race, profileName)
	if err != nil {
		return nil, err
	}

	field, cached, err := s.score(race, runners, prof)
	if err != nil {
		return nil, err
	}

	recs, err := s.builder.BuildField(field)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendations: %w", err)
	}
	s.recordRecommendations(field.RaceRef, recs)

	return &Prediction{
		Race:            race,
		Profile:         prof,
		Field:           field,
		Recommendations: recs,
		Cached:          cached,
	}, nil
}

func (s *PredictionService) profileFor(ctx context.Context, race *models.Race, profileName string) (*models.WeightingProfile, error) {
	band := models.BandFor(race.FieldSize)

	var prof *models.WeightingProfile
	if profileName != "" {
		named, err := s.resolver.ByName(ctx, profileName)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %q: %w", profileName, err)
		}
		prof = named
	} else {
		prof = s.resolver.Resolve(ctx, race.Venue, race.Discipline, race.FieldSize)
		if prof.IsDefault() && s.resolver.AutoGenerates() && s.history != nil {
			history, err := s.history.Load(ctx, race.Venue, race.Discipline, band, race.Date)
			if err != nil {
				s.logger.WithError(err).WithField("race_ref", race.Reference()).Warn("Failed to load history, keeping default profile")
			} else {
				prof = s.resolver.ResolveOrGenerate(ctx, race, history)
			}
		}
	}

	s.logger.LogProfileResolved(race.Reference(), race.Venue, string(race.Discipline), string(band), prof.Name, prof.Version, string(prof.Source))
	return prof, nil
}

func (s *PredictionService) score(race *models.Race, runners []*models.RunnerAttributes, prof *models.WeightingProfile) (*models.ScoredField, bool, error) {
	key := scoring.CacheKey{RaceID: race.ID, ProfileName: prof.Name, ProfileVersion: prof.Version}
	if s.cache != nil {
		if field, ok := s.cache.Get(key); ok {
			return field, true, nil
		}
	}

	start := time.Now()
	field, err := s.engine.Score(race, runners, prof)
	if err != nil {
		return nil, false, fmt.Errorf("failed to score race: %w", err)
	}
	field.ScoredAt = s.now()
	elapsed := time.Since(start)

	var topScore float64
	if len(field.Runners) > 0 {
		topScore = field.Runners[0].Score
	}
	metrics.RecordRaceScored(string(prof.Source), len(field.Runners), field.Confidence, elapsed.Seconds())
	s.logger.LogRaceScored(field.RaceRef, prof.Name, len(field.Runners), field.Confidence, topScore, float64(elapsed.Microseconds())/1000)

	if s.cache != nil {
		s.cache.Set(key, field)
	}
	return field, false, nil
}

func (s *PredictionService) recordRecommendations(raceRef string, recs *models.RecommendationSet) {
	if errors.Is(recs.Err(), models.ErrInsufficientConfidence) {
		metrics.RecordInsufficientConfidence()
	}
	for _, rec := range recs.Recommendations {
		metrics.RecordRecommendation(string(rec.Type), strconv.Itoa(rec.Tier), rec.TotalCost.InexactFloat64())
	}
	s.logger.LogRecommendations(raceRef, recs.Confidence, recs.Bases, recs.Complements, len(recs.Recommendations), recs.Reason)

	if s.logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
		s.logger.WithFields(logrus.Fields{
			"race_ref":   raceRef,
			"total_cost": recs.TotalCost().StringFixed(2),
		}).Debug("Recommendation cost")
	}
}
