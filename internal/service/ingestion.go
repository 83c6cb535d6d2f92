package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/datasource"
	"github.com/yourusername/turf-analytics/internal/repository"
	"github.com/yourusername/turf-analytics/internal/scoring"
)

// Transactor runs fn in a transaction bound to the context it receives
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// IngestionService imports daily exports into the race and runner tables
type IngestionService struct {
	sources    []datasource.Source
	raceRepo   repository.RaceRepository
	runnerRepo repository.RunnerRepository
	tx         Transactor
	validator  *DataValidator
	normalizer *DataNormalizer
	cache      *scoring.FieldCache
	logger     *logrus.Entry
}

// NewIngestionService creates a new ingestion service. cache may be nil.
func NewIngestionService(
	sources []datasource.Source,
	raceRepo repository.RaceRepository,
	runnerRepo repository.RunnerRepository,
	tx Transactor,
	validator *DataValidator,
	normalizer *DataNormalizer,
	cache *scoring.FieldCache,
	logger *logrus.Logger,
) *IngestionService {
	return &IngestionService{
		sources:    sources,
		raceRepo:   raceRepo,
		runnerRepo: runnerRepo,
		tx:         tx,
		validator:  validator,
		normalizer: normalizer,
		cache:      cache,
		logger:     logger.WithField("component", "ingestion"),
	}
}

// SourceNames lists the configured sources in configuration order
func (s *IngestionService) SourceNames() []string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return names
}

// ImportDay fetches one day's export from the named source and stores every valid race.
// Invalid races are counted and skipped; a race that fails to store does not stop the run.
func (s *IngestionService) ImportDay(ctx context.Context, sourceName string, date time.Time) (*IngestionMetrics, error) {
	report := NewIngestionMetrics(sourceName, date)
	defer report.Finish()

	source := s.findSource(sourceName)
	if source == nil {
		report.RecordError()
		return report, fmt.Errorf("data source not found: %s", sourceName)
	}
	if !source.IsEnabled() {
		report.RecordError()
		return report, fmt.Errorf("data source disabled: %s", sourceName)
	}

	log := s.logger.WithFields(logrus.Fields{
		"source": sourceName,
		"date":   date.Format("2006-01-02"),
	})
	log.Info("Starting daily import")

	export, err := source.Fetch(ctx, date)
	if err != nil {
		report.RecordError()
		log.WithError(err).Error("Failed to fetch export")
		return report, fmt.Errorf("failed to fetch export: %w", err)
	}

	report.TotalRaces = len(export.Races)
	report.RecordRejectedRows(export.Rejected)

	for _, rd := range export.Races {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.processRace(ctx, rd, report); err != nil {
			report.RecordError()
			log.WithError(err).WithField("race_code", rd.Code).Warn("Failed to import race")
		}
	}

	log.WithFields(logrus.Fields{
		"races":             report.SuccessfulRaces,
		"runners":           report.TotalRunners,
		"rejected_rows":     report.RejectedRows,
		"validation_errors": report.ValidationErrors,
		"errors":            report.Errors,
	}).Info("Daily import complete")

	return report, nil
}

// ImportAll imports the day from every enabled source
func (s *IngestionService) ImportAll(ctx context.Context, date time.Time) ([]*IngestionMetrics, error) {
	var reports []*IngestionMetrics
	var errs []error
	for _, src := range s.sources {
		if !src.IsEnabled() {
			continue
		}
		report, err := s.ImportDay(ctx, src.Name(), date)
		reports = append(reports, report)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

// processRace normalizes, validates and stores one race with its field
func (s *IngestionService) processRace(ctx context.Context, rd datasource.RaceData, report *IngestionMetrics) error {
	race, runners := s.normalizer.NormalizeRace(rd)

	problems := append(s.validator.ValidateRace(race), s.validator.ValidateField(race, runners)...)
	if len(problems) > 0 {
		report.RecordValidationError()
		s.logger.WithFields(logrus.Fields{
			"race_ref": race.Reference(),
			"problems": strings.Join(problems, "; "),
		}).Warn("Race failed validation")
		return nil
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.raceRepo.Upsert(txCtx, race); err != nil {
			return err
		}
		for _, runner := range runners {
			runner.RaceID = race.ID
		}
		return s.runnerRepo.ReplaceField(txCtx, race.ID, runners)
	})
	if err != nil {
		return fmt.Errorf("failed to store race %s: %w", race.Reference(), err)
	}

	if s.cache != nil {
		s.cache.InvalidateRace(race.ID)
	}
	report.RecordRace(len(runners), race.IsFinished())
	return nil
}

func (s *IngestionService) findSource(name string) datasource.Source {
	for _, src := range s.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}
