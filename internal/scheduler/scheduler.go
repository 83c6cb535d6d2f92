package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/service"
)

// Importer loads a day's exports into storage
type Importer interface {
	ImportAll(ctx context.Context, date time.Time) ([]*service.IngestionMetrics, error)
}

// Predictor scores every race of a day
type Predictor interface {
	PredictDay(ctx context.Context, date time.Time) ([]*service.Prediction, error)
}

// Scheduler runs the daily import and scoring job
type Scheduler struct {
	cron            *cron.Cron
	importer        Importer
	predictor       Predictor
	location        *time.Location
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
	now             func() time.Time
}

// NewScheduler creates a new scheduler. A nil location means UTC.
func NewScheduler(importer Importer, predictor Predictor, location *time.Location, logger *logrus.Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(location)),
		importer:        importer,
		predictor:       predictor,
		location:        location,
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      2 * time.Hour,
		gracefulTimeout: 30 * time.Second,
		now:             time.Now,
	}
}

// ScheduleDailyRun schedules the import and scoring of the current day
func (s *Scheduler) ScheduleDailyRun(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		if err := s.RunDay(ctx, s.today()); err != nil {
			s.logger.WithError(err).Error("Scheduled daily run finished with errors")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled daily run")

	return nil
}

// RunDay imports the day from every source, then scores its races.
// Import failures are reported but do not prevent scoring what is stored.
func (s *Scheduler) RunDay(ctx context.Context, date time.Time) error {
	log := s.logger.WithField("date", date.Format("2006-01-02"))
	log.Info("Starting daily run")

	reports, importErr := s.importer.ImportAll(ctx, date)
	for _, report := range reports {
		log.WithField("source", report.Source).Info(report.String())
	}
	if importErr != nil {
		log.WithError(importErr).Warn("Import finished with errors")
	}

	predictions, predictErr := s.predictor.PredictDay(ctx, date)
	withTickets := 0
	for _, p := range predictions {
		if !p.Recommendations.Empty() {
			withTickets++
		}
	}
	log.WithFields(logrus.Fields{
		"races_scored":   len(predictions),
		"races_playable": withTickets,
	}).Info("Daily run complete")

	return errors.Join(importErr, predictErr)
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs up to the graceful timeout, then stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop timed out: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// today returns midnight UTC of the current calendar day in the scheduler location.
// Race dates are stored as UTC midnights.
func (s *Scheduler) today() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
