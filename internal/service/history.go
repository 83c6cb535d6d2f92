package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/repository"
)

// HistoryLoader gathers finished races with their results for profile generation
type HistoryLoader struct {
	races   repository.RaceRepository
	runners repository.RunnerRepository
	days    int
}

// NewHistoryLoader creates a loader looking back the given number of days
func NewHistoryLoader(races repository.RaceRepository, runners repository.RunnerRepository, days int) *HistoryLoader {
	if days <= 0 {
		days = 365
	}
	return &HistoryLoader{races: races, runners: runners, days: days}
}

// Load returns the finished races strictly before the given day that match the
// venue, discipline and field band. Empty filters match everything.
func (h *HistoryLoader) Load(ctx context.Context, venue string, discipline models.Discipline, band models.FieldBand, before time.Time) ([]*models.HistoricalRace, error) {
	day := time.Date(before.Year(), before.Month(), before.Day(), 0, 0, 0, 0, time.UTC)
	start := day.AddDate(0, 0, -h.days)
	end := day.AddDate(0, 0, -1)

	races, err := h.races.GetFinishedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load finished races: %w", err)
	}

	matching := make([]*models.Race, 0, len(races))
	ids := make([]uuid.UUID, 0, len(races))
	for _, race := range races {
		if venue != "" && !strings.EqualFold(race.Venue, venue) {
			continue
		}
		if discipline != "" && race.Discipline != discipline {
			continue
		}
		if band != "" && models.BandFor(race.FieldSize) != band {
			continue
		}
		matching = append(matching, race)
		ids = append(ids, race.ID)
	}
	if len(matching) == 0 {
		return nil, nil
	}

	fields, err := h.runners.GetByRaceIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load historical runners: %w", err)
	}

	history := make([]*models.HistoricalRace, 0, len(matching))
	for _, race := range matching {
		runners := fields[race.ID]
		if len(runners) == 0 {
			continue
		}
		history = append(history, &models.HistoricalRace{Race: race, Runners: runners})
	}
	return history, nil
}
