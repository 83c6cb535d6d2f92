package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/turf-analytics/internal/models"
)

// RaceRepository defines the interface for race data access
type RaceRepository interface {
	Upsert(ctx context.Context, race *models.Race) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Race, error)
	GetByReference(ctx context.Context, date time.Time, venue, code string) (*models.Race, error)
	GetFinishedBetween(ctx context.Context, start, end time.Time) ([]*models.Race, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.RaceStatus) error
}

// RunnerRepository defines the interface for runner data access
type RunnerRepository interface {
	ReplaceField(ctx context.Context, raceID uuid.UUID, runners []*models.RunnerAttributes) error
	GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.RunnerAttributes, error)
	GetByRaceIDs(ctx context.Context, raceIDs []uuid.UUID) (map[uuid.UUID][]*models.RunnerAttributes, error)
	SetFinishPositions(ctx context.Context, raceID uuid.UUID, positions map[int]int) error
}

// WeightingProfileRepository defines the interface for versioned weighting profiles.
// Save never overwrites: it appends the next version of the named profile.
type WeightingProfileRepository interface {
	Save(ctx context.Context, profile *models.WeightingProfile) (*models.WeightingProfile, error)
	GetLatest(ctx context.Context, name string) (*models.WeightingProfile, error)
	GetVersion(ctx context.Context, name string, version int) (*models.WeightingProfile, error)
	ListLatest(ctx context.Context) ([]*models.WeightingProfile, error)
}

// PlacedBetRepository defines the interface for the bet ledger storage
type PlacedBetRepository interface {
	Create(ctx context.Context, bet *models.PlacedBet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PlacedBet, error)
	List(ctx context.Context, filter BetFilter) ([]*models.PlacedBet, error)
	// Settle updates a pending bet. It returns models.ErrAlreadySettled when the
	// bet exists but is no longer pending.
	Settle(ctx context.Context, id uuid.UUID, outcome models.Outcome, payout decimal.Decimal, settledAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BetFilter narrows a ledger listing
type BetFilter struct {
	RaceID *uuid.UUID
	Status *models.BetStatus
	Since  *time.Time
	Limit  int
}
