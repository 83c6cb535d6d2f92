package repository

import (
	"fmt"

	"github.com/yourusername/turf-analytics/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Race    RaceRepository
	Runner  RunnerRepository
	Profile WeightingProfileRepository
	Bet     PlacedBetRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Race:    NewPostgresRaceRepository(db),
		Runner:  NewPostgresRunnerRepository(db),
		Profile: NewPostgresWeightingProfileRepository(db),
		Bet:     NewPostgresPlacedBetRepository(db),
	}, nil
}
