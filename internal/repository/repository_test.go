package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/turf-analytics/internal/database"
	"github.com/yourusername/turf-analytics/internal/models"
)

func TestCriteriaEncoding(t *testing.T) {
	values := map[models.Criterion]float64{
		models.CriterionOddsPMU:    4.5,
		models.CriterionEloHorse:   1510,
		models.CriterionTurfPoints: 0,
	}

	data, err := encodeCriteria(values)
	require.NoError(t, err)

	decoded, err := decodeCriteria(data)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)

	empty, err := decodeCriteria(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestRaceRepositoryUpsert(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	race := &models.Race{
		Date:           date,
		Code:           "R1C4",
		Venue:          "Vincennes",
		Discipline:     models.DisciplineTrotAttele,
		ScheduledStart: date.Add(15 * time.Hour),
		FieldSize:      12,
		Status:         models.RaceStatusScheduled,
	}
	require.NoError(t, repos.Race.Upsert(ctx, race))

	again := *race
	again.ID = uuid.Nil
	again.FieldSize = 11
	require.NoError(t, repos.Race.Upsert(ctx, &again))
	assert.Equal(t, race.ID, again.ID)

	retrieved, err := repos.Race.GetByReference(ctx, date, "vincennes", "R1C4")
	require.NoError(t, err)
	assert.Equal(t, 11, retrieved.FieldSize)

	_, err = repos.Race.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRunnerRepositoryReplaceField(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	race := &models.Race{Date: time.Now().UTC().Truncate(24 * time.Hour), Code: "R2C1", Venue: "ENGHIEN", Status: models.RaceStatusScheduled}
	require.NoError(t, repos.Race.Upsert(ctx, race))

	runners := []*models.RunnerAttributes{
		{RaceID: race.ID, ProgramNumber: 1, Name: "ALPHA", Values: map[models.Criterion]float64{models.CriterionOddsPMU: 3.2}},
		{RaceID: race.ID, ProgramNumber: 2, Name: "BRAVO", Values: map[models.Criterion]float64{models.CriterionOddsPMU: 8}},
	}
	require.NoError(t, repos.Runner.ReplaceField(ctx, race.ID, runners))
	require.NoError(t, repos.Runner.ReplaceField(ctx, race.ID, runners[:1]))

	stored, err := repos.Runner.GetByRaceID(ctx, race.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 3.2, stored[0].Values[models.CriterionOddsPMU])

	require.NoError(t, repos.Runner.SetFinishPositions(ctx, race.ID, map[int]int{1: 2}))
	stored, err = repos.Runner.GetByRaceID(ctx, race.ID)
	require.NoError(t, err)
	assert.True(t, stored[0].Placed())
}

func TestWeightingProfileRepositoryVersions(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile := models.NewWeightingProfile("vincennes", map[models.Criterion]float64{models.CriterionAIWin: 30}).
		WithPredicates("VINCENNES", models.DisciplineTrotAttele, "")

	first, err := repos.Profile.Save(ctx, profile)
	require.NoError(t, err)
	second, err := repos.Profile.Save(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)

	latest, err := repos.Profile.GetLatest(ctx, "vincennes")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, 30.0, latest.Weight(models.CriterionAIWin))

	_, err = repos.Profile.GetVersion(ctx, "vincennes", 9)
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestPlacedBetRepositorySettle(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bet := &models.PlacedBet{
		ID:        uuid.New(),
		RaceID:    uuid.New(),
		BetType:   models.BetTypePairWin,
		Selection: []int{4, 7},
		Stake:     decimal.NewFromInt(7),
		PlacedAt:  time.Now().UTC(),
		Status:    models.BetStatusPending,
	}
	require.NoError(t, repos.Bet.Create(ctx, bet))

	require.NoError(t, repos.Bet.Settle(ctx, bet.ID, models.OutcomeWon, decimal.NewFromFloat(21.5), time.Now().UTC()))

	err = repos.Bet.Settle(ctx, bet.ID, models.OutcomeLost, decimal.Zero, time.Now().UTC())
	var settled *models.AlreadySettledError
	assert.True(t, errors.As(err, &settled))

	stored, err := repos.Bet.GetByID(ctx, bet.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsHit())
	assert.Equal(t, []int{4, 7}, stored.Selection)

	assert.ErrorIs(t, repos.Bet.Settle(ctx, uuid.New(), models.OutcomeWon, decimal.Zero, time.Now()), models.ErrNotFound)
}
