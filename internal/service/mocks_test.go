package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/turf-analytics/internal/datasource"
	"github.com/yourusername/turf-analytics/internal/logger"
	"github.com/yourusername/turf-analytics/internal/models"
)

// MockRaceRepository mocks race repository
type MockRaceRepository struct {
	mock.Mock
}

func (m *MockRaceRepository) Upsert(ctx context.Context, race *models.Race) error {
	args := m.Called(ctx, race)
	return args.Error(0)
}

func (m *MockRaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Race, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetByReference(ctx context.Context, date time.Time, venue, code string) (*models.Race, error) {
	args := m.Called(ctx, date, venue, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetFinishedBetween(ctx context.Context, start, end time.Time) ([]*models.Race, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Race), args.Error(1)
}

func (m *MockRaceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RaceStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockRunnerRepository mocks runner repository
type MockRunnerRepository struct {
	mock.Mock
}

func (m *MockRunnerRepository) ReplaceField(ctx context.Context, raceID uuid.UUID, runners []*models.RunnerAttributes) error {
	args := m.Called(ctx, raceID, runners)
	return args.Error(0)
}

func (m *MockRunnerRepository) GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.RunnerAttributes, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RunnerAttributes), args.Error(1)
}

func (m *MockRunnerRepository) GetByRaceIDs(ctx context.Context, raceIDs []uuid.UUID) (map[uuid.UUID][]*models.RunnerAttributes, error) {
	args := m.Called(ctx, raceIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]*models.RunnerAttributes), args.Error(1)
}

func (m *MockRunnerRepository) SetFinishPositions(ctx context.Context, raceID uuid.UUID, positions map[int]int) error {
	args := m.Called(ctx, raceID, positions)
	return args.Error(0)
}

// inlineTx runs the function without a database transaction
type inlineTx struct{}

func (inlineTx) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// stubSource serves a fixed export
type stubSource struct {
	name    string
	enabled bool
	export  *datasource.Export
	err     error
}

func (s *stubSource) Name() string    { return s.name }
func (s *stubSource) IsEnabled() bool { return s.enabled }

func (s *stubSource) Fetch(_ context.Context, _ time.Time) (*datasource.Export, error) {
	return s.export, s.err
}

func quietLogger() *logrus.Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return base
}

func quietScoringLogger() *logger.ScoringLogger {
	return logger.NewScoringLogger(quietLogger())
}

var raceDay = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func testRace(venue, code string, fieldSize int) *models.Race {
	return &models.Race{
		ID:             uuid.New(),
		Date:           raceDay,
		Code:           code,
		Venue:          venue,
		Discipline:     models.DisciplineTrotAttele,
		ScheduledStart: raceDay.Add(14 * time.Hour),
		FieldSize:      fieldSize,
		Status:         models.RaceStatusScheduled,
	}
}

// testField builds a field where lower program numbers are stronger on every criterion
func testField(raceID uuid.UUID, n int, finished bool) []*models.RunnerAttributes {
	runners := make([]*models.RunnerAttributes, 0, n)
	for i := 1; i <= n; i++ {
		r := &models.RunnerAttributes{
			RaceID:        raceID,
			ProgramNumber: i,
			Name:          fmt.Sprintf("HORSE %d", i),
			Values: map[models.Criterion]float64{
				models.CriterionAIWin:    float64(40 - 3*i),
				models.CriterionEloHorse: float64(1700 - 20*i),
				models.CriterionOddsPMU:  float64(2 + i),
			},
		}
		if finished {
			pos := i
			r.FinishPosition = &pos
		}
		runners = append(runners, r)
	}
	return runners
}
