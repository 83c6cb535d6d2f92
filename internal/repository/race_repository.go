package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/turf-analytics/internal/database"
	"github.com/yourusername/turf-analytics/internal/models"
)

const (
	errScanRace    = "failed to scan race: %w"
	raceSelectCols = `id, race_date, code, venue, discipline, scheduled_start, field_size, status, created_at, updated_at`
)

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) RaceRepository {
	return &PostgresRaceRepository{db: db}
}

// Upsert inserts a race or refreshes the stored row sharing its date, venue and code.
// On conflict the stored id is written back to race.ID.
func (r *PostgresRaceRepository) Upsert(ctx context.Context, race *models.Race) error {
	if race.ID == uuid.Nil {
		race.ID = uuid.New()
	}

	query := `
		INSERT INTO races (id, race_date, code, venue, discipline, scheduled_start, field_size, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (race_date, venue, code) DO UPDATE SET
			discipline = EXCLUDED.discipline,
			scheduled_start = EXCLUDED.scheduled_start,
			field_size = EXCLUDED.field_size,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		race.ID, race.Date, race.Code, strings.ToUpper(race.Venue), string(race.Discipline),
		race.ScheduledStart, race.FieldSize, string(race.Status),
	).Scan(&race.ID, &race.CreatedAt, &race.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert race: %w", err)
	}

	return nil
}

// GetByID retrieves a race by ID
func (r *PostgresRaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Race, error) {
	query := `SELECT ` + raceSelectCols + ` FROM races WHERE id = $1`

	race, err := scanRace(r.db.Conn(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}

	return race, nil
}

// GetByDate retrieves the races of a meeting day ordered by start time and code
func (r *PostgresRaceRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Race, error) {
	query := `
		SELECT ` + raceSelectCols + `
		FROM races
		WHERE race_date = $1
		ORDER BY scheduled_start ASC, venue ASC, code ASC
	`

	return r.queryRaces(ctx, query, date)
}

// GetByReference retrieves a race by its natural key
func (r *PostgresRaceRepository) GetByReference(ctx context.Context, date time.Time, venue, code string) (*models.Race, error) {
	query := `SELECT ` + raceSelectCols + ` FROM races WHERE race_date = $1 AND venue = $2 AND code = $3`

	race, err := scanRace(r.db.Conn(ctx).QueryRow(ctx, query, date, strings.ToUpper(venue), code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race by reference: %w", err)
	}

	return race, nil
}

// GetFinishedBetween retrieves finished races with a date in [start, end]
func (r *PostgresRaceRepository) GetFinishedBetween(ctx context.Context, start, end time.Time) ([]*models.Race, error) {
	query := `
		SELECT ` + raceSelectCols + `
		FROM races
		WHERE status = 'finished' AND race_date BETWEEN $1 AND $2
		ORDER BY race_date ASC, scheduled_start ASC
	`

	return r.queryRaces(ctx, query, start, end)
}

// UpdateStatus updates the status of a race
func (r *PostgresRaceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RaceStatus) error {
	query := `UPDATE races SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Conn(ctx).Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update race status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *PostgresRaceRepository) queryRaces(ctx context.Context, query string, args ...any) ([]*models.Race, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query races: %w", err)
	}
	defer rows.Close()

	var races []*models.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanRace, err)
		}
		races = append(races, race)
	}

	return races, rows.Err()
}

func scanRace(row pgx.Row) (*models.Race, error) {
	race := &models.Race{}
	var discipline, status string
	err := row.Scan(
		&race.ID, &race.Date, &race.Code, &race.Venue, &discipline, &race.ScheduledStart,
		&race.FieldSize, &status, &race.CreatedAt, &race.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	race.Discipline = models.Discipline(discipline)
	race.Status = models.RaceStatus(status)
	return race, nil
}
