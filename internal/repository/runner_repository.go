package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/turf-analytics/internal/database"
	"github.com/yourusername/turf-analytics/internal/models"
)

const runnerSelectCols = `race_id, program_number, name, driver, criteria, finish_position`

// PostgresRunnerRepository implements RunnerRepository for PostgreSQL
type PostgresRunnerRepository struct {
	db *database.DB
}

// NewPostgresRunnerRepository creates a new runner repository
func NewPostgresRunnerRepository(db *database.DB) RunnerRepository {
	return &PostgresRunnerRepository{db: db}
}

// ReplaceField swaps the stored field of a race for the given runners in one transaction
func (r *PostgresRunnerRepository) ReplaceField(ctx context.Context, raceID uuid.UUID, runners []*models.RunnerAttributes) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		conn := r.db.Conn(txCtx)
		if _, err := conn.Exec(txCtx, `DELETE FROM runners WHERE race_id = $1`, raceID); err != nil {
			return fmt.Errorf("failed to clear field: %w", err)
		}

		query := `
			INSERT INTO runners (race_id, program_number, name, driver, criteria, finish_position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, runner := range runners {
			criteria, err := encodeCriteria(runner.Values)
			if err != nil {
				return err
			}
			_, err = conn.Exec(txCtx, query,
				raceID, runner.ProgramNumber, runner.Name, runner.Driver, criteria, runner.FinishPosition,
			)
			if err != nil {
				return fmt.Errorf("failed to insert runner %d: %w", runner.ProgramNumber, err)
			}
		}
		return nil
	})
}

// GetByRaceID retrieves the field of a race ordered by program number
func (r *PostgresRunnerRepository) GetByRaceID(ctx context.Context, raceID uuid.UUID) ([]*models.RunnerAttributes, error) {
	query := `SELECT ` + runnerSelectCols + ` FROM runners WHERE race_id = $1 ORDER BY program_number ASC`

	rows, err := r.db.Conn(ctx).Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runners: %w", err)
	}
	defer rows.Close()

	var runners []*models.RunnerAttributes
	for rows.Next() {
		runner, err := scanRunner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan runner: %w", err)
		}
		runners = append(runners, runner)
	}

	return runners, rows.Err()
}

// GetByRaceIDs retrieves the fields of several races keyed by race id
func (r *PostgresRunnerRepository) GetByRaceIDs(ctx context.Context, raceIDs []uuid.UUID) (map[uuid.UUID][]*models.RunnerAttributes, error) {
	out := make(map[uuid.UUID][]*models.RunnerAttributes, len(raceIDs))
	if len(raceIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(raceIDs))
	for i, id := range raceIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT ` + runnerSelectCols + `
		FROM runners
		WHERE race_id = ANY($1::uuid[])
		ORDER BY race_id, program_number ASC
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query runners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		runner, err := scanRunner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan runner: %w", err)
		}
		out[runner.RaceID] = append(out[runner.RaceID], runner)
	}

	return out, rows.Err()
}

// SetFinishPositions records official finishing positions keyed by program number
func (r *PostgresRunnerRepository) SetFinishPositions(ctx context.Context, raceID uuid.UUID, positions map[int]int) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		conn := r.db.Conn(txCtx)
		query := `UPDATE runners SET finish_position = $3 WHERE race_id = $1 AND program_number = $2`
		for number, position := range positions {
			result, err := conn.Exec(txCtx, query, raceID, number, position)
			if err != nil {
				return fmt.Errorf("failed to set finish position: %w", err)
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("runner %d of race %s: %w", number, raceID, models.ErrNotFound)
			}
		}
		return nil
	})
}

func scanRunner(row pgx.Row) (*models.RunnerAttributes, error) {
	runner := &models.RunnerAttributes{}
	var criteria []byte
	err := row.Scan(
		&runner.RaceID, &runner.ProgramNumber, &runner.Name, &runner.Driver, &criteria, &runner.FinishPosition,
	)
	if err != nil {
		return nil, err
	}
	runner.Values, err = decodeCriteria(criteria)
	if err != nil {
		return nil, err
	}
	return runner, nil
}

func encodeCriteria(values map[models.Criterion]float64) ([]byte, error) {
	raw := make(map[string]float64, len(values))
	for c, v := range values {
		raw[string(c)] = v
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode criteria: %w", err)
	}
	return data, nil
}

func decodeCriteria(data []byte) (map[models.Criterion]float64, error) {
	raw := map[string]float64{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode criteria: %w", err)
		}
	}
	values := make(map[models.Criterion]float64, len(raw))
	for c, v := range raw {
		values[models.Criterion(c)] = v
	}
	return values, nil
}
