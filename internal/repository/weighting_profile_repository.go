package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/turf-analytics/internal/database"
	"github.com/yourusername/turf-analytics/internal/models"
)

const profileSelectCols = `id, name, version, venue, discipline, field_band, source, weights, created_at`

// PostgresWeightingProfileRepository implements WeightingProfileRepository for PostgreSQL
type PostgresWeightingProfileRepository struct {
	db *database.DB
}

// NewPostgresWeightingProfileRepository creates a new weighting profile repository
func NewPostgresWeightingProfileRepository(db *database.DB) WeightingProfileRepository {
	return &PostgresWeightingProfileRepository{db: db}
}

// Save stores the profile as the next version of its name and returns the stored copy
func (r *PostgresWeightingProfileRepository) Save(ctx context.Context, profile *models.WeightingProfile) (*models.WeightingProfile, error) {
	var saved *models.WeightingProfile

	err := r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		conn := r.db.Conn(txCtx)

		// serialize concurrent saves of the same name
		if _, err := conn.Exec(txCtx, `SELECT pg_advisory_xact_lock(hashtext($1))`, profile.Name); err != nil {
			return fmt.Errorf("failed to lock profile name: %w", err)
		}

		var current int
		err := conn.QueryRow(txCtx,
			`SELECT COALESCE(MAX(version), 0) FROM weighting_profiles WHERE name = $1`, profile.Name,
		).Scan(&current)
		if err != nil {
			return fmt.Errorf("failed to read profile version: %w", err)
		}

		next := profile.NextVersion(current)
		weights, err := encodeCriteria(next.Weights())
		if err != nil {
			return err
		}

		query := `
			INSERT INTO weighting_profiles (id, name, version, venue, discipline, field_band, source, weights)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at
		`
		err = conn.QueryRow(txCtx, query,
			next.ID, next.Name, next.Version, next.Venue, string(next.Discipline),
			string(next.FieldBand), string(next.Source), weights,
		).Scan(&next.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert weighting profile: %w", err)
		}

		saved = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// GetLatest retrieves the highest version of a named profile
func (r *PostgresWeightingProfileRepository) GetLatest(ctx context.Context, name string) (*models.WeightingProfile, error) {
	query := `
		SELECT ` + profileSelectCols + `
		FROM weighting_profiles
		WHERE name = $1
		ORDER BY version DESC
		LIMIT 1
	`

	profile, err := scanProfile(r.db.Conn(ctx).QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weighting profile: %w", err)
	}

	return profile, nil
}

// GetVersion retrieves one specific version of a named profile
func (r *PostgresWeightingProfileRepository) GetVersion(ctx context.Context, name string, version int) (*models.WeightingProfile, error) {
	query := `SELECT ` + profileSelectCols + ` FROM weighting_profiles WHERE name = $1 AND version = $2`

	profile, err := scanProfile(r.db.Conn(ctx).QueryRow(ctx, query, name, version))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weighting profile version: %w", err)
	}

	return profile, nil
}

// ListLatest retrieves the latest version of every profile ordered by name
func (r *PostgresWeightingProfileRepository) ListLatest(ctx context.Context) ([]*models.WeightingProfile, error) {
	query := `
		SELECT DISTINCT ON (name) ` + profileSelectCols + `
		FROM weighting_profiles
		ORDER BY name ASC, version DESC
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query weighting profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.WeightingProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weighting profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

func scanProfile(row pgx.Row) (*models.WeightingProfile, error) {
	var (
		stored                   models.WeightingProfile
		discipline, band, source string
		weights                  []byte
	)
	err := row.Scan(
		&stored.ID, &stored.Name, &stored.Version, &stored.Venue, &discipline,
		&band, &source, &weights, &stored.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	values, err := decodeCriteria(weights)
	if err != nil {
		return nil, err
	}

	profile := models.NewWeightingProfile(stored.Name, values).
		WithPredicates(stored.Venue, models.Discipline(discipline), models.FieldBand(band)).
		WithSource(models.ProfileSource(source))
	profile.ID = stored.ID
	profile.Version = stored.Version
	profile.CreatedAt = stored.CreatedAt
	return profile, nil
}
