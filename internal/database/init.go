package database

import (
	"context"
	"fmt"

	"github.com/yourusername/turf-analytics/internal/config"
)

// Initialize creates a database connection pool and makes sure the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the tables and indexes when they are missing
func EnsureSchema(ctx context.Context, db *DB) error {
	return db.WithTransaction(ctx, func(txCtx context.Context) error {
		conn := db.Conn(txCtx)
		for i, stmt := range schemaStatements {
			if _, err := conn.Exec(txCtx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS races (
		id              UUID PRIMARY KEY,
		race_date       DATE NOT NULL,
		code            TEXT NOT NULL,
		venue           TEXT NOT NULL,
		discipline      TEXT NOT NULL DEFAULT '',
		scheduled_start TIMESTAMPTZ NOT NULL,
		field_size      INTEGER NOT NULL DEFAULT 0,
		status          TEXT NOT NULL DEFAULT 'scheduled',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (race_date, venue, code)
	)`,
	`CREATE TABLE IF NOT EXISTS runners (
		race_id         UUID NOT NULL REFERENCES races(id) ON DELETE CASCADE,
		program_number  INTEGER NOT NULL CHECK (program_number > 0),
		name            TEXT NOT NULL,
		driver          TEXT NOT NULL DEFAULT '',
		criteria        JSONB NOT NULL DEFAULT '{}'::jsonb,
		finish_position INTEGER,
		PRIMARY KEY (race_id, program_number)
	)`,
	`CREATE TABLE IF NOT EXISTS weighting_profiles (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		version     INTEGER NOT NULL,
		venue       TEXT NOT NULL DEFAULT '',
		discipline  TEXT NOT NULL DEFAULT '',
		field_band  TEXT NOT NULL DEFAULT '',
		source      TEXT NOT NULL,
		weights     JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (name, version)
	)`,
	`CREATE TABLE IF NOT EXISTS placed_bets (
		id          UUID PRIMARY KEY,
		race_id     UUID NOT NULL,
		race_ref    TEXT NOT NULL DEFAULT '',
		bet_type    TEXT NOT NULL,
		selection   INTEGER[] NOT NULL,
		stake       NUMERIC(12,2) NOT NULL CHECK (stake >= 0),
		placed_at   TIMESTAMPTZ NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending',
		outcome     TEXT,
		payout      NUMERIC(12,2),
		settled_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_races_date ON races (race_date)`,
	`CREATE INDEX IF NOT EXISTS idx_placed_bets_race ON placed_bets (race_id)`,
	`CREATE INDEX IF NOT EXISTS idx_placed_bets_status ON placed_bets (status)`,
}
