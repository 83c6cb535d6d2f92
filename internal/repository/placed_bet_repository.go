package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/turf-analytics/internal/database"
	"github.com/yourusername/turf-analytics/internal/models"
)

const betSelectCols = `id, race_id, race_ref, bet_type, selection, stake, placed_at, status, outcome, payout, settled_at`

// PostgresPlacedBetRepository implements PlacedBetRepository for PostgreSQL
type PostgresPlacedBetRepository struct {
	db *database.DB
}

// NewPostgresPlacedBetRepository creates a new placed bet repository
func NewPostgresPlacedBetRepository(db *database.DB) PlacedBetRepository {
	return &PostgresPlacedBetRepository{db: db}
}

// Create inserts a new pending bet
func (r *PostgresPlacedBetRepository) Create(ctx context.Context, bet *models.PlacedBet) error {
	query := `
		INSERT INTO placed_bets (id, race_id, race_ref, bet_type, selection, stake, placed_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Conn(ctx).Exec(ctx, query,
		bet.ID, bet.RaceID, bet.RaceRef, string(bet.BetType), toInt32s(bet.Selection),
		bet.Stake.StringFixed(2), bet.PlacedAt, string(bet.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

// GetByID retrieves a bet by ID
func (r *PostgresPlacedBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PlacedBet, error) {
	query := `SELECT ` + betSelectCols + ` FROM placed_bets WHERE id = $1`

	bet, err := scanBet(r.db.Conn(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

// List retrieves bets matching the filter, newest first
func (r *PostgresPlacedBetRepository) List(ctx context.Context, filter BetFilter) ([]*models.PlacedBet, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.RaceID != nil {
		args = append(args, *filter.RaceID)
		conditions = append(conditions, fmt.Sprintf("race_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conditions = append(conditions, fmt.Sprintf("placed_at >= $%d", len(args)))
	}

	query := `SELECT ` + betSelectCols + ` FROM placed_bets`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY placed_at DESC, id ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.PlacedBet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}

// Settle records the outcome of a pending bet
func (r *PostgresPlacedBetRepository) Settle(ctx context.Context, id uuid.UUID, outcome models.Outcome, payout decimal.Decimal, settledAt time.Time) error {
	query := `
		UPDATE placed_bets
		SET status = 'settled', outcome = $2, payout = $3, settled_at = $4
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Conn(ctx).Exec(ctx, query, id, string(outcome), payout.StringFixed(2), settledAt)
	if err != nil {
		return fmt.Errorf("failed to settle bet: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.db.Conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM placed_bets WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check bet: %w", err)
	}
	if !exists {
		return models.ErrNotFound
	}

	return &models.AlreadySettledError{BetID: id}
}

// Delete removes a bet from the ledger
func (r *PostgresPlacedBetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM placed_bets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bet: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanBet(row pgx.Row) (*models.PlacedBet, error) {
	bet := &models.PlacedBet{}
	var (
		betType, status string
		selection       []int32
		stake           string
		outcome, payout *string
	)
	err := row.Scan(
		&bet.ID, &bet.RaceID, &bet.RaceRef, &betType, &selection, &stake,
		&bet.PlacedAt, &status, &outcome, &payout, &bet.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	bet.BetType = models.BetType(betType)
	bet.Status = models.BetStatus(status)
	bet.Selection = make([]int, len(selection))
	for i, n := range selection {
		bet.Selection[i] = int(n)
	}
	if bet.Stake, err = decimal.NewFromString(stake); err != nil {
		return nil, fmt.Errorf("invalid stake %q: %w", stake, err)
	}
	if outcome != nil {
		o := models.Outcome(*outcome)
		bet.Outcome = &o
	}
	if payout != nil {
		p, err := decimal.NewFromString(*payout)
		if err != nil {
			return nil, fmt.Errorf("invalid payout %q: %w", *payout, err)
		}
		bet.Payout = decimal.NewNullDecimal(p)
	}

	return bet, nil
}

func toInt32s(values []int) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}
