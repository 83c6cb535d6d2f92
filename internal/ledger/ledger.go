// Package ledger records placed bets and reports return on investment.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/turf-analytics/internal/logger"
	"github.com/yourusername/turf-analytics/internal/metrics"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/repository"
)

// RecordRequest describes a bet the user placed
type RecordRequest struct {
	RaceID    uuid.UUID
	RaceRef   string
	BetType   models.BetType
	Selection []int
	Stake     decimal.Decimal
	// PlacedAt defaults to the current time
	PlacedAt time.Time
}

// Ledger is the ROI ledger. Writes are serialized; reads go straight to the store.
type Ledger struct {
	repo  repository.PlacedBetRepository
	audit *logger.AuditLogger
	now   func() time.Time

	mu sync.Mutex
}

// NewLedger creates a ledger over the bet store
func NewLedger(repo repository.PlacedBetRepository, audit *logger.AuditLogger) *Ledger {
	return &Ledger{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// Record validates the request and stores a new pending bet. Identical
// requests create distinct bets.
func (l *Ledger) Record(ctx context.Context, req RecordRequest) (uuid.UUID, error) {
	if err := validateRequest(req); err != nil {
		return uuid.Nil, err
	}

	placedAt := req.PlacedAt
	if placedAt.IsZero() {
		placedAt = l.now()
	}

	bet := &models.PlacedBet{
		ID:        uuid.New(),
		RaceID:    req.RaceID,
		RaceRef:   req.RaceRef,
		BetType:   req.BetType,
		Selection: append([]int(nil), req.Selection...),
		Stake:     req.Stake.Round(2),
		PlacedAt:  placedAt.UTC(),
		Status:    models.BetStatusPending,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.Create(ctx, bet); err != nil {
		return uuid.Nil, fmt.Errorf("failed to record bet: %w", err)
	}

	l.audit.LogBetRecorded(bet.ID.String(), bet.RaceID.String(), bet.RaceRef, string(bet.BetType),
		bet.Selection, bet.Stake.StringFixed(2), bet.PlacedAt)
	metrics.RecordBetRecorded(string(bet.BetType))
	return bet.ID, nil
}

// Settle records the outcome of a pending bet. A bet settles once; later
// calls return an *models.AlreadySettledError.
func (l *Ledger) Settle(ctx context.Context, id uuid.UUID, outcome models.Outcome, payout decimal.Decimal) error {
	if !outcome.IsValid() {
		return &models.MalformedInputError{Reason: fmt.Sprintf("unknown outcome %q", outcome)}
	}
	if payout.IsNegative() {
		return &models.MalformedInputError{Reason: "negative payout"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	settledAt := l.now().UTC()
	err := l.repo.Settle(ctx, id, outcome, payout.Round(2), settledAt)
	if errors.Is(err, models.ErrAlreadySettled) {
		l.audit.LogSettlementRejected(id.String(), "already settled")
		var settled *models.AlreadySettledError
		if errors.As(err, &settled) {
			return settled
		}
		return &models.AlreadySettledError{BetID: id}
	}
	if err != nil {
		return fmt.Errorf("failed to settle bet %s: %w", id, err)
	}

	l.audit.LogBetSettled(id.String(), string(outcome), payout.StringFixed(2), settledAt)
	metrics.RecordBetSettled(string(outcome))
	return nil
}

// Statistics aggregates the whole ledger. Pending stakes count towards the
// total stake, so ROI reflects money committed.
func (l *Ledger) Statistics(ctx context.Context) (models.LedgerStatistics, error) {
	bets, err := l.repo.List(ctx, repository.BetFilter{})
	if err != nil {
		return models.LedgerStatistics{}, fmt.Errorf("failed to list bets: %w", err)
	}

	stats := Summarize(bets)
	metrics.UpdateLedgerStatistics(stats.ROIPercent, stats.HitRatePercent, stats.PendingCount)
	return stats, nil
}

// Purge deletes a bet from the ledger
func (l *Ledger) Purge(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to purge bet %s: %w", id, err)
	}
	l.audit.LogBetPurged(id.String())
	return nil
}

// List returns the bets matching the filter
func (l *Ledger) List(ctx context.Context, filter repository.BetFilter) ([]*models.PlacedBet, error) {
	bets, err := l.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	return bets, nil
}

// Summarize computes ledger statistics over a set of bets
func Summarize(bets []*models.PlacedBet) models.LedgerStatistics {
	stats := models.LedgerStatistics{
		TotalStake:  decimal.Zero,
		TotalPayout: decimal.Zero,
	}
	for _, b := range bets {
		stats.Count++
		stats.TotalStake = stats.TotalStake.Add(b.Stake)
		if !b.IsSettled() {
			stats.PendingCount++
			continue
		}
		stats.SettledCount++
		stats.TotalPayout = stats.TotalPayout.Add(b.PayoutOrZero())
		if b.IsHit() {
			stats.HitCount++
		}
	}

	hundred := decimal.NewFromInt(100)
	if stats.TotalStake.IsPositive() {
		stats.ROIPercent, _ = stats.Profit().Div(stats.TotalStake).Mul(hundred).Float64()
	}
	if stats.SettledCount > 0 {
		stats.HitRatePercent, _ = decimal.NewFromInt(int64(stats.HitCount)).
			Div(decimal.NewFromInt(int64(stats.SettledCount))).Mul(hundred).Float64()
	}
	return stats
}

func validateRequest(req RecordRequest) error {
	reason := ""
	switch {
	case req.RaceID == uuid.Nil:
		reason = "race id is required"
	case !req.BetType.IsValid():
		reason = fmt.Sprintf("unknown bet type %q", req.BetType)
	case len(req.Selection) == 0:
		reason = "selection is empty"
	case req.Stake.IsNegative():
		reason = "stake is negative"
	}
	if reason == "" {
		seen := make(map[int]bool, len(req.Selection))
		for _, n := range req.Selection {
			if n <= 0 {
				reason = fmt.Sprintf("non-positive program number %d", n)
				break
			}
			if seen[n] {
				reason = fmt.Sprintf("duplicate program number %d", n)
				break
			}
			seen[n] = true
		}
	}
	if reason != "" {
		return &models.MalformedInputError{RaceID: req.RaceID, Reason: reason}
	}
	return nil
}
