package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetStatus represents the status of a placed bet
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusSettled BetStatus = "settled"
)

// Outcome is the result of a settled bet
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// IsValid reports whether the outcome is known
func (o Outcome) IsValid() bool {
	return o == OutcomeWon || o == OutcomeLost
}

// PlacedBet is a ticket the user actually placed
type PlacedBet struct {
	ID        uuid.UUID           `db:"id" json:"id" validate:"required"`
	RaceID    uuid.UUID           `db:"race_id" json:"race_id" validate:"required"`
	RaceRef   string              `db:"race_ref" json:"race_ref"`
	BetType   BetType             `db:"bet_type" json:"bet_type" validate:"required"`
	Selection []int               `db:"selection" json:"selection" validate:"required,min=1,dive,gt=0"`
	Stake     decimal.Decimal     `db:"stake" json:"stake"`
	PlacedAt  time.Time           `db:"placed_at" json:"placed_at" validate:"required"`
	Status    BetStatus           `db:"status" json:"status" validate:"required,oneof=pending settled"`
	Outcome   *Outcome            `db:"outcome" json:"outcome,omitempty"`
	Payout    decimal.NullDecimal `db:"payout" json:"payout"`
	SettledAt *time.Time          `db:"settled_at" json:"settled_at,omitempty"`
}

// IsSettled checks if the bet has been settled
func (b *PlacedBet) IsSettled() bool {
	return b.Status == BetStatusSettled
}

// IsHit reports whether the settled bet returned anything
func (b *PlacedBet) IsHit() bool {
	return b.IsSettled() && b.Payout.Valid && b.Payout.Decimal.IsPositive()
}

// PayoutOrZero returns the payout, zero while pending
func (b *PlacedBet) PayoutOrZero() decimal.Decimal {
	if !b.Payout.Valid {
		return decimal.Zero
	}
	return b.Payout.Decimal
}

// ROI returns the return on investment percentage
func (b *PlacedBet) ROI() float64 {
	if !b.IsSettled() || b.Stake.IsZero() {
		return 0
	}
	roi, _ := b.PayoutOrZero().Sub(b.Stake).Div(b.Stake).Mul(decimal.NewFromInt(100)).Float64()
	return roi
}

// LedgerStatistics is the aggregate view of the ledger
type LedgerStatistics struct {
	Count          int             `json:"count"`
	PendingCount   int             `json:"pending_count"`
	SettledCount   int             `json:"settled_count"`
	HitCount       int             `json:"hit_count"`
	TotalStake     decimal.Decimal `json:"total_stake"`
	TotalPayout    decimal.Decimal `json:"total_payout"`
	ROIPercent     float64         `json:"roi_percent"`
	HitRatePercent float64         `json:"hit_rate_percent"`
}

// Profit returns payouts minus stakes
func (s LedgerStatistics) Profit() decimal.Decimal {
	return s.TotalPayout.Sub(s.TotalStake)
}
