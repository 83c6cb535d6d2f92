package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		size int
		want FieldBand
	}{
		{1, FieldBandUpTo8},
		{8, FieldBandUpTo8},
		{9, FieldBand8To10},
		{10, FieldBand8To10},
		{12, FieldBand10To12},
		{13, FieldBand12To14},
		{16, FieldBand14To16},
		{17, FieldBand16Plus},
		{20, FieldBand16Plus},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("size_%d", tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, BandFor(tt.size))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassificationStrongFavorite, Classify(72, 65))
	assert.Equal(t, ClassificationFavorite, Classify(72, 40))
	assert.Equal(t, ClassificationContender, Classify(55, 90))
	assert.Equal(t, ClassificationValueOutsider, Classify(40, 10))
	assert.Equal(t, ClassificationOutsider, Classify(12, 100))
}

func TestWeightingProfileIsImmutable(t *testing.T) {
	weights := map[Criterion]float64{CriterionAIWin: 30, CriterionOddsBZH: 20, CriterionDraw: -5}
	p := NewWeightingProfile("test", weights)

	weights[CriterionAIWin] = 99
	assert.Equal(t, 30.0, p.Weight(CriterionAIWin))
	assert.Equal(t, 0.0, p.Weight(CriterionDraw), "negative weights are dropped")

	got := p.Weights()
	got[CriterionOddsBZH] = 0
	assert.Equal(t, 20.0, p.Weight(CriterionOddsBZH))

	next := p.NextVersion(p.Version)
	assert.Equal(t, 2, next.Version)
	assert.NotEqual(t, p.ID, next.ID)
	assert.Equal(t, 1, p.Version)
}

func TestWeightingProfileMatches(t *testing.T) {
	p := NewWeightingProfile("vincennes", nil).WithPredicates("vincennes", DisciplineTrotAttele, "")

	assert.True(t, p.Matches("PARIS-VINCENNES", "a", FieldBand10To12))
	assert.False(t, p.Matches("ENGHIEN", DisciplineTrotAttele, FieldBand10To12))
	assert.False(t, p.Matches("VINCENNES", DisciplineTrotMonte, FieldBand10To12))
	assert.Equal(t, 6, p.Specificity())
	assert.Equal(t, 0, NewWeightingProfile(DefaultProfileName, nil).Specificity())
}

func TestPlacedBetROI(t *testing.T) {
	bet := &PlacedBet{ID: uuid.New(), Stake: decimal.NewFromInt(10), Status: BetStatusPending}
	assert.Equal(t, 0.0, bet.ROI(), "pending bets have no ROI")

	now := time.Now()
	bet.Status = BetStatusSettled
	bet.SettledAt = &now
	bet.Payout = decimal.NewNullDecimal(decimal.NewFromInt(25))
	assert.InDelta(t, 150.0, bet.ROI(), 1e-9)
	assert.True(t, bet.IsHit())

	free := &PlacedBet{Stake: decimal.Zero, Status: BetStatusSettled}
	assert.Equal(t, 0.0, free.ROI())
}

func TestErrorsUnwrap(t *testing.T) {
	id := uuid.New()
	var err error = &AlreadySettledError{BetID: id}
	assert.True(t, errors.Is(err, ErrAlreadySettled))
	assert.Contains(t, err.Error(), id.String())

	err = fmt.Errorf("build: %w", &MalformedInputError{Reason: "empty field"})
	var mie *MalformedInputError
	require.True(t, errors.As(err, &mie))
	assert.Equal(t, "empty field", mie.Reason)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestRecommendationSetByPriority(t *testing.T) {
	set := &RecommendationSet{Recommendations: []BetRecommendation{
		{Type: BetTypeSingleWin, Tier: 2, TotalCost: decimal.NewFromInt(1)},
		{Type: BetTypeSinglePlace, Tier: 2, TotalCost: decimal.NewFromInt(3)},
		{Type: BetTypePairWin, Tier: 1, TotalCost: decimal.NewFromInt(7)},
	}}

	ordered := set.ByPriority()
	require.Len(t, ordered, 3)
	assert.Equal(t, BetTypePairWin, ordered[0].Type)
	assert.Equal(t, BetTypeSingleWin, ordered[1].Type)
	assert.Equal(t, BetTypeSingleWin, set.Recommendations[0].Type, "original order untouched")
	assert.True(t, decimal.NewFromInt(11).Equal(set.TotalCost()))
	assert.NoError(t, set.Err())

	withheld := &RecommendationSet{Reason: InsufficientConfidenceReason}
	assert.ErrorIs(t, withheld.Err(), ErrInsufficientConfidence)
}
