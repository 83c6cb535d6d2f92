package recommendation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/turf-analytics/internal/models"
)

func rankedField(n int, confidence float64) []models.ScoredRunner {
	out := make([]models.ScoredRunner, n)
	for i := range out {
		out[i] = models.ScoredRunner{
			Runner:     &models.RunnerAttributes{ProgramNumber: 11 + i},
			Score:      90 - float64(i)*5,
			Confidence: confidence,
			Rank:       i + 1,
		}
	}
	return out
}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(DefaultConfig())
	require.NoError(t, err)
	return b
}

func TestBinomial(t *testing.T) {
	assert.Equal(t, 15, Binomial(6, 2))
	assert.Equal(t, 1, Binomial(3, 3))
	assert.Equal(t, 1, Binomial(5, 0))
	assert.Equal(t, 0, Binomial(2, 3))
	assert.Equal(t, 252, Binomial(10, 5))
}

func TestBaseComplementCount(t *testing.T) {
	tests := []struct {
		bases, complements, expected int
	}{
		{1, 3, 3},
		{2, 3, 7},
		{3, 3, 10},
		{2, 4, 9},
		{3, 4, 13},
		{0, 3, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, BaseComplementCount(tt.bases, tt.complements), "k=%d m=%d", tt.bases, tt.complements)
	}
}

func TestPairsInBlock(t *testing.T) {
	assert.Equal(t, 6, PairsInBlock(4))
	assert.Equal(t, 15, PairsInBlock(6))
}

func TestBuildTenRunnersAtSixtyFive(t *testing.T) {
	set, err := newBuilder(t).Build(rankedField(10, 65), 65)
	require.NoError(t, err)
	require.NoError(t, set.Err())

	assert.Equal(t, 2, set.Bases)
	assert.Equal(t, 3, set.Complements)

	types := make([]models.BetType, len(set.Recommendations))
	for i, r := range set.Recommendations {
		types[i] = r.Type
	}
	assert.Equal(t, models.BetTypes, types)

	pair, ok := set.Find(models.BetTypePairWin)
	require.True(t, ok)
	assert.Equal(t, []int{11, 12}, pair.Bases)
	assert.Equal(t, []int{13, 14, 15}, pair.Complements)
	assert.Equal(t, 7, pair.Combinations)
	assert.True(t, decimal.NewFromInt(7).Equal(pair.TotalCost))
	assert.Equal(t, "BB/3X", pair.Formula)
	assert.Equal(t, 1, pair.Tier)

	place, ok := set.Find(models.BetTypePairPlace)
	require.True(t, ok)
	assert.Equal(t, pair.Combinations, place.Combinations)
	assert.Equal(t, 2, place.Tier)

	triple, ok := set.Find(models.BetTypeTriple)
	require.True(t, ok)
	assert.Equal(t, 7, triple.Combinations)

	block, ok := set.Find(models.BetTypeBlockPair)
	require.True(t, ok)
	assert.Equal(t, []int{11, 12, 13, 14, 15}, block.Bases)
	assert.Equal(t, 10, block.Combinations)
	assert.True(t, decimal.NewFromInt(5).Equal(block.TotalCost))

	single, ok := set.Find(models.BetTypeSinglePlace)
	require.True(t, ok)
	assert.Equal(t, []int{11, 12, 13}, single.Bases)
	assert.Equal(t, 3, single.Combinations)
}

func TestBuildBlockOfSix(t *testing.T) {
	set, err := newBuilder(t).Build(rankedField(12, 52), 52)
	require.NoError(t, err)

	block, ok := set.Find(models.BetTypeBlockPair)
	require.True(t, ok)
	assert.Len(t, block.Bases, 6)
	assert.Equal(t, 15, block.Combinations)
	assert.True(t, decimal.NewFromFloat(7.5).Equal(block.TotalCost))

	pair, ok := set.Find(models.BetTypePairWin)
	require.True(t, ok)
	assert.Equal(t, 10, pair.Combinations)
	assert.Equal(t, "BBB/3X", pair.Formula)
	assert.Equal(t, 2, pair.Tier)
}

func TestBuildLowConfidenceCapsBlock(t *testing.T) {
	set, err := newBuilder(t).Build(rankedField(14, 30), 30)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Bases)
	assert.Equal(t, 5, set.Complements)

	triple, ok := set.Find(models.BetTypeTriple)
	require.True(t, ok)
	assert.Len(t, triple.Complements, 4)
	assert.Equal(t, 13, triple.Combinations)

	block, ok := set.Find(models.BetTypeBlockPair)
	require.True(t, ok)
	assert.Len(t, block.Bases, 6)
}

func TestBuildSmallFields(t *testing.T) {
	b := newBuilder(t)

	set, err := b.Build(rankedField(2, 80), 80)
	require.NoError(t, err)
	require.Len(t, set.Recommendations, 1)
	assert.Equal(t, models.BetTypeSingleWin, set.Recommendations[0].Type)

	set, err = b.Build(rankedField(3, 65), 65)
	require.NoError(t, err)
	_, hasTriple := set.Find(models.BetTypeTriple)
	_, hasBlock := set.Find(models.BetTypeBlockPair)
	assert.False(t, hasTriple)
	assert.False(t, hasBlock)

	pair, ok := set.Find(models.BetTypePairWin)
	require.True(t, ok)
	assert.Equal(t, 3, pair.Combinations)
}

func TestBuildInsufficientConfidence(t *testing.T) {
	set, err := newBuilder(t).Build(rankedField(10, 15), 15)
	require.NoError(t, err)

	assert.True(t, set.Empty())
	assert.Equal(t, models.InsufficientConfidenceReason, set.Reason)
	assert.ErrorIs(t, set.Err(), models.ErrInsufficientConfidence)
}

func TestBuildEmptyFieldIsMalformed(t *testing.T) {
	b := newBuilder(t)

	_, err := b.Build(nil, 80)
	assert.True(t, errors.Is(err, models.ErrMalformedInput))

	_, err = b.BuildField(&models.ScoredField{Confidence: 80})
	var malformed *models.MalformedInputError
	assert.True(t, errors.As(err, &malformed))
}

func TestBuildIsIdempotent(t *testing.T) {
	b := newBuilder(t)
	ranked := rankedField(9, 58)

	first, err := b.Build(ranked, 58)
	require.NoError(t, err)
	second, err := b.Build(ranked, 58)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSingleWinTier(t *testing.T) {
	b := newBuilder(t)
	ranked := rankedField(8, 45)

	set, err := b.Build(ranked, 45)
	require.NoError(t, err)
	single, ok := set.Find(models.BetTypeSingleWin)
	require.True(t, ok)
	assert.Equal(t, 2, single.Tier)

	ranked[0].Confidence = 72
	set, err = b.Build(ranked, 45)
	require.NoError(t, err)
	single, _ = set.Find(models.BetTypeSingleWin)
	assert.Equal(t, 1, single.Tier)
	assert.Equal(t, 72.0, single.Confidence)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bands[1].MinConfidence = 80
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.BlockSize = 3
	_, err := NewBuilder(cfg)
	assert.Error(t, err)
}
