// Package recommendation turns a ranked field into betting tickets with their cost.
package recommendation

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/turf-analytics/internal/models"
)

// Builder produces recommendation sets. It keeps no state between calls.
type Builder struct {
	cfg Config
}

// NewBuilder creates a builder with validated settings
func NewBuilder(cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommendation config: %w", err)
	}
	return &Builder{cfg: cfg}, nil
}

// BuildField builds recommendations for a scored field
func (b *Builder) BuildField(field *models.ScoredField) (*models.RecommendationSet, error) {
	if field == nil {
		return nil, &models.MalformedInputError{Reason: "empty ranked field"}
	}
	if len(field.Runners) == 0 {
		return nil, &models.MalformedInputError{RaceID: field.RaceID, Reason: "empty ranked field"}
	}
	return b.Build(field.Runners, field.Confidence)
}

// Build derives the ticket catalogue from runners in rank order and the field
// confidence. Below the hard floor the set is empty and carries a reason.
func (b *Builder) Build(ranked []models.ScoredRunner, confidence float64) (*models.RecommendationSet, error) {
	if len(ranked) == 0 {
		return nil, &models.MalformedInputError{Reason: "empty ranked field"}
	}

	set := &models.RecommendationSet{Confidence: confidence}
	if math.IsNaN(confidence) || confidence < b.cfg.HardFloor {
		set.Reason = models.InsufficientConfidenceReason
		set.Recommendations = []models.BetRecommendation{}
		return set, nil
	}

	band := b.cfg.BandFor(confidence)
	total := min(band.Bases+band.Complements, len(ranked))
	nBases := min(band.Bases, total)
	selected := ranked[:total]
	bases := selected[:nBases]
	complements := selected[nBases:]
	set.Bases = len(bases)
	set.Complements = len(complements)

	recs := make([]models.BetRecommendation, 0, len(models.BetTypes))
	recs = append(recs, b.singleWin(selected[0]))
	if len(selected) >= 3 {
		recs = append(recs, b.singlePlace(selected[:3]))
	}
	if len(bases) >= 1 && len(complements) >= 1 {
		win, place := b.pairs(bases, complements)
		recs = append(recs, win, place)
	}
	if len(bases) >= 2 && len(complements) >= 2 {
		recs = append(recs, b.triple(selected, bases, complements))
	}
	if len(selected) >= 4 {
		recs = append(recs, b.blockPair(selected))
	}

	set.Recommendations = recs
	return set, nil
}

func (b *Builder) singleWin(top models.ScoredRunner) models.BetRecommendation {
	return b.ticket(models.BetTypeSingleWin, []models.ScoredRunner{top}, nil, 1, b.cfg.UnitStake,
		tierFor(top.Confidence, b.cfg.SingleTier1), "simple", top.Confidence)
}

func (b *Builder) singlePlace(top3 []models.ScoredRunner) models.BetRecommendation {
	return b.ticket(models.BetTypeSinglePlace, top3, nil, len(top3), b.cfg.UnitStake,
		2, fmt.Sprintf("%d x simple", len(top3)), meanConfidence(top3))
}

func (b *Builder) pairs(bases, complements []models.ScoredRunner) (models.BetRecommendation, models.BetRecommendation) {
	pb := bases[:min(len(bases), b.cfg.MaxPairBases)]
	pc := complements[:min(len(complements), b.cfg.MaxPairComplements)]
	combos := BaseComplementCount(len(pb), len(pc))
	conf := meanConfidence(pb)
	formula := formulaFor(len(pb), len(pc))

	win := b.ticket(models.BetTypePairWin, pb, pc, combos, b.cfg.UnitStake,
		tierFor(conf, b.cfg.PairTier1), formula, conf)
	place := b.ticket(models.BetTypePairPlace, pb, pc, combos, b.cfg.UnitStake,
		2, formula, conf)
	return win, place
}

func (b *Builder) triple(selected, bases, complements []models.ScoredRunner) models.BetRecommendation {
	tb := bases[:min(len(bases), b.cfg.MaxTripleBases)]
	tc := complements[:min(len(complements), b.cfg.MaxTripleComplements)]
	conf := meanConfidence(selected[:min(3, len(selected))])

	return b.ticket(models.BetTypeTriple, tb, tc, BaseComplementCount(len(tb), len(tc)), b.cfg.UnitStake,
		tierFor(conf, b.cfg.TripleTier1), formulaFor(len(tb), len(tc)), conf)
}

func (b *Builder) blockPair(selected []models.ScoredRunner) models.BetRecommendation {
	block := selected[:min(b.cfg.BlockSize, len(selected))]
	return b.ticket(models.BetTypeBlockPair, block, nil, PairsInBlock(len(block)), b.cfg.BlockUnitStake,
		2, fmt.Sprintf("block %d", len(block)), meanConfidence(block))
}

func (b *Builder) ticket(
	betType models.BetType,
	bases, complements []models.ScoredRunner,
	combinations int,
	unitStake decimal.Decimal,
	tier int,
	formula string,
	confidence float64,
) models.BetRecommendation {
	return models.BetRecommendation{
		Type:         betType,
		Bases:        programNumbers(bases),
		Complements:  programNumbers(complements),
		Combinations: combinations,
		UnitStake:    unitStake,
		TotalCost:    unitStake.Mul(decimal.NewFromInt(int64(combinations))),
		Tier:         tier,
		Formula:      formula,
		Confidence:   math.Round(confidence*10) / 10,
	}
}

// formulaFor renders the reduced-field notation, e.g. "BB/3X"
func formulaFor(bases, complements int) string {
	return strings.Repeat("B", bases) + fmt.Sprintf("/%dX", complements)
}

func tierFor(confidence, threshold float64) int {
	if confidence >= threshold {
		return 1
	}
	return 2
}

func meanConfidence(runners []models.ScoredRunner) float64 {
	if len(runners) == 0 {
		return 0
	}
	var sum float64
	for _, r := range runners {
		sum += r.Confidence
	}
	return sum / float64(len(runners))
}

func programNumbers(runners []models.ScoredRunner) []int {
	out := make([]int, len(runners))
	for i, r := range runners {
		out[i] = r.ProgramNumber()
	}
	return out
}
