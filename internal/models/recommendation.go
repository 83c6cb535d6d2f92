package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BetType is a kind of betting ticket
type BetType string

const (
	BetTypeSingleWin   BetType = "single_win"
	BetTypeSinglePlace BetType = "single_place"
	BetTypePairWin     BetType = "pair_win"
	BetTypePairPlace   BetType = "pair_place"
	BetTypeTriple      BetType = "triple"
	BetTypeBlockPair   BetType = "block_pair"
)

// BetTypes lists the catalogue in display order
var BetTypes = []BetType{
	BetTypeSingleWin, BetTypeSinglePlace, BetTypePairWin, BetTypePairPlace, BetTypeTriple, BetTypeBlockPair,
}

// IsValid reports whether the bet type is part of the catalogue
func (t BetType) IsValid() bool {
	return t.order() >= 0
}

func (t BetType) order() int {
	for i, bt := range BetTypes {
		if bt == t {
			return i
		}
	}
	return -1
}

// InsufficientConfidenceReason is the reason attached to an empty recommendation set
const InsufficientConfidenceReason = "insufficient_confidence"

// BetRecommendation is one suggested ticket with its cost
type BetRecommendation struct {
	Type         BetType         `json:"type"`
	Bases        []int           `json:"bases"`
	Complements  []int           `json:"complements"`
	Combinations int             `json:"combinations"`
	UnitStake    decimal.Decimal `json:"unit_stake"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Tier         int             `json:"tier"`
	Formula      string          `json:"formula"`
	Confidence   float64         `json:"confidence"`
}

// Selection returns bases followed by complements
func (r BetRecommendation) Selection() []int {
	out := make([]int, 0, len(r.Bases)+len(r.Complements))
	out = append(out, r.Bases...)
	return append(out, r.Complements...)
}

// RecommendationSet is the output of one build
type RecommendationSet struct {
	Recommendations []BetRecommendation `json:"recommendations"`
	Reason          string              `json:"reason,omitempty"`
	Confidence      float64             `json:"confidence"`
	Bases           int                 `json:"bases"`
	Complements     int                 `json:"complements"`
}

// Err returns ErrInsufficientConfidence when the set was withheld
func (s *RecommendationSet) Err() error {
	if s.Reason == InsufficientConfidenceReason {
		return ErrInsufficientConfidence
	}
	return nil
}

// Empty reports whether the set contains no recommendation
func (s *RecommendationSet) Empty() bool {
	return len(s.Recommendations) == 0
}

// Find returns the recommendation of the given type
func (s *RecommendationSet) Find(t BetType) (BetRecommendation, bool) {
	for _, r := range s.Recommendations {
		if r.Type == t {
			return r, true
		}
	}
	return BetRecommendation{}, false
}

// TotalCost sums the cost of every recommendation
func (s *RecommendationSet) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Recommendations {
		total = total.Add(r.TotalCost)
	}
	return total
}

// ByPriority returns the recommendations ordered by tier, then catalogue order
func (s *RecommendationSet) ByPriority() []BetRecommendation {
	out := make([]BetRecommendation, len(s.Recommendations))
	copy(out, s.Recommendations)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].Type.order() < out[j].Type.order()
	})
	return out
}
