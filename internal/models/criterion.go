package models

import (
	"sort"
	"strings"
)

// Criterion names a per-runner attribute used for scoring
type Criterion string

const (
	CriterionBordaScore Criterion = "borda_score"
	CriterionEloHorse   Criterion = "elo_horse"
	CriterionEloJockey  Criterion = "elo_jockey"
	CriterionEloTrainer Criterion = "elo_trainer"
	CriterionEloOwner   Criterion = "elo_owner"
	CriterionEloBreeder Criterion = "elo_breeder"
	CriterionAIWin      Criterion = "ai_win"
	CriterionAIPair     Criterion = "ai_pair"
	CriterionAITrio     Criterion = "ai_trio"
	CriterionAIMulti    Criterion = "ai_multi"
	CriterionAIQuinte   Criterion = "ai_quinte"
	CriterionWinRate    Criterion = "win_rate"
	CriterionPlaceRate  Criterion = "place_rate"
	CriterionTurfPoints Criterion = "turf_points"
	CriterionEarnings   Criterion = "earnings"
	CriterionOddsPMU    Criterion = "odds_pmu"
	CriterionOddsBZH    Criterion = "odds_bzh"
	CriterionPopularity Criterion = "popularity"
	CriterionDraw       Criterion = "draw"
	CriterionRestDays   Criterion = "rest_days"
	CriterionRecentForm Criterion = "recent_form"
)

// BordaSystemPrefix marks criteria that carry a named weighted-rank system score
const BordaSystemPrefix = "borda:"

// BuiltinCriteria lists the criteria known to the ingestion layer
var BuiltinCriteria = []Criterion{
	CriterionBordaScore,
	CriterionEloHorse, CriterionEloJockey, CriterionEloTrainer, CriterionEloOwner, CriterionEloBreeder,
	CriterionAIWin, CriterionAIPair, CriterionAITrio, CriterionAIMulti, CriterionAIQuinte,
	CriterionWinRate, CriterionPlaceRate, CriterionTurfPoints, CriterionEarnings,
	CriterionOddsPMU, CriterionOddsBZH, CriterionPopularity, CriterionDraw,
	CriterionRestDays, CriterionRecentForm,
}

// IsBordaSystem reports whether the criterion is a named weighted-rank system score
func (c Criterion) IsBordaSystem() bool {
	return strings.HasPrefix(string(c), BordaSystemPrefix)
}

// BordaSystem returns the criterion for a named weighted-rank system
func BordaSystem(name string) Criterion {
	return Criterion(BordaSystemPrefix + strings.ToLower(strings.TrimSpace(name)))
}

// IsBuiltin reports whether the criterion is one of the built-in criteria
func (c Criterion) IsBuiltin() bool {
	for _, b := range BuiltinCriteria {
		if b == c {
			return true
		}
	}
	return false
}

// SortedCriteria returns the keys of a criterion map in ascending order.
// Iterating in this order keeps floating point sums reproducible.
func SortedCriteria[V any](m map[Criterion]V) []Criterion {
	keys := make([]Criterion, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
