package models

import (
	"time"

	"github.com/google/uuid"
)

// Classification is a coarse label derived from score and confidence
type Classification string

const (
	ClassificationStrongFavorite Classification = "strong_favorite"
	ClassificationFavorite       Classification = "favorite"
	ClassificationContender      Classification = "contender"
	ClassificationValueOutsider  Classification = "value_outsider"
	ClassificationOutsider       Classification = "outsider"
)

// Classify labels a runner from its score and confidence
func Classify(score, confidence float64) Classification {
	switch {
	case score >= 70 && confidence >= 60:
		return ClassificationStrongFavorite
	case score >= 60:
		return ClassificationFavorite
	case score >= 50:
		return ClassificationContender
	case score >= 40:
		return ClassificationValueOutsider
	default:
		return ClassificationOutsider
	}
}

// Contribution is one criterion's share of a runner's score
type Contribution struct {
	Criterion  Criterion `json:"criterion"`
	Raw        float64   `json:"raw"`
	Normalized float64   `json:"normalized"`
	Weight     float64   `json:"weight"`
}

// Weighted returns the normalized value times its weight
func (c Contribution) Weighted() float64 {
	return c.Normalized * c.Weight
}

// ScoredRunner is a runner together with its aggregate score
type ScoredRunner struct {
	Runner         *RunnerAttributes `json:"runner"`
	Contributions  []Contribution    `json:"contributions"`
	Score          float64           `json:"score"`
	Confidence     float64           `json:"confidence"`
	Rank           int               `json:"rank"`
	Classification Classification    `json:"classification"`
}

// ProgramNumber is a shortcut to the runner's program number
func (s ScoredRunner) ProgramNumber() int {
	if s.Runner == nil {
		return 0
	}
	return s.Runner.ProgramNumber
}

// ScoredField is a fully ranked race
type ScoredField struct {
	RaceID         uuid.UUID      `json:"race_id"`
	RaceRef        string         `json:"race_ref"`
	ProfileName    string         `json:"profile_name"`
	ProfileVersion int            `json:"profile_version"`
	Runners        []ScoredRunner `json:"runners"`
	Confidence     float64        `json:"confidence"`
	ScoredAt       time.Time      `json:"scored_at"`
}

// Top returns up to n leading runners
func (f *ScoredField) Top(n int) []ScoredRunner {
	if n > len(f.Runners) {
		n = len(f.Runners)
	}
	if n < 0 {
		n = 0
	}
	return f.Runners[:n]
}

// ProgramNumbers returns the program numbers in ranked order
func (f *ScoredField) ProgramNumbers() []int {
	out := make([]int, len(f.Runners))
	for i, r := range f.Runners {
		out[i] = r.ProgramNumber()
	}
	return out
}
