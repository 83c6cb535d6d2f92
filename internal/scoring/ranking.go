package scoring

import (
	"sort"

	"github.com/yourusername/turf-analytics/internal/models"
)

// Rank orders runners by score, then confidence, then program number, and
// assigns ranks 1..N. The input slice is not modified.
func Rank(runners []models.ScoredRunner) []models.ScoredRunner {
	ranked := make([]models.ScoredRunner, len(runners))
	copy(ranked, runners)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.ProgramNumber() < b.ProgramNumber()
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
