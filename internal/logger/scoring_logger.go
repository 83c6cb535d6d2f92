// Package logger provides scoring-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ScoringLogger provides dedicated logging for scoring and recommendation runs.
type ScoringLogger struct {
	*logrus.Entry
}

// NewScoringLogger creates a new scoring logger.
func NewScoringLogger(baseLogger *logrus.Logger) *ScoringLogger {
	return &ScoringLogger{
		Entry: baseLogger.WithField("component", "scoring"),
	}
}

// LogProfileResolved logs which weighting profile was picked for a race.
func (sl *ScoringLogger) LogProfileResolved(raceRef, venue, discipline, band, profileName string, version int, source string) {
	sl.WithFields(logrus.Fields{
		"race":            raceRef,
		"venue":           venue,
		"discipline":      discipline,
		"field_band":      band,
		"profile_name":    profileName,
		"profile_version": version,
		"profile_source":  source,
	}).Debug("Weighting profile resolved")
}

// LogRaceScored logs a completed scoring run.
func (sl *ScoringLogger) LogRaceScored(raceRef, profileName string, runners int, fieldConfidence, topScore float64, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"race":             raceRef,
		"profile_name":     profileName,
		"runners":          runners,
		"field_confidence": fieldConfidence,
		"top_score":        topScore,
		"duration_ms":      durationMs,
	}).Info("Race scored")
}

// LogRecommendations logs the outcome of a recommendation build.
func (sl *ScoringLogger) LogRecommendations(raceRef string, confidence float64, bases, complements, tickets int, reason string) {
	fields := logrus.Fields{
		"race":        raceRef,
		"confidence":  confidence,
		"bases":       bases,
		"complements": complements,
		"tickets":     tickets,
	}
	if reason != "" {
		fields["reason"] = reason
		sl.WithFields(fields).Warn("Recommendations withheld")
		return
	}
	sl.WithFields(fields).Info("Recommendations built")
}

// LogProfileGenerated logs an automatically fitted weighting profile.
func (sl *ScoringLogger) LogProfileGenerated(profileName string, historyRaces int, weights map[string]float64, fallback bool) {
	sl.WithFields(logrus.Fields{
		"profile_name":  profileName,
		"history_races": historyRaces,
		"weights":       weights,
		"fallback":      fallback,
	}).Info("Weighting profile generated")
}

// LogCacheStats logs scored-field cache statistics.
func (sl *ScoringLogger) LogCacheStats(hits, misses int64, hitRatio float64, items int) {
	sl.WithFields(logrus.Fields{
		"cache_hits":      hits,
		"cache_misses":    misses,
		"cache_hit_ratio": hitRatio,
		"cache_items":     items,
	}).Debug("Scored field cache statistics")
}
