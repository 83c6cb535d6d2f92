package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/datasource"
	"github.com/yourusername/turf-analytics/internal/models"
)

// DataNormalizer converts export races into stored models with canonical names
type DataNormalizer struct {
	venueNameMap map[string]string // Maps export venue spellings to canonical names
	logger       *logrus.Entry
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *logrus.Entry) *DataNormalizer {
	return &DataNormalizer{
		venueNameMap: buildVenueNameMap(),
		logger:       logger,
	}
}

// NormalizeRace converts an export race into a race and its field.
// Non-finite criterion values are dropped and so count as missing data.
func (n *DataNormalizer) NormalizeRace(sourceRace datasource.RaceData) (*models.Race, []*models.RunnerAttributes) {
	race, runners := sourceRace.ToModels()
	race.Venue = n.normalizeVenue(race.Venue)
	race.Code = strings.ToUpper(strings.TrimSpace(race.Code))
	race.ScheduledStart = race.ScheduledStart.UTC()

	dropped := 0
	for _, runner := range runners {
		runner.Name = sanitizeName(runner.Name)
		if runner.Name == "" {
			runner.Name = fmt.Sprintf("N%d", runner.ProgramNumber)
		}
		runner.Driver = sanitizeName(runner.Driver)

		for c, v := range runner.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				delete(runner.Values, c)
				dropped++
			}
		}
	}

	if dropped > 0 && n.logger != nil {
		n.logger.WithFields(logrus.Fields{
			"race_ref": race.Reference(),
			"dropped":  dropped,
		}).Debug("Dropped non-finite criterion values")
	}

	return race, runners
}

// normalizeVenue converts export venue spellings to canonical upper-case names
func (n *DataNormalizer) normalizeVenue(venue string) string {
	upper := strings.Join(strings.Fields(strings.ToUpper(venue)), " ")
	if upper == "" {
		return ""
	}
	if canonical, ok := n.venueNameMap[upper]; ok {
		return canonical
	}
	return upper
}

// sanitizeName collapses whitespace and upper-cases names as the exports print them
func sanitizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

// buildVenueNameMap creates mapping of venue spellings to canonical names
func buildVenueNameMap() map[string]string {
	return map[string]string{
		"PARIS-VINCENNES":  "VINCENNES",
		"PARIS VINCENNES":  "VINCENNES",
		"PARISLONGCHAMP":   "LONGCHAMP",
		"PARIS-LONGCHAMP":  "LONGCHAMP",
		"PARIS LONGCHAMP":  "LONGCHAMP",
		"CAGNES SUR MER":   "CAGNES-SUR-MER",
		"CAGNES/MER":       "CAGNES-SUR-MER",
		"MAISONS LAFFITTE": "MAISONS-LAFFITTE",
		"SAINT CLOUD":      "SAINT-CLOUD",
		"ST CLOUD":         "SAINT-CLOUD",
		"ST-CLOUD":         "SAINT-CLOUD",
		"ENGHIEN SOISY":    "ENGHIEN",
		"ENGHIEN-SOISY":    "ENGHIEN",
		"LYON PARILLY":     "LYON-PARILLY",
	}
}
