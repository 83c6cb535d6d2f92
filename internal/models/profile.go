package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldBand buckets races by number of runners
type FieldBand string

const (
	FieldBandUpTo8  FieldBand = "0-8"
	FieldBand8To10  FieldBand = "8-10"
	FieldBand10To12 FieldBand = "10-12"
	FieldBand12To14 FieldBand = "12-14"
	FieldBand14To16 FieldBand = "14-16"
	FieldBand16Plus FieldBand = "16+"
)

// FieldBands lists every band in ascending order
var FieldBands = []FieldBand{
	FieldBandUpTo8, FieldBand8To10, FieldBand10To12, FieldBand12To14, FieldBand14To16, FieldBand16Plus,
}

// BandFor returns the band a field size falls in. Bounds are lower-exclusive
// except for the first band, so a field of 8 is "0-8" and 9 is "8-10".
func BandFor(fieldSize int) FieldBand {
	switch {
	case fieldSize <= 8:
		return FieldBandUpTo8
	case fieldSize <= 10:
		return FieldBand8To10
	case fieldSize <= 12:
		return FieldBand10To12
	case fieldSize <= 14:
		return FieldBand12To14
	case fieldSize <= 16:
		return FieldBand14To16
	default:
		return FieldBand16Plus
	}
}

// IsValid reports whether the band is one of the known bands
func (b FieldBand) IsValid() bool {
	for _, fb := range FieldBands {
		if fb == b {
			return true
		}
	}
	return false
}

// ProfileSource records how a weighting profile was produced
type ProfileSource string

const (
	ProfileSourceDefault   ProfileSource = "default"
	ProfileSourceConfig    ProfileSource = "config"
	ProfileSourceGenerated ProfileSource = "generated"
	ProfileSourceUser      ProfileSource = "user"
)

// DefaultProfileName is the name of the catch-all profile
const DefaultProfileName = "default"

// WeightingProfile is a named criterion-to-weight mapping with optional
// applicability predicates. Profiles are never mutated once built; a change
// is saved as a new version.
type WeightingProfile struct {
	ID         uuid.UUID
	Name       string
	Version    int
	Venue      string
	Discipline Discipline
	FieldBand  FieldBand
	Source     ProfileSource
	CreatedAt  time.Time
	weights    map[Criterion]float64
}

// NewWeightingProfile builds a profile, copying the weights. Negative weights are dropped.
func NewWeightingProfile(name string, weights map[Criterion]float64) *WeightingProfile {
	p := &WeightingProfile{
		ID:      uuid.New(),
		Name:    name,
		Version: 1,
		Source:  ProfileSourceUser,
		weights: make(map[Criterion]float64, len(weights)),
	}
	for c, w := range weights {
		if w < 0 {
			continue
		}
		p.weights[c] = w
	}
	return p
}

// WithPredicates returns a copy of the profile restricted to the given venue, discipline and band
func (p *WeightingProfile) WithPredicates(venue string, discipline Discipline, band FieldBand) *WeightingProfile {
	c := p.clone()
	c.Venue = strings.TrimSpace(venue)
	c.Discipline = discipline
	c.FieldBand = band
	return c
}

// WithSource returns a copy of the profile carrying the given source
func (p *WeightingProfile) WithSource(source ProfileSource) *WeightingProfile {
	c := p.clone()
	c.Source = source
	return c
}

// NextVersion returns a copy of the profile with a fresh id and the version after v
func (p *WeightingProfile) NextVersion(v int) *WeightingProfile {
	c := p.clone()
	c.ID = uuid.New()
	c.Version = v + 1
	return c
}

// Weights returns a copy of the criterion weights
func (p *WeightingProfile) Weights() map[Criterion]float64 {
	out := make(map[Criterion]float64, len(p.weights))
	for c, w := range p.weights {
		out[c] = w
	}
	return out
}

// Weight returns the weight of a criterion, zero when the profile does not use it
func (p *WeightingProfile) Weight(c Criterion) float64 {
	return p.weights[c]
}

// Criteria returns the criteria with a positive weight in ascending order
func (p *WeightingProfile) Criteria() []Criterion {
	out := make([]Criterion, 0, len(p.weights))
	for _, c := range SortedCriteria(p.weights) {
		if p.weights[c] > 0 {
			out = append(out, c)
		}
	}
	return out
}

// IsDefault reports whether this is the catch-all profile
func (p *WeightingProfile) IsDefault() bool {
	return p.Name == DefaultProfileName
}

// Matches reports whether every predicate the profile sets holds for the race
func (p *WeightingProfile) Matches(venue string, discipline Discipline, band FieldBand) bool {
	if p.Venue != "" && !strings.Contains(strings.ToLower(venue), strings.ToLower(p.Venue)) {
		return false
	}
	if p.Discipline != "" && !strings.EqualFold(string(p.Discipline), string(discipline)) {
		return false
	}
	if p.FieldBand != "" && p.FieldBand != band {
		return false
	}
	return true
}

// Specificity ranks how narrowly a profile is targeted.
// Venue outranks discipline which outranks field band.
func (p *WeightingProfile) Specificity() int {
	s := 0
	if p.Venue != "" {
		s += 4
	}
	if p.Discipline != "" {
		s += 2
	}
	if p.FieldBand != "" {
		s++
	}
	return s
}

func (p *WeightingProfile) clone() *WeightingProfile {
	c := *p
	c.weights = p.Weights()
	return &c
}
