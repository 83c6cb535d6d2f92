package profile

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/repository"
	"gopkg.in/yaml.v3"
)

// Catalog is the YAML file of hand-tuned weighting profiles
type Catalog struct {
	Profiles []CatalogEntry `yaml:"profiles" validate:"dive"`
}

// CatalogEntry describes one profile of the catalogue
type CatalogEntry struct {
	Name       string             `yaml:"name" validate:"required"`
	Venue      string             `yaml:"venue"`
	Discipline string             `yaml:"discipline" validate:"omitempty,oneof=A M P H"`
	FieldBand  string             `yaml:"field_band" validate:"omitempty,oneof=0-8 8-10 10-12 12-14 14-16 16+"`
	Weights    map[string]float64 `yaml:"weights" validate:"required,min=1,dive,keys,required,endkeys,gte=0"`
}

// Profile converts the entry into a weighting profile with source "config"
func (e CatalogEntry) Profile() *models.WeightingProfile {
	weights := make(map[models.Criterion]float64, len(e.Weights))
	for name, w := range e.Weights {
		weights[models.Criterion(name)] = w
	}
	return models.NewWeightingProfile(e.Name, weights).
		WithPredicates(e.Venue, models.ParseDiscipline(e.Discipline), models.FieldBand(e.FieldBand)).
		WithSource(models.ProfileSourceConfig)
}

// LoadCatalog reads and validates a profile catalogue
func LoadCatalog(path string) ([]*models.WeightingProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile catalogue: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalogue YAML
func ParseCatalog(data []byte) ([]*models.WeightingProfile, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse profile catalogue: %w", err)
	}

	if err := validator.New().Struct(catalog); err != nil {
		return nil, fmt.Errorf("invalid profile catalogue: %w", err)
	}

	seen := make(map[string]bool, len(catalog.Profiles))
	profiles := make([]*models.WeightingProfile, 0, len(catalog.Profiles))
	for _, entry := range catalog.Profiles {
		if seen[entry.Name] {
			return nil, fmt.Errorf("invalid profile catalogue: duplicate profile %q", entry.Name)
		}
		seen[entry.Name] = true
		profiles = append(profiles, entry.Profile())
	}
	return profiles, nil
}

// SeedCatalog saves every catalogue profile whose weights or predicates differ
// from the latest stored version. It returns the number of versions written.
func SeedCatalog(ctx context.Context, store repository.WeightingProfileRepository, profiles []*models.WeightingProfile, log *logrus.Entry) (int, error) {
	written := 0
	for _, p := range profiles {
		latest, err := store.GetLatest(ctx, p.Name)
		if err == nil && sameDefinition(latest, p) {
			continue
		}

		saved, err := store.Save(ctx, p)
		if err != nil {
			return written, fmt.Errorf("failed to seed profile %s: %w", p.Name, err)
		}
		written++
		log.WithFields(logrus.Fields{
			"profile_name":    saved.Name,
			"profile_version": saved.Version,
		}).Info("Seeded weighting profile")
	}
	return written, nil
}

func sameDefinition(a, b *models.WeightingProfile) bool {
	if a.Venue != b.Venue || a.Discipline != b.Discipline || a.FieldBand != b.FieldBand {
		return false
	}
	wa, wb := a.Weights(), b.Weights()
	if len(wa) != len(wb) {
		return false
	}
	for c, w := range wa {
		if other, ok := wb[c]; !ok || other != w {
			return false
		}
	}
	return true
}
