// Package profile resolves, stores and generates weighting profiles.
package profile

import (
	"strings"

	"github.com/yourusername/turf-analytics/internal/models"
)

// ProfileKey builds the name of a generated profile such as "vincennes_A_10-12"
func ProfileKey(venue string, discipline models.Discipline, band models.FieldBand) string {
	v := strings.ToLower(strings.Join(strings.Fields(venue), "-"))
	if v == "" {
		v = "any"
	}
	d := string(discipline)
	if d == "" {
		d = "any"
	}
	b := string(band)
	if b == "" {
		b = "any"
	}
	return v + "_" + d + "_" + b
}
