package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/models"
)

// DataValidator validates imported races and their fields before they are stored
type DataValidator struct {
	validate *validator.Validate
	logger   *logrus.Entry
	now      func() time.Time
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Entry) *DataValidator {
	return &DataValidator{
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// ValidateRace validates race data for required fields and constraints.
// The id is assigned on storage and is not checked.
func (v *DataValidator) ValidateRace(race *models.Race) []string {
	if race == nil {
		return []string{"race is nil"}
	}

	var errs []string
	errs = append(errs, v.structErrors(race, "ID")...)

	if race.ScheduledStart.IsZero() {
		errs = append(errs, "scheduled_start is required")
	}

	if !race.Date.IsZero() && race.Date.After(v.now().AddDate(1, 0, 0)) {
		errs = append(errs, "race scheduled more than 1 year in future")
	}

	return errs
}

// ValidateRunner validates one runner for required fields and finite criterion values
func (v *DataValidator) ValidateRunner(runner *models.RunnerAttributes) []string {
	if runner == nil {
		return []string{"runner is nil"}
	}

	errs := v.structErrors(runner, "RaceID")
	for _, c := range models.SortedCriteria(runner.Values) {
		value := runner.Values[c]
		if math.IsNaN(value) || math.IsInf(value, 0) {
			errs = append(errs, fmt.Sprintf("runner %d: criterion %s is not a finite number", runner.ProgramNumber, c))
		}
	}
	if runner.FinishPosition != nil && *runner.FinishPosition < 0 {
		errs = append(errs, fmt.Sprintf("runner %d: finish position cannot be negative", runner.ProgramNumber))
	}

	return errs
}

// ValidateField validates the runners of a race as a whole
func (v *DataValidator) ValidateField(race *models.Race, runners []*models.RunnerAttributes) []string {
	if len(runners) == 0 {
		return []string{"race has no runners"}
	}

	var errs []string
	seen := make(map[int]bool, len(runners))
	for _, runner := range runners {
		errs = append(errs, v.ValidateRunner(runner)...)
		if runner == nil {
			continue
		}
		if seen[runner.ProgramNumber] {
			errs = append(errs, fmt.Sprintf("duplicate program number %d", runner.ProgramNumber))
		}
		seen[runner.ProgramNumber] = true
	}

	if len(errs) > 0 && v.logger != nil && race != nil {
		v.logger.WithFields(logrus.Fields{
			"race_ref": race.Reference(),
			"errors":   len(errs),
		}).Debug("Field validation failed")
	}

	return errs
}

func (v *DataValidator) structErrors(s interface{}, except ...string) []string {
	err := v.validate.StructExcept(s, except...)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			out = append(out, fmt.Sprintf("%s has invalid value '%v'", fe.Field(), fe.Value()))
		default:
			out = append(out, fmt.Sprintf("%s failed validation: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return out
}
