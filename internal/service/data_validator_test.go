package service

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/turf-analytics/internal/datasource"
	"github.com/yourusername/turf-analytics/internal/models"
)

func newTestValidator() *DataValidator {
	v := NewDataValidator(quietLogger().WithField("component", "validator"))
	v.now = func() time.Time { return raceDay }
	return v
}

func containsProblem(problems []string, substr string) bool {
	for _, p := range problems {
		if strings.Contains(p, substr) {
			return true
		}
	}
	return false
}

// TestRaceDataValidation tests race data validation rules using production validator
func TestRaceDataValidation(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name        string
		mutate      func(r *models.Race)
		expectValid bool
		shouldHave  string // error message substring to check
	}{
		{name: "Valid race data", mutate: func(r *models.Race) {}, expectValid: true},
		{name: "Missing id is allowed", mutate: func(r *models.Race) { r.ID = uuid.Nil }, expectValid: true},
		{name: "Missing venue", mutate: func(r *models.Race) { r.Venue = "" }, shouldHave: "Venue is required"},
		{name: "Missing code", mutate: func(r *models.Race) { r.Code = "" }, shouldHave: "Code is required"},
		{name: "Unknown discipline", mutate: func(r *models.Race) { r.Discipline = "X" }, shouldHave: "Discipline has invalid value"},
		{name: "Unknown status", mutate: func(r *models.Race) { r.Status = "postponed" }, shouldHave: "Status has invalid value"},
		{name: "Missing start", mutate: func(r *models.Race) { r.ScheduledStart = time.Time{} }, shouldHave: "scheduled_start is required"},
		{name: "Far future", mutate: func(r *models.Race) { r.Date = r.Date.AddDate(5, 0, 0) }, shouldHave: "more than 1 year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			race := testRace("VINCENNES", "R1C1", 10)
			tt.mutate(race)

			problems := validator.ValidateRace(race)
			if tt.expectValid {
				assert.Empty(t, problems)
				return
			}
			assert.True(t, containsProblem(problems, tt.shouldHave), "expected %q in %v", tt.shouldHave, problems)
		})
	}
}

func TestFieldValidation(t *testing.T) {
	validator := newTestValidator()
	race := testRace("VINCENNES", "R1C1", 10)

	assert.Empty(t, validator.ValidateField(race, testField(race.ID, 10, false)))
	assert.Equal(t, []string{"race has no runners"}, validator.ValidateField(race, nil))

	field := testField(race.ID, 3, false)
	field[1].ProgramNumber = 1
	assert.True(t, containsProblem(validator.ValidateField(race, field), "duplicate program number 1"))

	field = testField(race.ID, 3, false)
	field[2].ProgramNumber = 0
	assert.True(t, containsProblem(validator.ValidateField(race, field), "ProgramNumber is required"))

	field = testField(race.ID, 3, false)
	field[0].Values[models.CriterionAIWin] = math.Inf(1)
	assert.True(t, containsProblem(validator.ValidateField(race, field), "criterion ai_win is not a finite number"))

	field = testField(race.ID, 3, false)
	field[0].Name = ""
	assert.True(t, containsProblem(validator.ValidateField(race, field), "Name is required"))
}

func TestRunnerWithoutRaceIDIsValid(t *testing.T) {
	validator := newTestValidator()
	runner := &models.RunnerAttributes{ProgramNumber: 4, Name: "JAG DE BELLOUET"}
	assert.Empty(t, validator.ValidateRunner(runner))
}

func TestNormalizeRace(t *testing.T) {
	normalizer := NewDataNormalizer(quietLogger().WithField("component", "normalizer"))

	race, runners := normalizer.NormalizeRace(datasource.RaceData{
		Date:       raceDay,
		Code:       " r2c3 ",
		Venue:      "cagnes  sur mer",
		Discipline: models.DisciplineFlat,
		Runners: []datasource.RunnerData{
			{ProgramNumber: 1, Name: "  la  pelosa", Driver: "c. soumillon", Values: map[models.Criterion]float64{
				models.CriterionOddsPMU: 4.5,
				models.CriterionAIWin:   math.NaN(),
			}},
			{ProgramNumber: 7},
		},
	})

	assert.Equal(t, "CAGNES-SUR-MER", race.Venue)
	assert.Equal(t, "R2C3", race.Code)
	assert.Equal(t, 2, race.FieldSize)
	assert.Equal(t, "LA PELOSA", runners[0].Name)
	assert.Equal(t, "C. SOUMILLON", runners[0].Driver)
	assert.True(t, runners[0].HasValue(models.CriterionOddsPMU))
	assert.False(t, runners[0].HasValue(models.CriterionAIWin))
	assert.Equal(t, "N7", runners[1].Name)
}
