package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Discipline is the race discipline code used by the export files
type Discipline string

const (
	DisciplineTrotAttele Discipline = "A"
	DisciplineTrotMonte  Discipline = "M"
	DisciplineFlat       Discipline = "P"
	DisciplineJump       Discipline = "H"
)

// ParseDiscipline normalizes a discipline code, returning an empty discipline when unknown
func ParseDiscipline(code string) Discipline {
	switch d := Discipline(strings.ToUpper(strings.TrimSpace(code))); d {
	case DisciplineTrotAttele, DisciplineTrotMonte, DisciplineFlat, DisciplineJump:
		return d
	default:
		return ""
	}
}

// RaceStatus represents the lifecycle state of a race
type RaceStatus string

const (
	RaceStatusScheduled RaceStatus = "scheduled"
	RaceStatusFinished  RaceStatus = "finished"
	RaceStatusCancelled RaceStatus = "cancelled"
)

// Race represents a race on a given day at a venue
type Race struct {
	ID             uuid.UUID  `db:"id" json:"id" validate:"required"`
	Date           time.Time  `db:"race_date" json:"date" validate:"required"`
	Code           string     `db:"code" json:"code" validate:"required,max=16"`
	Venue          string     `db:"venue" json:"venue" validate:"required"`
	Discipline     Discipline `db:"discipline" json:"discipline" validate:"omitempty,oneof=A M P H"`
	ScheduledStart time.Time  `db:"scheduled_start" json:"scheduled_start"`
	FieldSize      int        `db:"field_size" json:"field_size" validate:"gte=0"`
	Status         RaceStatus `db:"status" json:"status" validate:"required,oneof=scheduled finished cancelled"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Reference returns a human readable race reference such as "2026-10-19 VINCENNES R1C4"
func (r *Race) Reference() string {
	return fmt.Sprintf("%s %s %s", r.Date.Format("2006-01-02"), strings.ToUpper(r.Venue), r.Code)
}

// IsFinished checks if the race result is known
func (r *Race) IsFinished() bool {
	return r.Status == RaceStatusFinished
}

// HistoricalRace is a finished race with its runners, used to fit weighting profiles
type HistoricalRace struct {
	Race    *Race
	Runners []*RunnerAttributes
}
