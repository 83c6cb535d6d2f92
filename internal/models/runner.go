package models

import (
	"github.com/google/uuid"
)

// RunnerAttributes is one horse entered in a race together with its raw criterion values.
// A criterion absent from Values is missing data, never an implicit zero.
type RunnerAttributes struct {
	RaceID         uuid.UUID             `db:"race_id" json:"race_id" validate:"required"`
	ProgramNumber  int                   `db:"program_number" json:"program_number" validate:"required,gt=0,lte=30"`
	Name           string                `db:"name" json:"name" validate:"required"`
	Driver         string                `db:"driver" json:"driver"`
	Values         map[Criterion]float64 `db:"criteria" json:"criteria"`
	FinishPosition *int                  `db:"finish_position" json:"finish_position,omitempty"`
}

// Value returns the raw value for a criterion and whether it is present
func (r *RunnerAttributes) Value(c Criterion) (float64, bool) {
	if r.Values == nil {
		return 0, false
	}
	v, ok := r.Values[c]
	return v, ok
}

// HasValue reports whether the runner carries a value for the criterion
func (r *RunnerAttributes) HasValue(c Criterion) bool {
	_, ok := r.Value(c)
	return ok
}

// Placed reports whether the runner finished in the first three
func (r *RunnerAttributes) Placed() bool {
	return r.FinishPosition != nil && *r.FinishPosition >= 1 && *r.FinishPosition <= 3
}

// Clone returns a deep copy of the runner
func (r *RunnerAttributes) Clone() *RunnerAttributes {
	c := *r
	if r.Values != nil {
		c.Values = make(map[Criterion]float64, len(r.Values))
		for k, v := range r.Values {
			c.Values[k] = v
		}
	}
	if r.FinishPosition != nil {
		pos := *r.FinishPosition
		c.FinishPosition = &pos
	}
	return &c
}
