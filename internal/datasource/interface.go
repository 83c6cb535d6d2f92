package datasource

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yourusername/turf-analytics/internal/models"
)

// Source fetches the daily export of race fields
type Source interface {
	// Fetch retrieves every race of the meeting day
	Fetch(ctx context.Context, date time.Time) (*Export, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// Export is the parsed content of one daily export
type Export struct {
	Races []RaceData
	// Rejected counts rows that could not be attached to a race
	Rejected int
}

// RaceData is one race of an export with its field
type RaceData struct {
	Date           time.Time
	Code           string
	Venue          string
	Discipline     models.Discipline
	ScheduledStart time.Time
	DeclaredField  int
	Runners        []RunnerData
}

// RunnerData is one runner line of an export
type RunnerData struct {
	ProgramNumber  int
	Name           string
	Driver         string
	Values         map[models.Criterion]float64
	FinishPosition *int
}

// HasResult reports whether the export carries finishing positions for the race
func (r RaceData) HasResult() bool {
	for _, runner := range r.Runners {
		if runner.FinishPosition != nil {
			return true
		}
	}
	return false
}

// ToModels converts the race into its stored representation
func (r RaceData) ToModels() (*models.Race, []*models.RunnerAttributes) {
	fieldSize := r.DeclaredField
	if fieldSize == 0 {
		fieldSize = len(r.Runners)
	}
	status := models.RaceStatusScheduled
	if r.HasResult() {
		status = models.RaceStatusFinished
	}

	race := &models.Race{
		Date:           r.Date,
		Code:           r.Code,
		Venue:          strings.ToUpper(r.Venue),
		Discipline:     r.Discipline,
		ScheduledStart: r.ScheduledStart,
		FieldSize:      fieldSize,
		Status:         status,
	}

	runners := make([]*models.RunnerAttributes, 0, len(r.Runners))
	for _, rd := range r.Runners {
		values := make(map[models.Criterion]float64, len(rd.Values))
		for c, v := range rd.Values {
			values[c] = v
		}
		runner := &models.RunnerAttributes{
			ProgramNumber: rd.ProgramNumber,
			Name:          rd.Name,
			Driver:        rd.Driver,
			Values:        values,
		}
		if rd.FinishPosition != nil {
			pos := *rd.FinishPosition
			runner.FinishPosition = &pos
		}
		runners = append(runners, runner)
	}
	return race, runners
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("export not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
