package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/turf-analytics/internal/metrics"
)

// IngestionMetrics tracks statistics about one import run
type IngestionMetrics struct {
	mu               sync.RWMutex
	Source           string
	Date             time.Time
	StartTime        time.Time
	Duration         time.Duration
	TotalRaces       int
	SuccessfulRaces  int
	FinishedRaces    int
	TotalRunners     int
	RejectedRows     int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics(source string, date time.Time) *IngestionMetrics {
	return &IngestionMetrics{
		Source:    source,
		Date:      date,
		StartTime: time.Now(),
	}
}

// RecordRace counts a stored race and its runners
func (m *IngestionMetrics) RecordRace(runners int, finished bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulRaces++
	m.TotalRunners += runners
	if finished {
		m.FinishedRaces++
	}
}

// RecordRejectedRows adds rows the export parser could not use
func (m *IngestionMetrics) RecordRejectedRows(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RejectedRows += n
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// Finish stamps the duration and publishes the run to Prometheus
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	m.Duration = time.Since(m.StartTime)
	source, races, rejected, seconds := m.Source, m.SuccessfulRaces, m.RejectedRows+m.ValidationErrors, m.Duration.Seconds()
	m.mu.Unlock()

	metrics.RecordImport(source, races, rejected, seconds)
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalRaces > 0 {
		successRate = float64(m.SuccessfulRaces) / float64(m.TotalRaces) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Source=%s, Date=%s, Total=%d, Successful=%d (%.1f%%), Finished=%d, Runners=%d, RejectedRows=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.Source,
		m.Date.Format("2006-01-02"),
		m.TotalRaces,
		m.SuccessfulRaces,
		successRate,
		m.FinishedRaces,
		m.TotalRunners,
		m.RejectedRows,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
