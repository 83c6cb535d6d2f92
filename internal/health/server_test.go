package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct{ err error }

func (f fakeDB) Ping(context.Context) error { return f.err }

type fakeJobs struct {
	running bool
	next    time.Time
}

func (f fakeJobs) IsRunning() bool      { return f.running }
func (f fakeJobs) GetNextRun() time.Time { return f.next }

func newTestServer(cfg Config) *Server {
	l := logrus.New()
	l.SetOutput(io.Discard)
	cfg.ServiceName = "turf-analytics"
	cfg.Logger = l
	return NewServer(cfg)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(Config{Version: "1.2.0"})
	rec := get(t, s.Handler(), "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.0", body.Version)
}

func TestReadyEndpoint(t *testing.T) {
	next := time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		ready      bool
		db         DatabasePinger
		jobs       JobStatus
		wantStatus int
		wantCheck  map[string]string
	}{
		{
			name:       "all healthy",
			ready:      true,
			db:         fakeDB{},
			jobs:       fakeJobs{running: true, next: next},
			wantStatus: http.StatusOK,
			wantCheck:  map[string]string{"service": "ok", "database": "ok", "scheduler": "ok"},
		},
		{
			name:       "not marked ready",
			ready:      false,
			wantStatus: http.StatusServiceUnavailable,
			wantCheck:  map[string]string{"service": "not_ready"},
		},
		{
			name:       "database down",
			ready:      true,
			db:         fakeDB{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantCheck:  map[string]string{"service": "ok", "database": "error: connection refused"},
		},
		{
			name:       "scheduler stopped",
			ready:      true,
			jobs:       fakeJobs{},
			wantStatus: http.StatusServiceUnavailable,
			wantCheck:  map[string]string{"service": "ok", "scheduler": "stopped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Config{DB: tt.db, Jobs: tt.jobs})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCheck, body.Checks)
		})
	}
}

func TestReadyReportsNextRun(t *testing.T) {
	next := time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)
	s := newTestServer(Config{Jobs: fakeJobs{running: true, next: next}})
	s.SetReady(true)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(get(t, s.Handler(), "/ready").Body.Bytes(), &body))
	assert.Equal(t, "2026-10-20T09:30:00Z", body.NextRun)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("turf_races_scored_total 3\n"))
	})

	s := newTestServer(Config{Metrics: metrics, MetricsPath: "/prom"})
	rec := get(t, s.Handler(), "/prom")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "turf_races_scored_total")

	without := newTestServer(Config{})
	assert.Equal(t, http.StatusNotFound, get(t, without.Handler(), "/metrics").Code)
}
