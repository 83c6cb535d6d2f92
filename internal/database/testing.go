package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/turf-analytics/internal/config"
)

// TestDSNEnv names the environment variable that enables integration tests
const TestDSNEnv = "TURF_ANALYTICS_TEST_CONFIG"

// SetupTestDB connects to the database described by the config file named in
// TURF_ANALYTICS_TEST_CONFIG and ensures the schema. The test is skipped when
// the variable is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestDSNEnv)
	if path == "" {
		t.Skipf("integration test: set %s to a config file", TestDSNEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	return db
}

// TeardownTestDB truncates the test tables and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.GetPool().Exec(ctx, "TRUNCATE placed_bets, weighting_profiles, runners, races"); err != nil {
		t.Logf("warning: failed to truncate test tables: %v", err)
	}
	db.Close()
}
