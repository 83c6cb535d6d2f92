// Package config provides configuration management for the turf-analytics application.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath            = "testdata/valid_config.yaml"
	expansionConfigPath        = "testdata/expansion_config.yaml"
	expansionConfigMissingPath = "testdata/expansion_config_missing.yaml"
	unsortedBandsConfigPath    = "testdata/unsorted_bands_config.yaml"
	nonexistentConfigPath      = "testdata/nonexistent_config.yaml"
	turfAnalyticsName          = "turf-analytics"
	developmentEnv             = "development"
	invalidEnv                 = "invalid"
	localhostHost              = "localhost"
	postgresPort               = 5432
	postgresPrefix             = "postgres://"
	testAppName                = "test-app"
	testDBPassword             = "TEST_DB_PASSWORD"
	testMissingVar             = "TEST_MISSING_VAR"
	expandedSecretValue        = "expanded_secret_value"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	assert.Equal(t, turfAnalyticsName, cfg.App.Name)
	assert.Equal(t, developmentEnv, cfg.App.Environment)
	assert.Equal(t, localhostHost, cfg.Database.Host)
	assert.Equal(t, postgresPort, cfg.Database.Port)
	assert.Equal(t, 200.0, cfg.Scoring.Confidence.DispersionPenalty)
	assert.Equal(t, 30.0, cfg.Scoring.DefaultWeights["ai_win"])
	assert.Equal(t, "sweet_spot", cfg.Scoring.Normalizer.Policies["odds_pmu"])
	require.Len(t, cfg.Recommendation.Bands, 5)
	assert.Equal(t, 70.0, cfg.Recommendation.Bands[0].MinConfidence)
	assert.Equal(t, 5, cfg.Recommendation.Bands[4].Complements)
	assert.Equal(t, []string{"A", "M"}, cfg.Ingestion.Sources[0].Disciplines)
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	assert.Error(t, err)
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("TURF_ANALYTICS_APP_NAME", testAppName)

	cfg := loadValid(t)
	assert.Equal(t, testAppName, cfg.App.Name)
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	assert.Equal(t, expandedSecretValue, cfg.Database.Password)
}

// TestLoadConfigMissingEnvironmentVariable tests that an unset variable expands to empty and fails validation
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.Password)
	assert.Error(t, Validate(cfg))
}

// TestLoadWithDefaultsMissingFile falls back to built-in defaults
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	t.Setenv("TURF_ANALYTICS_DATABASE_PASSWORD", "from-env")

	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, turfAnalyticsName, cfg.App.Name)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 3.0, cfg.Scoring.Normalizer.OddsBandLow)
	assert.Equal(t, 20.0, cfg.Recommendation.HardFloor)
	assert.Equal(t, 10, cfg.Profiles.MinHistoryRaces)
	require.Len(t, cfg.Recommendation.Bands, 5)
	assert.Equal(t, 2, cfg.Recommendation.Bands[0].Bases)
	assert.NoError(t, Validate(cfg))
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	assert.NoError(t, Validate(loadValid(t)))
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = invalidEnv

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Environment")
}

func TestValidateInvalidDiscipline(t *testing.T) {
	cfg := loadValid(t)
	cfg.Ingestion.Sources[0].Disciplines = []string{"A", "X"}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discipline code")
}

func TestValidateInvalidCron(t *testing.T) {
	cfg := loadValid(t)
	cfg.Ingestion.Schedule = "every morning"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron")
}

func TestValidateUnsortedBands(t *testing.T) {
	cfg, err := Load(unsortedBandsConfigPath)
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly decreasing")
}

func TestValidateUnknownPolicy(t *testing.T) {
	cfg := loadValid(t)
	cfg.Scoring.Normalizer.Policies["draw"] = "random"

	assert.Error(t, Validate(cfg))
}

func TestValidateHTTPSourceRequiresURL(t *testing.T) {
	cfg := loadValid(t)
	cfg.Ingestion.Sources[1].URL = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a url")
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"

	assert.Error(t, Validate(cfg))

	cfg.Database.SSLMode = "require"
	assert.NoError(t, Validate(cfg))
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	dsn := loadValid(t).GetDatabaseDSN()
	assert.Contains(t, dsn, postgresPrefix)
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestEnvironmentChecks(t *testing.T) {
	dev := &Config{App: AppConfig{Environment: developmentEnv}}
	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())

	staging := &Config{App: AppConfig{Environment: "staging"}}
	assert.True(t, staging.IsStaging())

	prod := &Config{App: AppConfig{Environment: "production"}}
	assert.True(t, prod.IsProduction())
}

func TestEnabledSources(t *testing.T) {
	sources := loadValid(t).EnabledSources()
	require.Len(t, sources, 1)
	assert.Equal(t, "local_export", sources[0].Name)
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg := loadValid(t)
	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword: "vault-password",
		SourceAPIKeys:    map[string]string{"remote_export": "key-123"},
	})

	assert.Equal(t, "vault-password", cfg.Database.Password)
	assert.Equal(t, "key-123", cfg.Ingestion.Sources[1].APIKey)
	assert.Empty(t, cfg.Ingestion.Sources[0].APIKey)
}
