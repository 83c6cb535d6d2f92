// Package config provides configuration management for the turf-analytics application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "TURF_ANALYTICS"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()

	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables are used instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers the engine defaults. Keys must be registered for
// AutomaticEnv to override values that are absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "turf-analytics")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "turf")
	v.SetDefault("database.user", "turf")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("scoring.normalizer.odds_band_low", 3.0)
	v.SetDefault("scoring.normalizer.odds_band_high", 15.0)
	v.SetDefault("scoring.normalizer.in_band_score", 1.0)
	v.SetDefault("scoring.normalizer.below_band_fraction", 0.7)
	v.SetDefault("scoring.normalizer.above_band_fraction", 0.5)
	v.SetDefault("scoring.normalizer.elo_floor", 1200.0)
	v.SetDefault("scoring.normalizer.elo_ceiling", 1800.0)
	v.SetDefault("scoring.normalizer.earnings_ceiling", 100000.0)
	v.SetDefault("scoring.normalizer.turf_points_ceiling", 2000.0)
	v.SetDefault("scoring.normalizer.borda_ceiling", 300.0)
	v.SetDefault("scoring.normalizer.rest_days_acceptable_low", 7.0)
	v.SetDefault("scoring.normalizer.rest_days_optimal_low", 14.0)
	v.SetDefault("scoring.normalizer.rest_days_optimal_high", 28.0)
	v.SetDefault("scoring.normalizer.rest_days_acceptable_high", 42.0)

	v.SetDefault("scoring.confidence.dispersion_penalty", 200.0)
	v.SetDefault("scoring.confidence.floor", 20.0)
	v.SetDefault("scoring.confidence.ceiling", 100.0)
	v.SetDefault("scoring.confidence.neutral", 50.0)

	v.SetDefault("scoring.default_weights", map[string]float64{
		"ai_win":     30,
		"ai_pair":    15,
		"ai_trio":    10,
		"odds_bzh":   20,
		"elo_horse":  15,
		"elo_jockey": 10,
	})

	v.SetDefault("recommendation.hard_floor", 20.0)
	v.SetDefault("recommendation.bands", []map[string]interface{}{
		{"min_confidence": 70.0, "bases": 2, "complements": 2},
		{"min_confidence": 60.0, "bases": 2, "complements": 3},
		{"min_confidence": 50.0, "bases": 3, "complements": 3},
		{"min_confidence": 40.0, "bases": 3, "complements": 4},
		{"min_confidence": 0.0, "bases": 3, "complements": 5},
	})
	v.SetDefault("recommendation.unit_stake", 1.0)
	v.SetDefault("recommendation.block_unit_stake", 0.5)
	v.SetDefault("recommendation.block_size", 6)
	v.SetDefault("recommendation.single_tier1", 50.0)
	v.SetDefault("recommendation.pair_tier1", 55.0)
	v.SetDefault("recommendation.triple_tier1", 50.0)
	v.SetDefault("recommendation.max_pair_bases", 3)
	v.SetDefault("recommendation.max_pair_complements", 3)
	v.SetDefault("recommendation.max_triple_bases", 3)
	v.SetDefault("recommendation.max_triple_complements", 4)

	v.SetDefault("profiles.catalog_path", "config/profiles.yaml")
	v.SetDefault("profiles.auto_generate", true)
	v.SetDefault("profiles.min_history_races", 10)
	v.SetDefault("profiles.history_days", 365)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", 900)
	v.SetDefault("cache.cleanup_interval_seconds", 600)

	v.SetDefault("ingestion.schedule", "0 7 * * *")
	v.SetDefault("ingestion.timezone", "Europe/Paris")
	v.SetDefault("ingestion.sources", []map[string]interface{}{
		{"name": "local_export", "type": "file", "enabled": true, "path": "data/exports"},
	})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
