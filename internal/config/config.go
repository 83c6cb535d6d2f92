// Package config provides configuration management for the turf-analytics application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App            AppConfig            `mapstructure:"app" validate:"required"`
	Database       DatabaseConfig       `mapstructure:"database" validate:"required"`
	Scoring        ScoringConfig        `mapstructure:"scoring" validate:"required"`
	Recommendation RecommendationConfig `mapstructure:"recommendation" validate:"required"`
	Profiles       ProfilesConfig       `mapstructure:"profiles" validate:"required"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Ingestion      IngestionConfig      `mapstructure:"ingestion" validate:"required"`
	Metrics        MetricsConfig        `mapstructure:"metrics" validate:"required"`
	Secrets        SecretsConfig        `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ScoringConfig holds the normalizer constants, confidence parameters and default weights
type ScoringConfig struct {
	Normalizer     NormalizerConfig   `mapstructure:"normalizer" validate:"required"`
	Confidence     ConfidenceConfig   `mapstructure:"confidence" validate:"required"`
	DefaultWeights map[string]float64 `mapstructure:"default_weights" validate:"required,min=1,dive,gte=0"`
}

// NormalizerConfig holds the per-policy constants of the criteria normalizer
type NormalizerConfig struct {
	OddsBandLow         float64           `mapstructure:"odds_band_low" validate:"required,gt=1"`
	OddsBandHigh        float64           `mapstructure:"odds_band_high" validate:"required,gtfield=OddsBandLow"`
	InBandScore         float64           `mapstructure:"in_band_score" validate:"required,gt=0,lte=1"`
	BelowBandFraction   float64           `mapstructure:"below_band_fraction" validate:"gte=0,lte=1"`
	AboveBandFraction   float64           `mapstructure:"above_band_fraction" validate:"gte=0,lte=1"`
	EloFloor            float64           `mapstructure:"elo_floor" validate:"gte=0"`
	EloCeiling          float64           `mapstructure:"elo_ceiling" validate:"required,gtfield=EloFloor"`
	EarningsCeiling     float64           `mapstructure:"earnings_ceiling" validate:"required,gt=0"`
	TurfPointsCeiling   float64           `mapstructure:"turf_points_ceiling" validate:"required,gt=0"`
	BordaCeiling        float64           `mapstructure:"borda_ceiling" validate:"required,gt=0"`
	RestDaysAcceptLow   float64           `mapstructure:"rest_days_acceptable_low" validate:"gte=0"`
	RestDaysOptimalLow  float64           `mapstructure:"rest_days_optimal_low" validate:"gtefield=RestDaysAcceptLow"`
	RestDaysOptimalHigh float64           `mapstructure:"rest_days_optimal_high" validate:"required,gtfield=RestDaysOptimalLow"`
	RestDaysAcceptHigh  float64           `mapstructure:"rest_days_acceptable_high" validate:"required,gtefield=RestDaysOptimalHigh"`
	Policies            map[string]string `mapstructure:"policies" validate:"dive,oneof=lower_better sweet_spot higher_better reference_ceiling absolute_scale banded"`
}

// ConfidenceConfig holds the dispersion-based confidence parameters
type ConfidenceConfig struct {
	DispersionPenalty float64 `mapstructure:"dispersion_penalty" validate:"required,gt=0"`
	Floor             float64 `mapstructure:"floor" validate:"gte=0,lte=100"`
	Ceiling           float64 `mapstructure:"ceiling" validate:"required,gtfield=Floor,lte=100"`
	Neutral           float64 `mapstructure:"neutral" validate:"gte=0,lte=100"`
}

// RecommendationConfig holds the bet recommendation thresholds and stakes
type RecommendationConfig struct {
	HardFloor            float64                `mapstructure:"hard_floor" validate:"gte=0,lte=100"`
	Bands                []ConfidenceBandConfig `mapstructure:"bands" validate:"required,min=1,dive"`
	UnitStake            float64                `mapstructure:"unit_stake" validate:"required,gt=0"`
	BlockUnitStake       float64                `mapstructure:"block_unit_stake" validate:"required,gt=0"`
	BlockSize            int                    `mapstructure:"block_size" validate:"required,gte=4"`
	SingleTier1          float64                `mapstructure:"single_tier1" validate:"gte=0,lte=100"`
	PairTier1            float64                `mapstructure:"pair_tier1" validate:"gte=0,lte=100"`
	TripleTier1          float64                `mapstructure:"triple_tier1" validate:"gte=0,lte=100"`
	MaxPairBases         int                    `mapstructure:"max_pair_bases" validate:"required,gt=0"`
	MaxPairComplements   int                    `mapstructure:"max_pair_complements" validate:"required,gt=0"`
	MaxTripleBases       int                    `mapstructure:"max_triple_bases" validate:"required,gte=2"`
	MaxTripleComplements int                    `mapstructure:"max_triple_complements" validate:"required,gte=2"`
}

// ConfidenceBandConfig maps a minimum confidence to a bases/complements split
type ConfidenceBandConfig struct {
	MinConfidence float64 `mapstructure:"min_confidence" validate:"gte=0,lte=100"`
	Bases         int     `mapstructure:"bases" validate:"required,gt=0"`
	Complements   int     `mapstructure:"complements" validate:"gte=0"`
}

// ProfilesConfig holds the weighting profile catalogue settings
type ProfilesConfig struct {
	CatalogPath     string `mapstructure:"catalog_path"`
	AutoGenerate    bool   `mapstructure:"auto_generate"`
	MinHistoryRaces int    `mapstructure:"min_history_races" validate:"required,gt=0"`
	HistoryDays     int    `mapstructure:"history_days" validate:"required,gt=0"`
}

// CacheConfig holds the scored-field cache settings
type CacheConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	TTLSeconds             int  `mapstructure:"ttl_seconds" validate:"required_if=Enabled true,gte=0"`
	CleanupIntervalSeconds int  `mapstructure:"cleanup_interval_seconds" validate:"gte=0"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	Sources  []SourceConfig `mapstructure:"sources" validate:"required,min=1,dive"`
	Schedule string         `mapstructure:"schedule" validate:"required,cron"`
	Timezone string         `mapstructure:"timezone"`
}

// SourceConfig represents a single daily export source
type SourceConfig struct {
	Name              string   `mapstructure:"name" validate:"required"`
	Type              string   `mapstructure:"type" validate:"required,oneof=file http"`
	Enabled           bool     `mapstructure:"enabled"`
	Path              string   `mapstructure:"path"`
	URL               string   `mapstructure:"url" validate:"omitempty,url"`
	APIKey            string   `mapstructure:"api_key"`
	Disciplines       []string `mapstructure:"disciplines" validate:"dive,discipline"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int      `mapstructure:"burst" validate:"gte=0"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryMax          int      `mapstructure:"retry_max" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig locates the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// EnabledSources returns the ingestion sources switched on in configuration
func (c *Config) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, s := range c.Ingestion.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
