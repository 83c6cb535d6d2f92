package recommendation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yourusername/turf-analytics/internal/config"
)

// Band maps a minimum field confidence to the number of bases and complements
type Band struct {
	MinConfidence float64
	Bases         int
	Complements   int
}

// Config holds the recommendation builder settings
type Config struct {
	HardFloor            float64
	Bands                []Band
	UnitStake            decimal.Decimal
	BlockUnitStake       decimal.Decimal
	BlockSize            int
	SingleTier1          float64
	PairTier1            float64
	TripleTier1          float64
	MaxPairBases         int
	MaxPairComplements   int
	MaxTripleBases       int
	MaxTripleComplements int
}

// DefaultConfig returns the builder defaults
func DefaultConfig() Config {
	return Config{
		HardFloor: 20,
		Bands: []Band{
			{MinConfidence: 70, Bases: 2, Complements: 2},
			{MinConfidence: 60, Bases: 2, Complements: 3},
			{MinConfidence: 50, Bases: 3, Complements: 3},
			{MinConfidence: 40, Bases: 3, Complements: 4},
			{MinConfidence: 0, Bases: 3, Complements: 5},
		},
		UnitStake:            decimal.NewFromInt(1),
		BlockUnitStake:       decimal.NewFromFloat(0.5),
		BlockSize:            6,
		SingleTier1:          50,
		PairTier1:            55,
		TripleTier1:          50,
		MaxPairBases:         3,
		MaxPairComplements:   3,
		MaxTripleBases:       3,
		MaxTripleComplements: 4,
	}
}

// FromConfig converts the application configuration into builder settings
func FromConfig(cfg *config.RecommendationConfig) Config {
	bands := make([]Band, len(cfg.Bands))
	for i, b := range cfg.Bands {
		bands[i] = Band{MinConfidence: b.MinConfidence, Bases: b.Bases, Complements: b.Complements}
	}
	return Config{
		HardFloor:            cfg.HardFloor,
		Bands:                bands,
		UnitStake:            decimal.NewFromFloat(cfg.UnitStake),
		BlockUnitStake:       decimal.NewFromFloat(cfg.BlockUnitStake),
		BlockSize:            cfg.BlockSize,
		SingleTier1:          cfg.SingleTier1,
		PairTier1:            cfg.PairTier1,
		TripleTier1:          cfg.TripleTier1,
		MaxPairBases:         cfg.MaxPairBases,
		MaxPairComplements:   cfg.MaxPairComplements,
		MaxTripleBases:       cfg.MaxTripleBases,
		MaxTripleComplements: cfg.MaxTripleComplements,
	}
}

// Validate checks the builder settings
func (c Config) Validate() error {
	if len(c.Bands) == 0 {
		return fmt.Errorf("at least one confidence band is required")
	}
	for i, b := range c.Bands {
		if b.Bases <= 0 || b.Complements < 0 {
			return fmt.Errorf("band %d: bases must be positive and complements non-negative", i)
		}
		if i > 0 && b.MinConfidence >= c.Bands[i-1].MinConfidence {
			return fmt.Errorf("band %d: minimum confidence must be strictly decreasing", i)
		}
	}
	if !c.UnitStake.IsPositive() || !c.BlockUnitStake.IsPositive() {
		return fmt.Errorf("unit stakes must be positive")
	}
	if c.BlockSize < 4 {
		return fmt.Errorf("block size must be at least 4, got %d", c.BlockSize)
	}
	if c.MaxPairBases < 1 || c.MaxPairComplements < 1 || c.MaxTripleBases < 2 || c.MaxTripleComplements < 2 {
		return fmt.Errorf("invalid selection caps")
	}
	return nil
}

// BandFor returns the band that applies to a field confidence
func (c Config) BandFor(confidence float64) Band {
	for _, b := range c.Bands {
		if confidence >= b.MinConfidence {
			return b
		}
	}
	return c.Bands[len(c.Bands)-1]
}
