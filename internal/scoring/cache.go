package scoring

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/turf-analytics/internal/metrics"
	"github.com/yourusername/turf-analytics/internal/models"
)

// CacheKey identifies a scored field
type CacheKey struct {
	RaceID         uuid.UUID
	ProfileName    string
	ProfileVersion int
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%d", k.RaceID, k.ProfileName, k.ProfileVersion)
}

// FieldCache keeps recently scored fields in memory
type FieldCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewFieldCache creates a scored field cache
func NewFieldCache(ttl, cleanupInterval time.Duration) *FieldCache {
	if cleanupInterval <= 0 {
		cleanupInterval = ttl * 2
	}
	return &FieldCache{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get retrieves a cached scored field
func (fc *FieldCache) Get(key CacheKey) (*models.ScoredField, bool) {
	if v, found := fc.cache.Get(key.String()); found {
		if field, ok := v.(*models.ScoredField); ok {
			fc.hitCount.Add(1)
			fc.updateMetrics()
			return field, true
		}
	}
	fc.missCount.Add(1)
	fc.updateMetrics()
	return nil, false
}

// Set stores a scored field
func (fc *FieldCache) Set(key CacheKey, field *models.ScoredField) {
	fc.cache.Set(key.String(), field, fc.ttl)
}

// InvalidateRace removes every cached field of a race, whatever the profile
func (fc *FieldCache) InvalidateRace(raceID uuid.UUID) {
	prefix := raceID.String() + ":"
	for k := range fc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			fc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (fc *FieldCache) Clear() {
	fc.cache.Flush()
	fc.hitCount.Store(0)
	fc.missCount.Store(0)
}

// Stats returns cache statistics
func (fc *FieldCache) Stats() (hits, misses uint64, ratio float64) {
	hits = fc.hitCount.Load()
	misses = fc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (fc *FieldCache) ItemCount() int {
	return fc.cache.ItemCount()
}

func (fc *FieldCache) updateMetrics() {
	_, _, ratio := fc.Stats()
	metrics.UpdateCacheHitRatio(ratio)
}
