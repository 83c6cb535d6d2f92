package profile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/repository"
)

// MemoryStore is a process-local WeightingProfileRepository. It backs the CLI
// when no database is configured and keeps the resolver tests hermetic.
type MemoryStore struct {
	mu       sync.RWMutex
	versions map[string][]*models.WeightingProfile
	now      func() time.Time
}

var _ repository.WeightingProfileRepository = (*MemoryStore)(nil)

// NewMemoryStore creates an empty profile store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		versions: make(map[string][]*models.WeightingProfile),
		now:      time.Now,
	}
}

// Save appends the profile as the next version of its name
func (s *MemoryStore) Save(_ context.Context, profile *models.WeightingProfile) (*models.WeightingProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.versions[profile.Name]
	saved := profile.NextVersion(len(history))
	saved.CreatedAt = s.now().UTC()
	s.versions[profile.Name] = append(history, saved)
	return saved, nil
}

// GetLatest returns the highest version of a named profile
func (s *MemoryStore) GetLatest(_ context.Context, name string) (*models.WeightingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.versions[name]
	if len(history) == 0 {
		return nil, models.ErrProfileNotFound
	}
	return history[len(history)-1], nil
}

// GetVersion returns one version of a named profile
func (s *MemoryStore) GetVersion(_ context.Context, name string, version int) (*models.WeightingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.versions[name]
	if version < 1 || version > len(history) {
		return nil, models.ErrProfileNotFound
	}
	return history[version-1], nil
}

// ListLatest returns the latest version of every profile ordered by name
func (s *MemoryStore) ListLatest(_ context.Context) ([]*models.WeightingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.WeightingProfile, 0, len(s.versions))
	for _, history := range s.versions {
		out = append(out, history[len(history)-1])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
