package profile

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/turf-analytics/internal/logger"
	"github.com/yourusername/turf-analytics/internal/models"
	"github.com/yourusername/turf-analytics/internal/scoring"
)

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) Save(ctx context.Context, p *models.WeightingProfile) (*models.WeightingProfile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeightingProfile), args.Error(1)
}

func (m *mockProfileStore) GetLatest(ctx context.Context, name string) (*models.WeightingProfile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeightingProfile), args.Error(1)
}

func (m *mockProfileStore) GetVersion(ctx context.Context, name string, version int) (*models.WeightingProfile, error) {
	args := m.Called(ctx, name, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeightingProfile), args.Error(1)
}

func (m *mockProfileStore) ListLatest(ctx context.Context) ([]*models.WeightingProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WeightingProfile), args.Error(1)
}

func testLogger() *logger.ScoringLogger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return logger.NewScoringLogger(base)
}

func defaultProfile() *models.WeightingProfile {
	return scoring.DefaultConfig().DefaultProfile()
}

func weights(w float64) map[models.Criterion]float64 {
	return map[models.Criterion]float64{models.CriterionAIWin: w}
}

func TestProfileKey(t *testing.T) {
	assert.Equal(t, "vincennes_A_10-12", ProfileKey("VINCENNES", models.DisciplineTrotAttele, models.FieldBand10To12))
	assert.Equal(t, "cagnes-sur-mer_P_16+", ProfileKey("Cagnes sur Mer", models.DisciplineFlat, models.FieldBand16Plus))
	assert.Equal(t, "any_any_any", ProfileKey("", "", ""))
}

func TestMemoryStoreVersions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := models.NewWeightingProfile("vincennes", weights(30))
	first, err := store.Save(ctx, p)
	require.NoError(t, err)
	second, err := store.Save(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.NotEqual(t, first.ID, second.ID)

	v1, err := store.GetVersion(ctx, "vincennes", 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, v1.ID)

	_, err = store.GetLatest(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
	_, err = store.GetVersion(ctx, "vincennes", 3)
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestResolverPriority(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	save := func(name, venue string, d models.Discipline, band models.FieldBand) {
		_, err := store.Save(ctx, models.NewWeightingProfile(name, weights(10)).WithPredicates(venue, d, band))
		require.NoError(t, err)
	}
	save("band", "", "", models.FieldBand10To12)
	save("discipline", "", models.DisciplineTrotAttele, "")
	save("discipline_band", "", models.DisciplineTrotAttele, models.FieldBand10To12)
	save("venue", "vincennes", "", "")
	save("venue_band", "vincennes", "", models.FieldBand10To12)
	save("venue_discipline", "vincennes", models.DisciplineTrotAttele, "")
	save("venue_discipline_band", "vincennes", models.DisciplineTrotAttele, models.FieldBand10To12)
	save("generic", "", "", "")

	resolver := NewResolver(store, defaultProfile(), nil, false, testLogger())

	tests := []struct {
		name       string
		venue      string
		discipline models.Discipline
		fieldSize  int
		expected   string
	}{
		{"all predicates", "PARIS-VINCENNES", models.DisciplineTrotAttele, 11, "venue_discipline_band"},
		{"venue and discipline", "VINCENNES", models.DisciplineTrotAttele, 15, "venue_discipline"},
		{"venue and band", "VINCENNES", models.DisciplineTrotMonte, 12, "venue_band"},
		{"venue only", "VINCENNES", models.DisciplineTrotMonte, 6, "venue"},
		{"discipline and band", "ENGHIEN", models.DisciplineTrotAttele, 11, "discipline_band"},
		{"discipline only", "ENGHIEN", models.DisciplineTrotAttele, 16, "discipline"},
		{"band only", "CHANTILLY", models.DisciplineFlat, 12, "band"},
		{"default", "CHANTILLY", models.DisciplineFlat, 18, models.DefaultProfileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(ctx, tt.venue, tt.discipline, tt.fieldSize)
			assert.Equal(t, tt.expected, got.Name)
		})
	}
}

func TestResolverTieBreak(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, name := range []string{"zeta", "alpha"} {
		_, err := store.Save(ctx, models.NewWeightingProfile(name, weights(10)).WithPredicates("vincennes", "", ""))
		require.NoError(t, err)
	}
	resolver := NewResolver(store, defaultProfile(), nil, false, testLogger())
	assert.Equal(t, "alpha", resolver.Resolve(ctx, "VINCENNES", "", 10).Name)

	_, err := store.Save(ctx, models.NewWeightingProfile("zeta", weights(12)).WithPredicates("vincennes", "", ""))
	require.NoError(t, err)
	got := resolver.Resolve(ctx, "VINCENNES", "", 10)
	assert.Equal(t, "zeta", got.Name)
	assert.Equal(t, 2, got.Version)
}

func TestResolverSynthesizesDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	resolver := NewResolver(store, defaultProfile(), nil, false, testLogger())

	got := resolver.Resolve(ctx, "ANYWHERE", models.DisciplineFlat, 8)
	assert.True(t, got.IsDefault())
	assert.Equal(t, models.ProfileSourceDefault, got.Source)

	stored, err := store.GetLatest(ctx, models.DefaultProfileName)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)

	// a second resolution reuses the stored default
	resolver.Resolve(ctx, "ANYWHERE", models.DisciplineFlat, 8)
	stored, err = store.GetLatest(ctx, models.DefaultProfileName)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
}

func TestResolverStoreFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	store := new(mockProfileStore)
	store.On("ListLatest", ctx).Return(nil, errors.New("connection refused"))
	store.On("GetLatest", ctx, models.DefaultProfileName).Return(nil, errors.New("connection refused"))

	fallback := defaultProfile()
	resolver := NewResolver(store, fallback, nil, false, testLogger())

	got := resolver.Resolve(ctx, "VINCENNES", models.DisciplineTrotAttele, 12)
	assert.Same(t, fallback, got)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func buildHistory(n int) []*models.HistoricalRace {
	history := make([]*models.HistoricalRace, 0, n)
	for i := 0; i < n; i++ {
		race := &models.Race{ID: uuid.New(), Venue: "VINCENNES", Discipline: models.DisciplineTrotAttele, FieldSize: 4}
		aiWin := []float64{0.4, 0.3, 0.2, 0.1}
		runners := make([]*models.RunnerAttributes, 4)
		for j := range runners {
			pos := j + 1
			runners[j] = &models.RunnerAttributes{
				RaceID:        race.ID,
				ProgramNumber: j + 1,
				Name:          "RUNNER",
				Values: map[models.Criterion]float64{
					models.CriterionAIWin:    aiWin[j],
					models.CriterionEloHorse: 1500,
				},
				FinishPosition: &pos,
			}
		}
		history = append(history, &models.HistoricalRace{Race: race, Runners: runners})
	}
	return history
}

func newTestGenerator(minRaces int) *Generator {
	defaults := models.NewWeightingProfile(models.DefaultProfileName, map[models.Criterion]float64{
		models.CriterionAIWin:    30,
		models.CriterionEloHorse: 15,
		models.CriterionOddsBZH:  20,
	}).WithSource(models.ProfileSourceDefault)
	return NewGenerator(scoring.NewNormalizer(scoring.DefaultConfig()), defaults, minRaces)
}

func TestGeneratorThinHistoryReturnsDefault(t *testing.T) {
	gen := newTestGenerator(10)

	got := gen.Generate("VINCENNES", models.DisciplineTrotAttele, models.FieldBandUpTo8, buildHistory(9))
	assert.True(t, got.IsDefault())
	assert.Equal(t, models.ProfileSourceDefault, got.Source)
}

func TestGeneratorWeightsFollowCorrelation(t *testing.T) {
	gen := newTestGenerator(10)

	got := gen.Generate("VINCENNES", models.DisciplineTrotAttele, models.FieldBandUpTo8, buildHistory(12))
	require.Equal(t, models.ProfileSourceGenerated, got.Source)
	assert.Equal(t, "vincennes_A_0-8", got.Name)
	assert.Equal(t, "VINCENNES", got.Venue)

	// ai_win ranks the placed runners first: r ~ 0.7746
	assert.InDelta(t, 38.24, got.Weight(models.CriterionAIWin), 0.01)
	// a constant criterion carries no signal and is halved
	assert.Equal(t, 7.5, got.Weight(models.CriterionEloHorse))
	// absent from history: default weight kept
	assert.Equal(t, 20.0, got.Weight(models.CriterionOddsBZH))
}

func TestResolveOrGenerateSavesProfile(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gen := newTestGenerator(10)
	resolver := NewResolver(store, defaultProfile(), gen, true, testLogger())

	race := &models.Race{ID: uuid.New(), Venue: "VINCENNES", Discipline: models.DisciplineTrotAttele, FieldSize: 4}
	got := resolver.ResolveOrGenerate(ctx, race, buildHistory(12))
	assert.Equal(t, "vincennes_A_0-8", got.Name)
	assert.Equal(t, 1, got.Version)

	// later races reuse the saved profile
	again := resolver.Resolve(ctx, "VINCENNES", models.DisciplineTrotAttele, 4)
	assert.Equal(t, got.ID, again.ID)
}

func TestResolveOrGenerateThinHistoryKeepsDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	resolver := NewResolver(store, defaultProfile(), newTestGenerator(10), true, testLogger())

	race := &models.Race{ID: uuid.New(), Venue: "VINCENNES", Discipline: models.DisciplineTrotAttele, FieldSize: 4}
	got := resolver.ResolveOrGenerate(ctx, race, buildHistory(3))
	assert.True(t, got.IsDefault())

	profiles, err := store.ListLatest(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.True(t, profiles[0].IsDefault())
}

const catalogYAML = `
profiles:
  - name: vincennes_attele
    venue: VINCENNES
    discipline: A
    weights:
      ai_win: 35
      odds_bzh: 20
  - name: big_fields
    field_band: "16+"
    weights:
      ai_trio: 20
`

func TestParseCatalog(t *testing.T) {
	profiles, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "vincennes_attele", profiles[0].Name)
	assert.Equal(t, models.DisciplineTrotAttele, profiles[0].Discipline)
	assert.Equal(t, models.ProfileSourceConfig, profiles[0].Source)
	assert.Equal(t, 35.0, profiles[0].Weight(models.CriterionAIWin))
	assert.Equal(t, models.FieldBand16Plus, profiles[1].FieldBand)
}

func TestParseCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "profiles:\n  - weights:\n      ai_win: 1\n"},
		{"no weights", "profiles:\n  - name: empty\n"},
		{"negative weight", "profiles:\n  - name: neg\n    weights:\n      ai_win: -1\n"},
		{"unknown band", "profiles:\n  - name: band\n    field_band: 3-5\n    weights:\n      ai_win: 1\n"},
		{"duplicate", "profiles:\n  - name: a\n    weights:\n      ai_win: 1\n  - name: a\n    weights:\n      ai_win: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSeedCatalogSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	log := testLogger().Entry

	profiles, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	written, err := SeedCatalog(ctx, store, profiles, log)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	written, err = SeedCatalog(ctx, store, profiles, log)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}
