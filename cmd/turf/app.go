package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/config"
	"github.com/yourusername/turf-analytics/internal/database"
	"github.com/yourusername/turf-analytics/internal/datasource"
	"github.com/yourusername/turf-analytics/internal/ledger"
	"github.com/yourusername/turf-analytics/internal/logger"
	"github.com/yourusername/turf-analytics/internal/metrics"
	"github.com/yourusername/turf-analytics/internal/profile"
	"github.com/yourusername/turf-analytics/internal/recommendation"
	"github.com/yourusername/turf-analytics/internal/repository"
	"github.com/yourusername/turf-analytics/internal/scoring"
	"github.com/yourusername/turf-analytics/internal/service"
)

// app wires every component the commands need
type app struct {
	cfg         *config.Config
	log         *logrus.Logger
	db          *database.DB
	repos       *repository.Repositories
	cache       *scoring.FieldCache
	predictions *service.PredictionService
	ingestion   *service.IngestionService
	profiles    *service.ProfileService
	ledger      *ledger.Ledger
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	secretsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := config.LoadSecretsFromAWS(secretsCtx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	scoringCfg, err := scoring.FromConfig(&cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}
	builder, err := recommendation.NewBuilder(recommendation.FromConfig(&cfg.Recommendation))
	if err != nil {
		return nil, fmt.Errorf("invalid recommendation configuration: %w", err)
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	a := &app{cfg: cfg, log: appLog, db: db, repos: repos}

	if err := a.seedCatalog(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Cache.Enabled {
		a.cache = scoring.NewFieldCache(
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
			time.Duration(cfg.Cache.CleanupIntervalSeconds)*time.Second,
		)
	}

	scoringLog := logger.NewScoringLogger(appLog)
	audit := logger.NewAuditLogger(appLog)
	engine := scoring.NewEngine(scoringCfg)
	defaults := scoringCfg.DefaultProfile()
	generator := profile.NewGenerator(engine.Normalizer(), defaults, cfg.Profiles.MinHistoryRaces)
	resolver := profile.NewResolver(repos.Profile, defaults, generator, cfg.Profiles.AutoGenerate, scoringLog)
	history := service.NewHistoryLoader(repos.Race, repos.Runner, cfg.Profiles.HistoryDays)

	sources, err := datasource.NewFactory(appLog).NewSources(cfg.Ingestion)
	if err != nil {
		appLog.WithError(err).Warn("No usable data source, imports are disabled")
	}

	entry := appLog.WithField("component", "ingestion")
	a.ingestion = service.NewIngestionService(
		sources, repos.Race, repos.Runner, db,
		service.NewDataValidator(entry), service.NewDataNormalizer(entry),
		a.cache, appLog,
	)
	a.predictions = service.NewPredictionService(repos.Race, repos.Runner, resolver, history, engine, builder, a.cache, scoringLog)
	a.profiles = service.NewProfileService(repos.Profile, generator, history, audit, scoringLog)
	a.ledger = ledger.NewLedger(repos.Bet, audit)

	return a, nil
}

// seedCatalog stores new or changed catalogue profiles as new versions
func (a *app) seedCatalog(ctx context.Context) error {
	path := a.cfg.Profiles.CatalogPath
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		a.log.WithField("path", path).Warn("Profile catalogue not found, skipping seed")
		return nil
	}

	catalog, err := profile.LoadCatalog(path)
	if err != nil {
		return fmt.Errorf("failed to load profile catalogue: %w", err)
	}
	written, err := profile.SeedCatalog(ctx, a.repos.Profile, catalog, a.log.WithField("component", "profiles"))
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"profiles": len(catalog),
		"written":  written,
	}).Debug("Profile catalogue seeded")
	return nil
}

// Close releases the database pool and the cache janitor
func (a *app) Close() {
	if a.cache != nil {
		a.cache.Clear()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// withApp builds the app for the duration of one command
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
