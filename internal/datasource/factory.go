package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/turf-analytics/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// FileSourceType reads exports from disk
	FileSourceType SourceType = "file"
	// HTTPSourceType downloads exports over HTTP
	HTTPSourceType SourceType = "http"
)

// Factory creates Source implementations based on configuration
type Factory struct {
	logger *logrus.Entry
}

// NewFactory creates a new data source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger.WithField("component", "datasource"),
	}
}

// NewSource creates a Source from its configuration
func (f *Factory) NewSource(cfg config.SourceConfig) (Source, error) {
	switch SourceType(cfg.Type) {
	case FileSourceType:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file source %s requires a path", cfg.Name)
		}
		return NewFileSource(cfg.Name, cfg.Path, cfg.Enabled, cfg.Disciplines), nil

	case HTTPSourceType:
		if cfg.URL == "" {
			return nil, fmt.Errorf("http source %s requires a url", cfg.Name)
		}
		client := NewRateLimitedHTTPClient(HTTPClientConfigFromSource(cfg), f.logger.WithField("source", cfg.Name))
		return NewHTTPSource(cfg.Name, cfg.URL, cfg.APIKey, cfg.Enabled, cfg.Disciplines, client), nil

	default:
		return nil, fmt.Errorf("unknown data source type: %s", cfg.Type)
	}
}

// NewSources creates all enabled data sources from configuration
func (f *Factory) NewSources(ingestion config.IngestionConfig) ([]Source, error) {
	var sources []Source

	for _, srcCfg := range ingestion.Sources {
		if !srcCfg.Enabled {
			f.logger.WithField("source", srcCfg.Name).Debug("Skipping disabled data source")
			continue
		}

		source, err := f.NewSource(srcCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source %s: %w", srcCfg.Name, err)
		}

		sources = append(sources, source)
		f.logger.WithField("source", srcCfg.Name).Info("Created data source")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return sources, nil
}
