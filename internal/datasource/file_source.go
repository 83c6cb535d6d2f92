package datasource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/turf-analytics/internal/models"
)

const datePlaceholder = "{date}"

// FileSource reads daily exports from the local filesystem. The configured
// path is either a directory holding "<YYYY-MM-DD>.csv" files or a pattern
// containing "{date}".
type FileSource struct {
	name        string
	path        string
	enabled     bool
	disciplines map[models.Discipline]bool
}

// NewFileSource creates a file-backed source
func NewFileSource(name, path string, enabled bool, disciplines []string) *FileSource {
	return &FileSource{
		name:        name,
		path:        path,
		enabled:     enabled,
		disciplines: disciplineSet(disciplines),
	}
}

// Name returns the name of the data source
func (s *FileSource) Name() string { return s.name }

// IsEnabled returns whether this data source is currently enabled
func (s *FileSource) IsEnabled() bool { return s.enabled }

// Fetch parses the export of the given day
func (s *FileSource) Fetch(ctx context.Context, date time.Time) (*Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := exportLocation(s.path, date, func(base, day string) string {
		return filepath.Join(base, day+".csv")
	})
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewDataSourceError(s.name, ErrCodeNotFound, path, ErrNotFound)
	}
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeInvalidData, "failed to open export", err)
	}
	defer f.Close()

	export, err := ParseExport(f, dayOf(date))
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeInvalidData, fmt.Sprintf("failed to parse %s", path), err)
	}
	return filterDisciplines(export, s.disciplines), nil
}

// exportLocation substitutes the day into a location pattern, or joins it to
// a base location with the given function
func exportLocation(location string, date time.Time, join func(base, day string) string) string {
	day := date.Format("2006-01-02")
	if strings.Contains(location, datePlaceholder) {
		return strings.ReplaceAll(location, datePlaceholder, day)
	}
	return join(location, day)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func disciplineSet(codes []string) map[models.Discipline]bool {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[models.Discipline]bool, len(codes))
	for _, code := range codes {
		if d := models.ParseDiscipline(code); d != "" {
			set[d] = true
		}
	}
	return set
}

// filterDisciplines drops races outside the allowed disciplines. A nil set allows all.
func filterDisciplines(export *Export, allowed map[models.Discipline]bool) *Export {
	if allowed == nil {
		return export
	}
	kept := export.Races[:0]
	for _, race := range export.Races {
		if allowed[race.Discipline] {
			kept = append(kept, race)
		}
	}
	export.Races = kept
	return export
}
