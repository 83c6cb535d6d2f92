package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/yourusername/turf-analytics/internal/models"
)

// HTTPSource downloads daily exports from a remote endpoint. The URL either
// contains "{date}" or receives the day as a "date" query parameter.
type HTTPSource struct {
	name        string
	url         string
	apiKey      string
	enabled     bool
	disciplines map[models.Discipline]bool
	client      *RateLimitedHTTPClient
}

// NewHTTPSource creates an HTTP-backed source
func NewHTTPSource(name, endpoint, apiKey string, enabled bool, disciplines []string, client *RateLimitedHTTPClient) *HTTPSource {
	return &HTTPSource{
		name:        name,
		url:         endpoint,
		apiKey:      apiKey,
		enabled:     enabled,
		disciplines: disciplineSet(disciplines),
		client:      client,
	}
}

// Name returns the name of the data source
func (s *HTTPSource) Name() string { return s.name }

// IsEnabled returns whether this data source is currently enabled
func (s *HTTPSource) IsEnabled() bool { return s.enabled }

// Fetch downloads and parses the export of the given day
func (s *HTTPSource) Fetch(ctx context.Context, date time.Time) (*Export, error) {
	endpoint := exportLocation(s.url, date, func(base, day string) string {
		u, err := url.Parse(base)
		if err != nil {
			return base
		}
		q := u.Query()
		q.Set("date", day)
		u.RawQuery = q.Encode()
		return u.String()
	})

	header := http.Header{}
	header.Set("Accept", "text/csv")
	if s.apiKey != "" {
		header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Get(ctx, endpoint, header)
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(s.name, ErrCodeNotFound, endpoint, ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(s.name, ErrCodeAuthenticationFailed, resp.Status, ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(s.name, ErrCodeRateLimitExceeded, resp.Status, ErrRateLimitExceeded)
	case resp.StatusCode >= 500:
		return nil, NewDataSourceError(s.name, ErrCodeServerError, resp.Status, ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return nil, NewDataSourceError(s.name, ErrCodeInvalidData, fmt.Sprintf("unexpected status %s", resp.Status), ErrInvalidData)
	}

	export, err := ParseExport(io.LimitReader(resp.Body, 32<<20), dayOf(date))
	if err != nil {
		return nil, NewDataSourceError(s.name, ErrCodeInvalidData, "failed to parse export", err)
	}
	return filterDisciplines(export, s.disciplines), nil
}
