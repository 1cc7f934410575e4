// Package catalog scrapes the anime site's home and detail pages and
// annotates each show with its AniList id.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"animesource/internal/platform/metrics"
	"animesource/internal/upstream"
)

// DefaultLookupConcurrency bounds parallel AniList lookups on the home page.
const DefaultLookupConcurrency = 8

var validShowID = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,200}$`)

// Fetcher performs one outbound GET. *upstream.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, header http.Header) ([]byte, error)
	AjaxHeaders() http.Header
	PageHeaders() http.Header
}

// IDResolver maps titles to AniList ids. *anilist.Resolver satisfies it.
type IDResolver interface {
	// LookupID resolves a normalized, cached title.
	LookupID(ctx context.Context, title string) (int, bool)
	// LookupExact resolves the title verbatim.
	LookupExact(ctx context.Context, title string) (int, bool)
}

// Config configures a Service.
type Config struct {
	BaseURL           string
	LookupConcurrency int
}

// Service scrapes catalog pages.
type Service struct {
	fetch       Fetcher
	ids         IDResolver
	base        *url.URL
	baseURL     string
	concurrency int
	log         *slog.Logger
	metrics     *metrics.Metrics
}

// NewService returns a Service. Metrics may be nil.
func NewService(f Fetcher, ids IDResolver, cfg Config, log *slog.Logger, m *metrics.Metrics) (*Service, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	base, err := url.Parse(baseURL + "/")
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	n := cfg.LookupConcurrency
	if n <= 0 {
		n = DefaultLookupConcurrency
	}
	return &Service{
		fetch:       f,
		ids:         ids,
		base:        base,
		baseURL:     baseURL,
		concurrency: n,
		log:         log,
		metrics:     m,
	}, nil
}

func (s *Service) get(ctx context.Context, stage, rawURL string, header http.Header) ([]byte, error) {
	body, err := s.fetch.Fetch(ctx, rawURL, header)
	if s.metrics != nil {
		s.metrics.ObserveFetch(stage, err)
	}
	return body, err
}

func (s *Service) abs(ref string) *string {
	return absURL(s.base, ref)
}

func isStatusError(err error) bool {
	var se *upstream.StatusError
	return errors.As(err, &se)
}
