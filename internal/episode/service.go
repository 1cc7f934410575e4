package episode

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"animesource/internal/platform/metrics"
)

// Pipeline stage names used in logs and metrics.
const (
	stageServers  = "servers"
	stageSource   = "source"
	stageIframe   = "iframe"
	stageManifest = "manifest"
)

var validEpisodeID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Fetcher performs one outbound GET. *upstream.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, header http.Header) ([]byte, error)
	AjaxHeaders() http.Header
	PageHeaders() http.Header
}

// Config holds the upstream endpoints and request shaping for the pipeline.
type Config struct {
	// BaseURL is the anime site origin, e.g. "https://satoru.one".
	BaseURL string

	// EmbedHeaders are added to iframe fetches (Referer and whatever else the
	// embedding host gates on). They replace page headers of the same name.
	EmbedHeaders http.Header
}

// Service resolves an episode id into playable streams: servers, preferred
// server, source descriptor, iframe, manifest, streams. Only the first stage
// is fatal; every later stage degrades to an empty result.
type Service struct {
	fetch   Fetcher
	cfg     Config
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewService returns a Service. Metrics may be nil.
func NewService(f Fetcher, cfg Config, log *slog.Logger, m *metrics.Metrics) *Service {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Service{fetch: f, cfg: cfg, log: log, metrics: m}
}

// ValidateEpisodeID reports ErrValidation for empty or unsafe ids.
func ValidateEpisodeID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: episodeId is required", ErrValidation)
	}
	if !validEpisodeID.MatchString(id) {
		return fmt.Errorf("%w: episodeId contains invalid characters", ErrValidation)
	}
	return nil
}

// Resolve runs the pipeline for episodeID. The error is non-nil only for
// ErrValidation or ErrUpstream; otherwise the result carries whatever was
// resolved.
func (s *Service) Resolve(ctx context.Context, episodeID string) (*Result, error) {
	if err := ValidateEpisodeID(episodeID); err != nil {
		return nil, err
	}

	dir, err := s.fetchDirectory(ctx, episodeID)
	if err != nil {
		s.incResolution(metrics.OutcomeUpstreamError)
		return nil, err
	}

	res := &Result{
		EpisodeID: episodeID,
		Skip:      dir.Skip,
		Servers:   dir.Servers,
		Streams:   []Stream{},
	}

	preferred := SelectServer(dir.Servers)
	if preferred == nil || preferred.ID == "" {
		s.log.Debug("no resolvable server", slog.String("episode_id", episodeID), slog.Int("servers", len(dir.Servers)))
		s.incResolution(metrics.OutcomeNoSource)
		return res, nil
	}

	res.Source = s.fetchSource(ctx, preferred.ID)
	if res.Source == nil || res.Source.Link == nil {
		s.incResolution(metrics.OutcomeNoSource)
		return res, nil
	}

	res.ManifestURL = s.locateManifest(ctx, res.Source)
	if res.ManifestURL == nil {
		s.log.Debug("no manifest located",
			slog.String("episode_id", episodeID),
			slog.String("source_type", string(res.Source.Kind)))
		s.incResolution(metrics.OutcomeNoManifest)
		return res, nil
	}

	m := s.fetchManifest(ctx, *res.ManifestURL)
	res.Streams = BuildStreams(m.Variants, m.AudioTracks)
	if len(res.Streams) == 0 {
		s.incResolution(metrics.OutcomeNoStreams)
	} else {
		s.incResolution(metrics.OutcomeStreams)
	}
	return res, nil
}

// locateManifest follows an iframe source, or takes a direct source whose
// link already is a playlist.
func (s *Service) locateManifest(ctx context.Context, src *SourceDescriptor) *string {
	switch src.Kind {
	case SourceIframe:
		return s.unwrapIframe(ctx, *src.Link)
	case SourceDirect:
		if strings.Contains(strings.ToLower(*src.Link), ".m3u8") {
			link := *src.Link
			return &link
		}
	}
	return nil
}

func (s *Service) fetchDirectory(ctx context.Context, episodeID string) (Directory, error) {
	endpoint := s.cfg.BaseURL + "/ajax/episode/servers?episodeId=" + episodeID

	body, err := s.fetch.Fetch(ctx, endpoint, s.fetch.AjaxHeaders())
	s.observe(stageServers, err)
	if err != nil {
		return Directory{}, &UpstreamError{Message: msgServersUnavailable, Err: err}
	}
	return ParseDirectory(body, s.log)
}

// fetchManifest downloads and parses the master playlist. Failures yield an
// empty manifest.
func (s *Service) fetchManifest(ctx context.Context, manifestURL string) Manifest {
	body, err := s.fetch.Fetch(ctx, manifestURL, s.fetch.PageHeaders())
	s.observe(stageManifest, err)
	if err != nil {
		s.log.Warn("manifest fetch failed",
			slog.String("stage", stageManifest),
			slog.String("url", manifestURL),
			slog.String("error", err.Error()))
		return Manifest{Variants: []Variant{}, AudioTracks: []AudioTrack{}}
	}
	return ParseManifest(string(body), manifestURL)
}

func (s *Service) observe(stage string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveFetch(stage, err)
	}
}

func (s *Service) incResolution(outcome string) {
	if s.metrics != nil {
		s.metrics.IncResolution(outcome)
	}
}
