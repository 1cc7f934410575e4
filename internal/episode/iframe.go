package episode

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
)

var (
	reMasterPlaylist = regexp.MustCompile(`(?i)https?://[^"'\s<>]+/master\.m3u8[^"'\s<>]*`)
	reAnyPlaylist    = regexp.MustCompile(`(?i)https?://[^"'\s<>]+\.m3u8[^"'\s<>]*`)
)

// unwrapIframe fetches the embed page at link and returns the manifest URL
// found in it, or nil.
func (s *Service) unwrapIframe(ctx context.Context, link string) *string {
	body, err := s.fetch.Fetch(ctx, link, s.embedHeaders())
	s.observe(stageIframe, err)
	if err != nil {
		s.log.Warn("iframe fetch failed",
			slog.String("stage", stageIframe),
			slog.String("link", link),
			slog.String("error", err.Error()))
		return nil
	}
	return ExtractManifestURL(string(body))
}

// ExtractManifestURL finds a master.m3u8 URL in html, falling back to any
// .m3u8 URL. The first match wins.
func ExtractManifestURL(html string) *string {
	if m := reMasterPlaylist.FindString(html); m != "" {
		return &m
	}
	if m := reAnyPlaylist.FindString(html); m != "" {
		return &m
	}
	return nil
}

func (s *Service) embedHeaders() http.Header {
	h := s.fetch.PageHeaders()
	for k, vs := range s.cfg.EmbedHeaders {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	return h
}
