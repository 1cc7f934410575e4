package episode

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/tidwall/gjson"
)

// fetchSource asks the sources endpoint how to reach serverEntryID. Transport,
// status and decoding failures all yield nil.
func (s *Service) fetchSource(ctx context.Context, serverEntryID string) *SourceDescriptor {
	endpoint := s.cfg.BaseURL + "/ajax/episode/sources?id=" + url.QueryEscape(serverEntryID)

	body, err := s.fetch.Fetch(ctx, endpoint, s.fetch.AjaxHeaders())
	s.observe(stageSource, err)
	if err != nil {
		s.log.Warn("source fetch failed",
			slog.String("stage", stageSource),
			slog.String("server_entry_id", serverEntryID),
			slog.String("error", err.Error()))
		return nil
	}
	return ParseSource(body)
}

// ParseSource maps the sources payload onto a SourceDescriptor. Missing or
// empty fields become nil; an unrecognized type becomes SourceUnknown.
// Invalid JSON yields nil.
func ParseSource(body []byte) *SourceDescriptor {
	if !gjson.ValidBytes(body) {
		return nil
	}
	res := gjson.ParseBytes(body)

	kind := SourceUnknown
	switch res.Get("type").String() {
	case string(SourceIframe):
		kind = SourceIframe
	case string(SourceDirect):
		kind = SourceDirect
	}
	return &SourceDescriptor{
		Kind:   kind,
		Link:   strPtr(res.Get("link").String()),
		Server: strPtr(res.Get("server").String()),
	}
}
