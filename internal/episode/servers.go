package episode

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// PreferredServerID is the server label picked whenever an episode offers it.
const PreferredServerID = "6"

const serverItemSelector = ".server-item"

// Directory is the parsed "episode servers" envelope.
type Directory struct {
	Skip    []SkipSegment
	Servers []Server
}

// ParseDirectory reads the servers envelope: a JSON object with a status flag,
// an HTML fragment listing server entries and an optional skip array.
// A falsy status is an upstream error. Skip rows are never dropped, only coerced.
func ParseDirectory(body []byte, log *slog.Logger) (Directory, error) {
	if !gjson.ValidBytes(body) {
		return Directory{}, &UpstreamError{Message: msgInvalidResponse, Err: fmt.Errorf("servers envelope is not JSON")}
	}
	env := gjson.ParseBytes(body)
	if !env.Get("status").Bool() {
		return Directory{}, &UpstreamError{Message: msgInvalidResponse, Err: fmt.Errorf("servers envelope status is %q", env.Get("status").Raw)}
	}

	servers, err := parseServerItems(env.Get("html").String())
	if err != nil {
		return Directory{}, &UpstreamError{Message: msgInvalidResponse, Err: err}
	}

	return Directory{
		Skip:    parseSkips(env.Get("skip"), log),
		Servers: servers,
	}, nil
}

func parseServerItems(html string) ([]Server, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing servers HTML: %w", err)
	}

	servers := []Server{}
	doc.Find(serverItemSelector).Each(func(_ int, s *goquery.Selection) {
		kind := VariantKind(strings.TrimSpace(s.AttrOr("data-type", "")))
		if kind == "" {
			kind = KindSub
		}
		servers = append(servers, Server{
			ID:       strings.TrimSpace(s.AttrOr("data-id", "")),
			ServerID: strings.TrimSpace(s.AttrOr("data-server-id", "")),
			Type:     kind,
			Name:     strings.TrimSpace(s.Find("a").Text()),
		})
	})
	return servers, nil
}

func parseSkips(arr gjson.Result, log *slog.Logger) []SkipSegment {
	skips := []SkipSegment{}
	if !arr.IsArray() {
		return skips
	}
	arr.ForEach(func(_, s gjson.Result) bool {
		raw := s.Get("skip_type").String()
		kind, ok := ParseSkipKind(raw)
		if !ok {
			log.Warn("unrecognized skip type", slog.String("skip_type", raw))
		}
		skips = append(skips, SkipSegment{
			Kind:  kind,
			Start: s.Get("start_time").Float(),
			End:   s.Get("end_time").Float(),
		})
		return true
	})
	return skips
}

// ParseSkipKind maps an upstream skip_type to a SkipKind. Unrecognized
// values map to SkipUnknown with ok false.
func ParseSkipKind(s string) (kind SkipKind, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intro", "op", "opening":
		return SkipIntro, true
	case "outro", "ed", "ending":
		return SkipOutro, true
	case "recap":
		return SkipRecap, true
	case "preview":
		return SkipPreview, true
	default:
		return SkipUnknown, false
	}
}

// SelectServer returns the server labelled PreferredServerID, else the first
// one. It returns nil for an empty list.
func SelectServer(servers []Server) *Server {
	for i := range servers {
		if servers[i].ServerID == PreferredServerID {
			return &servers[i]
		}
	}
	if len(servers) == 0 {
		return nil
	}
	return &servers[0]
}
