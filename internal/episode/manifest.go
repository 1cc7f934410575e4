package episode

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	tagStreamInf = "#EXT-X-STREAM-INF"
	tagMedia     = "#EXT-X-MEDIA"
)

// Attribute patterns are anchored on the list separators so that e.g.
// AVERAGE-BANDWIDTH never satisfies BANDWIDTH.
var (
	reLanguage   = quotedAttr("LANGUAGE")
	reName       = quotedAttr("NAME")
	reGroupID    = quotedAttr("GROUP-ID")
	reURI        = quotedAttr("URI")
	reAudio      = quotedAttr("AUDIO")
	reResolution = regexp.MustCompile(`(?:^|[:,])\s*RESOLUTION=(\d+x\d+)`)
	reBandwidth  = regexp.MustCompile(`(?:^|[:,])\s*BANDWIDTH=(\d+)`)
)

func quotedAttr(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[:,])\s*` + regexp.QuoteMeta(key) + `="([^"]*)"`)
}

// ParseManifest parses master playlist text fetched from manifestURL.
// Audio renditions are collected in a first pass and variant streams in a
// second, each in declaration order. Relative URIs are resolved against
// manifestURL. Variants without a following URI line are dropped.
func ParseManifest(text, manifestURL string) Manifest {
	base, _ := url.Parse(manifestURL)
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	m := Manifest{Variants: []Variant{}, AudioTracks: []AudioTrack{}}

	for _, line := range lines {
		if !strings.HasPrefix(line, tagMedia) || !strings.Contains(line, "TYPE=AUDIO") {
			continue
		}
		track := AudioTrack{
			Language:  attr(reLanguage, line),
			Name:      attr(reName, line),
			GroupID:   attr(reGroupID, line),
			IsDefault: strings.Contains(line, "DEFAULT=YES"),
		}
		if uri := attr(reURI, line); uri != nil {
			track.URL = resolve(base, *uri)
		}
		m.AudioTracks = append(m.AudioTracks, track)
	}

	for i, line := range lines {
		if !strings.HasPrefix(line, tagStreamInf) {
			continue
		}
		next := nextURILine(lines, i+1)
		if next == "" {
			continue
		}
		abs := resolve(base, next)
		if abs == nil {
			continue
		}
		v := Variant{
			Resolution:   attr(reResolution, line),
			URL:          *abs,
			AudioGroupID: attr(reAudio, line),
		}
		if bw := attr(reBandwidth, line); bw != nil {
			if n, err := strconv.ParseInt(*bw, 10, 64); err == nil {
				v.Bandwidth = &n
			}
		}
		m.Variants = append(m.Variants, v)
	}

	return m
}

// nextURILine returns the first non-blank line at or after i, or "" when that
// line is another tag or the text ends.
func nextURILine(lines []string, i int) string {
	for ; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		if strings.HasPrefix(lines[i], "#") {
			return ""
		}
		return lines[i]
	}
	return ""
}

func attr(re *regexp.Regexp, line string) *string {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return strPtr(m[1])
}

// resolve makes ref absolute against base. It returns nil when the result
// would still be relative.
func resolve(base *url.URL, ref string) *string {
	u, err := url.Parse(ref)
	if err != nil {
		return nil
	}
	if !u.IsAbs() {
		if base == nil || !base.IsAbs() {
			return nil
		}
		u = base.ResolveReference(u)
	}
	s := u.String()
	return &s
}
