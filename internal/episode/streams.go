package episode

import (
	"sort"
	"strings"
)

const autoLabel = "Auto"

// BuildStreams turns parsed variants into playable streams sorted by height,
// lowest first. A variant that names an audio group gets only that group's
// tracks; a variant without one gets every track.
func BuildStreams(variants []Variant, tracks []AudioTrack) []Stream {
	streams := make([]Stream, 0, len(variants))
	for _, v := range variants {
		streams = append(streams, Stream{
			Label:        streamLabel(v.Resolution),
			Resolution:   v.Resolution,
			Bandwidth:    v.Bandwidth,
			AudioGroupID: v.AudioGroupID,
			URL:          v.URL,
			AudioTracks:  tracksFor(v.AudioGroupID, tracks),
		})
	}

	sort.SliceStable(streams, func(i, j int) bool {
		return labelHeight(streams[i].Label) < labelHeight(streams[j].Label)
	})
	return streams
}

// streamLabel derives "{height}p" from "WxH", or "Auto".
func streamLabel(resolution *string) string {
	if resolution == nil {
		return autoLabel
	}
	_, height, ok := strings.Cut(*resolution, "x")
	if !ok || height == "" {
		return autoLabel
	}
	return height + "p"
}

// labelHeight reads the leading integer of a label; no digits means 0.
func labelHeight(label string) int {
	n := 0
	for _, r := range label {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func tracksFor(group *string, tracks []AudioTrack) []AudioTrack {
	out := make([]AudioTrack, 0, len(tracks))
	for _, t := range tracks {
		if group == nil || (t.GroupID != nil && *t.GroupID == *group) {
			out = append(out, t)
		}
	}
	return out
}
