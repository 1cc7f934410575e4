package episode

import (
	"strconv"
	"strings"
)

const (
	defaultAudioGroup = "audio"
	mixedAudioGroup   = "audio-mixed"
)

// HLS quoted-strings have no escapes and cannot hold these characters.
var quotedStringCleaner = strings.NewReplacer(`"`, "", "\r", "", "\n", "")

// renditionGroup is one GROUP-ID as written to the playlist.
type renditionGroup struct {
	id     string
	tracks []AudioTrack
	seen   map[string]bool
}

func (g *renditionGroup) add(t AudioTrack) {
	k := trackKey(t)
	if g.seen[k] {
		return
	}
	g.seen[k] = true
	g.tracks = append(g.tracks, t)
}

// BuildMasterPlaylist renders streams back into an HLS master playlist with
// one #EXT-X-MEDIA line per audio rendition and one #EXT-X-STREAM-INF per
// stream. Every AUDIO attribute names a group declared above it, and a
// stream keeps exactly the tracks it carried: ungrouped tracks land in the
// group "audio", and an ungrouped stream whose tracks span several groups
// gets a synthesized group holding all of them.
func BuildMasterPlaylist(streams []Stream) string {
	var b strings.Builder

	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:3\n")

	groups, refs := planAudioGroups(streams)
	for _, g := range groups {
		defaulted := false
		for _, t := range g.tracks {
			name := g.id
			if t.Name != nil {
				name = *t.Name
			}
			b.WriteString("#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID=" + quoted(g.id) + ",NAME=" + quoted(name))
			if t.Language != nil {
				b.WriteString(",LANGUAGE=" + quoted(*t.Language))
			}
			// At most one DEFAULT=YES per group.
			if t.IsDefault && !defaulted {
				defaulted = true
				b.WriteString(",DEFAULT=YES,AUTOSELECT=YES")
			} else {
				b.WriteString(",DEFAULT=NO")
			}
			// Renditions without a URI are muxed into the variant stream.
			if t.URL != nil {
				b.WriteString(",URI=" + quoted(*t.URL))
			}
			b.WriteString("\n")
		}
	}

	for i, st := range streams {
		bw := int64(0)
		if st.Bandwidth != nil {
			bw = *st.Bandwidth
		}
		attrs := []string{"BANDWIDTH=" + strconv.FormatInt(bw, 10)}
		if st.Resolution != nil {
			attrs = append(attrs, "RESOLUTION="+*st.Resolution)
		}
		if refs[i] != "" {
			attrs = append(attrs, "AUDIO="+quoted(refs[i]))
		}
		b.WriteString("#EXT-X-STREAM-INF:" + strings.Join(attrs, ",") + "\n")
		b.WriteString(st.URL)
		b.WriteString("\n")
	}

	return b.String()
}

// planAudioGroups assigns each stream the group it will reference and
// collects the renditions of every group in first-seen order. Streams with
// no audio tracks reference no group.
func planAudioGroups(streams []Stream) ([]*renditionGroup, []string) {
	taken := make(map[string]bool)
	for _, st := range streams {
		if st.AudioGroupID != nil {
			taken[*st.AudioGroupID] = true
		}
		for _, t := range st.AudioTracks {
			taken[trackGroup(t)] = true
		}
	}

	var groups []*renditionGroup
	byID := make(map[string]*renditionGroup)
	mixed := make(map[string]string)
	refs := make([]string, len(streams))

	for i, st := range streams {
		if len(st.AudioTracks) == 0 {
			continue
		}

		var id string
		switch {
		case st.AudioGroupID != nil:
			id = *st.AudioGroupID
		case sameGroup(st.AudioTracks):
			id = trackGroup(st.AudioTracks[0])
		default:
			set := trackSetKey(st.AudioTracks)
			if id = mixed[set]; id == "" {
				id = freeGroupID(taken)
				taken[id] = true
				mixed[set] = id
			}
		}

		g, ok := byID[id]
		if !ok {
			g = &renditionGroup{id: id, seen: make(map[string]bool)}
			byID[id] = g
			groups = append(groups, g)
		}
		for _, t := range st.AudioTracks {
			g.add(t)
		}
		refs[i] = id
	}
	return groups, refs
}

func trackGroup(t AudioTrack) string {
	if t.GroupID != nil {
		return *t.GroupID
	}
	return defaultAudioGroup
}

func sameGroup(tracks []AudioTrack) bool {
	for _, t := range tracks[1:] {
		if trackGroup(t) != trackGroup(tracks[0]) {
			return false
		}
	}
	return true
}

func freeGroupID(taken map[string]bool) string {
	id := mixedAudioGroup
	for n := 2; taken[id]; n++ {
		id = mixedAudioGroup + "-" + strconv.Itoa(n)
	}
	return id
}

func trackKey(t AudioTrack) string {
	return deref(t.URL) + "\x00" + deref(t.Name) + "\x00" + deref(t.Language)
}

func trackSetKey(tracks []AudioTrack) string {
	keys := make([]string, len(tracks))
	for i, t := range tracks {
		keys[i] = trackGroup(t) + "\x00" + trackKey(t)
	}
	return strings.Join(keys, "\x01")
}

func quoted(s string) string {
	return `"` + quotedStringCleaner.Replace(s) + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
