package episode

// SkipKind names a skippable part of an episode.
type SkipKind string

const (
	SkipIntro   SkipKind = "intro"
	SkipOutro   SkipKind = "outro"
	SkipRecap   SkipKind = "recap"
	SkipPreview SkipKind = "preview"
	SkipUnknown SkipKind = "unknown"
)

// SkipSegment is one skippable interval, in seconds from the episode start.
// End >= Start is expected but not guaranteed by the upstream.
type SkipSegment struct {
	Kind  SkipKind `json:"kind"`
	Start float64  `json:"start"`
	End   float64  `json:"end"`
}

// VariantKind is the audio flavour a server delivers.
type VariantKind string

const (
	KindSub VariantKind = "sub"
	KindDub VariantKind = "dub"
	KindRaw VariantKind = "raw"
)

// Server is one playback option offered for an episode. ID is the opaque key
// for the sources endpoint; ServerID is the numeric label used for preference.
type Server struct {
	ID       string      `json:"id"`
	ServerID string      `json:"serverId"`
	Type     VariantKind `json:"type"`
	Name     string      `json:"name"`
}

// SourceKind tells how a SourceDescriptor link must be followed.
type SourceKind string

const (
	SourceIframe  SourceKind = "iframe"
	SourceDirect  SourceKind = "direct"
	SourceUnknown SourceKind = "unknown"
)

// SourceDescriptor is what the sources endpoint returned for one server.
type SourceDescriptor struct {
	Kind   SourceKind `json:"type"`
	Link   *string    `json:"link"`
	Server *string    `json:"server"`
}

// AudioTrack is one TYPE=AUDIO rendition from a master playlist. URL is
// absolute, or nil when the rendition declared no URI.
type AudioTrack struct {
	Language  *string `json:"language"`
	Name      *string `json:"name"`
	GroupID   *string `json:"groupId"`
	IsDefault bool    `json:"isDefault"`
	URL       *string `json:"url"`
}

// Variant is one #EXT-X-STREAM-INF entry. URL is always absolute.
type Variant struct {
	Resolution   *string `json:"resolution"`
	Bandwidth    *int64  `json:"bandwidth"`
	URL          string  `json:"url"`
	AudioGroupID *string `json:"audioGroupId"`
}

// Manifest is the parsed content of a master playlist.
type Manifest struct {
	Variants    []Variant
	AudioTracks []AudioTrack
}

// Stream is a playable quality with the audio tracks that apply to it.
type Stream struct {
	Label        string       `json:"label"`
	Resolution   *string      `json:"resolution"`
	Bandwidth    *int64       `json:"bandwidth,omitempty"`
	AudioGroupID *string      `json:"audioGroupId,omitempty"`
	URL          string       `json:"url"`
	AudioTracks  []AudioTrack `json:"audioTracks"`
}

// Result is everything resolved for one episode. Fields after Servers may be
// empty when a later stage degraded.
type Result struct {
	EpisodeID   string            `json:"episodeId"`
	Skip        []SkipSegment     `json:"skip"`
	Servers     []Server          `json:"servers"`
	Source      *SourceDescriptor `json:"source"`
	ManifestURL *string           `json:"manifestUrl"`
	Streams     []Stream          `json:"streams"`
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
