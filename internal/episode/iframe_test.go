package episode

import "testing"

func TestExtractManifestURL(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"master_preferred_over_earlier_playlist",
			`<script>var backup = "https://cdn.example/v/index.m3u8"; var src = 'https://cdn.example/v/master.m3u8?t=1&e=2';</script>`,
			"https://cdn.example/v/master.m3u8?t=1&e=2",
		},
		{
			"any_playlist_fallback",
			`<video src="https://cdn.example/v/playlist.m3u8"></video>`,
			"https://cdn.example/v/playlist.m3u8",
		},
		{
			"case_insensitive",
			`file: "HTTPS://CDN.EXAMPLE/V/MASTER.M3U8"`,
			"HTTPS://CDN.EXAMPLE/V/MASTER.M3U8",
		},
		{
			"first_master_wins",
			`"https://a.example/master.m3u8" "https://b.example/master.m3u8"`,
			"https://a.example/master.m3u8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractManifestURL(tt.html)
			if got == nil || *got != tt.want {
				t.Errorf("ExtractManifestURL = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractManifestURL_none(t *testing.T) {
	for _, html := range []string{"", `<iframe src="https://embed.example/e/1"></iframe>`, `"/relative/master.m3u8"`} {
		if got := ExtractManifestURL(html); got != nil {
			t.Errorf("ExtractManifestURL(%q) = %q, want nil", html, *got)
		}
	}
}
