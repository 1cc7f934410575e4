package upstream

import "testing"

func TestProxyPolicy(t *testing.T) {
	p := NewProxyPolicy("https://proxy.example/?quest=", []string{"Satoru.one", " "})

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"proxied_host", "https://satoru.one/home", "https://proxy.example/?quest=https://satoru.one/home"},
		{"proxied_subdomain", "https://www.satoru.one/watch/x", "https://proxy.example/?quest=https://www.satoru.one/watch/x"},
		{"direct_host", "https://cdn.example/master.m3u8", "https://cdn.example/master.m3u8"},
		{"suffix_is_not_subdomain", "https://notsatoru.one/", "https://notsatoru.one/"},
		{"unparseable", "://bad", "://bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Rewrite(tt.target); got != tt.want {
				t.Errorf("Rewrite(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestProxyPolicy_zero_value_is_direct(t *testing.T) {
	var p ProxyPolicy
	if got := p.Rewrite("https://satoru.one/home"); got != "https://satoru.one/home" {
		t.Errorf("zero policy rewrote to %q", got)
	}
	noPrefix := NewProxyPolicy("", []string{"satoru.one"})
	if noPrefix.Proxied("satoru.one") {
		t.Error("policy without prefix must not proxy")
	}
}
