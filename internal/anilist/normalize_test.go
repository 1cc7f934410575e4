package anilist

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Attack on Titan Season 3 Part 2", "Attack on Titan"},
		{"One Punch Man 2nd Season", "One Punch Man 2nd Season"},
		{"Re:Zero Cour 2", "Re Zero"},
		{"Jujutsu Kaisen 0 Movie", "Jujutsu Kaisen 0"},
		{"Made in Abyss OVA", "Made in Abyss"},
		{"Spy×Family", "Spy Family"},
		{"  Frieren   ", "Frieren"},
		{"season2", ""},
		{"Moviegoers", "Moviegoers"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
