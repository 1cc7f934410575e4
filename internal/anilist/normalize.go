package anilist

import (
	"regexp"
	"strings"
)

var (
	reSeasonSuffix = regexp.MustCompile(`(?i)\b(season|part|cour)\s*\d+`)
	reFormatWord   = regexp.MustCompile(`(?i)\b(movie|ova|ona|special)\b`)
	reSeparators   = regexp.MustCompile(`[:×]`)
	reSpaces       = regexp.MustCompile(`\s+`)
)

// NormalizeTitle strips season/part/cour numbering and format words so that
// every entry of a franchise shares one cache key.
func NormalizeTitle(title string) string {
	title = reSeasonSuffix.ReplaceAllString(title, "")
	title = reFormatWord.ReplaceAllString(title, "")
	title = reSeparators.ReplaceAllString(title, " ")
	title = reSpaces.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}
