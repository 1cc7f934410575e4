package catalog

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reBackgroundURL = regexp.MustCompile(`background-image\s*:\s*url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// absURL resolves ref against base. Blank refs yield nil.
func absURL(base *url.URL, ref string) *string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil
	}
	s := base.ResolveReference(u).String()
	return &s
}

// extractID returns the last non-empty path segment of rawURL, ignoring the
// query string.
func extractID(rawURL *string) *string {
	if rawURL == nil {
		return nil
	}
	clean, _, _ := strings.Cut(*rawURL, "?")
	clean, _, _ = strings.Cut(clean, "#")
	parts := strings.Split(clean, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			id := parts[i]
			return &id
		}
	}
	return nil
}

func attrPtr(sel *goquery.Selection, name string) *string {
	v, ok := sel.Attr(name)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// imageSrc prefers the lazy-load attribute over src.
func imageSrc(img *goquery.Selection) string {
	if v := img.AttrOr("data-src", ""); v != "" {
		return v
	}
	return img.AttrOr("src", "")
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// ownText returns the text of sel without the text of its child elements.
func ownText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Clone().Children().Remove().End().Text())
}

func backgroundImage(style string) string {
	m := reBackgroundURL.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	return m[1]
}
