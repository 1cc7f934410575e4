package catalog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

var reMovieID = regexp.MustCompile(`const\s+movieId\s*=\s*(\d+)`)

// ValidateShowID reports ErrValidation for empty or unsafe show ids.
func ValidateShowID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if !validShowID.MatchString(id) {
		return fmt.Errorf("%w: id %q is invalid", ErrValidation, id)
	}
	return nil
}

// Info fetches and scrapes the detail page of show id, then its episode list.
// A non-2xx page yields ErrNotFound. A failed episode list degrades to no
// episodes.
func (s *Service) Info(ctx context.Context, id string) (*Info, error) {
	if err := ValidateShowID(id); err != nil {
		return nil, err
	}

	body, err := s.get(ctx, "info", s.baseURL+"/watch/"+url.PathEscape(id), s.fetch.PageHeaders())
	if err != nil {
		if isStatusError(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, id, err)
		}
		return nil, fmt.Errorf("%w: fetching info: %v", ErrUpstream, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing info: %v", ErrUpstream, err)
	}

	info := s.parseInfo(doc)
	info.ID = id

	if info.MovieID != nil {
		info.Episodes = s.fetchEpisodes(ctx, *info.MovieID)
	}

	switch {
	case len(info.Episodes) > 0:
		n := len(info.Episodes)
		info.TotalEpisodes = &n
	default:
		if n, err := strconv.Atoi(info.Meta["episodes"]); err == nil && n > 0 {
			info.TotalEpisodes = &n
		}
	}

	for _, title := range []string{info.Title, info.JapaneseTitle} {
		if aid, ok := s.ids.LookupExact(ctx, title); ok {
			info.AnilistID = &aid
			break
		}
	}
	return info, nil
}

func (s *Service) parseInfo(doc *goquery.Document) *Info {
	heading := doc.Find(".anisc-detail h2").First()
	title := ownText(heading)
	if title == "" {
		title = text(heading)
	}

	info := &Info{
		Title:         title,
		JapaneseTitle: text(heading.Find("span")),
		Poster:        s.abs(doc.Find(".film-poster img").First().AttrOr("src", "")),
		Cover:         s.abs(doc.Find(".anisc-cover img").First().AttrOr("src", "")),
		Description:   text(doc.Find(".film-description .text")),
		Meta:          map[string]string{},
		Seasons:       []Season{},
		Episodes:      []Episode{},
	}

	doc.Find(".anisc-info .item").Each(func(_ int, el *goquery.Selection) {
		key := strings.ToLower(text(el.Find(".item-head")))
		key = strings.TrimSpace(strings.TrimSuffix(key, ":"))
		if key == "" {
			return
		}
		info.Meta[key] = text(el.Find(".name"))
	})

	doc.Find(".os-item").Each(func(_ int, el *goquery.Selection) {
		href := s.abs(el.AttrOr("href", ""))
		info.Seasons = append(info.Seasons, Season{
			ID:     extractID(href),
			Title:  text(el.Find(".title")),
			Poster: s.abs(backgroundImage(el.Find(".season-poster").AttrOr("style", ""))),
			Active: el.HasClass("active"),
		})
	})

	doc.Find("script").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if m := reMovieID.FindStringSubmatch(el.Text()); m != nil {
			movieID := m[1]
			info.MovieID = &movieID
			return false
		}
		return true
	})

	return info
}

func (s *Service) fetchEpisodes(ctx context.Context, movieID string) []Episode {
	episodes := []Episode{}

	body, err := s.get(ctx, "episode_list", s.baseURL+"/ajax/episode/list/"+movieID, s.fetch.AjaxHeaders())
	if err != nil {
		s.log.Warn("episode list unavailable", slog.String("movie_id", movieID), slog.String("error", err.Error()))
		return episodes
	}
	if !gjson.ValidBytes(body) || !gjson.GetBytes(body, "status").Bool() {
		s.log.Warn("episode list rejected", slog.String("movie_id", movieID))
		return episodes
	}
	html := gjson.GetBytes(body, "html").String()
	if html == "" {
		return episodes
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.log.Warn("episode list unparsable", slog.String("movie_id", movieID), slog.String("error", err.Error()))
		return episodes
	}

	doc.Find(".ep-item").Each(func(_ int, el *goquery.Selection) {
		id := el.AttrOr("data-id", "")
		if id == "" {
			return
		}
		name := el.Find(".ep-name")
		number, _ := strconv.Atoi(strings.TrimSpace(el.AttrOr("data-number", "")))
		episodes = append(episodes, Episode{
			ID:            id,
			Number:        number,
			Title:         text(name),
			JapaneseTitle: attrPtr(name, "data-jname"),
			URL:           s.abs(el.AttrOr("href", "")),
		})
	})
	return episodes
}
