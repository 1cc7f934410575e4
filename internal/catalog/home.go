package catalog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// titleJob is a pending AniList lookup whose result lands in dst.
type titleJob struct {
	title string
	dst   **int
}

// Home fetches and scrapes the home page. Only the page fetch can fail;
// AniList lookups that fail leave anilistId null.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	body, err := s.get(ctx, "home", s.baseURL+"/home", s.fetch.PageHeaders())
	if err != nil {
		return nil, fmt.Errorf("%w: fetching home: %v", ErrUpstream, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing home: %v", ErrUpstream, err)
	}

	home := s.parseHome(doc)
	s.resolveIDs(ctx, home)
	return home, nil
}

func (s *Service) parseHome(doc *goquery.Document) *Home {
	home := &Home{
		Spotlight:      []Spotlight{},
		Trending:       []Trending{},
		TopAiring:      []Listed{},
		Completed:      []Listed{},
		LatestEpisodes: []LatestEpisode{},
		Genres:         []Genre{},
	}

	doc.Find(".deslide-item").Each(func(_ int, el *goquery.Selection) {
		head := el.Find(".desi-head-title")
		link := s.abs(el.Find(".desi-buttons a").First().AttrOr("href", ""))
		scd := el.Find(".scd-item")
		home.Spotlight = append(home.Spotlight, Spotlight{
			ID:            extractID(link),
			Title:         text(head),
			JapaneseTitle: attrPtr(head, "data-jname"),
			Image:         s.abs(el.Find(".film-poster-img").AttrOr("src", "")),
			Type:          text(scd.Eq(0)),
			Duration:      text(scd.Eq(1)),
			ReleaseDate:   text(el.Find(".scd-item.m-hide")),
			Description:   text(el.Find(".desi-description")),
			URL:           link,
		})
	})

	doc.Find("#trending-home .swiper-slide").Each(func(i int, el *goquery.Selection) {
		name := el.Find(".film-title")
		link := s.abs(el.Find("a").First().AttrOr("href", ""))
		home.Trending = append(home.Trending, Trending{
			ID:            extractID(link),
			Rank:          i + 1,
			Title:         text(name),
			JapaneseTitle: attrPtr(name, "data-jname"),
			Image:         s.abs(el.Find("img").First().AttrOr("src", "")),
			URL:           link,
		})
	})

	home.TopAiring = s.parseListed(doc.Find(".anif-block-01 li"))
	home.Completed = s.parseListed(doc.Find(".anif-block-02 li"))

	doc.Find(".block_area_home .flw-item").Each(func(_ int, el *goquery.Selection) {
		name := el.Find(".film-name a")
		link := s.abs(el.Find(".film-poster-ahref").AttrOr("href", ""))
		langs := []string{}
		el.Find(".tick-dub span").Each(func(_ int, l *goquery.Selection) {
			langs = append(langs, text(l))
		})
		home.LatestEpisodes = append(home.LatestEpisodes, LatestEpisode{
			ID:              extractID(link),
			Title:           text(name),
			JapaneseTitle:   attrPtr(name, "data-jname"),
			Image:           s.abs(imageSrc(el.Find("img").First())),
			URL:             link,
			Type:            text(el.Find(".fdi-item").First()),
			Duration:        text(el.Find(".fdi-duration")),
			EpisodeProgress: text(el.Find(".tick-eps")),
			Languages:       langs,
			IsAdult:         el.Find(".tick-rate").Length() > 0,
		})
	})

	doc.Find("#sidebar_subs_genre a").Each(func(_ int, el *goquery.Selection) {
		home.Genres = append(home.Genres, Genre{
			Name: text(el),
			URL:  s.abs(el.AttrOr("href", "")),
		})
	})

	return home
}

func (s *Service) parseListed(items *goquery.Selection) []Listed {
	out := []Listed{}
	items.Each(func(_ int, el *goquery.Selection) {
		name := el.Find(".film-name a")
		link := s.abs(el.Find("a").First().AttrOr("href", ""))
		out = append(out, Listed{
			ID:            extractID(link),
			Title:         text(name),
			JapaneseTitle: attrPtr(name, "data-jname"),
			Image:         s.abs(imageSrc(el.Find("img").First())),
			URL:           link,
			Type:          text(el.Find(".tick")),
		})
	})
	return out
}

// resolveIDs fills every anilistId, running at most s.concurrency lookups at
// once. Each job writes a distinct field, so no locking is needed.
func (s *Service) resolveIDs(ctx context.Context, home *Home) {
	var jobs []titleJob
	for i := range home.Spotlight {
		jobs = append(jobs, titleJob{home.Spotlight[i].Title, &home.Spotlight[i].AnilistID})
	}
	for i := range home.Trending {
		jobs = append(jobs, titleJob{home.Trending[i].Title, &home.Trending[i].AnilistID})
	}
	for i := range home.TopAiring {
		jobs = append(jobs, titleJob{home.TopAiring[i].Title, &home.TopAiring[i].AnilistID})
	}
	for i := range home.Completed {
		jobs = append(jobs, titleJob{home.Completed[i].Title, &home.Completed[i].AnilistID})
	}
	for i := range home.LatestEpisodes {
		jobs = append(jobs, titleJob{home.LatestEpisodes[i].Title, &home.LatestEpisodes[i].AnilistID})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, job := range jobs {
		if job.title == "" {
			continue
		}
		job := job
		g.Go(func() error {
			if id, ok := s.ids.LookupID(gctx, job.title); ok {
				*job.dst = &id
			}
			return nil
		})
	}
	_ = g.Wait()

	s.log.Debug("home ids resolved", slog.Int("lookups", len(jobs)))
}
