// Package anilist maps show titles scraped from the anime site to AniList ids
// through a title lookup service.
package anilist

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"animesource/internal/platform/metrics"

	"github.com/tidwall/gjson"
)

// DefaultLookupURL is the title lookup endpoint; the escaped title is appended.
const DefaultLookupURL = "https://anilistapi.vercel.app/api/fetchNameid/"

// Fetcher performs one outbound GET. *upstream.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, header http.Header) ([]byte, error)
	PageHeaders() http.Header
}

// Resolver looks up AniList ids by title.
type Resolver struct {
	fetch     Fetcher
	lookupURL string
	store     Store
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// NewResolver returns a Resolver caching into store. Metrics may be nil.
func NewResolver(f Fetcher, lookupURL string, store Store, log *slog.Logger, m *metrics.Metrics) *Resolver {
	if lookupURL == "" {
		lookupURL = DefaultLookupURL
	}
	if !strings.HasSuffix(lookupURL, "/") {
		lookupURL += "/"
	}
	return &Resolver{fetch: f, lookupURL: lookupURL, store: store, log: log, metrics: m}
}

// LookupID resolves rawTitle after normalizing it. Successful lookups are
// cached; failures are not, so they are retried on the next call.
func (r *Resolver) LookupID(ctx context.Context, rawTitle string) (int, bool) {
	title := NormalizeTitle(rawTitle)
	if title == "" {
		return 0, false
	}

	if id, ok := r.store.Get(title); ok {
		r.observeCache(true)
		return id, true
	}
	r.observeCache(false)

	id, ok := r.query(ctx, title)
	if ok {
		r.store.Set(title, id)
	}
	return id, ok
}

// LookupExact resolves title as-is without touching the cache.
func (r *Resolver) LookupExact(ctx context.Context, title string) (int, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, false
	}
	return r.query(ctx, title)
}

// CacheLen reports how many titles are cached.
func (r *Resolver) CacheLen() int {
	return r.store.Len()
}

func (r *Resolver) query(ctx context.Context, title string) (int, bool) {
	body, err := r.fetch.Fetch(ctx, r.lookupURL+url.PathEscape(title), r.fetch.PageHeaders())
	if r.metrics != nil {
		r.metrics.ObserveFetch("anilist", err)
	}
	if err != nil {
		r.log.Debug("anilist lookup failed", slog.String("title", title), slog.String("error", err.Error()))
		return 0, false
	}

	id := gjson.GetBytes(body, "id").Int()
	if id <= 0 {
		id = gjson.GetBytes(body, "data.id").Int()
	}
	if id <= 0 {
		return 0, false
	}
	return int(id), true
}

func (r *Resolver) observeCache(hit bool) {
	if r.metrics != nil {
		r.metrics.ObserveCacheLookup(hit)
	}
}
