package anilist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"animesource/internal/platform/logger"
	"animesource/internal/platform/metrics"
	"animesource/internal/upstream"

	"github.com/go-chi/chi/v5"
)

type lookupSite struct {
	srv *httptest.Server

	mu     sync.Mutex
	titles []string
}

func newLookupSite(t *testing.T, answers map[string]string) *lookupSite {
	t.Helper()
	s := &lookupSite{}
	r := chi.NewRouter()
	r.Get("/api/fetchNameid/{title}", func(w http.ResponseWriter, r *http.Request) {
		title := chi.URLParam(r, "title")
		s.mu.Lock()
		s.titles = append(s.titles, title)
		s.mu.Unlock()

		body, ok := answers[title]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *lookupSite) requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.titles...)
}

func (s *lookupSite) resolver(t *testing.T, m *metrics.Metrics) *Resolver {
	t.Helper()
	store, err := NewLRUStore(16)
	if err != nil {
		t.Fatal(err)
	}
	client := upstream.New(s.srv.Client())
	return NewResolver(client, s.srv.URL+"/api/fetchNameid", store, logger.Discard(), m)
}

func TestResolver_LookupID_caches_positive(t *testing.T) {
	site := newLookupSite(t, map[string]string{
		"Attack on Titan": `{"id":16498}`,
	})
	m := metrics.New()
	r := site.resolver(t, m)
	ctx := context.Background()

	id, ok := r.LookupID(ctx, "Attack on Titan Season 2")
	if !ok || id != 16498 {
		t.Fatalf("LookupID = %d, %v; want 16498, true", id, ok)
	}
	id, ok = r.LookupID(ctx, "Attack on Titan Part 3")
	if !ok || id != 16498 {
		t.Fatalf("cached LookupID = %d, %v; want 16498, true", id, ok)
	}

	if got := site.requests(); len(got) != 1 || got[0] != "Attack on Titan" {
		t.Errorf("lookup requests = %q, want one for normalized title", got)
	}
	if r.CacheLen() != 1 {
		t.Errorf("CacheLen = %d, want 1", r.CacheLen())
	}
}

func TestResolver_LookupID_nested_id(t *testing.T) {
	site := newLookupSite(t, map[string]string{
		"Frieren": `{"data":{"id":154587}}`,
	})
	r := site.resolver(t, nil)

	id, ok := r.LookupID(context.Background(), "Frieren")
	if !ok || id != 154587 {
		t.Errorf("LookupID = %d, %v; want 154587, true", id, ok)
	}
}

func TestResolver_LookupID_failures_not_cached(t *testing.T) {
	site := newLookupSite(t, map[string]string{
		"Empty": `{"data":null}`,
		"Zero":  `{"id":0}`,
		"Bad":   `<html>`,
	})
	r := site.resolver(t, nil)
	ctx := context.Background()

	for _, title := range []string{"Empty", "Zero", "Bad", "Missing"} {
		if id, ok := r.LookupID(ctx, title); ok {
			t.Errorf("LookupID(%q) = %d, want failure", title, id)
		}
	}
	r.LookupID(ctx, "Missing")

	if r.CacheLen() != 0 {
		t.Errorf("CacheLen = %d, want 0", r.CacheLen())
	}
	if n := len(site.requests()); n != 5 {
		t.Errorf("requests = %d, want 5 (failures retried)", n)
	}
}

func TestResolver_LookupID_blank_title(t *testing.T) {
	site := newLookupSite(t, nil)
	r := site.resolver(t, nil)

	if _, ok := r.LookupID(context.Background(), " Season 1 "); ok {
		t.Error("blank normalized title should fail")
	}
	if n := len(site.requests()); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestResolver_LookupExact_skips_cache(t *testing.T) {
	site := newLookupSite(t, map[string]string{
		"Mob Psycho 100 II": `{"id":101338}`,
	})
	r := site.resolver(t, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		id, ok := r.LookupExact(ctx, "Mob Psycho 100 II")
		if !ok || id != 101338 {
			t.Fatalf("LookupExact = %d, %v; want 101338, true", id, ok)
		}
	}
	if n := len(site.requests()); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}
	if r.CacheLen() != 0 {
		t.Errorf("CacheLen = %d, want 0", r.CacheLen())
	}
}
