package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"animesource/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func serveCatalog(t *testing.T, site *catalogSite, target string) (int, envelope) {
	t.Helper()
	h := NewHandler(site.service(t, &fakeIDs{}), logger.Discard())
	r := chi.NewRouter()
	r.Get("/api/home", h.GetHome)
	r.Get("/api/info", h.GetInfo)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestHandler_GetHome(t *testing.T) {
	site := newCatalogSite(t)
	code, env := serveCatalog(t, site, "/api/home")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("status=%d success=%v", code, env.Success)
	}
	var home Home
	if err := json.Unmarshal(env.Data, &home); err != nil {
		t.Fatal(err)
	}
	if len(home.Spotlight) != 1 || len(home.Genres) != 2 {
		t.Errorf("home = %+v", home)
	}
}

func TestHandler_GetHome_failure(t *testing.T) {
	site := newCatalogSite(t)
	site.home = ""
	code, env := serveCatalog(t, site, "/api/home")
	if code != http.StatusInternalServerError || env.Success || env.Message != "Failed to fetch home data" {
		t.Errorf("status=%d env=%+v", code, env)
	}
}

func TestHandler_GetInfo(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		infoStatus int
		wantCode   int
		wantMsg    string
	}{
		{"ok", "/api/info?id=frieren-18542", http.StatusOK, http.StatusOK, ""},
		{"missing_id", "/api/info", http.StatusOK, http.StatusBadRequest, "id is required"},
		{"invalid_id", "/api/info?id=a%2Fb", http.StatusOK, http.StatusBadRequest, "id is invalid"},
		{"not_found", "/api/info?id=gone-1", http.StatusNotFound, http.StatusNotFound, "Anime not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := newCatalogSite(t)
			site.infoStatus = tt.infoStatus
			code, env := serveCatalog(t, site, tt.target)
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
			if env.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if env.Success != (tt.wantCode == http.StatusOK) {
				t.Errorf("success = %v", env.Success)
			}
		})
	}
}
