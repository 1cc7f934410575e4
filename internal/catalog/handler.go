package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"animesource/internal/platform/respond"
)

// Handler exposes the catalog endpoints.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// GetHome handles GET /api/home.
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.svc.Home(r.Context())
	if err != nil {
		h.log.Error("home scrape failed", slog.String("error", err.Error()))
		respond.Fail(w, http.StatusInternalServerError, "Failed to fetch home data")
		return
	}
	respond.OK(w, home)
}

// GetInfo handles GET /api/info?id={showId}.
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	info, err := h.svc.Info(r.Context(), id)
	switch {
	case err == nil:
		respond.OK(w, info)
	case errors.Is(err, ErrValidation):
		msg := "id is required"
		if id != "" {
			msg = "id is invalid"
		}
		respond.Fail(w, http.StatusBadRequest, msg)
	case errors.Is(err, ErrNotFound):
		h.log.Info("anime not found", slog.String("id", id))
		respond.Fail(w, http.StatusNotFound, "Anime not found")
	default:
		h.log.Error("info scrape failed", slog.String("id", id), slog.String("error", err.Error()))
		respond.Fail(w, http.StatusInternalServerError, "Failed to fetch anime info")
	}
}
