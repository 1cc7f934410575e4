package episode

import (
	"errors"
	"log/slog"
	"net/http"

	"animesource/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

const playlistContentType = "application/vnd.apple.mpegurl"

// Handler exposes the episode source endpoints.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// GetSource handles GET /api/episode/source/{id} (and /api/watch/{id}).
// The id may also come from the episodeId query parameter.
func (h *Handler) GetSource(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resolve(w, r)
	if !ok {
		return
	}
	respond.OK(w, res)
}

// GetMasterPlaylist handles GET /api/episode/source/{id}/master.m3u8 and
// serves the resolved streams as an HLS master playlist.
func (h *Handler) GetMasterPlaylist(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if len(res.Streams) == 0 {
		respond.Fail(w, http.StatusNotFound, "No streams resolved")
		return
	}

	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(BuildMasterPlaylist(res.Streams)))
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*Result, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.URL.Query().Get("episodeId")
	}

	res, err := h.svc.Resolve(r.Context(), id)
	if err == nil {
		return res, true
	}

	var upErr *UpstreamError
	switch {
	case errors.Is(err, ErrValidation):
		h.log.Debug("invalid episode request", slog.String("episode_id", id), slog.String("error", err.Error()))
		msg := "episodeId is required"
		if id != "" {
			msg = "episodeId is invalid"
		}
		respond.Fail(w, http.StatusBadRequest, msg)
	case errors.As(err, &upErr):
		h.log.Error("server directory unavailable", slog.String("episode_id", id), slog.String("error", err.Error()))
		respond.Fail(w, http.StatusInternalServerError, upErr.Message)
	default:
		h.log.Error("resolve episode failed", slog.String("episode_id", id), slog.String("error", err.Error()))
		respond.Fail(w, http.StatusInternalServerError, "Internal Server Error")
	}
	return nil, false
}
