package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/riverwood-projects/voice-agent/internal/conversation"
	"github.com/riverwood-projects/voice-agent/internal/store"
)

const (
	defaultArchiveLimit = 20
	maxArchiveLimit     = 200
)

// ArchiveHandler exposes the transcript archive read side. The route is
// registered only when archiving is enabled; clearing the chat history never
// touches the archive, so this is where an operator reviews past turns.
type ArchiveHandler struct {
	repo store.Repository
}

// NewArchiveHandler creates an archive handler.
func NewArchiveHandler(repo store.Repository) *ArchiveHandler {
	return &ArchiveHandler{repo: repo}
}

// Archive handles GET /api/archive. The optional limit query parameter bounds
// how many of the most recent turns are returned.
func (h *ArchiveHandler) Archive(w http.ResponseWriter, r *http.Request) {
	limit := defaultArchiveLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxArchiveLimit {
		limit = maxArchiveLimit
	}

	total, err := h.repo.CountTurns(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to read archive")
		return
	}

	turns, err := h.repo.RecentTurns(r.Context(), limit)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to read archive")
		return
	}
	if turns == nil {
		turns = []conversation.Turn{}
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"total": total,
		"turns": turns,
	})
}

// RegisterArchive registers the archive inspection route.
func (h *ArchiveHandler) RegisterArchive(r chi.Router) {
	r.Get("/api/archive", h.Archive)
}
