package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/riverwood-projects/voice-agent/internal/store"
)

const healthCheckTimeout = 5 * time.Second

// GenerationStatus reports whether the language model collaborator is usable.
// Implemented by the llm client.
type GenerationStatus interface {
	Available() bool
	Model() string
}

// HealthHandler reports component availability. Generation being down is not
// a degradation: the pipeline serves canned replies without it. Only a
// failing transcript store marks the service degraded.
type HealthHandler struct {
	gen  GenerationStatus
	repo store.Repository // nil when archiving is disabled
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(gen GenerationStatus, repo store.Repository) *HealthHandler {
	return &HealthHandler{gen: gen, repo: repo}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := map[string]interface{}{
		"status": "healthy",
		"checks": checks,
	}
	statusCode := http.StatusOK

	if h.gen != nil && h.gen.Available() {
		checks["generation"] = "ok"
		status["model"] = h.gen.Model()
	} else {
		checks["generation"] = "unavailable"
	}

	if h.repo != nil {
		if err := h.repo.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			status["status"] = "degraded"
			checks["transcript_store"] = "unreachable"
			statusCode = http.StatusServiceUnavailable
		} else {
			checks["transcript_store"] = "ok"
		}
	}

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
