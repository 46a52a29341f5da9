package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/riverwood-projects/voice-agent/internal/conversation"
)

type fakeGen struct {
	available bool
	model     string
}

func (g *fakeGen) Available() bool { return g.available }
func (g *fakeGen) Model() string   { return g.model }

type fakeRepo struct {
	pingErr  error
	queryErr error
	turns    []conversation.Turn
}

func (r *fakeRepo) SaveTurn(context.Context, conversation.Turn) error { return nil }

func (r *fakeRepo) RecentTurns(_ context.Context, limit int) ([]conversation.Turn, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	if limit > len(r.turns) {
		limit = len(r.turns)
	}
	return r.turns[len(r.turns)-limit:], nil
}

func (r *fakeRepo) CountTurns(context.Context) (int64, error) {
	if r.queryErr != nil {
		return 0, r.queryErr
	}
	return int64(len(r.turns)), nil
}

func (r *fakeRepo) Ping(context.Context) error { return r.pingErr }
func (r *fakeRepo) Close() error               { return nil }

func serveHealth(t *testing.T, h *HealthHandler) (int, map[string]interface{}) {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterHealth(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	return w.Code, body
}

func TestHealthAllComponentsUp(t *testing.T) {
	h := NewHealthHandler(&fakeGen{available: true, model: "llama-3.1-8b-instant"}, &fakeRepo{})

	code, body := serveHealth(t, h)
	if code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if body["model"] != "llama-3.1-8b-instant" {
		t.Errorf("model = %v, want the pinned model", body["model"])
	}
	checks := body["checks"].(map[string]interface{})
	if checks["generation"] != "ok" || checks["transcript_store"] != "ok" {
		t.Errorf("checks = %v, want generation and transcript_store ok", checks)
	}
}

func TestHealthGenerationDownStillHealthy(t *testing.T) {
	h := NewHealthHandler(&fakeGen{available: false}, nil)

	code, body := serveHealth(t, h)
	if code != http.StatusOK {
		t.Fatalf("Status = %d, want 200: missing generation is not a degradation", code)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	checks := body["checks"].(map[string]interface{})
	if checks["generation"] != "unavailable" {
		t.Errorf("generation check = %v, want unavailable", checks["generation"])
	}
	if _, present := checks["transcript_store"]; present {
		t.Error("transcript_store check reported with archiving disabled")
	}
}

func TestHealthStoreUnreachable(t *testing.T) {
	h := NewHealthHandler(&fakeGen{available: true, model: "m"}, &fakeRepo{pingErr: errors.New("locked")})

	code, body := serveHealth(t, h)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", code)
	}
	if body["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", body["status"])
	}
}
