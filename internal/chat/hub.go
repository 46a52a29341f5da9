// Package chat provides the WebSocket chat endpoint and the registry of open
// connections.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/riverwood-projects/voice-agent/internal/metrics"
)

const broadcastWriteTimeout = 5 * time.Second

// Hub tracks every open chat connection and fans broadcast frames out to all
// of them. One failing connection never affects the others.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*websocket.Conn
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*websocket.Conn)}
}

// Register adds a connection and returns its id.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()

	h.mu.Lock()
	h.conns[id] = conn
	total := len(h.conns)
	h.mu.Unlock()

	metrics.ActiveConnections.Set(float64(total))
	slog.Info("Chat connection registered", "conn_id", id, "total", total)
	return id
}

// Unregister removes a connection by id.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	_, ok := h.conns[id]
	delete(h.conns, id)
	total := len(h.conns)
	h.mu.Unlock()

	if ok {
		metrics.ActiveConnections.Set(float64(total))
		slog.Info("Chat connection removed", "conn_id", id, "total", total)
	}
}

// Count reports the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends v as a JSON text frame to every connection. Connections
// that fail to accept the write are dropped from the hub.
func (h *Hub) Broadcast(ctx context.Context, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode broadcast frame", "error", err)
		return
	}

	h.mu.RLock()
	targets := make(map[string]*websocket.Conn, len(h.conns))
	for id, conn := range h.conns {
		targets[id] = conn
	}
	h.mu.RUnlock()

	for id, conn := range targets {
		writeCtx, cancel := context.WithTimeout(ctx, broadcastWriteTimeout)
		err := conn.Write(writeCtx, websocket.MessageText, data)
		cancel()
		if err != nil {
			slog.Debug("Broadcast write failed, dropping connection", "conn_id", id, "error", err)
			h.Unregister(id)
		}
	}
}

// CloseAll closes every connection; used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]*websocket.Conn)
	h.mu.Unlock()

	for id, conn := range conns {
		if err := conn.Close(websocket.StatusGoingAway, "server shutting down"); err != nil {
			slog.Debug("Failed to close chat connection", "conn_id", id, "error", err)
		}
	}
	metrics.ActiveConnections.Set(0)
}
