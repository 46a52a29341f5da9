package chat

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/riverwood-projects/voice-agent/internal/agent"
	"github.com/riverwood-projects/voice-agent/internal/conversation"
	"github.com/riverwood-projects/voice-agent/internal/speech"
)

// Handler upgrades chat WebSocket connections and runs the reply pipeline
// for each inbound frame. Frames on one connection are processed strictly in
// arrival order; ordering across connections is not defined.
type Handler struct {
	hub           *Hub
	svc           *agent.Service
	log           *conversation.Log
	tts           speech.Synthesizer
	archiver      *conversation.Archiver
	allowedOrigin string
	isDev         bool
}

// NewHandler creates the WebSocket chat handler. tts and archiver may be
// nil.
func NewHandler(hub *Hub, svc *agent.Service, log *conversation.Log, tts speech.Synthesizer, archiver *conversation.Archiver, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		hub:           hub,
		svc:           svc,
		log:           log,
		tts:           tts,
		archiver:      archiver,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	id := h.hub.Register(ws)
	defer h.hub.Unregister(id)

	ctx := r.Context()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "conn_id", id)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "conn_id", id)
			}
			return
		}

		var frame agent.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.writeFrame(ctx, ws, agent.Frame{Type: agent.FrameError, Text: "invalid JSON message"})
			continue
		}

		switch frame.Type {
		case agent.FrameTextInput:
			h.handleTextInput(ctx, ws, frame.Text)
		case agent.FramePing:
			h.writeFrame(ctx, ws, agent.Frame{Type: agent.FramePong})
		default:
			h.writeFrame(ctx, ws, agent.Frame{Type: agent.FrameError, Text: "unknown message type"})
		}
	}
}

// handleTextInput runs the full pipeline for one typed utterance and replies
// on the same connection.
func (h *Handler) handleTextInput(ctx context.Context, ws *websocket.Conn, text string) {
	if strings.TrimSpace(text) == "" {
		h.writeFrame(ctx, ws, agent.Frame{Type: agent.FrameError, Text: "text is required"})
		return
	}

	reply, _ := h.svc.Respond(ctx, text, h.log.Recent(2))

	turn := conversation.Turn{User: text, Reply: reply, At: time.Now()}
	h.log.Append(turn)
	if h.archiver != nil {
		h.archiver.Record(turn)
	}

	h.writeFrame(ctx, ws, agent.Frame{
		Type:        agent.FrameResponse,
		Text:        reply,
		AudioOutput: h.synthesize(ctx, reply),
	})
}

func (h *Handler) synthesize(ctx context.Context, text string) string {
	if h.tts == nil {
		return ""
	}
	audio, err := h.tts.Synthesize(ctx, text)
	if err != nil {
		slog.Warn("Speech synthesis failed, sending text-only reply", "error", err)
		return ""
	}
	if len(audio) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(audio)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *Handler) writeFrame(ctx context.Context, ws *websocket.Conn, f agent.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		slog.Error("Failed to encode frame", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}
