package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/riverwood-projects/voice-agent/internal/api"
	"github.com/riverwood-projects/voice-agent/internal/conversation"
	"github.com/riverwood-projects/voice-agent/internal/metrics"
	"github.com/riverwood-projects/voice-agent/internal/speech"
	"github.com/riverwood-projects/voice-agent/internal/status"
)

// maxRequestBodySize caps JSON bodies (1MB).
const maxRequestBodySize = 1 << 20

// maxAudioUploadSize caps audio uploads (10MB).
const maxAudioUploadSize = 10 << 20

// Broadcaster fans a JSON frame out to every connected chat client.
// Implemented by the chat hub; nil disables fan-out.
type Broadcaster interface {
	Broadcast(ctx context.Context, v any)
}

// Handler exposes the REST endpoints of the voice agent.
type Handler struct {
	svc      *Service
	log      *conversation.Log
	stt      speech.Transcriber
	tts      speech.Synthesizer
	hub      Broadcaster
	archiver *conversation.Archiver
	logger   *slog.Logger
}

// NewHandler creates the REST handler. stt, tts, hub, and archiver may each
// be nil; the corresponding step is skipped.
func NewHandler(svc *Service, log *conversation.Log, stt speech.Transcriber, tts speech.Synthesizer, hub Broadcaster, archiver *conversation.Archiver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:      svc,
		log:      log,
		stt:      stt,
		tts:      tts,
		hub:      hub,
		archiver: archiver,
		logger:   logger,
	}
}

// RegisterRoutes registers the pipeline and inspection routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/text", h.HandleText)
		r.Post("/audio", h.HandleAudio)
		r.Get("/history", h.HandleHistory)
		r.Post("/history/clear", h.HandleClear)
		r.Get("/status", h.HandleStatus)
	})
}

// HandleText runs the pipeline for a typed utterance.
func (h *Handler) HandleText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	text := req.Text
	reply, _ := h.svc.Respond(r.Context(), text, h.log.Recent(2))
	h.recordTurn(text, reply)

	api.JSON(w, http.StatusOK, PipelineResponse{
		Success:     true,
		Response:    reply,
		AudioOutput: h.synthesize(r.Context(), reply),
	})
}

// HandleAudio transcribes an uploaded recording and runs the pipeline on the
// transcript. The transcript and reply are also broadcast to connected chat
// clients so open consoles stay in sync.
func (h *Handler) HandleAudio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUploadSize); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUploadSize))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	transcript, err := h.transcribe(r.Context(), audio, header.Filename)
	if err != nil || transcript == "" {
		if err != nil {
			h.logger.Warn("transcription failed", "error", err)
		}
		metrics.TranscriptionsTotal.WithLabelValues("failed").Inc()
		// User-visible outcome, not a server error: the pipeline never
		// invents an utterance.
		api.JSON(w, http.StatusOK, PipelineResponse{
			Success: false,
			Error:   "could not understand audio",
		})
		return
	}
	metrics.TranscriptionsTotal.WithLabelValues("ok").Inc()

	reply, _ := h.svc.Respond(r.Context(), transcript, h.log.Recent(2))
	h.recordTurn(transcript, reply)

	h.broadcast(r.Context(), Frame{Type: FrameTranscript, Text: transcript})
	h.broadcast(r.Context(), Frame{Type: FrameResponse, Text: reply})

	api.JSON(w, http.StatusOK, PipelineResponse{
		Success:     true,
		Transcript:  transcript,
		Response:    reply,
		AudioOutput: h.synthesize(r.Context(), reply),
	})
}

// HandleHistory returns the full conversation log.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	turns := h.log.Snapshot()
	if turns == nil {
		turns = []conversation.Turn{}
	}
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"conversation_history": turns,
	})
}

// HandleClear resets the conversation log. Clearing an empty log succeeds.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.log.Reset()
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "conversation history cleared",
	})
}

// HandleStatus returns the construction status snapshot.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	report, at := status.Current()
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"timestamp": at.Format(time.RFC3339),
		"updates": map[string]interface{}{
			"current_status": report,
		},
	})
}

func (h *Handler) transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if h.stt == nil {
		return "", errors.New("transcription not configured")
	}
	return h.stt.Transcribe(ctx, audio, filename)
}

// recordTurn appends the turn to the shared log and queues it for archiving.
func (h *Handler) recordTurn(user, reply string) {
	turn := conversation.Turn{User: user, Reply: reply, At: time.Now()}
	h.log.Append(turn)
	if h.archiver != nil {
		h.archiver.Record(turn)
	}
}

// synthesize returns the reply audio as base64, or "" when synthesis is
// unavailable or fails. Failures never block the text reply.
func (h *Handler) synthesize(ctx context.Context, text string) string {
	if h.tts == nil {
		return ""
	}
	audio, err := h.tts.Synthesize(ctx, text)
	if err != nil {
		h.logger.Warn("speech synthesis failed, sending text-only reply", "error", err)
		metrics.SynthesisFailuresTotal.Inc()
		return ""
	}
	if len(audio) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(audio)
}

func (h *Handler) broadcast(ctx context.Context, f Frame) {
	if h.hub != nil {
		h.hub.Broadcast(ctx, f)
	}
}
