// Riverwood Voice Agent - bilingual construction-status assistant server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverwood-projects/voice-agent/internal/agent"
	"github.com/riverwood-projects/voice-agent/internal/api"
	"github.com/riverwood-projects/voice-agent/internal/chat"
	"github.com/riverwood-projects/voice-agent/internal/config"
	"github.com/riverwood-projects/voice-agent/internal/conversation"
	"github.com/riverwood-projects/voice-agent/internal/llm"
	"github.com/riverwood-projects/voice-agent/internal/middleware"
	"github.com/riverwood-projects/voice-agent/internal/speech"
	"github.com/riverwood-projects/voice-agent/internal/store"
	"github.com/riverwood-projects/voice-agent/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Optional transcript archive.
	var repo store.Repository
	var archiver *conversation.Archiver
	if cfg.Transcript.DBPath != "" {
		repo, err = store.NewSQLite(cfg.Transcript.DBPath)
		if err != nil {
			slog.Error("Failed to initialize transcript archive", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				slog.Error("Failed to close transcript archive", "error", closeErr)
			}
		}()

		if err := repo.Ping(context.Background()); err != nil {
			slog.Error("Transcript archive health check failed", "error", err)
			os.Exit(1)
		}
		archiver = conversation.NewArchiver(repo, cfg.Transcript.QueueSize, logger)
		defer archiver.Close()
		slog.Info("Transcript archive enabled", "path", cfg.Transcript.DBPath)
	} else {
		slog.Info("Transcript archive disabled (TRANSCRIPT_DB_PATH not set)")
	}

	// Generation collaborator: probed once, pinned for the process lifetime.
	genClient := llm.NewClient(llm.Config{
		APIKey:  cfg.Groq.APIKey,
		BaseURL: cfg.Groq.BaseURL,
		Models:  cfg.Groq.Models,
		Timeout: cfg.Groq.Timeout,
	}, logger)

	// Speech collaborators.
	transcriber := speech.NewGroqTranscriber(speech.TranscriberConfig{
		APIKey:  cfg.Groq.APIKey,
		BaseURL: cfg.Groq.BaseURL,
	}, logger)
	synthesizer := speech.NewTranslateSynthesizer(speech.SynthesizerConfig{
		BaseURL: cfg.TTSBaseURL,
	}, logger)

	// Core pipeline state and services.
	convLog := conversation.NewLog()
	svc := agent.NewService(genClient, cfg.Groq.Timeout, logger)

	hub := chat.NewHub()
	defer hub.CloseAll()

	agentHandler := agent.NewHandler(svc, convLog, transcriber, synthesizer, hub, archiver, logger)
	chatHandler := chat.NewHandler(hub, svc, convLog, synthesizer, archiver, cfg.FrontendURL, cfg.IsDevelopment())
	healthHandler := api.NewHealthHandler(genClient, repo)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(middleware.Metrics)

	healthHandler.RegisterHealth(r)
	agentHandler.RegisterRoutes(r)

	// Operator view of the transcript archive, only when one exists.
	if repo != nil {
		api.NewArchiveHandler(repo).RegisterArchive(r)
	}

	// WebSocket chat endpoint.
	r.Get("/ws", chatHandler.ServeHTTP)

	// Operational metrics.
	r.Handle("/metrics", promhttp.Handler())

	// Serve embedded voice console.
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
