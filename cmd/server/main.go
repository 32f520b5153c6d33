// NexusCoach - Wild Rift voice coaching server
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
	"github.com/nexuscoach/nexuscoach/internal/api"
	"github.com/nexuscoach/nexuscoach/internal/coach"
	"github.com/nexuscoach/nexuscoach/internal/config"
	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/llm"
	"github.com/nexuscoach/nexuscoach/internal/middleware"
	"github.com/nexuscoach/nexuscoach/internal/session"
	"github.com/nexuscoach/nexuscoach/internal/store"
	"github.com/nexuscoach/nexuscoach/internal/stt"
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

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	store.Seed(context.Background(), repo)

	generator, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
	})
	if err != nil {
		slog.Error("Failed to initialize LLM provider", "error", err)
		os.Exit(1)
	}
	slog.Info("LLM provider ready", "provider", generator.Name())

	transcriber, err := stt.New(stt.Config{
		Provider: cfg.STT.Provider,
		APIKey:   cfg.STT.APIKey,
		Model:    cfg.STT.Model,
	})
	if err != nil {
		slog.Error("Failed to initialize STT provider", "error", err)
		os.Exit(1)
	}
	slog.Info("STT provider ready", "provider", transcriber.Name())

	// Initialize services.
	sessions := session.NewManager(cfg.MaxHistory)
	svc := coach.NewService(sessions, repo, generator, transcriber, coach.Options{
		AdviceTopK: cfg.AdviceTopK,
		LLMTimeout: cfg.LLM.Timeout,
	})

	// Initialize handlers.
	baseHandler := api.NewHandler(svc, repo)
	coachHandler := api.NewCoachHandler(baseHandler)
	adminHandler := api.NewAdminHandler(baseHandler)
	wsHandler := api.NewWebSocketHandler(svc, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	coachHandler.RegisterRoutes(r)
	adminHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/coach", wsHandler.ServeHTTP)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	// Start TTL worker.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartTTLWorker(ctx, sessions, cfg.SessionTTL, func(ctx context.Context, s *domain.Session) {
		if err := repo.LogSessionEnd(ctx, s, nil); err != nil {
			slog.Warn("Failed to log expired session", "session_id", s.ID, "error", err)
		}
	})
	slog.Info("TTL worker started", "session_ttl", cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
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
