package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/versecraft/engine/internal/config"
	"github.com/versecraft/engine/internal/handlers"
	"github.com/versecraft/engine/internal/logger"
	"github.com/versecraft/engine/internal/middleware"
	"github.com/versecraft/engine/internal/storage"
	"github.com/versecraft/engine/pkg/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting VerseCraft engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"backend", cfg.Backend)

	var kv storage.KV
	switch strings.ToLower(cfg.Backend) {
	case "redis":
		rkv := storage.NewRedisKV(cfg.RedisURL, log)
		waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := rkv.WaitForConnection(waitCtx); err != nil {
			waitCancel()
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		waitCancel()
		kv = rkv
	case "sqlite":
		skv, err := storage.NewSQLiteKV(cfg.SQLitePath, log)
		if err != nil {
			log.Error("Failed to open SQLite database", "error", err, "path", cfg.SQLitePath)
			os.Exit(1)
		}
		kv = skv
	case "memory":
		log.Warn("Using in-memory save storage; saves will not survive a restart")
		kv = storage.NewMemoryKV()
	default:
		log.Error("Invalid storage backend", "backend", cfg.Backend, "supported", []string{"redis", "sqlite", "memory"})
		os.Exit(1)
	}
	log.Info("Save storage ready", "backend", cfg.Backend)

	var source storage.StorySource
	if cfg.StoriesURL != "" {
		source = storage.NewHTTPSource(cfg.StoriesURL, log)
		log.Info("Serving remote story collection", "url", cfg.StoriesURL)
	} else {
		source = storage.NewFSSource(cfg.DataDir, log)
		log.Info("Serving local story collection", "dir", cfg.DataDir)
	}

	store := session.NewStore(kv, log)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(kv, source, log))
	storiesHandler := handlers.NewStoriesHandler(source, log)
	mux.Handle("/v1/stories", storiesHandler)
	mux.Handle("/v1/stories/", storiesHandler)

	sessionHandler := handlers.NewSessionHandler(kv, source, store, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := kv.Close(); err != nil {
		log.Error("Error closing save storage", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
