package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/versecraft/engine/internal/config"
	"github.com/versecraft/engine/internal/storage"
	"github.com/versecraft/engine/pkg/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; keep the logger quiet.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var kv storage.KV
	switch strings.ToLower(cfg.Backend) {
	case "redis":
		kv = storage.NewRedisKV(cfg.RedisURL, logger)
	case "memory":
		kv = storage.NewMemoryKV()
	default:
		kv, err = storage.NewSQLiteKV(cfg.SQLitePath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open save database: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() {
		_ = kv.Close()
	}()

	var source storage.StorySource
	if cfg.StoriesURL != "" {
		source = storage.NewHTTPSource(cfg.StoriesURL, logger)
	} else {
		source = storage.NewFSSource(cfg.DataDir, logger)
	}

	manifest, err := source.Manifest(context.Background())
	if err != nil || len(manifest.Stories) == 0 {
		fmt.Fprintf(os.Stderr, "No stories available: %v\n", err)
		os.Exit(1)
	}

	store := session.NewStore(kv, logger)

	p := tea.NewProgram(NewConsoleUI(source, store, manifest, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
