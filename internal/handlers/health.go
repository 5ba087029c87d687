package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/versecraft/engine/internal/storage"
)

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

type HealthHandler struct {
	kv     storage.KV
	source storage.StorySource
	logger *slog.Logger
}

func NewHealthHandler(kv storage.KV, source storage.StorySource, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		kv:     kv,
		source: source,
		logger: logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string)
	overallStatus := "healthy"

	if err := h.kv.Ping(ctx); err != nil {
		h.logger.Warn("Save storage health check failed", "error", err)
		components["saves"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["saves"] = "healthy"
	}

	if _, err := h.source.Manifest(ctx); err != nil {
		h.logger.Warn("Story source health check failed", "error", err)
		components["stories"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["stories"] = "healthy"
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "versecraft-engine",
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
