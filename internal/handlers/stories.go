package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/versecraft/engine/internal/storage"
	"github.com/versecraft/engine/pkg/story"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StorySummary is the document-level view served per story, without the
// full section graph.
type StorySummary struct {
	ID             string             `json:"id"`
	Title          string             `json:"title,omitempty"`
	Subtitle       string             `json:"subtitle,omitempty"`
	StartSectionID string             `json:"startSectionId"`
	SectionCount   int                `json:"sectionCount"`
	Module         story.ModuleConfig `json:"module"`
}

// StoriesHandler serves the story collection.
// Routes:
// GET /v1/stories      - Collection manifest
// GET /v1/stories/{id} - Document summary for one story
type StoriesHandler struct {
	source storage.StorySource
	logger *slog.Logger
}

func NewStoriesHandler(source storage.StorySource, logger *slog.Logger) *StoriesHandler {
	return &StoriesHandler{source: source, logger: logger}
}

func (h *StoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		writeJSON(h.logger, w, ErrorResponse{Error: "Method not allowed. Supported methods: GET"})
		return
	}

	m, err := h.source.Manifest(r.Context())
	if err != nil {
		h.logger.Error("Failed to load stories manifest", "error", err)
		var te *storage.TransportError
		if errors.As(err, &te) {
			w.WriteHeader(http.StatusBadGateway)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to load story collection"})
		return
	}

	storyID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/stories"), "/")
	if storyID == "" {
		w.WriteHeader(http.StatusOK)
		writeJSON(h.logger, w, m)
		return
	}

	info, ok := m.Find(storyID)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(h.logger, w, ErrorResponse{Error: "Story not found: " + storyID})
		return
	}

	st, err := h.source.FetchStory(r.Context(), info.File)
	if err != nil {
		h.logger.Error("Failed to fetch story", "file", info.File, "error", err)
		var te *storage.TransportError
		if errors.As(err, &te) {
			w.WriteHeader(http.StatusBadGateway)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to fetch story: " + storyID})
		return
	}

	w.WriteHeader(http.StatusOK)
	writeJSON(h.logger, w, StorySummary{
		ID:             st.ID,
		Title:          st.Title,
		Subtitle:       st.Subtitle,
		StartSectionID: st.StartSectionID,
		SectionCount:   len(st.Sections),
		Module:         st.Module,
	})
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
