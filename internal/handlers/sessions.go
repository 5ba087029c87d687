package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/versecraft/engine/internal/storage"
	"github.com/versecraft/engine/pkg/engine"
	"github.com/versecraft/engine/pkg/player"
	"github.com/versecraft/engine/pkg/session"
	"github.com/versecraft/engine/pkg/story"
)

// SessionHandler owns the run lifecycle over HTTP.
// Routes:
// POST /v1/sessions               - Start a new run
// POST /v1/sessions/continue      - Resume the most recent save
// GET  /v1/sessions/{id}          - Current snapshot
// POST /v1/sessions/{id}/choice   - Take a visible choice
// POST /v1/sessions/{id}/save     - Save to a slot
// POST /v1/sessions/{id}/load     - Load a slot (same story only)
type SessionHandler struct {
	kv     storage.KV
	source storage.StorySource
	store  *session.Store
	logger *slog.Logger
}

func NewSessionHandler(kv storage.KV, source storage.StorySource, store *session.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		kv:     kv,
		source: source,
		store:  store,
		logger: logger,
	}
}

// sessionRecord is the per-session persistence shape. The story file is
// recorded so the document can be refetched without a manifest lookup.
type sessionRecord struct {
	ID        uuid.UUID     `json:"id"`
	StoryID   string        `json:"storyId"`
	StoryFile string        `json:"storyFile"`
	SectionID string        `json:"sectionId"`
	Player    *player.State `json:"player"`
}

type CreateSessionRequest struct {
	StoryID string `json:"storyId"` // Optional: defaults to the manifest's default story
}

type ChoiceRequest struct {
	Index int `json:"index"`
}

type SaveRequest struct {
	Slot int `json:"slot"`
}

type LoadRequest struct {
	StoryID string `json:"storyId"` // Optional: defaults to the active story
	Slot    int    `json:"slot"`
}

type ChoiceResponse struct {
	Outcome  *engine.Outcome  `json:"outcome"`
	Snapshot *engine.Snapshot `json:"snapshot"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			writeJSON(h.logger, w, ErrorResponse{Error: "Method not allowed. Supported methods: POST"})
			return
		}
		h.handleCreate(w, r)
		return
	}

	if path == "continue" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			writeJSON(h.logger, w, ErrorResponse{Error: "Method not allowed. Supported methods: POST"})
			return
		}
		h.handleContinue(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(h.logger, w, ErrorResponse{Error: "Invalid session ID format"})
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleSnapshot(w, r, id)
	case action == "choice" && r.Method == http.MethodPost:
		h.handleChoice(w, r, id)
	case action == "save" && r.Method == http.MethodPost:
		h.handleSave(w, r, id)
	case action == "load" && r.Method == http.MethodPost:
		h.handleLoad(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		writeJSON(h.logger, w, ErrorResponse{Error: "Method not allowed"})
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(h.logger, w, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	info, err := h.resolveStory(r.Context(), req.StoryID)
	if err != nil {
		h.logger.Warn("Story not found", "story", req.StoryID, "error", err)
		w.WriteHeader(http.StatusNotFound)
		writeJSON(h.logger, w, ErrorResponse{Error: err.Error()})
		return
	}

	st, err := h.source.FetchStory(r.Context(), info.File)
	if err != nil {
		h.writeFetchError(w, info.File, err)
		return
	}

	// Experience is a single global track: a new run starts from wherever
	// the player last left it.
	prog, err := h.store.LoadProgression(r.Context())
	if err != nil {
		h.logger.Error("Failed to load progression", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to load progression"})
		return
	}

	sess := engine.NewSession(st, player.NewState(st.Module, prog), h.logger)
	if err := h.persist(r.Context(), sess, info.File); err != nil {
		h.logger.Error("Failed to persist new session", "error", err, "id", sess.ID.String())
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to create session"})
		return
	}

	h.logger.Info("Session created", "id", sess.ID.String(), "story", st.ID)
	w.WriteHeader(http.StatusCreated)
	writeJSON(h.logger, w, sess.Snapshot())
}

func (h *SessionHandler) handleContinue(w http.ResponseWriter, r *http.Request) {
	lp, err := h.store.LastPlayed(r.Context())
	if err != nil {
		h.logger.Error("Failed to read last-played pointer", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to read last-played pointer"})
		return
	}
	if lp == nil {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(h.logger, w, ErrorResponse{Error: "No saved game to continue"})
		return
	}

	saved, err := h.store.Load(r.Context(), lp.StoryID, lp.Slot)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	info, err := h.resolveStory(r.Context(), saved.StoryID)
	if err != nil {
		h.logger.Warn("Saved story no longer in collection", "story", saved.StoryID)
		w.WriteHeader(http.StatusNotFound)
		writeJSON(h.logger, w, ErrorResponse{Error: err.Error()})
		return
	}

	st, err := h.source.FetchStory(r.Context(), info.File)
	if err != nil {
		h.writeFetchError(w, info.File, err)
		return
	}

	sess := engine.ResumeSession(uuid.New(), st, saved.SectionID, saved.Player, h.logger)
	if err := h.persist(r.Context(), sess, info.File); err != nil {
		h.logger.Error("Failed to persist resumed session", "error", err, "id", sess.ID.String())
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to resume session"})
		return
	}

	h.logger.Info("Session resumed from last save", "id", sess.ID.String(), "story", st.ID, "slot", lp.Slot)
	w.WriteHeader(http.StatusOK)
	writeJSON(h.logger, w, sess.Snapshot())
}

func (h *SessionHandler) handleSnapshot(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, _, ok := h.restore(w, r, id)
	if !ok {
		return
	}
	w.WriteHeader(http.StatusOK)
	writeJSON(h.logger, w, sess.Snapshot())
}

func (h *SessionHandler) handleChoice(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, file, ok := h.restore(w, r, id)
	if !ok {
		return
	}

	var req ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(h.logger, w, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	outcome, err := sess.Choose(req.Index)
	if err != nil {
		var missing *engine.MissingSectionError
		if errors.As(err, &missing) {
			h.logger.Warn("Choice led to a missing section", "id", id.String(), "section", missing.SectionID)
			w.WriteHeader(http.StatusUnprocessableEntity)
			writeJSON(h.logger, w, ErrorResponse{Error: err.Error()})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(h.logger, w, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.persist(r.Context(), sess, file); err != nil {
		h.logger.Error("Failed to persist session after choice", "error", err, "id", id.String())
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to persist session"})
		return
	}

	w.WriteHeader(http.StatusOK)
	writeJSON(h.logger, w, ChoiceResponse{Outcome: outcome, Snapshot: sess.Snapshot()})
}

func (h *SessionHandler) handleSave(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, _, ok := h.restore(w, r, id)
	if !ok {
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(h.logger, w, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}

	st := &session.State{
		StoryID:   sess.Story.ID,
		SectionID: sess.SectionID,
		Player:    sess.Player,
	}
	if err := h.store.Save(r.Context(), st, req.Slot); err != nil {
		h.logger.Warn("Save failed", "id", id.String(), "slot", req.Slot, "error", err)
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(h.logger, w, ErrorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	writeJSON(h.logger, w, st)
}

func (h *SessionHandler) handleLoad(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, file, ok := h.restore(w, r, id)
	if !ok {
		return
	}

	var req LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(h.logger, w, ErrorResponse{Error: "Invalid JSON in request body"})
		return
	}
	if req.StoryID == "" {
		req.StoryID = sess.Story.ID
	}

	saved, err := h.store.LoadStrict(r.Context(), sess.Story.ID, req.StoryID, req.Slot)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	resumed := engine.ResumeSession(sess.ID, sess.Story, saved.SectionID, saved.Player, h.logger)
	if err := h.persist(r.Context(), resumed, file); err != nil {
		h.logger.Error("Failed to persist loaded session", "error", err, "id", id.String())
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to persist session"})
		return
	}

	h.logger.Info("Save loaded into session", "id", id.String(), "slot", req.Slot)
	w.WriteHeader(http.StatusOK)
	writeJSON(h.logger, w, resumed.Snapshot())
}

// restore rebuilds the engine session from its persisted record, writing the
// error response itself on failure.
func (h *SessionHandler) restore(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*engine.Session, string, bool) {
	raw, err := h.kv.Get(r.Context(), sessionKey(id))
	if err != nil {
		h.logger.Error("Failed to read session", "error", err, "id", id.String())
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to read session"})
		return nil, "", false
	}
	if raw == "" {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(h.logger, w, ErrorResponse{Error: "Session not found"})
		return nil, "", false
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		h.logger.Error("Failed to unmarshal session", "error", err, "id", id.String())
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(h.logger, w, ErrorResponse{Error: "Failed to read session"})
		return nil, "", false
	}

	st, err := h.source.FetchStory(r.Context(), rec.StoryFile)
	if err != nil {
		h.writeFetchError(w, rec.StoryFile, err)
		return nil, "", false
	}

	return engine.ResumeSession(rec.ID, st, rec.SectionID, rec.Player, h.logger), rec.StoryFile, true
}

func (h *SessionHandler) persist(ctx context.Context, sess *engine.Session, file string) error {
	rec := sessionRecord{
		ID:        sess.ID,
		StoryID:   sess.Story.ID,
		StoryFile: file,
		SectionID: sess.SectionID,
		Player:    sess.Player,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return h.kv.Set(ctx, sessionKey(sess.ID), string(data))
}

// resolveStory maps a story id to its manifest entry, defaulting when the
// id is empty.
func (h *SessionHandler) resolveStory(ctx context.Context, storyID string) (*story.Info, error) {
	m, err := h.source.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load story collection: %w", err)
	}
	if storyID == "" {
		info, ok := m.Default()
		if !ok {
			return nil, fmt.Errorf("story collection is empty")
		}
		return info, nil
	}
	info, ok := m.Find(storyID)
	if !ok {
		return nil, fmt.Errorf("story not found: %s", storyID)
	}
	return info, nil
}

func (h *SessionHandler) writeFetchError(w http.ResponseWriter, file string, err error) {
	h.logger.Error("Failed to fetch story", "file", file, "error", err)
	var te *storage.TransportError
	if errors.As(err, &te) {
		w.WriteHeader(http.StatusBadGateway)
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	writeJSON(h.logger, w, ErrorResponse{Error: "Failed to fetch story: " + file})
}

func (h *SessionHandler) writeStoreError(w http.ResponseWriter, err error) {
	var mismatch *session.MismatchError
	switch {
	case errors.Is(err, session.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.As(err, &mismatch):
		w.WriteHeader(http.StatusConflict)
	default:
		h.logger.Error("Save store error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
	writeJSON(h.logger, w, ErrorResponse{Error: err.Error()})
}

func sessionKey(id uuid.UUID) string {
	return "session::" + id.String()
}
