package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versecraft/engine/internal/storage"
	"github.com/versecraft/engine/pkg/story"
)

func TestStoriesHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stories.json"), []byte(testManifest), 0o644))

	handler := NewStoriesHandler(storage.NewFSSource(dir, quietLogger()), quietLogger())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/stories", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var m story.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "cave", m.DefaultStoryID)
	require.Len(t, m.Stories, 2)
	assert.Equal(t, "The Cave", m.Stories[0].Title)
}

func TestStoriesHandler_Summary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stories.json"), []byte(testManifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cave.json"), []byte(testCaveStory), 0o644))

	handler := NewStoriesHandler(storage.NewFSSource(dir, quietLogger()), quietLogger())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/stories/cave", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var summary StorySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "cave", summary.ID)
	assert.Equal(t, "The Cave", summary.Title)
	assert.Equal(t, "start", summary.StartSectionID)
	assert.Equal(t, 2, summary.SectionCount)
	assert.Equal(t, "HP", summary.Module.Resource.Name)
	assert.Equal(t, 10, summary.Module.Resource.Max)
}

func TestStoriesHandler_SummaryNotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stories.json"), []byte(testManifest), 0o644))

	handler := NewStoriesHandler(storage.NewFSSource(dir, quietLogger()), quietLogger())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/stories/lighthouse", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoriesHandler_MethodNotAllowed(t *testing.T) {
	handler := NewStoriesHandler(storage.NewFSSource(t.TempDir(), quietLogger()), quietLogger())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/stories", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestStoriesHandler_SourceFailure(t *testing.T) {
	handler := NewStoriesHandler(storage.NewFSSource(t.TempDir(), quietLogger()), quietLogger())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/stories", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
