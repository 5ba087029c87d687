//go:build integration
// +build integration

// Package integration exercises a running API server end to end.
// Start the server first, then: go test -tags integration ./integration/
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var apiBaseURL string

func TestMain(m *testing.M) {
	apiBaseURL = os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8080"
	}

	fmt.Printf("Running VerseCraft integration tests against %s\n", apiBaseURL)
	os.Exit(m.Run())
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func postJSON(t *testing.T, path string, body any) (int, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := httpClient().Post(apiBaseURL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func getJSON(t *testing.T, path string) (int, []byte) {
	t.Helper()
	resp, err := httpClient().Get(apiBaseURL + path)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestHealth(t *testing.T) {
	code, raw := getJSON(t, "/health")
	require.Equal(t, http.StatusOK, code, string(raw))

	var health struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "healthy", health.Status)
}

func TestStoryCollection(t *testing.T) {
	code, raw := getJSON(t, "/v1/stories")
	require.Equal(t, http.StatusOK, code, string(raw))

	var manifest struct {
		Stories []struct {
			ID   string `json:"id"`
			File string `json:"file"`
		} `json:"stories"`
	}
	require.NoError(t, json.Unmarshal(raw, &manifest))
	assert.NotEmpty(t, manifest.Stories, "server should offer at least one story")
}

func TestSessionFlow(t *testing.T) {
	// Start a run in the default story.
	code, raw := postJSON(t, "/v1/sessions", map[string]any{})
	require.Equal(t, http.StatusCreated, code, string(raw))

	var snap struct {
		SessionID string `json:"session_id"`
		StoryID   string `json:"story_id"`
		Section   struct {
			ID string `json:"id"`
		} `json:"section"`
	}
	require.NoError(t, json.Unmarshal(raw, &snap))
	require.NotEmpty(t, snap.SessionID)
	require.NotEmpty(t, snap.Section.ID)

	// The snapshot endpoint agrees with the creation response.
	code, raw = getJSON(t, "/v1/sessions/"+snap.SessionID)
	require.Equal(t, http.StatusOK, code, string(raw))

	// Save to slot 1, then continue from the most recent save.
	code, raw = postJSON(t, "/v1/sessions/"+snap.SessionID+"/save", map[string]any{"slot": 1})
	require.Equal(t, http.StatusOK, code, string(raw))

	code, raw = postJSON(t, "/v1/sessions/continue", map[string]any{})
	require.Equal(t, http.StatusOK, code, string(raw))

	var resumed struct {
		SessionID string `json:"session_id"`
		StoryID   string `json:"story_id"`
	}
	require.NoError(t, json.Unmarshal(raw, &resumed))
	assert.Equal(t, snap.StoryID, resumed.StoryID)
	assert.NotEqual(t, snap.SessionID, resumed.SessionID, "continue starts a fresh session")
}
