package storage

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/versecraft/engine/pkg/story"
)

// HTTPSource fetches the story collection from a remote base URL. Fetch
// failures surface as *TransportError and leave caller state untouched.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ StorySource = (*HTTPSource)(nil)

func NewHTTPSource(baseURL string, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

func (h *HTTPSource) Manifest(ctx context.Context) (*story.Manifest, error) {
	data, err := h.fetch(ctx, "stories.json")
	if err != nil {
		return nil, err
	}
	return story.ParseManifest(data)
}

func (h *HTTPSource) FetchStory(ctx context.Context, file string) (*story.Story, error) {
	data, err := h.fetch(ctx, file)
	if err != nil {
		return nil, err
	}

	st, err := parseStoryFile(file, data)
	if err != nil {
		return nil, err
	}
	for _, d := range st.Diagnostics {
		h.logger.Warn("Story diagnostic", "story", st.ID, "file", file, "detail", d)
	}
	return st, nil
}

func (h *HTTPSource) fetch(ctx context.Context, ref string) ([]byte, error) {
	url := h.baseURL + "/" + ref
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Op: "fetch", Ref: url, Err: err}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("Story fetch failed", "url", url, "error", err)
		return nil, &TransportError{Op: "fetch", Ref: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		h.logger.Error("Story fetch returned non-OK status", "url", url, "status", resp.StatusCode)
		return nil, &TransportError{Op: "fetch", Ref: url, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read", Ref: url, Err: err}
	}
	return data, nil
}
