package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/versecraft/engine/pkg/story"
)

// FSSource serves a story collection from a data directory containing
// stories.json and the story files it references (JSON or YAML).
type FSSource struct {
	dataDir string
	logger  *slog.Logger
}

var _ StorySource = (*FSSource)(nil)

func NewFSSource(dataDir string, logger *slog.Logger) *FSSource {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FSSource{dataDir: dataDir, logger: logger}
}

func (f *FSSource) Manifest(ctx context.Context) (*story.Manifest, error) {
	path := filepath.Join(f.dataDir, "stories.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("stories manifest not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read stories manifest: %w", err)
	}
	return story.ParseManifest(data)
}

func (f *FSSource) FetchStory(ctx context.Context, file string) (*story.Story, error) {
	path := filepath.Join(f.dataDir, filepath.Clean(file))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("story file not found: %s", file)
		}
		return nil, fmt.Errorf("failed to read story file %s: %w", file, err)
	}

	st, err := parseStoryFile(file, data)
	if err != nil {
		return nil, err
	}
	for _, d := range st.Diagnostics {
		f.logger.Warn("Story diagnostic", "story", st.ID, "file", file, "detail", d)
	}
	return st, nil
}

// parseStoryFile picks the decoder from the file extension.
func parseStoryFile(file string, data []byte) (*story.Story, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return story.LoadYAML(data)
	default:
		return story.Load(data)
	}
}
