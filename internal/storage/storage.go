package storage

import (
	"context"
	"fmt"

	"github.com/versecraft/engine/pkg/story"
)

// KV is the persistence provider for sessions, saves and progression.
// Get returns an empty string, not an error, for an absent key.
type KV interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// StorySource provides the story collection: the manifest and the story
// documents it references.
type StorySource interface {
	Manifest(ctx context.Context) (*story.Manifest, error)
	FetchStory(ctx context.Context, file string) (*story.Story, error)
}

// TransportError reports a story fetch that failed before the document
// could be parsed. Code is the HTTP status for remote fetches, zero for
// network failures.
type TransportError struct {
	Op   string
	Ref  string
	Code int
	Err  error
}

func (e *TransportError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.Ref, e.Code)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Ref, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
