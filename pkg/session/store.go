package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/versecraft/engine/pkg/player"
)

// MaxSlots is the number of save slots available per story.
const MaxSlots = 3

const (
	lastPlayedKey = "save::last"
	progressKey   = "progress::global"
)

// ErrNotFound is returned when no save exists for a story and slot.
var ErrNotFound = errors.New("no save found")

// MismatchError is returned by strict-mode loads when the save belongs to a
// different story than the active one.
type MismatchError struct {
	ActiveStoryID string
	SavedStoryID  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("save belongs to story %q, not the active story %q", e.SavedStoryID, e.ActiveStoryID)
}

// State is the persisted form of a run: which story, where in it, and the
// full player state. Progression inside Player is global; the rest is
// story-local.
type State struct {
	StoryID   string        `json:"storyId"`
	SectionID string        `json:"sectionId"`
	Player    *player.State `json:"player"`
	SavedAt   time.Time     `json:"savedAt"`
}

// LastPlayed points at the most recent save for the top-level Continue
// affordance.
type LastPlayed struct {
	StoryID string `json:"storyId"`
	Slot    int    `json:"slot"`
}

// KV is the narrow slice of the persistence provider the store needs.
// Get returns "" for an absent key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Store serializes sessions into an external key-value provider, partitioned
// per story and per save slot. The store never decides strict vs permissive
// cross-story semantics; callers do.
type Store struct {
	kv     KV
	logger *slog.Logger
}

func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// Save writes the state under (storyId, slot), refreshes the last-played
// pointer, and persists the global progression track.
func (s *Store) Save(ctx context.Context, st *State, slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if st == nil || st.StoryID == "" || st.SectionID == "" {
		return fmt.Errorf("nothing to save: story and section are required")
	}

	st.SavedAt = time.Now().UTC()
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, saveKey(st.StoryID, slot), string(data)); err != nil {
		return fmt.Errorf("failed to persist save: %w", err)
	}

	last, err := json.Marshal(LastPlayed{StoryID: st.StoryID, Slot: slot})
	if err != nil {
		return fmt.Errorf("failed to marshal last-played pointer: %w", err)
	}
	if err := s.kv.Set(ctx, lastPlayedKey, string(last)); err != nil {
		return fmt.Errorf("failed to persist last-played pointer: %w", err)
	}

	if st.Player != nil {
		if err := s.SaveProgression(ctx, st.Player.Progression); err != nil {
			return err
		}
	}

	s.logger.Info("Session saved", "story", st.StoryID, "slot", slot, "section", st.SectionID)
	return nil
}

// Load reads the save for (storyId, slot). Returns ErrNotFound when the
// slot is empty.
func (s *Store) Load(ctx context.Context, storyID string, slot int) (*State, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}

	raw, err := s.kv.Get(ctx, saveKey(storyID, slot))
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	if raw == "" {
		return nil, ErrNotFound
	}

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save: %w", err)
	}
	return &st, nil
}

// LoadStrict loads (storyID, slot) and refuses the save if it does not
// belong to the active story. This is the in-session Load action; the
// top-level Continue action uses Load directly and switches stories.
func (s *Store) LoadStrict(ctx context.Context, activeStoryID, storyID string, slot int) (*State, error) {
	st, err := s.Load(ctx, storyID, slot)
	if err != nil {
		return nil, err
	}
	if st.StoryID != activeStoryID {
		return nil, &MismatchError{ActiveStoryID: activeStoryID, SavedStoryID: st.StoryID}
	}
	return st, nil
}

// LastPlayed returns the most recent save pointer, or nil when the player
// has never saved.
func (s *Store) LastPlayed(ctx context.Context) (*LastPlayed, error) {
	raw, err := s.kv.Get(ctx, lastPlayedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read last-played pointer: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var lp LastPlayed
	if err := json.Unmarshal([]byte(raw), &lp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal last-played pointer: %w", err)
	}
	return &lp, nil
}

// LoadProgression reads the global experience track, bootstrapping the
// defaults on first-ever use. Switching stories never resets it.
func (s *Store) LoadProgression(ctx context.Context) (player.Progression, error) {
	raw, err := s.kv.Get(ctx, progressKey)
	if err != nil {
		return player.Progression{}, fmt.Errorf("failed to read progression: %w", err)
	}
	if raw == "" {
		return player.NewProgression(), nil
	}

	var p player.Progression
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return player.Progression{}, fmt.Errorf("failed to unmarshal progression: %w", err)
	}
	return p, nil
}

// SaveProgression persists the global experience track.
func (s *Store) SaveProgression(ctx context.Context, p player.Progression) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal progression: %w", err)
	}
	if err := s.kv.Set(ctx, progressKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist progression: %w", err)
	}
	return nil
}

func checkSlot(slot int) error {
	if slot < 1 || slot > MaxSlots {
		return fmt.Errorf("save slot must be between 1 and %d, got %d", MaxSlots, slot)
	}
	return nil
}

func saveKey(storyID string, slot int) string {
	return "save::" + storyID + "::slot" + strconv.Itoa(slot)
}
