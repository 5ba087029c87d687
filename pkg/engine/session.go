package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/versecraft/engine/pkg/player"
	"github.com/versecraft/engine/pkg/story"
)

// MissingSectionError reports a choice that resolved to a section id absent
// from the story document. The transition is aborted and session state is
// left unchanged.
type MissingSectionError struct {
	SectionID string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("missing section: %s", e.SectionID)
}

// Signal tells the caller that a choice asked for something outside the
// narrative graph. Reserved destinations are never treated as section ids.
type Signal string

const (
	SignalNone      Signal = ""
	SignalMenu      Signal = "menu"
	SignalSave      Signal = "save"
	SignalLoad      Signal = "load"
	SignalInventory Signal = "inventory"
	SignalCharacter Signal = "character"
)

// IsReservedTarget reports whether dest names a reserved destination
// rather than a section.
func IsReservedTarget(dest string) bool {
	_, ok := reservedSignal(dest)
	return ok
}

// reservedSignal maps reserved destination targets to signals.
func reservedSignal(dest string) (Signal, bool) {
	switch strings.ToUpper(strings.TrimSpace(dest)) {
	case "MENU", "MAIN_MENU":
		return SignalMenu, true
	case "SAVE":
		return SignalSave, true
	case "LOAD":
		return SignalLoad, true
	case "INVENTORY":
		return SignalInventory, true
	case "CHARACTER":
		return SignalCharacter, true
	}
	return SignalNone, false
}

// Outcome is the result of a successful transition.
type Outcome struct {
	Signal  Signal         `json:"signal,omitempty"`
	Section *story.Section `json:"section,omitempty"`
	// Warning surfaces authoring mistakes that do not abort the transition,
	// such as a choice with no destination.
	Warning string `json:"warning,omitempty"`
}

// Snapshot is the read-only view handed to presentation collaborators after
// each transition.
type Snapshot struct {
	SessionID string         `json:"session_id"`
	StoryID   string         `json:"story_id"`
	Section   *story.Section `json:"section"`
	Choices   []story.Choice `json:"choices"`
	Player    *player.State  `json:"player"`
}

// Session is one player's run through one story. It is an explicitly owned
// value: created on new run or load, replaced on story switch, never global.
// There is exactly one mutator per session; transitions run to completion
// before control returns.
type Session struct {
	ID        uuid.UUID
	Story     *story.Story
	SectionID string
	Player    *player.State

	logger *slog.Logger
}

// NewSession starts a fresh run at the story's start section.
func NewSession(st *story.Story, p *player.State, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ID:        uuid.New(),
		Story:     st,
		SectionID: st.StartSectionID,
		Player:    p,
		logger:    logger,
	}
}

// ResumeSession rebuilds a session from persisted state. An unknown section
// id falls back to the story's start section.
func ResumeSession(id uuid.UUID, st *story.Story, sectionID string, p *player.State, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		ID:        id,
		Story:     st,
		SectionID: sectionID,
		Player:    p,
		logger:    logger,
	}
	if s.resolveSection(sectionID) == nil {
		logger.Warn("saved section missing from story, resuming at start",
			"story", st.ID, "section", sectionID)
		s.SectionID = st.StartSectionID
	}
	return s
}

// Section returns the current section, synthesizing the failure section if
// the story omits it.
func (s *Session) Section() *story.Section {
	return s.resolveSection(s.SectionID)
}

// Snapshot returns a read-only view of the current position. The player
// state is deep-copied so presentation code cannot mutate the session.
func (s *Session) Snapshot() *Snapshot {
	sec := s.Section()
	return &Snapshot{
		SessionID: s.ID.String(),
		StoryID:   s.Story.ID,
		Section:   sec,
		Choices:   VisibleChoices(sec, s.Player),
		Player:    s.Player.Clone(),
	}
}

// Choose runs one transition for the index-th currently visible choice.
// Effects apply to a scratch copy of the player state and commit only when
// the destination resolves; a MissingSectionError leaves the session
// untouched. Resource exhaustion overrides any declared destination.
func (s *Session) Choose(index int) (*Outcome, error) {
	sec := s.Section()
	if sec == nil {
		return nil, &MissingSectionError{SectionID: s.SectionID}
	}

	visible := VisibleChoices(sec, s.Player)
	if index < 0 || index >= len(visible) {
		return nil, fmt.Errorf("choice index %d out of range (section %s has %d visible choices)",
			index, sec.ID, len(visible))
	}
	c := visible[index]

	// Reserved targets exit the graph without mutating player state.
	if c.ToMenu {
		return &Outcome{Signal: SignalMenu}, nil
	}
	if sig, ok := reservedSignal(c.Destination); ok {
		return &Outcome{Signal: sig}, nil
	}

	scratch := s.Player.Clone()
	ApplyAll(c.Effects, scratch)

	// Exhaustion always wins over any declared continuation.
	if scratch.Resource.IsExhausted() {
		failID := s.Story.FailureSectionID()
		s.Player = scratch
		s.SectionID = failID
		s.logger.Info("resource exhausted, routing to failure section",
			"story", s.Story.ID, "section", failID)
		return &Outcome{Section: s.resolveSection(failID)}, nil
	}

	if c.Destination == "" {
		s.Player = scratch
		warning := fmt.Sprintf("choice %q in section %s has no destination", c.Label, sec.ID)
		s.logger.Warn("choice has no destination", "story", s.Story.ID, "section", sec.ID, "label", c.Label)
		return &Outcome{Section: s.Section(), Warning: warning}, nil
	}

	next, ok := s.Story.GetSection(c.Destination)
	if !ok {
		return nil, &MissingSectionError{SectionID: c.Destination}
	}

	s.Player = scratch
	s.SectionID = next.ID
	return &Outcome{Section: next}, nil
}

// resolveSection looks a section up, falling back to a synthesized terminal
// failure section when the story omits the configured one. The story
// document itself stays immutable.
func (s *Session) resolveSection(id string) *story.Section {
	if sec, ok := s.Story.GetSection(id); ok {
		return sec
	}
	if id == s.Story.FailureSectionID() {
		return syntheticFailureSection(id, s.Player.Resource.Name)
	}
	return nil
}

func syntheticFailureSection(id, resourceName string) *story.Section {
	return &story.Section{
		ID: id,
		Text: []string{
			fmt.Sprintf("Your %s is spent. This journey ends here.", resourceName),
		},
		Choices: []story.Choice{
			{Label: "Return to the main menu", ToMenu: true},
		},
	}
}
