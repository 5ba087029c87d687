package story

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SchemaError reports a story document that could not be loaded at all.
// Recoverable authoring mistakes do not produce a SchemaError; they degrade
// to defaults and are recorded in Story.Diagnostics instead.
type SchemaError struct {
	Msg string
	Err error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("story schema: %s: %v", e.Msg, e.Err)
	}
	return "story schema: " + e.Msg
}

func (e *SchemaError) Unwrap() error { return e.Err }

// textLines accepts either a single string or a list of lines.
type textLines []string

func (t *textLines) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = textLines{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = textLines(many)
	return nil
}

// effectList accepts either a single effect object or a list of effects.
type effectList []Effect

func (el *effectList) UnmarshalJSON(data []byte) error {
	var one Effect
	if err := json.Unmarshal(data, &one); err == nil {
		*el = effectList{one}
		return nil
	}
	var many []Effect
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*el = effectList(many)
	return nil
}

// rawChoice carries every legacy field name that story content has used for
// a choice's label and destination. Normalization folds them into the
// canonical Choice before the engine ever sees them.
type rawChoice struct {
	Label       string       `json:"label"`
	Text        string       `json:"text"`
	To          string       `json:"to"`
	Destination string       `json:"destination"`
	Goto        string       `json:"goto"`
	Next        string       `json:"next"`
	Effects     effectList   `json:"effects,omitempty"`
	Requires    *Requirement `json:"requires,omitempty"`
	ToMenu      bool         `json:"toMenu,omitempty"`
}

func (rc *rawChoice) label() string {
	if rc.Label != "" {
		return rc.Label
	}
	return rc.Text
}

func (rc *rawChoice) destination() string {
	for _, d := range []string{rc.Destination, rc.To, rc.Goto, rc.Next} {
		if d != "" {
			return d
		}
	}
	return ""
}

type rawSection struct {
	ID         string      `json:"id"`
	Text       textLines   `json:"text"`
	SystemNote string      `json:"systemNote,omitempty"`
	Choices    []rawChoice `json:"choices,omitempty"`
}

type rawStory struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Subtitle       string          `json:"subtitle"`
	StartSectionID string          `json:"startSectionId"`
	Module         ModuleConfig    `json:"module"`
	Sections       json.RawMessage `json:"sections"`
}

// Load parses and normalizes a JSON story document. Authoring polymorphism
// (list-of-objects vs id-keyed sections, legacy destination keys, single
// effect vs list) is resolved here; the returned Story is canonical.
func Load(data []byte) (*Story, error) {
	var raw rawStory
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaError{Msg: "invalid story document", Err: err}
	}
	return normalize(&raw)
}

// LoadYAML parses a YAML story document. The YAML tree is re-encoded as JSON
// and run through the same normalization as Load, so both formats accept the
// same field names and shapes.
func LoadYAML(data []byte) (*Story, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, &SchemaError{Msg: "invalid YAML story document", Err: err}
	}
	jsonData, err := json.Marshal(tree)
	if err != nil {
		return nil, &SchemaError{Msg: "story document not representable as JSON", Err: err}
	}
	return Load(jsonData)
}

func normalize(raw *rawStory) (*Story, error) {
	st := &Story{
		ID:             raw.ID,
		Title:          raw.Title,
		Subtitle:       raw.Subtitle,
		StartSectionID: raw.StartSectionID,
		Sections:       make(map[string]Section),
	}

	sections, err := decodeSections(raw.Sections)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, &SchemaError{Msg: "story has no sections"}
	}

	firstID := ""
	for _, rs := range sections {
		if rs.ID == "" {
			st.diag("section with empty id skipped")
			continue
		}
		if firstID == "" {
			firstID = rs.ID
		}
		if _, dup := st.Sections[rs.ID]; dup {
			st.diag("duplicate section id %q, later definition wins", rs.ID)
		}
		st.Sections[rs.ID] = normalizeSection(rs)
	}
	if len(st.Sections) == 0 {
		return nil, &SchemaError{Msg: "story has no usable sections"}
	}

	if st.StartSectionID == "" {
		st.StartSectionID = "start"
	}
	if _, ok := st.Sections[st.StartSectionID]; !ok {
		st.diag("start section %q missing, falling back to first section %q", st.StartSectionID, firstID)
		st.StartSectionID = firstID
	}

	st.Module = normalizeModule(raw.Module, st)
	return st, nil
}

// decodeSections accepts either an id-keyed map or a list of section objects.
func decodeSections(data json.RawMessage) ([]rawSection, error) {
	if len(data) == 0 {
		return nil, &SchemaError{Msg: "story has no sections"}
	}

	var asMap map[string]rawSection
	if err := json.Unmarshal(data, &asMap); err == nil {
		out := make([]rawSection, 0, len(asMap))
		for id, rs := range asMap {
			if rs.ID == "" {
				rs.ID = id
			}
			out = append(out, rs)
		}
		return out, nil
	}

	var asList []rawSection
	if err := json.Unmarshal(data, &asList); err != nil {
		return nil, &SchemaError{Msg: "sections must be a map or a list", Err: err}
	}
	return asList, nil
}

func normalizeSection(rs rawSection) Section {
	sec := Section{
		ID:         rs.ID,
		Text:       []string(rs.Text),
		SystemNote: rs.SystemNote,
	}
	for _, rc := range rs.Choices {
		sec.Choices = append(sec.Choices, Choice{
			Label:       rc.label(),
			Destination: rc.destination(),
			Effects:     []Effect(rc.Effects),
			Requires:    rc.Requires,
			ToMenu:      rc.ToMenu,
		})
	}
	return sec
}

// normalizeModule validates the module configuration and degrades invalid
// values to documented defaults rather than failing the load.
func normalizeModule(m ModuleConfig, st *Story) ModuleConfig {
	res := m.Resource
	if res.Name == "" {
		res.Name = DefaultResourceName
	}
	if res.Max <= res.Min {
		if res.Max != 0 || res.Min != 0 {
			st.diag("primaryResource max (%d) must exceed min (%d), using defaults", res.Max, res.Min)
		}
		res.Min = DefaultResourceMin
		res.Max = DefaultResourceMax
		res.StartAt = nil
	}
	if res.FailureSectionID == "" {
		res.FailureSectionID = DefaultFailureSectionID
	}
	m.Resource = res

	if m.Loadout != nil {
		m.Loadout.Weapon = checkLoadoutItem(st, "weapon", m.Loadout.Weapon, CategoryWeapon)
		m.Loadout.Armor = checkLoadoutItem(st, "armor", m.Loadout.Armor, CategoryArmor)
		m.Loadout.Special = checkLoadoutItem(st, "special", m.Loadout.Special, CategorySpecial)
	}

	if m.Currency != nil && m.Currency.Name == "" {
		st.diag("currency declared without a name, ignoring")
		m.Currency = nil
	}
	return m
}

func checkLoadoutItem(st *Story, slot string, spec *ItemSpec, fallbackCategory string) *ItemSpec {
	if spec == nil {
		return nil
	}
	if spec.ID == "" {
		st.diag("loadout %s has no item id, ignoring", slot)
		return nil
	}
	if spec.Category == "" {
		spec.Category = fallbackCategory
	}
	if !ValidCategory(spec.Category) {
		st.diag("loadout %s item %q has invalid category %q, using %q", slot, spec.ID, spec.Category, fallbackCategory)
		spec.Category = fallbackCategory
	}
	return spec
}

func (st *Story) diag(format string, args ...any) {
	st.Diagnostics = append(st.Diagnostics, fmt.Sprintf(format, args...))
}
