package story

// Item categories. Identity of an inventory item is (category, id).
const (
	CategoryConsumable = "consumable"
	CategoryItem       = "item"
	CategoryWeapon     = "weapon"
	CategoryArmor      = "armor"
	CategorySpecial    = "special"
)

// Equip slots. A slot holds at most one item id at a time.
const (
	SlotWeapon  = "weapon"
	SlotArmor   = "armor"
	SlotSpecial = "special"
)

// Defaults applied when a story's module configuration is absent or invalid.
const (
	DefaultResourceName     = "HP"
	DefaultResourceMin      = 0
	DefaultResourceMax      = 15
	DefaultFailureSectionID = "DEATH"
)

// ValidCategory reports whether c is one of the known item categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryConsumable, CategoryItem, CategoryWeapon, CategoryArmor, CategorySpecial:
		return true
	}
	return false
}

// Story is the parsed, validated representation of a story document.
// It is immutable once loaded; the engine never writes to it.
type Story struct {
	ID             string             `json:"id"`
	Title          string             `json:"title,omitempty"`
	Subtitle       string             `json:"subtitle,omitempty"`
	StartSectionID string             `json:"startSectionId"`
	Module         ModuleConfig       `json:"module"`
	Sections       map[string]Section `json:"sections"`

	// Diagnostics collects non-fatal schema problems found at load time.
	// A story with diagnostics still plays, using defaulted values.
	Diagnostics []string `json:"-"`
}

// ModuleConfig declares the bounds and starting kit for a story.
type ModuleConfig struct {
	Resource ResourceConfig  `json:"primaryResource"`
	Loadout  *Loadout        `json:"loadout,omitempty"`
	Currency *CurrencyConfig `json:"currency,omitempty"`
}

// ResourceConfig bounds the story's primary survival resource.
type ResourceConfig struct {
	Name             string `json:"name"`
	Min              int    `json:"min"`
	Max              int    `json:"max"`
	StartAt          *int   `json:"startAt,omitempty"`
	FailureSectionID string `json:"failureSectionId"`
}

// Loadout is the starting equipment declared by a story.
type Loadout struct {
	Weapon  *ItemSpec `json:"weapon,omitempty"`
	Armor   *ItemSpec `json:"armor,omitempty"`
	Special *ItemSpec `json:"special,omitempty"`
}

// CurrencyConfig declares an optional secondary numeric resource.
type CurrencyConfig struct {
	Name  string `json:"name"`
	Start int    `json:"start,omitempty"`
}

// Section is a node in the narrative graph. Choices may be empty (terminal).
type Section struct {
	ID         string   `json:"id"`
	Text       []string `json:"text"`
	SystemNote string   `json:"systemNote,omitempty"`
	Choices    []Choice `json:"choices,omitempty"`
}

// IsTerminal reports whether the section has no outgoing choices.
func (s *Section) IsTerminal() bool {
	return len(s.Choices) == 0
}

// Choice is an outgoing edge from a section. Destination is the canonical
// next-section id; legacy key names are folded into it at load time.
type Choice struct {
	Label       string       `json:"label"`
	Destination string       `json:"destination,omitempty"`
	Effects     []Effect     `json:"effects,omitempty"`
	Requires    *Requirement `json:"requires,omitempty"`
	ToMenu      bool         `json:"toMenu,omitempty"`
}

// Requirement gates a choice's visibility. All present clauses must hold.
type Requirement struct {
	Flag            string   `json:"flag,omitempty"`
	NotFlag         string   `json:"notFlag,omitempty"`
	HasItem         *ItemRef `json:"hasItem,omitempty"`
	ResourceAtLeast *int     `json:"resourceAtLeast,omitempty"`
	CurrencyAtLeast *int     `json:"currencyAtLeast,omitempty"`
}

// IsEmpty reports whether no clause is present.
func (r *Requirement) IsEmpty() bool {
	return r == nil || (r.Flag == "" && r.NotFlag == "" && r.HasItem == nil &&
		r.ResourceAtLeast == nil && r.CurrencyAtLeast == nil)
}

// ItemRef identifies an inventory item by category and id.
type ItemRef struct {
	Category string `json:"category"`
	ID       string `json:"id"`
}

// Effect is a declarative state change. Fields are independent and
// non-exclusive; an effect may heal, add an item and set a flag at once.
type Effect struct {
	ResourceDelta   int         `json:"resourceDelta,omitempty"`
	ExperienceDelta int         `json:"experienceDelta,omitempty"`
	CurrencyDelta   int         `json:"currencyDelta,omitempty"`
	SetFlag         string      `json:"setFlag,omitempty"`
	ClearFlag       string      `json:"clearFlag,omitempty"`
	AddItem         *ItemSpec   `json:"addItem,omitempty"`
	RemoveItem      *RemoveItem `json:"removeItem,omitempty"`
}

// RemoveItem removes qty of an item (default 1).
type RemoveItem struct {
	Category string `json:"category"`
	ID       string `json:"id"`
	Qty      int    `json:"qty,omitempty"`
}

// UseSpec declares what happens when a consumable-like item is used.
// Kind "heal" applies Amount to the primary resource; "story" sets flag Tag.
type UseSpec struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount,omitempty"`
	Tag    string `json:"tag,omitempty"`
}

// ItemSpec describes an inventory item as authored in a story file.
type ItemSpec struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	Category  string   `json:"category"`
	Qty       int      `json:"qty,omitempty"`
	Value     int      `json:"value,omitempty"`
	Use       *UseSpec `json:"use,omitempty"`
	EquipSlot string   `json:"equipSlot,omitempty"`
}

// GetSection looks up a section by id.
func (st *Story) GetSection(id string) (*Section, bool) {
	s, ok := st.Sections[id]
	if !ok {
		return nil, false
	}
	return &s, true
}

// FailureSectionID returns the configured failure section id.
func (st *Story) FailureSectionID() string {
	return st.Module.Resource.FailureSectionID
}
