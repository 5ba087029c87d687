package player

import (
	"maps"

	"github.com/versecraft/engine/pkg/story"
)

// State is the mutable, session-scoped player state. Resource, flags,
// inventory and equipment reset to the story's starting kit on every new
// run; Progression is global and carries over.
type State struct {
	Resource    Resource          `json:"resource"`
	Progression Progression       `json:"progression"`
	Currency    int               `json:"currency,omitempty"`
	Flags       map[string]bool   `json:"flags,omitempty"`
	Inventory   map[string][]Item `json:"inventory"`
	Equip       map[string]*Item  `json:"equip"`
}

// Item is an inventory row. Identity is (Category, ID); Qty is always > 0
// while the row exists.
type Item struct {
	ID        string         `json:"id"`
	Name      string         `json:"name,omitempty"`
	Category  string         `json:"category"`
	Qty       int            `json:"qty"`
	Value     int            `json:"value,omitempty"`
	Use       *story.UseSpec `json:"use,omitempty"`
	EquipSlot string         `json:"equipSlot,omitempty"`
}

// NewState seeds a fresh run from the story's module configuration. The
// caller supplies the global progression (loaded from persistence, or
// NewProgression on first bootstrap).
func NewState(m story.ModuleConfig, prog Progression) *State {
	s := &State{
		Resource:    NewResource(m.Resource),
		Progression: prog,
		Flags:       make(map[string]bool),
		Inventory:   make(map[string][]Item),
		Equip:       make(map[string]*Item),
	}
	if m.Currency != nil {
		s.Currency = m.Currency.Start
	}
	if m.Loadout != nil {
		s.equipStartingItem(story.SlotWeapon, m.Loadout.Weapon)
		s.equipStartingItem(story.SlotArmor, m.Loadout.Armor)
		s.equipStartingItem(story.SlotSpecial, m.Loadout.Special)
	}
	return s
}

// equipStartingItem places a loadout item directly into its slot. Loadout
// items never pass through the inventory lists, so the equip invariant
// holds trivially.
func (s *State) equipStartingItem(slot string, spec *story.ItemSpec) {
	if spec == nil || spec.ID == "" {
		return
	}
	item := itemFromSpec(*spec)
	s.Equip[slot] = &item
}

// SetFlag records a narrative flag.
func (s *State) SetFlag(name string) {
	if name == "" {
		return
	}
	if s.Flags == nil {
		s.Flags = make(map[string]bool)
	}
	s.Flags[name] = true
}

// ClearFlag removes a narrative flag. Clearing an absent flag is a no-op.
func (s *State) ClearFlag(name string) {
	delete(s.Flags, name)
}

// HasFlag reports whether a flag is set.
func (s *State) HasFlag(name string) bool {
	return s.Flags[name]
}

// ApplyCurrencyDelta adds n to the currency balance, floored at zero.
func (s *State) ApplyCurrencyDelta(n int) int {
	s.Currency += n
	if s.Currency < 0 {
		s.Currency = 0
	}
	return s.Currency
}

// Clone returns a deep copy. The navigation engine mutates a clone and
// commits it only when the whole transition succeeds.
func (s *State) Clone() *State {
	c := &State{
		Resource:    s.Resource,
		Progression: s.Progression,
		Currency:    s.Currency,
		Flags:       maps.Clone(s.Flags),
		Inventory:   make(map[string][]Item, len(s.Inventory)),
		Equip:       make(map[string]*Item, len(s.Equip)),
	}
	for cat, rows := range s.Inventory {
		copied := make([]Item, len(rows))
		copy(copied, rows)
		c.Inventory[cat] = copied
	}
	for slot, item := range s.Equip {
		if item == nil {
			continue
		}
		dup := *item
		c.Equip[slot] = &dup
	}
	return c
}

func itemFromSpec(spec story.ItemSpec) Item {
	qty := spec.Qty
	if qty <= 0 {
		qty = 1
	}
	return Item{
		ID:        spec.ID,
		Name:      spec.Name,
		Category:  spec.Category,
		Qty:       qty,
		Value:     spec.Value,
		Use:       spec.Use,
		EquipSlot: spec.EquipSlot,
	}
}
