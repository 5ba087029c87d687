package player

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/versecraft/engine/pkg/story"
)

// MaxQty caps a single inventory row's quantity.
const MaxQty = 9999

// Inventory operations are best-effort and never fail the session: a
// malformed spec or a missing item is a no-op. The bool return reports
// whether state changed, for diagnostics and tests only.

// AddItem inserts a row or merges quantity into an existing row with the
// same (category, id).
func (s *State) AddItem(spec story.ItemSpec) bool {
	if spec.ID == "" || !story.ValidCategory(spec.Category) {
		return false
	}
	if s.Inventory == nil {
		s.Inventory = make(map[string][]Item)
	}
	item := itemFromSpec(spec)
	rows := s.Inventory[spec.Category]
	for i := range rows {
		if rows[i].ID == spec.ID {
			rows[i].Qty += item.Qty
			if rows[i].Qty > MaxQty {
				rows[i].Qty = MaxQty
			}
			return true
		}
	}
	s.Inventory[spec.Category] = append(rows, item)
	return true
}

// RemoveItem decrements a row's quantity by qty (default 1) and deletes the
// row when it reaches zero. Removing an absent item is a no-op.
func (s *State) RemoveItem(category, id string, qty int) bool {
	if qty <= 0 {
		qty = 1
	}
	rows := s.Inventory[category]
	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		rows[i].Qty -= qty
		if rows[i].Qty <= 0 {
			s.Inventory[category] = append(rows[:i], rows[i+1:]...)
		}
		return true
	}
	return false
}

// HasItem reports whether a row with qty > 0 exists for (category, id).
func (s *State) HasItem(category, id string) bool {
	for _, row := range s.Inventory[category] {
		if row.ID == id && row.Qty > 0 {
			return true
		}
	}
	return false
}

// EquipItem moves the identified item from its category list into the slot.
// A previous occupant returns to its origin category list. The swap is
// atomic: callers never observe both items absent or both present.
// Equipping an item that is not in the given category is a no-op.
func (s *State) EquipItem(slot, category, id string) bool {
	if !validSlot(slot) {
		return false
	}
	rows := s.Inventory[category]
	idx := -1
	for i := range rows {
		if rows[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	item := rows[idx]
	s.Inventory[category] = append(rows[:idx], rows[idx+1:]...)

	if prev := s.Equip[slot]; prev != nil {
		s.returnToInventory(*prev)
	}
	if s.Equip == nil {
		s.Equip = make(map[string]*Item)
	}
	s.Equip[slot] = &item
	return true
}

// UnequipItem returns the slot's occupant to its origin category and clears
// the slot.
func (s *State) UnequipItem(slot string) bool {
	item := s.Equip[slot]
	if item == nil {
		return false
	}
	s.returnToInventory(*item)
	delete(s.Equip, slot)
	return true
}

// UseItem consumes one unit of a consumable-like item, applying its use
// spec first: "heal" adds to the primary resource, "story" sets a flag.
// Using an absent item, or an item from a non-consumable category, is a
// no-op.
func (s *State) UseItem(category, id string) bool {
	if category != story.CategoryConsumable && category != story.CategoryItem {
		return false
	}
	rows := s.Inventory[category]
	idx := -1
	for i := range rows {
		if rows[i].ID == id && rows[i].Qty > 0 {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	if use := rows[idx].Use; use != nil {
		switch use.Kind {
		case "heal":
			s.Resource.ApplyDelta(use.Amount)
		case "story":
			s.SetFlag(use.Tag)
		}
	}
	rows[idx].Qty--
	if rows[idx].Qty <= 0 {
		s.Inventory[category] = append(rows[:idx], rows[idx+1:]...)
	}
	return true
}

// EquippedName returns the display name of the slot's occupant, or "" for
// an empty slot. The name is stored on the equip record itself; equipped
// items are, by invariant, absent from the inventory lists.
func (s *State) EquippedName(slot string) string {
	item := s.Equip[slot]
	if item == nil {
		return ""
	}
	if item.Name != "" {
		return item.Name
	}
	return TitleFromID(item.ID)
}

// returnToInventory pushes an item back into its origin category, merging
// with an existing row when one is present.
func (s *State) returnToInventory(item Item) {
	if s.Inventory == nil {
		s.Inventory = make(map[string][]Item)
	}
	rows := s.Inventory[item.Category]
	for i := range rows {
		if rows[i].ID == item.ID {
			rows[i].Qty += item.Qty
			if rows[i].Qty > MaxQty {
				rows[i].Qty = MaxQty
			}
			return
		}
	}
	s.Inventory[item.Category] = append(rows, item)
}

func validSlot(slot string) bool {
	switch slot {
	case story.SlotWeapon, story.SlotArmor, story.SlotSpecial:
		return true
	}
	return false
}

var titleCaser = cases.Title(language.English)

// TitleFromID turns a slug id like "rusty_dagger" into "Rusty Dagger".
func TitleFromID(id string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(id)
	return titleCaser.String(cleaned)
}
