package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versecraft/engine/pkg/story"
)

func emptyState() *State {
	return NewState(story.ModuleConfig{
		Resource: story.ResourceConfig{Name: "HP", Min: 0, Max: 10},
	}, NewProgression())
}

func TestAddItem_MergesQuantity(t *testing.T) {
	s := emptyState()

	assert.True(t, s.AddItem(story.ItemSpec{ID: "candle", Name: "Candle", Category: story.CategoryConsumable}))
	assert.True(t, s.AddItem(story.ItemSpec{ID: "candle", Category: story.CategoryConsumable, Qty: 3}))

	rows := s.Inventory[story.CategoryConsumable]
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Qty)
	assert.Equal(t, "Candle", rows[0].Name, "first row's metadata is kept on merge")
}

func TestAddItem_QtyCap(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "coin", Category: story.CategoryItem, Qty: MaxQty})
	s.AddItem(story.ItemSpec{ID: "coin", Category: story.CategoryItem, Qty: 50})
	assert.Equal(t, MaxQty, s.Inventory[story.CategoryItem][0].Qty)
}

func TestAddItem_RejectsMalformedSpecs(t *testing.T) {
	s := emptyState()
	assert.False(t, s.AddItem(story.ItemSpec{Category: story.CategoryItem}))
	assert.False(t, s.AddItem(story.ItemSpec{ID: "x", Category: "no_such_category"}))
	assert.Empty(t, s.Inventory)
}

func TestRemoveItem(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "rope", Category: story.CategoryItem, Qty: 3})

	assert.True(t, s.RemoveItem(story.CategoryItem, "rope", 2))
	assert.Equal(t, 1, s.Inventory[story.CategoryItem][0].Qty)

	// Row disappears at zero; it is never retained with qty 0.
	assert.True(t, s.RemoveItem(story.CategoryItem, "rope", 1))
	assert.Empty(t, s.Inventory[story.CategoryItem])
}

func TestRemoveItem_AbsentIsIdempotentNoOp(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "rope", Category: story.CategoryItem})

	before := s.Clone()
	assert.False(t, s.RemoveItem(story.CategoryItem, "ghost", 1))
	assert.False(t, s.RemoveItem(story.CategoryWeapon, "rope", 1))
	assert.Equal(t, before, s.Clone())
}

func TestEquip_Swap(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "dagger", Name: "Dagger", Category: story.CategoryWeapon})

	require.True(t, s.EquipItem(story.SlotWeapon, story.CategoryWeapon, "dagger"))
	assert.Empty(t, s.Inventory[story.CategoryWeapon])
	assert.Equal(t, "Dagger", s.EquippedName(story.SlotWeapon))

	s.AddItem(story.ItemSpec{ID: "sword", Name: "Sword", Category: story.CategoryWeapon})
	require.True(t, s.EquipItem(story.SlotWeapon, story.CategoryWeapon, "sword"))

	rows := s.Inventory[story.CategoryWeapon]
	require.Len(t, rows, 1)
	assert.Equal(t, "dagger", rows[0].ID, "displaced weapon returns to its category")
	assert.Equal(t, "Sword", s.EquippedName(story.SlotWeapon))
}

func TestEquip_InvariantNeverBothPresent(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "dagger", Category: story.CategoryWeapon})
	s.EquipItem(story.SlotWeapon, story.CategoryWeapon, "dagger")

	// The equipped id must not appear in any category list.
	for cat, rows := range s.Inventory {
		for _, row := range rows {
			assert.NotEqual(t, "dagger", row.ID, "equipped item leaked into category %s", cat)
		}
	}
}

func TestEquip_MissingItemIsNoOp(t *testing.T) {
	s := emptyState()
	before := s.Clone()
	assert.False(t, s.EquipItem(story.SlotWeapon, story.CategoryWeapon, "excalibur"))
	assert.False(t, s.EquipItem("hat", story.CategoryWeapon, "excalibur"))
	assert.Equal(t, before, s.Clone())
}

func TestUnequip(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "dagger", Name: "Dagger", Category: story.CategoryWeapon})
	s.EquipItem(story.SlotWeapon, story.CategoryWeapon, "dagger")

	require.True(t, s.UnequipItem(story.SlotWeapon))
	assert.Equal(t, "", s.EquippedName(story.SlotWeapon))
	assert.True(t, s.HasItem(story.CategoryWeapon, "dagger"))

	assert.False(t, s.UnequipItem(story.SlotWeapon), "empty slot is a no-op")
}

func TestUnequip_MergesBackIntoExistingRow(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "dagger", Category: story.CategoryWeapon})
	s.EquipItem(story.SlotWeapon, story.CategoryWeapon, "dagger")
	s.AddItem(story.ItemSpec{ID: "dagger", Category: story.CategoryWeapon})

	s.UnequipItem(story.SlotWeapon)
	rows := s.Inventory[story.CategoryWeapon]
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Qty)
}

func TestUseItem_Heal(t *testing.T) {
	s := emptyState()
	s.Resource.Cur = 4
	s.AddItem(story.ItemSpec{
		ID: "potion", Category: story.CategoryConsumable, Qty: 2,
		Use: &story.UseSpec{Kind: "heal", Amount: 3},
	})

	assert.True(t, s.UseItem(story.CategoryConsumable, "potion"))
	assert.Equal(t, 7, s.Resource.Cur)
	assert.Equal(t, 1, s.Inventory[story.CategoryConsumable][0].Qty)

	assert.True(t, s.UseItem(story.CategoryConsumable, "potion"))
	assert.Equal(t, 10, s.Resource.Cur, "heal clamps at max")
	assert.Empty(t, s.Inventory[story.CategoryConsumable])
}

func TestUseItem_Story(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{
		ID: "map_scrap", Category: story.CategoryItem,
		Use: &story.UseSpec{Kind: "story", Tag: "read_map"},
	})

	assert.True(t, s.UseItem(story.CategoryItem, "map_scrap"))
	assert.True(t, s.HasFlag("read_map"))
	assert.False(t, s.HasItem(story.CategoryItem, "map_scrap"))
}

func TestUseItem_NoOps(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "sword", Category: story.CategoryWeapon})

	before := s.Clone()
	assert.False(t, s.UseItem(story.CategoryConsumable, "ghost"), "absent item")
	assert.False(t, s.UseItem(story.CategoryWeapon, "sword"), "weapons are not consumable")
	assert.Equal(t, before, s.Clone())
}

func TestUseItem_NoUseSpecStillConsumes(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "candle", Category: story.CategoryConsumable})
	assert.True(t, s.UseItem(story.CategoryConsumable, "candle"))
	assert.False(t, s.HasItem(story.CategoryConsumable, "candle"))
}

func TestEquippedName_TitleFallback(t *testing.T) {
	s := emptyState()
	s.AddItem(story.ItemSpec{ID: "rusty_dagger", Category: story.CategoryWeapon})
	s.EquipItem(story.SlotWeapon, story.CategoryWeapon, "rusty_dagger")
	assert.Equal(t, "Rusty Dagger", s.EquippedName(story.SlotWeapon))
}
