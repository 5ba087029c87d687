package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versecraft/engine/pkg/player"
	"github.com/versecraft/engine/pkg/story"
)

func testState() *player.State {
	return player.NewState(story.ModuleConfig{
		Resource: story.ResourceConfig{Name: "HP", Min: 0, Max: 10},
		Currency: &story.CurrencyConfig{Name: "gold", Start: 10},
	}, player.NewProgression())
}

func TestApply_AllFieldsAtOnce(t *testing.T) {
	p := testState()
	p.Resource.Cur = 5
	p.AddItem(story.ItemSpec{ID: "rope", Category: story.CategoryItem, Qty: 2})

	Apply(story.Effect{
		ResourceDelta:   2,
		ExperienceDelta: 15,
		CurrencyDelta:   -4,
		SetFlag:         "helped_stranger",
		AddItem:         &story.ItemSpec{ID: "potion", Category: story.CategoryConsumable},
		RemoveItem:      &story.RemoveItem{Category: story.CategoryItem, ID: "rope"},
	}, p)

	assert.Equal(t, 7, p.Resource.Cur)
	assert.Equal(t, 15, p.Progression.XP)
	assert.Equal(t, 6, p.Currency)
	assert.True(t, p.HasFlag("helped_stranger"))
	assert.True(t, p.HasItem(story.CategoryConsumable, "potion"))
	assert.Equal(t, 1, p.Inventory[story.CategoryItem][0].Qty)
}

func TestApply_HealClampScenario(t *testing.T) {
	p := testState()
	p.Resource.Cur = 9

	Apply(story.Effect{ResourceDelta: 5}, p)
	assert.Equal(t, 10, p.Resource.Cur, "clamped, not 14")
}

func TestApply_ClearFlag(t *testing.T) {
	p := testState()
	p.SetFlag("cursed")
	Apply(story.Effect{ClearFlag: "cursed"}, p)
	assert.False(t, p.HasFlag("cursed"))
}

func TestApply_AddBeforeRemove(t *testing.T) {
	// An effect that adds and removes the same item in one transition must
	// apply the addition first.
	p := testState()
	Apply(story.Effect{
		AddItem:    &story.ItemSpec{ID: "key", Category: story.CategoryItem},
		RemoveItem: &story.RemoveItem{Category: story.CategoryItem, ID: "key"},
	}, p)
	assert.False(t, p.HasItem(story.CategoryItem, "key"))
}

func TestApplyAll_BoundsInvariant(t *testing.T) {
	// The resource stays inside [min, max] after every single application,
	// whatever the effect sequence.
	p := testState()
	sequence := []story.Effect{
		{ResourceDelta: 100},
		{ResourceDelta: -3},
		{ResourceDelta: -100},
		{ResourceDelta: 7, ExperienceDelta: 9999},
		{ResourceDelta: 1},
		{ExperienceDelta: -9999},
	}
	for _, ef := range sequence {
		Apply(ef, p)
		require.GreaterOrEqual(t, p.Resource.Cur, p.Resource.Min)
		require.LessOrEqual(t, p.Resource.Cur, p.Resource.Max)
		require.GreaterOrEqual(t, p.Progression.XP, 0)
		require.LessOrEqual(t, p.Progression.XP, p.Progression.XPMax)
	}
}
