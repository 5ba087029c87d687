package engine

import (
	"github.com/versecraft/engine/pkg/player"
	"github.com/versecraft/engine/pkg/story"
)

// Apply applies every declared field of an effect to the player state.
// Fields are independent and non-exclusive. Application order is resource
// delta, experience delta, currency delta, flag set/clear, item add, item
// remove; additions land before removals so a hasItem requirement evaluated
// in the same transition never sees a transient false negative.
func Apply(ef story.Effect, p *player.State) {
	if ef.ResourceDelta != 0 {
		p.Resource.ApplyDelta(ef.ResourceDelta)
	}
	if ef.ExperienceDelta != 0 {
		p.Progression.ApplyDelta(ef.ExperienceDelta)
	}
	if ef.CurrencyDelta != 0 {
		p.ApplyCurrencyDelta(ef.CurrencyDelta)
	}
	if ef.SetFlag != "" {
		p.SetFlag(ef.SetFlag)
	}
	if ef.ClearFlag != "" {
		p.ClearFlag(ef.ClearFlag)
	}
	if ef.AddItem != nil {
		p.AddItem(*ef.AddItem)
	}
	if ef.RemoveItem != nil {
		p.RemoveItem(ef.RemoveItem.Category, ef.RemoveItem.ID, ef.RemoveItem.Qty)
	}
}

// ApplyAll applies effects in declaration order.
func ApplyAll(effects []story.Effect, p *player.State) {
	for _, ef := range effects {
		Apply(ef, p)
	}
}
