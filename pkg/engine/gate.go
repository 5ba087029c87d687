package engine

import (
	"github.com/versecraft/engine/pkg/player"
	"github.com/versecraft/engine/pkg/story"
)

// IsVisible evaluates a choice's requirement against the player state.
// A choice without a requirement is always visible; otherwise every present
// clause must hold.
func IsVisible(c story.Choice, p *player.State) bool {
	req := c.Requires
	if req.IsEmpty() {
		return true
	}
	if req.Flag != "" && !p.HasFlag(req.Flag) {
		return false
	}
	if req.NotFlag != "" && p.HasFlag(req.NotFlag) {
		return false
	}
	if req.HasItem != nil && !p.HasItem(req.HasItem.Category, req.HasItem.ID) {
		return false
	}
	if req.ResourceAtLeast != nil && p.Resource.Cur < *req.ResourceAtLeast {
		return false
	}
	if req.CurrencyAtLeast != nil && p.Currency < *req.CurrencyAtLeast {
		return false
	}
	return true
}

// VisibleChoices filters a section's choices down to those the player can
// currently see. The returned slice preserves declaration order.
func VisibleChoices(sec *story.Section, p *player.State) []story.Choice {
	if sec == nil {
		return nil
	}
	visible := make([]story.Choice, 0, len(sec.Choices))
	for _, c := range sec.Choices {
		if IsVisible(c, p) {
			visible = append(visible, c)
		}
	}
	return visible
}
