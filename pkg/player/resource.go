package player

import "github.com/versecraft/engine/pkg/story"

// Resource is the story's primary survival meter. Cur is always kept inside
// [Min, Max].
type Resource struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Cur  int    `json:"cur"`
}

// NewResource seeds a resource from a story's module configuration.
// Without an explicit startAt, stories with a non-negative floor start full
// and stories with a negative floor start at zero.
func NewResource(cfg story.ResourceConfig) Resource {
	r := Resource{
		Name: cfg.Name,
		Min:  cfg.Min,
		Max:  cfg.Max,
	}
	switch {
	case cfg.StartAt != nil:
		r.Cur = clamp(*cfg.StartAt, r.Min, r.Max)
	case r.Min < 0:
		r.Cur = 0
	default:
		r.Cur = r.Max
	}
	return r
}

// ApplyDelta adds n to the current value, clamped to the bounds, and
// returns the new value.
func (r *Resource) ApplyDelta(n int) int {
	r.Cur = clamp(r.Cur+n, r.Min, r.Max)
	return r.Cur
}

// IsExhausted reports whether the resource has hit its floor.
func (r *Resource) IsExhausted() bool {
	return r.Cur <= r.Min
}

// Progression is the story-independent experience track. It is bootstrapped
// once per player and survives story switches; new runs never reseed it.
type Progression struct {
	XP    int `json:"xp"`
	XPMax int `json:"xpMax"`
	Level int `json:"level"`
}

// NewProgression returns the first-ever bootstrap values.
func NewProgression() Progression {
	return Progression{XP: 0, XPMax: 100, Level: 1}
}

// ApplyDelta adds n experience, clamped to [0, XPMax], and returns the new
// value.
func (p *Progression) ApplyDelta(n int) int {
	p.XP = clamp(p.XP+n, 0, p.XPMax)
	return p.XP
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
