package render

import (
	"math"

	"github.com/xtding233/spinwheel/internal/wheel"
)

// Tooltip is what hovering at a point shows.
type Tooltip struct {
	Visible bool   `json:"visible"`
	Index   int    `json:"index"`
	Label   string `json:"label,omitempty"`
	Percent string `json:"percent,omitempty"`
	Text    string `json:"text,omitempty"`
}

// HitTest finds the slice under the point (x, y), given relative to the
// wheel center in canvas coordinates. Points beyond radius show nothing.
func HitTest(set wheel.OptionSet, rotation, x, y, radius float64) Tooltip {
	if math.Hypot(x, y) > radius {
		return Tooltip{Index: -1}
	}
	i, ok := wheel.AngleToOption(set, rotation, math.Atan2(y, x))
	if !ok {
		return Tooltip{Index: -1}
	}
	pct := wheel.FormatPercent(set.Percent(i))
	return Tooltip{
		Visible: true,
		Index:   i,
		Label:   set[i].Label,
		Percent: pct,
		Text:    set[i].Label + " (" + pct + "%)",
	}
}
