// Package render turns a wheel into paintable geometry: slices, labels and
// the hover tooltip. Painters for SVG and PDF consume the same Scene.
package render

import (
	"math"

	"github.com/xtding233/spinwheel/internal/wheel"
)

// Config sizes the painted wheel. Units are canvas pixels (PDF points).
type Config struct {
	Size       float64 `yaml:"size"`        // width == height of the canvas
	LabelInset float64 `yaml:"label_inset"` // label anchor distance from the rim
	BaseFont   float64 `yaml:"base_font"`
	MinFont    float64 `yaml:"min_font"`
	MaxFont    float64 `yaml:"max_font"`
}

func DefaultConfig() Config {
	return Config{
		Size:       500,
		LabelInset: 40,
		BaseFont:   14,
		MinFont:    10,
		MaxFont:    16,
	}
}

func (c Config) Radius() float64 { return c.Size / 2 }

// FontSize shrinks labels as options are added: base*10/count clamped to
// [MinFont, MaxFont].
func (c Config) FontSize(count int) float64 {
	if count <= 0 {
		return c.MaxFont
	}
	return math.Max(c.MinFont, math.Min(c.MaxFont, c.BaseFont*(10/float64(count))))
}

// SliceView is one painted slice. Angles are in the unrotated wheel frame;
// the painter turns the whole wheel by Scene.Rotation.
type SliceView struct {
	wheel.Slice
	Label    string
	Weight   int
	Color    wheel.HSL
	Percent  string
	FontSize float64
	// LabelX/LabelY anchor the right edge of the label, relative to the
	// wheel center in the unrotated frame.
	LabelX, LabelY float64
	// Flip turns the label 180° so it never reads upside down.
	Flip bool
}

// LabelRotation is the label's total angle in the unrotated frame.
func (s SliceView) LabelRotation() float64 {
	if s.Flip {
		return s.Mid() + math.Pi
	}
	return s.Mid()
}

type Scene struct {
	Config   Config
	Rotation float64
	Slices   []SliceView
	Total    int
}

func (s Scene) Empty() bool { return len(s.Slices) == 0 }

// Build lays out the wheel for set turned by rotation.
func Build(set wheel.OptionSet, rotation float64, cfg Config) Scene {
	g := wheel.NewGeometry(set)
	scene := Scene{Config: cfg, Rotation: rotation, Total: g.TotalWeight()}
	if g.Empty() {
		return scene
	}
	font := cfg.FontSize(len(set))
	labelR := cfg.Radius() - cfg.LabelInset
	for _, sl := range g.Slices() {
		mid := sl.Mid()
		scene.Slices = append(scene.Slices, SliceView{
			Slice:    sl,
			Label:    set[sl.Index].Label,
			Weight:   set[sl.Index].Weight,
			Color:    wheel.ColorFor(sl.Index, len(set)),
			Percent:  wheel.FormatPercent(set.Percent(sl.Index)),
			FontSize: font,
			LabelX:   labelR * math.Cos(mid),
			LabelY:   labelR * math.Sin(mid),
			Flip:     upsideDown(rotation + mid),
		})
	}
	return scene
}

// upsideDown reports whether text drawn along screen angle a would read
// upside down: a normalized into (π/2, 3π/2).
func upsideDown(a float64) bool {
	n := wheel.Normalize(a)
	return n > math.Pi/2 && n < 3*math.Pi/2
}
