package wheel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrEmptyWheel    = errors.New("wheel has no options")
	ErrNoSuchOption  = errors.New("no such option")
	ErrInvalidWeight = errors.New("invalid weight")
)

// MaxWeight bounds a single weight so totals stay far from int overflow.
const MaxWeight = 1_000_000_000

func checkWeight(w int) error {
	if w < 1 || w > MaxWeight {
		return fmt.Errorf("%w: must be in [1, %d], got %d", ErrInvalidWeight, MaxWeight, w)
	}
	return nil
}

// DefaultLabel is the label of the single option a fresh wheel starts with.
const DefaultLabel = "Write Something"

// Option is one labeled entry on the wheel. Its slice is proportional to Weight.
type Option struct {
	Label  string `json:"label" yaml:"label"`
	Weight int    `json:"weight" yaml:"weight"`
}

// OptionSet is the ordered list of options. Order decides slice order and color.
type OptionSet []Option

// DefaultOptions returns the built-in fallback set.
func DefaultOptions() OptionSet {
	return OptionSet{{Label: DefaultLabel, Weight: 1}}
}

// NewOptionLabel is the label given to the option appended at position n (1-based).
func NewOptionLabel(n int) string {
	return "New Option #" + strconv.Itoa(n)
}

func (s OptionSet) Clone() OptionSet {
	if s == nil {
		return nil
	}
	return append(OptionSet(nil), s...)
}

// TotalWeight sums all weights; 0 for an empty set.
func (s OptionSet) TotalWeight() int {
	total := 0
	for _, o := range s {
		total += o.Weight
	}
	return total
}

// Span is the angular width in radians of option i.
func (s OptionSet) Span(i int) float64 {
	total := s.TotalWeight()
	if total <= 0 || i < 0 || i >= len(s) {
		return 0
	}
	return TwoPi * float64(s[i].Weight) / float64(total)
}

// Percent is option i's share of the total weight, 0..100.
func (s OptionSet) Percent(i int) float64 {
	total := s.TotalWeight()
	if total <= 0 || i < 0 || i >= len(s) {
		return 0
	}
	return float64(s[i].Weight) / float64(total) * 100
}

// FormatPercent renders a share with one decimal place, e.g. "75.0".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

func (s OptionSet) checkIndex(i int) error {
	if i < 0 || i >= len(s) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSuchOption, i, len(s))
	}
	return nil
}

// Saturation and lightness shared by every slice color, in percent.
const (
	ColorSaturation = 80
	ColorLightness  = 60
)

// HSL is a slice color. H in degrees, S and L in percent.
type HSL struct {
	H, S, L float64
}

// ColorFor spreads hues evenly by position: 360*index/count. Every color
// shifts when the count changes.
func ColorFor(index, count int) HSL {
	if count <= 0 {
		return HSL{S: ColorSaturation, L: ColorLightness}
	}
	return HSL{
		H: float64(index) * 360 / float64(count),
		S: ColorSaturation,
		L: ColorLightness,
	}
}

// String renders a CSS color, e.g. "hsl(120, 80%, 60%)".
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%s, %s%%, %s%%)", fmtNum(c.H), fmtNum(c.S), fmtNum(c.L))
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RGB converts to 8-bit channels.
func (c HSL) RGB() (r, g, b uint8) {
	s := c.S / 100
	l := c.L / 100
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	chroma := (1 - math.Abs(2*l-1)) * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - chroma/2

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = chroma, x, 0
	case h < 120:
		rf, gf, bf = x, chroma, 0
	case h < 180:
		rf, gf, bf = 0, chroma, x
	case h < 240:
		rf, gf, bf = 0, x, chroma
	case h < 300:
		rf, gf, bf = x, 0, chroma
	default:
		rf, gf, bf = chroma, 0, x
	}
	return to8(rf + m), to8(gf + m), to8(bf + m)
}

func to8(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
