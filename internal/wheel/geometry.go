package wheel

import "math"

const (
	TwoPi = 2 * math.Pi
	// PointerAngle is where the result indicator sits on screen: straight up
	// in canvas coordinates (y grows downward).
	PointerAngle = 3 * math.Pi / 2
)

// Slice is the half-open arc [Start, End) owned by option Index, in the
// unrotated wheel frame.
type Slice struct {
	Index      int
	Start, End float64
}

func (s Slice) Mid() float64 { return s.Start + (s.End-s.Start)/2 }

func (s Slice) Contains(a float64) bool { return a >= s.Start && a < s.End }

// Normalize wraps a into [0, 2π).
func Normalize(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// -tiny + 2π rounds to 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}

// Geometry holds the slices of one OptionSet. Painting, hover hit testing
// and result resolution all go through it so they never disagree.
type Geometry struct {
	slices []Slice
	total  int
}

// NewGeometry lays the options out contiguously from angle 0. Boundaries come
// from integer cumulative weights, so adjacent slices share exact boundary
// values and the last one ends at exactly 2π.
func NewGeometry(set OptionSet) Geometry {
	total := set.TotalWeight()
	if total <= 0 {
		return Geometry{}
	}
	slices := make([]Slice, len(set))
	cum := 0
	for i, o := range set {
		start := TwoPi * float64(cum) / float64(total)
		cum += o.Weight
		slices[i] = Slice{
			Index: i,
			Start: start,
			End:   TwoPi * float64(cum) / float64(total),
		}
	}
	return Geometry{slices: slices, total: total}
}

func (g Geometry) Slices() []Slice { return g.slices }

func (g Geometry) TotalWeight() int { return g.total }

func (g Geometry) Empty() bool { return len(g.slices) == 0 }

// At returns the option owning the unrotated angle a (already normalized).
func (g Geometry) At(a float64) (int, bool) {
	for _, s := range g.slices {
		if s.Contains(a) {
			return s.Index, true
		}
	}
	return -1, false
}

// OptionAt maps a screen angle to an option index while the wheel is turned
// by rotation: subtract, wrap into [0, 2π), scan.
func (g Geometry) OptionAt(rotation, screenAngle float64) (int, bool) {
	return g.At(Normalize(screenAngle - rotation))
}

// Slices computes the slice layout of set.
func Slices(set OptionSet) []Slice {
	return NewGeometry(set).Slices()
}

// AngleToOption is OptionAt on a fresh Geometry.
func AngleToOption(set OptionSet, rotation, screenAngle float64) (int, bool) {
	return NewGeometry(set).OptionAt(rotation, screenAngle)
}
