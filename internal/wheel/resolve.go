package wheel

import (
	"errors"
	"fmt"
)

var ErrInvalidAngle = errors.New("angle does not map to any slice")

// Selection is the outcome of a completed spin.
type Selection struct {
	Index  int     `json:"index"`
	Option Option  `json:"option"`
	Angle  float64 `json:"angle"`
}

// Resolve finds the option under the pointer when the wheel rests at
// finalAngle. It goes through the same Geometry as painting and hover.
func Resolve(set OptionSet, finalAngle float64) (Selection, error) {
	return resolveWith(NewGeometry(set), set, finalAngle)
}

func resolveWith(g Geometry, set OptionSet, finalAngle float64) (Selection, error) {
	if g.Empty() {
		return Selection{}, ErrEmptyWheel
	}
	i, ok := g.OptionAt(finalAngle, PointerAngle)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %v", ErrInvalidAngle, finalAngle)
	}
	return Selection{Index: i, Option: set[i], Angle: finalAngle}, nil
}
