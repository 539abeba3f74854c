package wheel

import (
	"errors"
	"fmt"
)

// Easing maps animation progress in [0,1] onto visual progress in [0,1].
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseOutCubic   Easing = "easeOutCubic"
	EaseInOutCubic Easing = "easeInOutCubic"
)

var ErrUnknownEasing = errors.New("unknown easing")

func (e Easing) Validate() error {
	switch e {
	case EaseLinear, EaseOutQuad, EaseOutCubic, EaseInOutCubic:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownEasing, string(e))
}

// Apply evaluates the curve at t, clamped to [0,1]. Every curve is monotonic
// with Apply(0)=0 and Apply(1)=1. The empty easing is the spin default.
func (e Easing) Apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch e {
	case EaseLinear:
		return t
	case EaseOutQuad:
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	default:
		// easeOutCubic: fast start, decelerating stop
		u := 1 - t
		return 1 - u*u*u
	}
}
