package wheel

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUsesPointerFrame(t *testing.T) {
	set := OptionSet{{Label: "A", Weight: 3}, {Label: "B", Weight: 1}}

	// resting at π puts unrotated angle π/2 under the pointer
	sel, err := Resolve(set, math.Pi)
	require.NoError(t, err)
	assert.Equal(t, 0, sel.Index)
	assert.Equal(t, "A", sel.Option.Label)
	assert.Equal(t, math.Pi, sel.Angle)

	// resting at 3π/2 + π/4 puts 7π/4 under the pointer
	sel, err = Resolve(set, -math.Pi/4)
	require.NoError(t, err)
	assert.Equal(t, "B", sel.Option.Label)
}

func TestResolveIsIdempotent(t *testing.T) {
	set := opts(4, 2, 7, 1, 3)
	rng := NewSeededRNG(7)
	for k := 0; k < 200; k++ {
		a := rng.Float64() * 20 * math.Pi
		first, err := Resolve(set, a)
		require.NoError(t, err)
		second, err := Resolve(set, a)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestResolveMatchesHoverGeometry(t *testing.T) {
	set := opts(1, 5, 2)
	rng := NewSeededRNG(99)
	for k := 0; k < 500; k++ {
		a := (rng.Float64() - 0.5) * 40 * math.Pi
		sel, err := Resolve(set, a)
		require.NoError(t, err)
		i, ok := AngleToOption(set, a, PointerAngle)
		require.True(t, ok)
		assert.Equal(t, i, sel.Index)
	}
}

func TestResolveMultiplesOfTwoPi(t *testing.T) {
	set := opts(1, 1, 1) // third slice [4π/3, 2π) owns the pointer at rest
	for n := -3; n <= 6; n++ {
		sel, err := Resolve(set, float64(n)*TwoPi)
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, 2, sel.Index, "n=%d", n)
	}
}

func TestSpinWithZeroTarget(t *testing.T) {
	cfg := DefaultSpinConfig()
	plan := NewPlan(cfg, FixedRNG(0), time.Unix(0, 0))
	assert.Equal(t, 0.0, plan.Target)
	assert.InDelta(t, 10*math.Pi, plan.TotalRotation, 1e-12)

	set := opts(1, 1, 1)
	sel, err := Resolve(set, plan.TotalRotation)
	require.NoError(t, err)
	want, ok := AngleToOption(set, 0, PointerAngle)
	require.True(t, ok)
	assert.Equal(t, want, sel.Index)
	assert.Equal(t, 2, sel.Index)
}

func TestResolveEmpty(t *testing.T) {
	_, err := Resolve(OptionSet{}, 1)
	assert.ErrorIs(t, err, ErrEmptyWheel)

	_, err = Resolve(opts(1), math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidAngle)
}
