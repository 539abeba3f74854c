package wheel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opts(weights ...int) OptionSet {
	set := make(OptionSet, len(weights))
	for i, w := range weights {
		set[i] = Option{Label: string(rune('A' + i)), Weight: w}
	}
	return set
}

func TestSlicesSpanFullCircle(t *testing.T) {
	for _, set := range []OptionSet{opts(1), opts(1, 1), opts(3, 1), opts(7, 2, 9, 1, 1), opts(1, 1, 1, 1, 1, 1, 1)} {
		slices := Slices(set)
		require.Len(t, slices, len(set))

		var sum float64
		for i, s := range slices {
			sum += s.End - s.Start
			assert.InDelta(t, set.Span(i), s.End-s.Start, 1e-12)
			if i > 0 {
				assert.Equal(t, slices[i-1].End, s.Start, "slices must be contiguous")
			}
		}
		assert.InDelta(t, TwoPi, sum, 1e-9)
		assert.Equal(t, 0.0, slices[0].Start)
		assert.Equal(t, TwoPi, slices[len(slices)-1].End)
	}
}

func TestGeometryCoversEveryAngleOnce(t *testing.T) {
	set := opts(5, 1, 3, 2)
	g := NewGeometry(set)
	const steps = 10000
	for k := 0; k < steps; k++ {
		a := TwoPi * float64(k) / steps
		owners := 0
		for _, s := range g.Slices() {
			if s.Contains(a) {
				owners++
			}
		}
		require.Equal(t, 1, owners, "angle %v", a)
		_, ok := g.At(a)
		require.True(t, ok)
	}
}

func TestBoundaryBelongsToLaterSlice(t *testing.T) {
	set := opts(2, 1, 4, 1)
	g := NewGeometry(set)
	for i, s := range g.Slices() {
		got, ok := g.At(s.Start)
		require.True(t, ok)
		assert.Equal(t, i, got, "boundary %v", s.Start)
	}
}

func TestWeightedSpans(t *testing.T) {
	set := OptionSet{{Label: "A", Weight: 3}, {Label: "B", Weight: 1}}
	slices := Slices(set)

	assert.Equal(t, 0.0, slices[0].Start)
	assert.InDelta(t, 3*math.Pi/2, slices[0].End, 1e-12)
	assert.InDelta(t, 3*math.Pi/2, slices[1].Start, 1e-12)
	assert.Equal(t, TwoPi, slices[1].End)

	i, ok := AngleToOption(set, 0, math.Pi)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = AngleToOption(set, 0, 7*math.Pi/4)
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestOptionAtAccountsForRotation(t *testing.T) {
	set := opts(1, 1, 1, 1) // quarters
	g := NewGeometry(set)

	// turned a quarter: the screen angle π/2+0.1 sits 0.1 into the first slice
	i, ok := g.OptionAt(math.Pi/2, math.Pi/2+0.1)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	// large rotations and negative screen angles wrap the same way
	i, ok = g.OptionAt(10*math.Pi+math.Pi/2, -math.Pi/4)
	require.True(t, ok)
	assert.Equal(t, 2, i)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{TwoPi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{3 * math.Pi, math.Pi},
		{-3 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		got := Normalize(c.in)
		assert.InDelta(t, c.want, got, 1e-12, "Normalize(%v)", c.in)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, TwoPi)
	}
	assert.Equal(t, 0.0, Normalize(-1e-300))
}

func TestEmptyGeometry(t *testing.T) {
	i, ok := AngleToOption(nil, 0, 1)
	assert.False(t, ok)
	assert.Equal(t, -1, i)
	assert.True(t, NewGeometry(OptionSet{}).Empty())

	_, ok = AngleToOption(opts(1, 2), 0, math.NaN())
	assert.False(t, ok)
}
