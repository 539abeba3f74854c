package wheel

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasingEndpointsAndMonotonic(t *testing.T) {
	for _, e := range []Easing{EaseLinear, EaseOutQuad, EaseOutCubic, EaseInOutCubic, ""} {
		assert.Equal(t, 0.0, e.Apply(0), "easing %q", e)
		assert.Equal(t, 1.0, e.Apply(1), "easing %q", e)
		assert.Equal(t, 0.0, e.Apply(-3), "easing %q", e)
		assert.Equal(t, 1.0, e.Apply(2), "easing %q", e)

		prev := 0.0
		for k := 1; k <= 1000; k++ {
			v := e.Apply(float64(k) / 1000)
			require.GreaterOrEqual(t, v, prev, "easing %q at %d", e, k)
			prev = v
		}
	}
	assert.InDelta(t, 0.875, EaseOutCubic.Apply(0.5), 1e-12)
	assert.NoError(t, EaseOutCubic.Validate())
	assert.ErrorIs(t, Easing("bounce").Validate(), ErrUnknownEasing)
}

func TestNewPlan(t *testing.T) {
	start := time.Unix(100, 0)
	plan := NewPlan(DefaultSpinConfig(), FixedRNG(0.25), start)

	assert.InDelta(t, math.Pi/2, plan.Target, 1e-12)
	assert.InDelta(t, 10*math.Pi+math.Pi/2, plan.TotalRotation, 1e-12)
	assert.Equal(t, start, plan.Start)
	assert.Equal(t, 4*time.Second, plan.Duration)
}

func TestPlanAt(t *testing.T) {
	start := time.Unix(100, 0)
	plan := NewPlan(DefaultSpinConfig(), FixedRNG(0.5), start)

	f := plan.At(start)
	assert.Equal(t, 0.0, f.Progress)
	assert.Equal(t, 0.0, f.Angle)
	assert.False(t, f.Done)

	f = plan.At(start.Add(-time.Second))
	assert.Equal(t, 0.0, f.Progress)

	f = plan.At(start.Add(2 * time.Second))
	assert.InDelta(t, 0.5, f.Progress, 1e-12)
	assert.InDelta(t, plan.TotalRotation*0.875, f.Angle, 1e-9)
	assert.False(t, f.Done)

	f = plan.At(start.Add(5 * time.Second))
	assert.True(t, f.Done)
	assert.Equal(t, 1.0, f.Progress)
	assert.Equal(t, plan.TotalRotation, f.Angle)
}

func TestPlanFramesIsFinite(t *testing.T) {
	start := time.Unix(0, 0)
	plan := NewPlan(DefaultSpinConfig(), FixedRNG(0.1), start)

	var frames []Frame
	for f := range plan.Frames(context.Background(), NewStepFrames(start, time.Second)) {
		frames = append(frames, f)
	}
	require.Len(t, frames, 4)
	assert.True(t, frames[3].Done)
	assert.Equal(t, plan.TotalRotation, frames[3].Angle)
	for i := 1; i < len(frames); i++ {
		assert.Greater(t, frames[i].Angle, frames[i-1].Angle)
	}
}

func TestAnimate(t *testing.T) {
	start := time.Unix(0, 0)
	plan := NewPlan(DefaultSpinConfig(), FixedRNG(0.3), start)

	var seen []Frame
	final := Animate(context.Background(), plan, NewStepFrames(start, 500*time.Millisecond), func(f Frame) {
		seen = append(seen, f)
	})
	assert.Len(t, seen, 7)
	for _, f := range seen {
		assert.False(t, f.Done)
	}
	assert.True(t, final.Done)
	assert.Equal(t, plan.TotalRotation, final.Angle)
}

func TestAnimateFastForwardsWhenCancelled(t *testing.T) {
	start := time.Unix(0, 0)
	plan := NewPlan(DefaultSpinConfig(), FixedRNG(0.3), start)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	final := Animate(ctx, plan, NewStepFrames(start, time.Millisecond), func(Frame) { called = true })
	assert.False(t, called)
	assert.Equal(t, plan.Final(), final)
	assert.Equal(t, plan.TotalRotation, final.Angle)
}
