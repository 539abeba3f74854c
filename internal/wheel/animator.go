package wheel

import (
	"context"
	"iter"
	"time"
)

const (
	DefaultFullSpins     = 5
	DefaultDuration      = 4000 * time.Millisecond
	DefaultFrameInterval = time.Second / 60
)

// SpinConfig shapes every spin of a wheel.
type SpinConfig struct {
	FullSpins int
	Duration  time.Duration
	Easing    Easing
}

func DefaultSpinConfig() SpinConfig {
	return SpinConfig{
		FullSpins: DefaultFullSpins,
		Duration:  DefaultDuration,
		Easing:    EaseOutCubic,
	}
}

// Plan is the full trajectory of one spin, fixed at spin start.
type Plan struct {
	Target        float64 // uniform in [0, 2π)
	TotalRotation float64 // 2π*FullSpins + Target
	Start         time.Time
	Duration      time.Duration
	Easing        Easing
}

// NewPlan draws the stopping target and records the start time.
func NewPlan(cfg SpinConfig, rng RandomSource, start time.Time) Plan {
	if rng == nil {
		rng = DefaultRNG()
	}
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	target := rng.Float64() * TwoPi
	return Plan{
		Target:        target,
		TotalRotation: TwoPi*float64(cfg.FullSpins) + target,
		Start:         start,
		Duration:      cfg.Duration,
		Easing:        cfg.Easing,
	}
}

// Frame is one animation sample.
type Frame struct {
	Time     time.Time
	Progress float64
	Angle    float64
	Done     bool
}

// At samples the plan at now. Progress is clamped to [0,1]; the frame at
// progress 1 carries exactly TotalRotation.
func (p Plan) At(now time.Time) Frame {
	if p.Duration <= 0 {
		return Frame{Time: now, Progress: 1, Angle: p.TotalRotation, Done: true}
	}
	progress := float64(now.Sub(p.Start)) / float64(p.Duration)
	if progress < 0 {
		progress = 0
	}
	if progress >= 1 {
		return Frame{Time: now, Progress: 1, Angle: p.TotalRotation, Done: true}
	}
	return Frame{
		Time:     now,
		Progress: progress,
		Angle:    p.TotalRotation * p.Easing.Apply(progress),
	}
}

// Final is the resting frame.
func (p Plan) Final() Frame {
	return Frame{Time: p.Start.Add(p.Duration), Progress: 1, Angle: p.TotalRotation, Done: true}
}

// Frames is the lazy, finite frame sequence of the plan, one per tick of src.
// It ends after the Done frame or when src stops producing ticks.
func (p Plan) Frames(ctx context.Context, src FrameSource) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for {
			now, err := src.Next(ctx)
			if err != nil {
				return
			}
			f := p.At(now)
			if !yield(f) || f.Done {
				return
			}
		}
	}
}

// Animate drives plan to completion, handing every intermediate frame to
// onFrame, and returns the resting frame. When ctx ends early the remaining
// frames are skipped and the plan is fast-forwarded: the outcome chosen at
// spin start is never aborted.
func Animate(ctx context.Context, plan Plan, src FrameSource, onFrame func(Frame)) Frame {
	for f := range plan.Frames(ctx, src) {
		if f.Done {
			return f
		}
		if onFrame != nil {
			onFrame(f)
		}
	}
	return plan.Final()
}
