package wheel

import (
	"context"
	"time"
)

// Clock supplies the spin start timestamp.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FrameSource schedules animation frames. Next blocks until the next frame is
// due and returns its timestamp.
type FrameSource interface {
	Next(ctx context.Context) (time.Time, error)
}

// TickerFrames paces frames with a time.Ticker.
type TickerFrames struct {
	t *time.Ticker
}

func NewTickerFrames(interval time.Duration) *TickerFrames {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerFrames{t: time.NewTicker(interval)}
}

func (f *TickerFrames) Next(ctx context.Context) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-f.t.C:
		return now, nil
	}
}

func (f *TickerFrames) Stop() { f.t.Stop() }

// StepFrames returns Start+Step, Start+2*Step, ... without waiting.
type StepFrames struct {
	Start time.Time
	Step  time.Duration
	n     int
}

func NewStepFrames(start time.Time, step time.Duration) *StepFrames {
	return &StepFrames{Start: start, Step: step}
}

func (f *StepFrames) Next(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	f.n++
	return f.Start.Add(time.Duration(f.n) * f.Step), nil
}
