package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/spinwheel/internal/storage"
	"github.com/xtding233/spinwheel/internal/wheel"
)

func TestRegistry_GetCreatesOnce(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(NewFactory(storage.NewMemoryStore(), nil, wheel.Config{}))

	c1, id := reg.Get(ctx, "")
	require.NotNil(t, c1)
	assert.True(t, Valid(id))
	assert.Len(t, id, 36)

	c2, id2 := reg.Get(ctx, id)
	assert.Same(t, c1, c2)
	assert.Equal(t, id, id2)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_InvalidIDIsReplaced(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(NewFactory(storage.NewMemoryStore(), nil, wheel.Config{}))

	_, id := reg.Get(ctx, "../../etc/passwd")
	assert.NotEqual(t, "../../etc/passwd", id)
	assert.True(t, Valid(id))
}

func TestRegistry_RebuildsFromStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	defaults := wheel.OptionSet{{Label: "Preset", Weight: 1}}

	reg := NewRegistry(NewFactory(store, defaults, wheel.Config{}))
	c, id := reg.Get(ctx, "")
	assert.Equal(t, defaults, c.Options())
	_, err := c.Add(ctx, wheel.Option{Label: "Tacos", Weight: 2})
	require.NoError(t, err)

	// a fresh registry over the same store sees the edit
	reg2 := NewRegistry(NewFactory(store, defaults, wheel.Config{}))
	c2, _ := reg2.Get(ctx, id)
	assert.Equal(t, wheel.OptionSet{{Label: "Preset", Weight: 1}, {Label: "Tacos", Weight: 2}}, c2.Options())
}

func TestRegistry_DefaultUsesFixedKey(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	reg := NewRegistry(NewFactory(store, nil, wheel.Config{}))

	c := reg.Default(ctx)
	require.NoError(t, c.Increment(ctx, 0))

	raw, ok, err := store.Get(ctx, storage.OptionsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"label":"Write Something","weight":2}]`, string(raw))
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// stalledFrames never yields a frame, so a spin stays in flight until its
// context ends.
type stalledFrames struct{}

func (stalledFrames) Next(ctx context.Context) (time.Time, error) {
	<-ctx.Done()
	return time.Time{}, ctx.Err()
}

func TestRegistry_SweepDropsIdleAndRebuilds(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clock := &testClock{now: time.Unix(1000, 0)}
	reg := NewRegistry(NewFactory(store, nil, wheel.Config{}))
	reg.Clock = clock
	reg.IdleTTL = time.Minute

	c, id := reg.Get(ctx, "")
	_, err := c.Add(ctx, wheel.Option{Label: "Kept", Weight: 2})
	require.NoError(t, err)

	clock.advance(45 * time.Second)
	reg.Get(ctx, id)
	clock.advance(45 * time.Second)
	assert.Equal(t, 0, reg.Sweep(ctx), "used 45s ago")

	clock.advance(2 * time.Minute)
	assert.Equal(t, 1, reg.Sweep(ctx))
	assert.Equal(t, 0, reg.Len())

	c2, id2 := reg.Get(ctx, id)
	assert.Equal(t, id, id2)
	assert.NotSame(t, c, c2)
	assert.Equal(t, wheel.OptionSet{{Label: wheel.DefaultLabel, Weight: 1}, {Label: "Kept", Weight: 2}}, c2.Options())
}

func TestRegistry_AnonymousVisitorsDoNotAccumulate(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Unix(1000, 0)}
	reg := NewRegistry(NewFactory(storage.NewMemoryStore(), nil, wheel.Config{}))
	reg.Clock = clock

	for i := 0; i < 1000; i++ {
		reg.Get(ctx, "")
	}
	assert.Equal(t, 1000, reg.Len())

	clock.advance(DefaultIdleTTL + time.Second)
	assert.Equal(t, 1000, reg.Sweep(ctx))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_SweepKeepsSpinningWheel(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{now: time.Unix(1000, 0)}
	reg := NewRegistry(NewFactory(storage.NewMemoryStore(), nil, wheel.Config{}))
	reg.Clock = clock
	reg.IdleTTL = time.Minute

	c := reg.Default(ctx)
	spinCtx, cancel := context.WithCancel(ctx)
	run, started, err := c.Start(spinCtx, stalledFrames{})
	require.NoError(t, err)
	require.True(t, started)

	clock.advance(time.Hour)
	assert.Equal(t, 0, reg.Sweep(ctx))

	cancel()
	<-run.Done
	assert.Equal(t, 1, reg.Sweep(ctx))
}
