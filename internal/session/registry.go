// Package session keeps one wheel per visitor.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xtding233/spinwheel/internal/log"
	"github.com/xtding233/spinwheel/internal/metrics"
	"github.com/xtding233/spinwheel/internal/storage"
	"github.com/xtding233/spinwheel/internal/wheel"
)

// DefaultID names the shared single-user wheel. It persists under
// storage.OptionsKey.
const DefaultID = "local"

// DefaultIdleTTL is how long an unused wheel stays in memory.
const DefaultIdleTTL = 30 * time.Minute

// Factory builds the controller for a session, loading whatever was
// persisted for it.
type Factory func(ctx context.Context, id string) *wheel.Controller

type entry struct {
	ctrl        *wheel.Controller
	unsubscribe func()
	lastUsed    time.Time
}

// Registry maps session ids to live controllers. Wheels idle for longer
// than IdleTTL are dropped by Sweep and rebuilt from storage on next use.
type Registry struct {
	// IdleTTL and Clock may be set before first use. Zero values mean
	// DefaultIdleTTL and the system clock.
	IdleTTL time.Duration
	Clock   wheel.Clock

	mu      sync.Mutex
	m       map[string]*entry
	factory Factory
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{m: map[string]*entry{}, factory: factory}
}

// NewFactory wires controllers to the store and the shared settings.
func NewFactory(store storage.Store, defaults wheel.OptionSet, cfg wheel.Config) Factory {
	return func(ctx context.Context, id string) *wheel.Controller {
		key := storage.OptionsKey
		if id != DefaultID {
			key = storage.SessionKey(id)
		}
		repo := storage.NewOptionsRepo(store, key, defaults)
		c := cfg
		c.Persister = repo
		return wheel.NewController(repo.Load(ctx), c)
	}
}

func (r *Registry) NewID() string {
	return uuid.NewString()
}

// Valid reports whether id can name a session.
func Valid(id string) bool {
	if id == DefaultID {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *Registry) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock.Now()
}

func (r *Registry) ttl() time.Duration {
	if r.IdleTTL <= 0 {
		return DefaultIdleTTL
	}
	return r.IdleTTL
}

// Get returns the controller for id, building it on first use. Invalid ids
// are replaced with a fresh one; the id actually used is returned.
func (r *Registry) Get(ctx context.Context, id string) (*wheel.Controller, string) {
	if !Valid(id) {
		id = r.NewID()
	}
	if c, ok := r.touch(id); ok {
		return c, id
	}

	// storage is read without holding the lock
	built := r.factory(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.m[id]; ok {
		e.lastUsed = r.now()
		return e.ctrl, id
	}
	r.m[id] = &entry{
		ctrl:        built,
		unsubscribe: built.Subscribe(metrics.Listener{}),
		lastUsed:    r.now(),
	}
	metrics.SessionsActive.Set(float64(len(r.m)))
	log.Debug(ctx, "wheel session opened", zap.String("session", id))
	return built, id
}

func (r *Registry) touch(id string) (*wheel.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.m[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.ctrl, true
}

// Default is the shared wheel.
func (r *Registry) Default(ctx context.Context) *wheel.Controller {
	c, _ := r.Get(ctx, DefaultID)
	return c
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Sweep drops wheels unused for longer than IdleTTL and returns how many
// went. A spinning wheel is kept until its spin ends.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.ttl())
	var dropped []*entry

	r.mu.Lock()
	for id, e := range r.m {
		if e.lastUsed.After(cutoff) || e.ctrl.Spinning() {
			continue
		}
		delete(r.m, id)
		dropped = append(dropped, e)
	}
	n := len(r.m)
	r.mu.Unlock()

	for _, e := range dropped {
		e.unsubscribe()
	}
	if len(dropped) > 0 {
		metrics.SessionsActive.Set(float64(n))
		log.Debug(ctx, "idle wheel sessions evicted", zap.Int("evicted", len(dropped)), zap.Int("active", n))
	}
	return len(dropped)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}
