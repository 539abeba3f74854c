package wheel

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xtding233/spinwheel/internal/log"
)

// Persister receives the option set after every mutation.
type Persister interface {
	Save(ctx context.Context, set OptionSet) error
}

// Listener is notified of changes. Calls happen outside the controller lock,
// on the goroutine that caused the change.
type Listener interface {
	// Redraw fires after anything that alters what is painted: an edit, an
	// animation frame, the end of a spin.
	Redraw(Snapshot)
	// Selected fires once per completed spin.
	Selected(Selection)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnRedraw func(Snapshot)
	OnSelect func(Selection)
}

func (l ListenerFuncs) Redraw(s Snapshot) {
	if l.OnRedraw != nil {
		l.OnRedraw(s)
	}
}

func (l ListenerFuncs) Selected(s Selection) {
	if l.OnSelect != nil {
		l.OnSelect(s)
	}
}

// State is everything a wheel owns. Geometry and colors are derived from
// Options on demand and never stored.
type State struct {
	Options  OptionSet
	Angle    float64
	Spinning bool
	Plan     *Plan
	Progress float64
	Last     *Selection
}

// Snapshot is a copy of State safe to hand to other goroutines.
type Snapshot struct {
	Options  OptionSet  `json:"options"`
	Angle    float64    `json:"angle"`
	Spinning bool       `json:"spinning"`
	Progress float64    `json:"progress"`
	Last     *Selection `json:"last,omitempty"`
}

// Config wires a Controller to its collaborators. Zero fields get defaults.
type Config struct {
	Persister Persister
	RNG       RandomSource
	Clock     Clock
	Spin      SpinConfig
}

// Controller is the single owner of one wheel's State. Edits and animation
// frames are serialized under its lock.
type Controller struct {
	mu        sync.Mutex
	state     State
	persister Persister
	rng       RandomSource
	clock     Clock
	spin      SpinConfig

	lmu       sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

func NewController(options OptionSet, cfg Config) *Controller {
	if cfg.RNG == nil {
		cfg.RNG = DefaultRNG()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Spin.Duration <= 0 {
		cfg.Spin.Duration = DefaultDuration
	}
	return &Controller{
		state:     State{Options: options.Clone()},
		persister: cfg.Persister,
		rng:       cfg.RNG,
		clock:     cfg.Clock,
		spin:      cfg.Spin,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and returns a func that removes it.
func (c *Controller) Subscribe(l Listener) func() {
	c.lmu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.lmu.Unlock()
	return func() {
		c.lmu.Lock()
		delete(c.listeners, id)
		c.lmu.Unlock()
	}
}

func (c *Controller) each(fn func(Listener)) {
	c.lmu.RLock()
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.lmu.RUnlock()
	for _, l := range ls {
		fn(l)
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Options:  c.state.Options.Clone(),
		Angle:    c.state.Angle,
		Spinning: c.state.Spinning,
		Progress: c.state.Progress,
	}
	if c.state.Last != nil {
		last := *c.state.Last
		s.Last = &last
	}
	return s
}

func (c *Controller) Options() OptionSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Options.Clone()
}

func (c *Controller) Spinning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Spinning
}

// mutate applies fn to a copy of the options. When fn reports a change the
// copy becomes the new state, is persisted and a redraw is emitted.
func (c *Controller) mutate(ctx context.Context, op string, fn func(OptionSet) (OptionSet, bool, error)) error {
	c.mu.Lock()
	next, changed, err := fn(c.state.Options.Clone())
	if err != nil || !changed {
		c.mu.Unlock()
		return err
	}
	c.state.Options = next
	var perr error
	if c.persister != nil {
		perr = c.persister.Save(ctx, next)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	log.Debug(ctx, "options changed", zap.String("op", op), zap.Int("count", len(snap.Options)))
	c.each(func(l Listener) { l.Redraw(snap) })
	if perr != nil {
		log.Warn(ctx, "failed to persist options", zap.String("op", op), zap.Error(perr))
		return fmt.Errorf("persist options: %w", perr)
	}
	return nil
}

// Add appends an option. An empty label becomes "New Option #<n>" and a zero
// weight becomes 1. Weights above MaxWeight are rejected. It returns the new option's index.
func (c *Controller) Add(ctx context.Context, o Option) (int, error) {
	if o.Weight == 0 {
		o.Weight = 1
	}
	if err := checkWeight(o.Weight); err != nil {
		return -1, err
	}
	idx := -1
	err := c.mutate(ctx, "add", func(set OptionSet) (OptionSet, bool, error) {
		if o.Label == "" {
			o.Label = NewOptionLabel(len(set) + 1)
		}
		idx = len(set)
		return append(set, o), true, nil
	})
	return idx, err
}

func (c *Controller) SetLabel(ctx context.Context, i int, label string) error {
	return c.mutate(ctx, "label", func(set OptionSet) (OptionSet, bool, error) {
		if err := set.checkIndex(i); err != nil {
			return nil, false, err
		}
		set[i].Label = label
		return set, true, nil
	})
}

func (c *Controller) SetWeight(ctx context.Context, i, weight int) error {
	if err := checkWeight(weight); err != nil {
		return err
	}
	return c.mutate(ctx, "weight", func(set OptionSet) (OptionSet, bool, error) {
		if err := set.checkIndex(i); err != nil {
			return nil, false, err
		}
		if set[i].Weight == weight {
			return set, false, nil
		}
		set[i].Weight = weight
		return set, true, nil
	})
}

func (c *Controller) Increment(ctx context.Context, i int) error {
	return c.mutate(ctx, "increment", func(set OptionSet) (OptionSet, bool, error) {
		if err := set.checkIndex(i); err != nil {
			return nil, false, err
		}
		if err := checkWeight(set[i].Weight + 1); err != nil {
			return nil, false, err
		}
		set[i].Weight++
		return set, true, nil
	})
}

// Decrement lowers a weight by one. At weight 1 it does nothing and reports
// changed=false.
func (c *Controller) Decrement(ctx context.Context, i int) (bool, error) {
	changed := false
	err := c.mutate(ctx, "decrement", func(set OptionSet) (OptionSet, bool, error) {
		if err := set.checkIndex(i); err != nil {
			return nil, false, err
		}
		if set[i].Weight <= 1 {
			return set, false, nil
		}
		set[i].Weight--
		changed = true
		return set, true, nil
	})
	return changed, err
}

func (c *Controller) Delete(ctx context.Context, i int) error {
	return c.mutate(ctx, "delete", func(set OptionSet) (OptionSet, bool, error) {
		if err := set.checkIndex(i); err != nil {
			return nil, false, err
		}
		return append(set[:i], set[i+1:]...), true, nil
	})
}

// Replace swaps in a whole new option set.
func (c *Controller) Replace(ctx context.Context, set OptionSet) error {
	if err := ValidateOptions(set); err != nil {
		return err
	}
	return c.mutate(ctx, "replace", func(OptionSet) (OptionSet, bool, error) {
		return set.Clone(), true, nil
	})
}

// Spin runs one spin to completion, pacing frames with src. It reports
// started=false without error when a spin is already in flight, and
// ErrEmptyWheel when there is nothing to spin.
func (c *Controller) Spin(ctx context.Context, src FrameSource) (Selection, bool, error) {
	plan, started, err := c.begin(ctx)
	if !started || err != nil {
		return Selection{}, started, err
	}
	sel, err := c.run(ctx, plan, src)
	return sel, true, err
}

// Outcome is how a spin ended.
type Outcome struct {
	Selection Selection
	Err       error
}

// Run is a spin animating in the background.
type Run struct {
	Plan Plan
	Done <-chan Outcome // receives exactly one Outcome
}

// Start is Spin without waiting: the state moves to Spinning before it
// returns and the animation continues on its own goroutine.
func (c *Controller) Start(ctx context.Context, src FrameSource) (Run, bool, error) {
	plan, started, err := c.begin(ctx)
	if !started || err != nil {
		return Run{}, started, err
	}
	done := make(chan Outcome, 1)
	go func() {
		sel, err := c.run(ctx, plan, src)
		done <- Outcome{Selection: sel, Err: err}
	}()
	return Run{Plan: plan, Done: done}, true, nil
}

// begin is the Idle → Spinning transition.
func (c *Controller) begin(ctx context.Context) (Plan, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Spinning {
		log.Debug(ctx, "spin ignored; already spinning")
		return Plan{}, false, nil
	}
	if c.state.Options.TotalWeight() <= 0 {
		return Plan{}, false, ErrEmptyWheel
	}
	plan := NewPlan(c.spin, c.rng, c.clock.Now())
	c.state.Spinning = true
	c.state.Plan = &plan
	c.state.Progress = 0
	log.Info(ctx, "spin started",
		zap.Float64("target", plan.Target),
		zap.Float64("total_rotation", plan.TotalRotation),
		zap.Duration("duration", plan.Duration))
	return plan, true, nil
}

// run animates plan and performs the Spinning → Idle transition.
func (c *Controller) run(ctx context.Context, plan Plan, src FrameSource) (Selection, error) {
	final := Animate(ctx, plan, src, func(f Frame) {
		c.mu.Lock()
		c.state.Angle = f.Angle
		c.state.Progress = f.Progress
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.each(func(l Listener) { l.Redraw(snap) })
	})

	c.mu.Lock()
	c.state.Angle = final.Angle
	c.state.Progress = 1
	c.state.Spinning = false
	c.state.Plan = nil
	sel, err := Resolve(c.state.Options, final.Angle)
	if err == nil {
		c.state.Last = &sel
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.each(func(l Listener) { l.Redraw(snap) })
	if err != nil {
		// options were emptied mid-spin
		log.Warn(ctx, "spin finished without a selection", zap.Error(err))
		return Selection{}, err
	}
	log.Info(ctx, "spin finished",
		zap.Int("index", sel.Index),
		zap.String("label", sel.Option.Label),
		zap.Float64("angle", sel.Angle))
	c.each(func(l Listener) { l.Selected(sel) })
	return sel, nil
}

// Resolve reports the option currently under the pointer.
func (c *Controller) Resolve() (Selection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Resolve(c.state.Options, c.state.Angle)
}
