// Package driver is the single entry point the host calls once (or twice)
// per frame for each fighter.
package driver

import (
	"io"
	"log/slog"
	"sync"

	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/ecs/system"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/prefabs"
	"github.com/milk9111/evostage/resource"
	"github.com/milk9111/evostage/rng"
)

// EventHandler receives the events of one entity-frame after it completes.
type EventHandler func(ecs.Event)

type Option func(*Driver)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithRNG(src rng.Source) Option {
	return func(d *Driver) {
		if src != nil {
			d.rng = src
		}
	}
}

func WithEventHandler(fn EventHandler) Option {
	return func(d *Driver) {
		d.onEvent = fn
	}
}

// Driver owns the per-entity table and the resource managers. Step holds an
// exclusive lock for the whole entity-frame.
type Driver struct {
	mu sync.Mutex

	host    host.Host
	fx      host.Effector
	logger  *slog.Logger
	rng     rng.Source
	onEvent EventHandler

	world   *ecs.World
	effects *resource.Manager
	sounds  *resource.Manager
	svc     *system.Services
	sched   *ecs.Scheduler
}

func New(h host.Host, fx host.Effector, spec *prefabs.EvolutionSpec, opts ...Option) *Driver {
	d := &Driver{
		host:   h,
		fx:     fx,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		rng:    rng.New(1),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.world = ecs.NewWorld(d.logger)
	d.effects = resource.NewManager("effects", resource.Effects{Host: fx}, d.logger)
	d.sounds = resource.NewManager("sounds", resource.Sounds{Host: fx}, d.logger)
	d.svc = &system.Services{
		Spec:    spec,
		Host:    fx,
		Effects: d.effects,
		Sounds:  d.sounds,
		RNG:     d.rng,
	}
	d.sched = ecs.NewScheduler(system.Pipeline(d.svc)...)
	return d
}

// Step advances e to frame. It reports whether any work was done: unknown
// entities in disabled color slots and repeated calls for the same frame are
// no-ops.
func (d *Driver) Step(frame uint64, e host.EntityID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.world.IsAlive(e) && !d.insert(e) {
		return false
	}

	hf, ok := ecs.Get(d.world, e, component.HostFrameComponent)
	if !ok {
		return false
	}
	if hf.Processed && hf.Frame == frame {
		return false
	}

	*hf = component.HostFrame{
		Frame:       frame,
		Processed:   true,
		MatchFrame:  d.host.MatchFrame(),
		Status:      d.host.Status(e),
		Motion:      d.host.AnimationID(e),
		MotionFrame: d.host.AnimationFrame(e),
		Damage:      d.host.Damage(e),
		Hits:        d.host.HitQueries(e),
		Situation:   d.host.Situation(e),
		Pressed:     d.host.Pressed(e),
		Slot:        d.host.ColorSlot(e),
	}

	d.effects.BeginFrame(frame)
	d.sounds.BeginFrame(frame)
	d.sched.Update(d.world, e)

	for _, evt := range d.world.Events().Drain() {
		if d.onEvent != nil {
			d.onEvent(evt)
		}
	}
	return true
}

func (d *Driver) insert(e host.EntityID) bool {
	slot := d.host.ColorSlot(e)
	if !d.svc.Spec.SlotEnabled(slot) {
		return false
	}
	if !d.world.Insert(e) {
		return false
	}
	if err := system.Attach(d.world, e, d.svc); err != nil {
		d.logger.Error("driver: attach failed", "entity", e.String(), "err", err)
		d.world.DestroyEntity(e)
		return false
	}
	d.logger.Info("driver: entity inserted", "entity", e.String(), "slot", slot)
	return true
}

// Remove destroys every resource of e and forgets it.
func (d *Driver) Remove(e host.EntityID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.world.IsAlive(e) {
		return false
	}
	killed := d.effects.DestroyEntity(e) + d.sounds.DestroyEntity(e)
	d.world.DestroyEntity(e)
	d.logger.Info("driver: entity removed", "entity", e.String(), "handles_killed", killed)
	return true
}

// Reset runs the full reset path for e outside of the detectors.
func (d *Driver) Reset(e host.EntityID, reason string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.world.IsAlive(e) {
		return false
	}
	system.FullReset(d.world, e, d.svc, reason)
	for _, evt := range d.world.Events().Drain() {
		if d.onEvent != nil {
			d.onEvent(evt)
		}
	}
	return true
}

// SetSpec swaps the tuning between frames. Entity state is kept; loops pick
// up the new durations on their next start.
func (d *Driver) SetSpec(spec *prefabs.EvolutionSpec) {
	if spec == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.svc.Spec = spec
	ecs.ForEach(d.world, component.SoundBankComponent, func(_ ecs.Entity, bank *component.SoundBank) {
		for _, l := range spec.Loops {
			if cur := bank.Find(l.Name); cur != nil {
				cur.Group, cur.Priority, cur.MaxFrames = l.Group, l.Priority, l.MaxFrames
				cur.Sound, cur.Volume = l.Sound, l.Volume
			}
		}
	})
	d.logger.Info("driver: spec swapped", "name", spec.Name)
}

// Shutdown destroys every effect and sound still bound and forgets every
// entity. Entities seen again afterwards start from first sight.
func (d *Driver) Shutdown() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	killed := d.effects.DestroyAll() + d.sounds.DestroyAll()
	for _, e := range d.world.Entities() {
		d.world.DestroyEntity(e)
	}
	d.logger.Info("driver: shutdown", "handles_killed", killed)
	return killed
}

func (d *Driver) Spec() *prefabs.EvolutionSpec {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.svc.Spec
}

// Entities returns the known entities in ascending order.
func (d *Driver) Entities() []host.EntityID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.world.Entities()
}

// Stats returns the effect and sound manager counters.
func (d *Driver) Stats() (effects, sounds resource.Stats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.effects.Stats(), d.sounds.Stats()
}
