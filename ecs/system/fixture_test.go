package system

import (
	"io"
	"log/slog"
	"testing"

	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/host/memhost"
	"github.com/milk9111/evostage/prefabs"
	"github.com/milk9111/evostage/resource"
	"github.com/milk9111/evostage/rng"
)

const fighter ecs.Entity = 1

type fixture struct {
	t     *testing.T
	w     *ecs.World
	h     *memhost.Host
	svc   *Services
	sched *ecs.Scheduler
	frame uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	spec, err := prefabs.DefaultEvolutionSpec()
	if err != nil {
		t.Fatalf("default spec: %v", err)
	}
	h := memhost.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := &Services{
		Spec:    spec,
		Host:    h,
		Effects: resource.NewManager("effects", resource.Effects{Host: h}, logger),
		Sounds:  resource.NewManager("sounds", resource.Sounds{Host: h}, logger),
		RNG:     rng.New(7),
	}
	w := ecs.NewWorld(logger)
	if !w.Insert(fighter) {
		t.Fatalf("insert fighter failed")
	}
	if err := Attach(w, fighter, svc); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return &fixture{t: t, w: w, h: h, svc: svc, sched: ecs.NewScheduler(Pipeline(svc)...)}
}

func (f *fixture) fighter() *memhost.Fighter {
	return f.h.Fighter(fighter)
}

func (f *fixture) step() {
	f.frame++
	hf, ok := ecs.Get(f.w, fighter, component.HostFrameComponent)
	if !ok {
		f.t.Fatalf("missing host frame")
	}
	ft := f.fighter()
	*hf = component.HostFrame{
		Frame:       f.frame,
		Processed:   true,
		MatchFrame:  f.h.Match,
		Status:      ft.Status,
		Motion:      ft.Motion,
		MotionFrame: ft.MotionFrame,
		Damage:      ft.Damage,
		Hits:        ft.Hits,
		Situation:   ft.Situation,
		Pressed:     ft.Pressed,
		Slot:        ft.Slot,
	}
	f.svc.Effects.BeginFrame(f.frame)
	f.svc.Sounds.BeginFrame(f.frame)
	f.sched.Update(f.w, fighter)
	f.h.EndFrame()
}

func (f *fixture) steps(n int) {
	for i := 0; i < n; i++ {
		f.step()
	}
}

// landHits lands n hits, two frames per hit.
func (f *fixture) landHits(n int) {
	for i := 0; i < n; i++ {
		f.fighter().Hits.HitLanded = true
		f.step()
		f.fighter().Hits.HitLanded = false
		f.step()
	}
}

// doublePress presses btn on this frame and again two frames later.
func (f *fixture) doublePress(btn host.Button) {
	f.fighter().Pressed = host.Buttons(0).With(btn)
	f.step()
	f.step()
	f.fighter().Pressed = host.Buttons(0).With(btn)
	f.step()
}

// stepUntil steps until cond holds, failing after limit frames.
func (f *fixture) stepUntil(limit int, what string, cond func() bool) {
	f.t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		f.step()
	}
	if !cond() {
		f.t.Fatalf("%s not reached within %d frames", what, limit)
	}
}

func (f *fixture) evo() *component.Evolution {
	evo, ok := ecs.Get(f.w, fighter, component.EvolutionComponent)
	if !ok {
		f.t.Fatalf("missing evolution")
	}
	return evo
}

func (f *fixture) readiness() *component.Readiness {
	r, ok := ecs.Get(f.w, fighter, component.ReadinessComponent)
	if !ok {
		f.t.Fatalf("missing readiness")
	}
	return r
}

func (f *fixture) eventsOf(typ ecs.EventType) []ecs.Event {
	var out []ecs.Event
	for _, evt := range f.w.Events().Drain() {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

// readyBoth brings stage 1 to both thresholds on the same frame.
func (f *fixture) readyBoth() {
	f.landHits(9)
	f.fighter().Damage = 40
	f.fighter().Hits.HitLanded = true
	f.step()
	f.fighter().Hits.HitLanded = false
}

// toPenultimate puts the fighter at stage 2, stable and guarding on the ground.
func (f *fixture) toPenultimate() {
	f.step()
	f.evo().Stage = component.Stage2
	f.evo().Target = component.Stage2
	f.fighter().Situation = host.Situation{Grounded: true, Guarding: true}
}
