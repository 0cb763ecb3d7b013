package system

import (
	"errors"

	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/prefabs"
	"github.com/milk9111/evostage/resource"
	"github.com/milk9111/evostage/rng"
)

// Services is what the per-entity systems of one driver share.
type Services struct {
	Spec    *prefabs.EvolutionSpec
	Host    host.Effector
	Effects *resource.Manager
	Sounds  *resource.Manager
	RNG     rng.Source
}

// Pipeline returns the per-entity systems in frame order: host state flows
// through reset detection, the classifier and the state machine before any
// host resource is touched.
func Pipeline(svc *Services) []ecs.System {
	return []ecs.System{
		NewResetSystem(svc),
		NewChargeSystem(svc),
		NewEvolutionSystem(svc),
		NewReadinessSystem(svc),
		NewAutoEvolveSystem(svc),
		NewCosmeticsSystem(svc),
		NewVoiceSystem(svc),
		NewEffectSystem(svc),
		NewSoundLoopSystem(svc),
		NewMeshSystem(svc),
		NewFrameFlagsSystem(),
	}
}

// Attach gives a freshly inserted entity every component the pipeline reads,
// starting at the first stage. An entity that already carries its evolution
// state is left alone.
func Attach(w *ecs.World, e ecs.Entity, svc *Services) error {
	if ecs.Has(w, e, component.EvolutionComponent) {
		return nil
	}
	bank := &component.SoundBank{}
	for _, l := range svc.Spec.Loops {
		bank.Loops = append(bank.Loops, component.Loop{
			Name:      l.Name,
			Group:     l.Group,
			Priority:  l.Priority,
			MaxFrames: l.MaxFrames,
			Sound:     l.Sound,
			Volume:    l.Volume,
		})
	}

	return errors.Join(
		ecs.Add(w, e, component.HostFrameComponent, &component.HostFrame{}),
		ecs.Add(w, e, component.ResetWatchComponent, &component.ResetWatch{}),
		ecs.Add(w, e, component.ChargeComponent, &component.Charge{}),
		ecs.Add(w, e, component.EvolutionComponent, component.NewEvolution(component.Stage1)),
		ecs.Add(w, e, component.ButtonsComponent, &component.Buttons{}),
		ecs.Add(w, e, component.ReadinessComponent, &component.Readiness{}),
		ecs.Add(w, e, component.CosmeticsComponent, &component.Cosmetics{}),
		ecs.Add(w, e, component.SoundBankComponent, bank),
		ecs.Add(w, e, component.MeshStateComponent, &component.MeshState{}),
	)
}
