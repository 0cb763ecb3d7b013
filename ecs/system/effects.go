package system

import (
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/prefabs"
	"github.com/milk9111/evostage/resource"
)

// Effect keys as they appear in the tuning file.
const (
	EffectAura       = "evolve_aura"
	EffectShadowball = "shadowball"
	EffectChargeGlow = "charge_glow"
	EffectHoldMarker = "hold_marker"
	EffectComplete   = "complete_burst"
	EffectCancel     = "cancel_smoke"
	effectPhase      = "evolve_"
)

var iconEffects = [...]struct {
	kind component.IconKind
	name string
}{
	{component.IconT, "icon_t"},
	{component.IconD, "icon_d"},
	{component.IconSS, "icon_ss"},
	{component.IconSE, "icon_se"},
}

// EffectSystem declares, every frame, which effects each fighter should
// have. The effect manager turns the declarations into spawns and kills.
type EffectSystem struct {
	svc *Services
}

func NewEffectSystem(svc *Services) *EffectSystem {
	return &EffectSystem{svc: svc}
}

func (s *EffectSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil || s.svc.Effects == nil {
		return
	}
	f, ok := ecs.Get(w, e, component.HostFrameComponent)
	if !ok {
		return
	}
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return
	}
	r, _ := ecs.Get(w, e, component.ReadinessComponent)
	c, _ := ecs.Get(w, e, component.ChargeComponent)
	cos, _ := ecs.Get(w, e, component.CosmeticsComponent)

	s.sync(e, EffectAura, evo.Evolving)

	current := ""
	if cos != nil && evo.Evolving {
		current, _ = cos.Evolve.Current()
	}
	for _, p := range s.svc.Spec.Sequence {
		s.sync(e, effectPhase+p.Name, p.Name == current)
	}

	for _, ie := range iconEffects {
		s.sync(e, ie.name, r != nil && r.Icon(ie.kind).Active)
	}

	state := component.NotActive
	if c != nil {
		state = c.State
	}
	s.syncTracked(e, EffectShadowball, state == component.InvisibleMotionWithHitbox, f.Status)
	s.syncTracked(e, EffectChargeGlow, state == component.ChargedHold, f.Status)

	s.sync(e, EffectHoldMarker, evo.HoldAuto && !evo.Evolving)
	s.sync(e, EffectComplete, cos != nil && cos.Complete.Running)
	s.sync(e, EffectCancel, cos != nil && cos.Cancel.Running)
}

func (s *EffectSystem) sync(e ecs.Entity, name string, cond bool) {
	spec, ok := s.svc.Spec.Effect(name)
	s.svc.Effects.Sync(resource.Key{Name: name, Entity: e}, cond && ok, s.factory(e, spec))
}

// syncTracked syncs an effect that has to be visible by a given frame of its
// status; a late respawn is kept only once it has been up long enough.
func (s *EffectSystem) syncTracked(e ecs.Entity, name string, cond bool, status int32) {
	spec, ok := s.svc.Spec.Effect(name)
	opts := resource.SyncOptions{TargetVisibleFrame: spec.TargetVisibleFrame, Status: status}
	s.svc.Effects.SyncWith(resource.Key{Name: name, Entity: e}, cond && ok, opts, s.factory(e, spec))
}

func (s *EffectSystem) factory(e ecs.Entity, spec prefabs.EffectSpec) func() host.Handle {
	return func() host.Handle {
		if s.svc.Host == nil {
			return 0
		}
		return s.svc.Host.SpawnEffect(host.EffectSpec{
			Entity:   e,
			Name:     spec.Name,
			Bone:     spec.Bone,
			Offset:   spec.Offset,
			Rotation: spec.Rotation,
			Scale:    spec.Scale,
			Flags:    spec.Flags,
		})
	}
}
