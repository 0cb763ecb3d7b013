package system

import (
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
)

// ResetSystem detects external resets from host-observable signatures.
//
// Death and respawn statuses are canonical and always wipe the fighter. A
// damage drop from a high value to near zero outside a results screen is the
// training-mode signature and also wipes it. A match frame rollback alone
// only cancels an evolution in progress, unless damage also reads near zero,
// in which case the two corroborate a wipe.
type ResetSystem struct {
	svc *Services
}

func NewResetSystem(svc *Services) *ResetSystem {
	return &ResetSystem{svc: svc}
}

func (s *ResetSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil {
		return
	}
	f, ok := ecs.Get(w, e, component.HostFrameComponent)
	if !ok {
		return
	}
	rw, ok := ecs.Get(w, e, component.ResetWatchComponent)
	if !ok {
		return
	}

	rw.Verdict = component.ResetNone
	rw.Reason = ""
	if rw.Seen {
		rw.Verdict, rw.Reason = s.detect(rw, f)
	}
	rw.Seen = true
	rw.LastStatus = f.Status
	rw.LastDamage = f.Damage
	rw.LastMatchFrame = f.MatchFrame

	if rw.Verdict == component.ResetFull {
		FullReset(w, e, s.svc, rw.Reason)
	}
}

func (s *ResetSystem) detect(rw *component.ResetWatch, f *component.HostFrame) (component.ResetVerdict, string) {
	spec := s.svc.Spec
	statusChanged := f.Status != rw.LastStatus
	nearZero := f.Damage <= spec.Reset.NearZero

	switch {
	case statusChanged && spec.IsDeath(f.Status):
		return component.ResetFull, "death"
	case statusChanged && spec.IsRespawn(f.Status):
		return component.ResetFull, "respawn"
	case rw.LastDamage >= spec.Reset.DamageHigh && nearZero && !spec.IsResults(f.Status):
		return component.ResetFull, "damage_drop"
	case f.MatchFrame < rw.LastMatchFrame && nearZero:
		return component.ResetFull, "match_rollback"
	case f.MatchFrame < rw.LastMatchFrame:
		return component.ResetMatch, "match_rollback"
	}
	return component.ResetNone, ""
}

// FullReset returns e to its first-sight state and destroys every effect and
// sound it owns. It is idempotent.
func FullReset(w *ecs.World, e ecs.Entity, svc *Services, reason string) {
	if w == nil || svc == nil {
		return
	}

	killed := 0
	if svc.Effects != nil {
		killed += svc.Effects.DestroyEntity(e)
	}
	if svc.Sounds != nil {
		killed += svc.Sounds.DestroyEntity(e)
	}

	var frame uint64
	var damage float32
	if f, ok := ecs.Get(w, e, component.HostFrameComponent); ok {
		frame = f.Frame
		damage = f.Damage
	}

	wasEvolving := false
	if evo, ok := ecs.Get(w, e, component.EvolutionComponent); ok {
		wasEvolving = evo.Evolving
		fresh := component.NewEvolution(component.Stage1)
		fresh.LastDamage = damage
		fresh.HitEdge = evo.HitEdge
		*evo = *fresh
	}
	if r, ok := ecs.Get(w, e, component.ReadinessComponent); ok {
		r.Clear()
	}
	if c, ok := ecs.Get(w, e, component.ChargeComponent); ok {
		c.Reset()
	}
	if b, ok := ecs.Get(w, e, component.ButtonsComponent); ok {
		b.Clear()
	}
	if bank, ok := ecs.Get(w, e, component.SoundBankComponent); ok {
		bank.StopAll()
	}
	if cos, ok := ecs.Get(w, e, component.CosmeticsComponent); ok {
		cos.Evolve.Stop()
		cos.Complete.Stop()
		cos.Cancel.Stop()
	}
	if m, ok := ecs.Get(w, e, component.MeshStateComponent); ok {
		m.Forget()
	}

	w.Logger().Info("evolution: full reset",
		"entity", e.String(), "reason", reason, "was_evolving", wasEvolving, "handles_killed", killed)
	w.Events().Push(ecs.Event{Type: ecs.EventFullReset, Entity: e, Frame: frame, Data: reason})
}
