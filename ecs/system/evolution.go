package system

import (
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
)

// StageChange is the payload of stage transition events.
type StageChange struct {
	From   component.Stage
	To     component.Stage
	Manual bool
	Reason string
}

// EvolutionSystem owns progress accumulation and the Stable/Evolving
// transitions driven by input, resets and the evolution timer.
type EvolutionSystem struct {
	svc *Services
}

func NewEvolutionSystem(svc *Services) *EvolutionSystem {
	return &EvolutionSystem{svc: svc}
}

func (s *EvolutionSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil {
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
	btn, ok := ecs.Get(w, e, component.ButtonsComponent)
	if !ok {
		return
	}
	spec := s.svc.Spec

	if d := f.Damage - evo.LastDamage; d > 0 {
		evo.DamageReceived += d
	}
	evo.LastDamage = f.Damage
	if rose, _ := evo.HitEdge.Observe(f.Hits.HitLanded); rose {
		evo.HitsLanded++
	}

	doubles := btn.Observe(f.Pressed, f.Frame, uint64(spec.Manual.WindowFrames))

	if evo.Evolving {
		reason := ""
		switch {
		case doubles.Has(spec.Derived.CancelButton):
			reason = "input"
		case matchReset(w, e):
			reason = "match_reset"
		case spec.IsFinalSmash(f.Status):
			reason = "final_smash"
		}
		if reason != "" {
			CancelEvolution(w, e, s.svc, reason)
			return
		}
		evo.Timer++
		if evo.Timer >= spec.TotalFrames {
			ConfirmEvolution(w, e, s.svc)
		}
		return
	}

	if f.Pressed.Has(spec.Derived.HoldButton) && f.Situation.Guarding && !evo.Stage.Terminal() {
		evo.HoldAuto = !evo.HoldAuto
		w.Events().Push(ecs.Event{Type: ecs.EventHoldToggled, Entity: e, Frame: f.Frame, Data: evo.HoldAuto})
	}

	if doubles.Has(spec.Derived.EvolveButton) && f.Situation.Guarding && f.Situation.Grounded {
		if !evo.Stage.Penultimate() {
			w.Logger().Debug("evolution: manual start ignored", "entity", e.String(), "stage", evo.Stage.String())
			return
		}
		StartEvolution(w, e, s.svc, true)
	}
}

func matchReset(w *ecs.World, e ecs.Entity) bool {
	rw, ok := ecs.Get(w, e, component.ResetWatchComponent)
	return ok && rw.Verdict == component.ResetMatch
}

// Thresholds returns the effective damage and hits thresholds of the current
// stage, penalties included.
func Thresholds(svc *Services, evo *component.Evolution) (float32, int) {
	i := int(evo.Stage)
	return svc.Spec.DamageThreshold(i) + evo.DelayDamagePenalty, svc.Spec.HitsThreshold(i) + evo.DelayHitsPenalty
}

// ThresholdsMet reports which progress conditions currently hold.
func ThresholdsMet(svc *Services, evo *component.Evolution) (damage, hits bool) {
	if evo.Stage.Terminal() {
		return false, false
	}
	dt, ht := Thresholds(svc, evo)
	return evo.DamageReceived >= dt, evo.HitsLanded >= ht
}

// StartEvolution moves a stable fighter to Evolving(stage→next). Requests
// that make no sense are logged and ignored.
func StartEvolution(w *ecs.World, e ecs.Entity, svc *Services, manual bool) bool {
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return false
	}
	if evo.Evolving {
		w.Logger().Warn("evolution: start while evolving ignored", "entity", e.String(), "state", *evo)
		return false
	}
	if evo.Stage.Terminal() {
		w.Logger().Warn("evolution: start at terminal stage ignored", "entity", e.String(), "state", *evo)
		return false
	}

	evo.Target = evo.Stage.Next()
	evo.Evolving = true
	evo.Timer = 0
	evo.JustStarted = true
	evo.Manual = manual
	if r, ok := ecs.Get(w, e, component.ReadinessComponent); ok {
		r.Clear()
	}

	w.Logger().Info("evolution: started", "entity", e.String(), "manual", manual, "state", *evo)
	w.Events().Push(ecs.Event{Type: ecs.EventEvolutionStarted, Entity: e, Frame: frameOf(w, e),
		Data: StageChange{From: evo.Stage, To: evo.Target, Manual: manual}})
	return true
}

// ConfirmEvolution commits the target stage. Only valid while evolving.
func ConfirmEvolution(w *ecs.World, e ecs.Entity, svc *Services) bool {
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return false
	}
	if !evo.Evolving {
		w.Logger().Warn("evolution: confirm while stable ignored", "entity", e.String(), "state", *evo)
		return false
	}

	from := evo.Stage
	evo.Stage = evo.Target
	evo.Evolving = false
	evo.Timer = 0
	evo.DamageReceived = 0
	evo.HitsLanded = 0
	evo.DelayDamagePenalty = 0
	evo.DelayHitsPenalty = 0
	evo.CancelCount = 0
	evo.JustCompleted = true
	if r, ok := ecs.Get(w, e, component.ReadinessComponent); ok {
		r.Clear()
	}

	w.Logger().Info("evolution: confirmed", "entity", e.String(), "from", from.String(), "to", evo.Stage.String())
	w.Events().Push(ecs.Event{Type: ecs.EventStageConfirmed, Entity: e, Frame: frameOf(w, e),
		Data: StageChange{From: from, To: evo.Stage, Manual: evo.Manual}})
	return true
}

// CancelEvolution returns to the original stage and inflates the next damage
// threshold by the configured share of the stage's base threshold. The hits
// threshold is left alone.
func CancelEvolution(w *ecs.World, e ecs.Entity, svc *Services, reason string) bool {
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return false
	}
	if !evo.Evolving {
		w.Logger().Warn("evolution: cancel while stable ignored", "entity", e.String(), "reason", reason)
		return false
	}

	target := evo.Target
	evo.Evolving = false
	evo.Target = evo.Stage
	evo.Timer = 0
	evo.DelayDamagePenalty += svc.Spec.DamageThreshold(int(evo.Stage)) * svc.Spec.Penalty.DamagePercent / 100
	evo.CancelCount++
	evo.JustCancelled = true
	if r, ok := ecs.Get(w, e, component.ReadinessComponent); ok {
		r.Clear()
	}

	w.Logger().Info("evolution: cancelled", "entity", e.String(), "reason", reason, "state", *evo)
	w.Events().Push(ecs.Event{Type: ecs.EventEvolutionCancelled, Entity: e, Frame: frameOf(w, e),
		Data: StageChange{From: evo.Stage, To: target, Manual: evo.Manual, Reason: reason}})
	return true
}

func frameOf(w *ecs.World, e ecs.Entity) uint64 {
	if f, ok := ecs.Get(w, e, component.HostFrameComponent); ok {
		return f.Frame
	}
	return 0
}

// AutoEvolveSystem starts an evolution once both thresholds are met and
// nothing suppresses it. It runs after the readiness icons so a freshly
// triggered icon holds the start back until it has been shown.
type AutoEvolveSystem struct {
	svc *Services
}

func NewAutoEvolveSystem(svc *Services) *AutoEvolveSystem {
	return &AutoEvolveSystem{svc: svc}
}

func (s *AutoEvolveSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil {
		return
	}
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok || evo.Evolving || evo.HoldAuto || evo.Stage.Terminal() || evo.JustCancelled {
		return
	}
	if r, ok := ecs.Get(w, e, component.ReadinessComponent); ok && r.Displaying() {
		return
	}
	damage, hits := ThresholdsMet(s.svc, evo)
	if damage && hits {
		StartEvolution(w, e, s.svc, false)
	}
}
