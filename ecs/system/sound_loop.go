package system

import (
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/resource"
)

// Loop names as they appear in the tuning file.
const (
	LoopEvolving  = "evolving"
	LoopReadiness = "readiness"
	LoopCharge    = "charge_hum"
	loopKeyPrefix = "loop_"
)

// SoundLoopSystem flags loops on and off from state edges, enforces their
// maximum duration and mirrors the flags onto host sound handles.
type SoundLoopSystem struct {
	svc *Services
}

func NewSoundLoopSystem(svc *Services) *SoundLoopSystem {
	return &SoundLoopSystem{svc: svc}
}

func (s *SoundLoopSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil {
		return
	}
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return
	}
	bank, ok := ecs.Get(w, e, component.SoundBankComponent)
	if !ok {
		return
	}
	r, _ := ecs.Get(w, e, component.ReadinessComponent)
	c, _ := ecs.Get(w, e, component.ChargeComponent)

	rose, fell := bank.EvolvingEdge.Observe(evo.Evolving)
	if rose {
		s.start(w, e, bank, LoopEvolving)
	}
	if fell {
		bank.Stop(LoopEvolving)
	}
	if rose, _ := bank.ReadyEdge.Observe(r != nil && r.SS.Active); rose {
		s.start(w, e, bank, LoopReadiness)
	}
	rose, fell = bank.ChargeEdge.Observe(c != nil && c.State == component.ChargedHold)
	if rose {
		s.start(w, e, bank, LoopCharge)
	}
	if fell {
		bank.Stop(LoopCharge)
	}

	for _, name := range bank.Tick() {
		w.Logger().Debug("audio: loop reached max duration", "entity", e.String(), "loop", name)
	}

	if s.svc.Sounds == nil {
		return
	}
	for i := range bank.Loops {
		l := bank.Loops[i]
		key := resource.Key{Name: loopKeyPrefix + l.Name, Entity: e}
		s.svc.Sounds.Sync(key, l.Flag && l.Sound != "", func() host.Handle {
			if s.svc.Host == nil {
				return 0
			}
			return s.svc.Host.PlaySound(l.Sound, true, l.Volume)
		})
	}
}

func (s *SoundLoopSystem) start(w *ecs.World, e ecs.Entity, bank *component.SoundBank, name string) {
	if !bank.Start(name) {
		w.Logger().Debug("audio: loop outranked", "entity", e.String(), "loop", name)
	}
}
