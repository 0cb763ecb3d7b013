package system

import (
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/prefabs"
	"github.com/milk9111/evostage/resource"
)

const cueKeyPrefix = "cue_"

// IconShown is the payload of icon events.
type IconShown struct {
	Kind component.IconKind
}

// ReadinessSystem runs the readiness icons while a fighter is stable below
// the terminal stage. The combined pair wins over the single icons, and at
// most one single icon counts down at a time.
type ReadinessSystem struct {
	svc *Services
}

func NewReadinessSystem(svc *Services) *ReadinessSystem {
	return &ReadinessSystem{svc: svc}
}

func (s *ReadinessSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil {
		return
	}
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return
	}
	r, ok := ecs.Get(w, e, component.ReadinessComponent)
	if !ok {
		return
	}
	defer s.syncCues(e, r)

	if evo.Evolving || evo.Stage.Terminal() {
		if r.Displaying() {
			r.Clear()
		}
		return
	}

	damage, hits := ThresholdsMet(s.svc, evo)
	both := damage && hits
	if rose, _ := r.DamageMet.Observe(damage); rose {
		r.D.LockedOut = false
	}
	if rose, _ := r.HitsMet.Observe(hits); rose {
		r.T.LockedOut = false
	}
	if rose, _ := r.BothMet.Observe(both); rose {
		r.SS.LockedOut = false
		r.SE.LockedOut = false
	}

	r.T.Tick()
	r.D.Tick()
	r.SE.Tick()
	if r.SS.Tick() && !r.SE.LockedOut {
		s.show(w, e, r, component.IconSE)
	}

	if both {
		if !r.Combined() && !r.SS.LockedOut && !r.SE.LockedOut {
			r.T.Hide()
			r.D.Hide()
			s.show(w, e, r, component.IconSS)
		}
		return
	}
	if r.Combined() || r.T.Active || r.D.Active {
		return
	}
	switch {
	case damage && !r.D.LockedOut:
		s.show(w, e, r, component.IconD)
	case hits && !r.T.LockedOut:
		s.show(w, e, r, component.IconT)
	}
}

func (s *ReadinessSystem) show(w *ecs.World, e ecs.Entity, r *component.Readiness, kind component.IconKind) {
	icon := s.iconSpec(kind)
	r.Icon(kind).Show(icon.Frames)
	w.Logger().Debug("evolution: icon shown", "entity", e.String(), "icon", kind.String())
	w.Events().Push(ecs.Event{Type: ecs.EventIconShown, Entity: e, Frame: frameOf(w, e), Data: IconShown{Kind: kind}})
}

// syncCues binds each icon's cue sound to the icon being on screen.
func (s *ReadinessSystem) syncCues(e ecs.Entity, r *component.Readiness) {
	if s.svc.Sounds == nil || s.svc.Host == nil {
		return
	}
	for _, kind := range []component.IconKind{component.IconT, component.IconD, component.IconSS, component.IconSE} {
		sound := s.iconSpec(kind).Sound
		s.svc.Sounds.Sync(CueKey(e, kind), r.Icon(kind).Active && sound != "", func() host.Handle {
			return s.svc.Host.PlaySound(sound, false, s.svc.Spec.Icons.Volume)
		})
	}
}

// CueKey names the sound binding of an icon cue.
func CueKey(e ecs.Entity, kind component.IconKind) resource.Key {
	return resource.Key{Name: cueKeyPrefix + kind.String(), Entity: e}
}

func (s *ReadinessSystem) iconSpec(kind component.IconKind) prefabs.IconSpec {
	icons := s.svc.Spec.Icons
	switch kind {
	case component.IconT:
		return icons.T
	case component.IconD:
		return icons.D
	case component.IconSS:
		return icons.SS
	default:
		return icons.SE
	}
}
