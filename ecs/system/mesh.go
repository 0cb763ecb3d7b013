package system

import (
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
)

// phaseSwap is the evolve phase from which the target stage's model shows.
const phaseSwap = "swap"

// MeshSystem derives per-mesh visibility and sends only the changes.
type MeshSystem struct {
	svc *Services
}

func NewMeshSystem(svc *Services) *MeshSystem {
	return &MeshSystem{svc: svc}
}

func (s *MeshSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil || s.svc.Host == nil {
		return
	}
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return
	}
	m, ok := ecs.Get(w, e, component.MeshStateComponent)
	if !ok {
		return
	}
	if m.Applied == nil {
		m.Applied = make(map[host.Token]bool)
	}

	shown := evo.Stage
	eyesClosed := false
	if cos, ok := ecs.Get(w, e, component.CosmeticsComponent); ok {
		if evo.Evolving && cos.Evolve.Reached(phaseSwap) {
			shown = evo.Target
		}
		eyesClosed = cos.EyesClosed
	}
	hidden := false
	if c, ok := ecs.Get(w, e, component.ChargeComponent); ok {
		hidden = BodyHidden(c)
	}

	for i := 0; i < component.StageCount; i++ {
		st := s.svc.Spec.Stage(i)
		on := component.Stage(i) == shown && !hidden
		for _, mesh := range st.Meshes {
			s.apply(e, m, mesh, on)
		}
		s.apply(e, m, st.EyesOpen, on && !eyesClosed)
		s.apply(e, m, st.EyesClosed, on && eyesClosed)
	}
}

func (s *MeshSystem) apply(e ecs.Entity, m *component.MeshState, mesh host.Token, visible bool) {
	if mesh == "" {
		return
	}
	if cur, ok := m.Applied[mesh]; ok && cur == visible {
		return
	}
	m.Applied[mesh] = visible
	s.svc.Host.SetMeshVisible(e, mesh, visible)
}

// BodyHidden reports whether the fighter's model is swapped out for the
// rolling ball.
func BodyHidden(c *component.Charge) bool {
	return c.State.Invisible() || (c.State == component.TransitionHold && c.Sufficient)
}
