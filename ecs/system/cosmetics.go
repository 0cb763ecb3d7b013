package system

import (
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/resource"
	"github.com/milk9111/evostage/rng"
)

const (
	phaseComplete = "complete"
	phaseCancel   = "cancel"
	phaseOpen     = "open"
	phaseClosed   = "closed"
)

// CosmeticsSystem advances the timed sequences that effects and meshes read:
// the evolve phases, the completion and cancel afterglows and the blink.
type CosmeticsSystem struct {
	svc *Services
}

func NewCosmeticsSystem(svc *Services) *CosmeticsSystem {
	return &CosmeticsSystem{svc: svc}
}

func (s *CosmeticsSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil {
		return
	}
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return
	}
	cos, ok := ecs.Get(w, e, component.CosmeticsComponent)
	if !ok {
		return
	}
	spec := s.svc.Spec

	switch {
	case evo.JustStarted:
		cos.Cancel.Stop()
		cos.Complete.Stop()
		cos.Evolve.Start(s.evolvePhases())
	case evo.JustCompleted:
		cos.Evolve.Stop()
		cos.Complete.Start([]component.Phase{{Name: phaseComplete, Frames: spec.Afterglow.CompleteFrames}})
	case evo.JustCancelled:
		cos.Evolve.Stop()
		cos.Cancel.Start([]component.Phase{{Name: phaseCancel, Frames: spec.Afterglow.CancelFrames}})
	default:
		if evo.Evolving {
			if cos.Evolve.Step() {
				if phase, ok := cos.Evolve.Current(); ok {
					w.Logger().Debug("evolution: phase", "entity", e.String(), "phase", phase, "timer", evo.Timer)
				}
			}
		}
		cos.Complete.Step()
		cos.Cancel.Step()
	}

	if !cos.Blink.Running {
		cos.Blink.Start(s.blinkPhases())
	} else if cos.Blink.Step() && !cos.Blink.Running {
		cos.Blink.Start(s.blinkPhases())
	}
	phase, _ := cos.Blink.Current()
	cos.EyesClosed = phase == phaseClosed
}

func (s *CosmeticsSystem) evolvePhases() []component.Phase {
	phases := make([]component.Phase, 0, len(s.svc.Spec.Sequence))
	for _, p := range s.svc.Spec.Sequence {
		phases = append(phases, component.Phase{Name: p.Name, Frames: p.Frames})
	}
	return phases
}

func (s *CosmeticsSystem) blinkPhases() []component.Phase {
	b := s.svc.Spec.Blink
	open := rng.Range(s.svc.RNG, b.MinOpenFrames, b.MaxOpenFrames)
	if open < 1 {
		open = 1
	}
	return []component.Phase{{Name: phaseOpen, Frames: open}, {Name: phaseClosed, Frames: b.ClosedFrames}}
}

// VoiceSystem plays one randomly chosen line of the target stage when an
// evolution starts. The line is bound to the evolution and stops with it.
type VoiceSystem struct {
	svc *Services
}

func NewVoiceSystem(svc *Services) *VoiceSystem {
	return &VoiceSystem{svc: svc}
}

func (s *VoiceSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil || s.svc.Host == nil || s.svc.Sounds == nil {
		return
	}
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return
	}
	lines := s.svc.Spec.Stage(int(evo.Target)).VoiceLines
	s.svc.Sounds.Sync(VoiceKey(e), evo.Evolving && len(lines) > 0, func() host.Handle {
		line := lines[0]
		if s.svc.RNG != nil {
			line = lines[s.svc.RNG.IntN(len(lines))]
		}
		w.Logger().Debug("evolution: voice", "entity", e.String(), "line", string(line))
		return s.svc.Host.PlaySound(line, false, s.svc.Spec.VoiceVolume)
	})
}

// VoiceKey names the sound binding of the evolution voice line.
func VoiceKey(e ecs.Entity) resource.Key {
	return resource.Key{Name: "voice", Entity: e}
}

// FrameFlagsSystem clears the one-frame transition flags once every other
// system has seen them.
type FrameFlagsSystem struct{}

func NewFrameFlagsSystem() *FrameFlagsSystem {
	return &FrameFlagsSystem{}
}

func (s *FrameFlagsSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil {
		return
	}
	evo, ok := ecs.Get(w, e, component.EvolutionComponent)
	if !ok {
		return
	}
	evo.JustStarted = false
	evo.JustCompleted = false
	evo.JustCancelled = false
}
