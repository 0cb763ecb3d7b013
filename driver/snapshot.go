package driver

import (
	"fmt"

	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/ecs/system"
	"github.com/milk9111/evostage/host"
	"gopkg.in/yaml.v3"
)

// Snapshot is a read-only copy of one fighter's state for tooling.
type Snapshot struct {
	Entity         host.EntityID `yaml:"entity"`
	Frame          uint64        `yaml:"frame"`
	Stage          int           `yaml:"stage"`
	Target         int           `yaml:"target"`
	Evolving       bool          `yaml:"evolving"`
	Timer          int           `yaml:"timer"`
	DamageReceived float32       `yaml:"damage_received"`
	HitsLanded     int           `yaml:"hits_landed"`
	DamageNeeded   float32       `yaml:"damage_needed"`
	HitsNeeded     int           `yaml:"hits_needed"`
	DamagePenalty  float32       `yaml:"damage_penalty"`
	HoldAuto       bool          `yaml:"hold_auto"`
	Cancels        int           `yaml:"cancels"`
	Charge         string        `yaml:"charge"`
	Icons          []string      `yaml:"icons,omitempty"`
	Phase          string        `yaml:"phase,omitempty"`
	Loops          []string      `yaml:"loops,omitempty"`
	Effects        []string      `yaml:"effects,omitempty"`
	Sounds         []string      `yaml:"sounds,omitempty"`
}

// Snapshot returns the state of e, or false for an unknown entity.
func (d *Driver) Snapshot(e host.EntityID) (Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	evo, ok := ecs.Get(d.world, e, component.EvolutionComponent)
	if !ok {
		return Snapshot{}, false
	}
	damage, hits := system.Thresholds(d.svc, evo)
	s := Snapshot{
		Entity:         e,
		Stage:          int(evo.Stage) + 1,
		Target:         int(evo.Target) + 1,
		Evolving:       evo.Evolving,
		Timer:          evo.Timer,
		DamageReceived: evo.DamageReceived,
		HitsLanded:     evo.HitsLanded,
		DamageNeeded:   damage,
		HitsNeeded:     hits,
		DamagePenalty:  evo.DelayDamagePenalty,
		HoldAuto:       evo.HoldAuto,
		Cancels:        evo.CancelCount,
	}
	if hf, ok := ecs.Get(d.world, e, component.HostFrameComponent); ok {
		s.Frame = hf.Frame
	}
	if c, ok := ecs.Get(d.world, e, component.ChargeComponent); ok {
		s.Charge = c.State.String()
	}
	if r, ok := ecs.Get(d.world, e, component.ReadinessComponent); ok {
		for _, k := range []component.IconKind{component.IconT, component.IconD, component.IconSS, component.IconSE} {
			if r.Icon(k).Active {
				s.Icons = append(s.Icons, k.String())
			}
		}
	}
	if cos, ok := ecs.Get(d.world, e, component.CosmeticsComponent); ok {
		s.Phase, _ = cos.Evolve.Current()
	}
	if bank, ok := ecs.Get(d.world, e, component.SoundBankComponent); ok {
		for _, l := range bank.Loops {
			if l.Flag {
				s.Loops = append(s.Loops, l.Name)
			}
		}
	}
	for _, b := range d.effects.Bindings(e) {
		if d.effects.Live(b.Key) {
			s.Effects = append(s.Effects, b.Key.Name)
		}
	}
	for _, b := range d.sounds.Bindings(e) {
		s.Sounds = append(s.Sounds, b.Key.Name)
	}
	return s, true
}

// YAML renders the snapshot for clipboards and logs.
func (s Snapshot) YAML() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("driver: marshal snapshot: %w", err)
	}
	return string(data), nil
}
