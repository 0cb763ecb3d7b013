package resource

import "github.com/milk9111/evostage/host"

// Effects adapts an effector's effect calls. Liveness is asked of the host.
type Effects struct {
	Host host.Effector
}

func (b Effects) Exists(h host.Handle) bool {
	return h.Valid() && b.Host.EffectExists(h)
}

func (b Effects) Destroy(h host.Handle) {
	if h.Valid() {
		b.Host.KillEffect(h)
	}
}

// Sounds adapts an effector's sound calls. The host offers no liveness query
// for sounds, so a sound is live until it is stopped.
type Sounds struct {
	Host host.Effector
}

func (b Sounds) Exists(h host.Handle) bool {
	return h.Valid()
}

func (b Sounds) Destroy(h host.Handle) {
	if h.Valid() {
		b.Host.StopSound(h)
	}
}
