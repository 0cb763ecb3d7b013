// Package memhost is an in-memory simulation host. It answers queries from
// plain per-entity fields and records every outbound call, which makes it the
// stand-in host for tests, scripted scenarios and the sandbox.
package memhost

import (
	"sort"

	"github.com/milk9111/evostage/host"
)

// Fighter holds the polled state of one entity.
type Fighter struct {
	Status      int32
	Motion      uint64
	MotionFrame float32
	Damage      float32
	Hits        host.HitQueries
	Situation   host.Situation
	Pressed     host.Buttons
	Slot        int
}

type SoundCall struct {
	Handle  host.Handle
	Name    host.Token
	Looping bool
	Volume  float32
}

type MeshCall struct {
	Entity  host.EntityID
	Mesh    host.Token
	Visible bool
}

// Host implements host.Host and host.Effector.
type Host struct {
	Fighters map[host.EntityID]*Fighter
	Match    uint32

	// RefuseSpawns makes SpawnEffect and PlaySound return zero handles.
	RefuseSpawns bool

	next    host.Handle
	effects map[host.Handle]host.EffectSpec
	sounds  map[host.Handle]SoundCall
	meshes  map[host.EntityID]map[host.Token]bool

	Spawned   []host.EffectSpec
	Killed    []host.Handle
	Played    []SoundCall
	Stopped   []host.Handle
	MeshCalls []MeshCall
}

func New() *Host {
	return &Host{
		Fighters: make(map[host.EntityID]*Fighter),
		effects:  make(map[host.Handle]host.EffectSpec),
		sounds:   make(map[host.Handle]SoundCall),
		meshes:   make(map[host.EntityID]map[host.Token]bool),
	}
}

// Fighter returns the state for e, creating it on first use.
func (h *Host) Fighter(e host.EntityID) *Fighter {
	f, ok := h.Fighters[e]
	if !ok {
		f = &Fighter{Situation: host.Situation{Grounded: true}}
		h.Fighters[e] = f
	}
	return f
}

// EndFrame clears per-frame edge inputs.
func (h *Host) EndFrame() {
	for _, f := range h.Fighters {
		f.Pressed = 0
	}
}

func (h *Host) Status(e host.EntityID) int32               { return h.Fighter(e).Status }
func (h *Host) AnimationID(e host.EntityID) uint64         { return h.Fighter(e).Motion }
func (h *Host) AnimationFrame(e host.EntityID) float32     { return h.Fighter(e).MotionFrame }
func (h *Host) Damage(e host.EntityID) float32             { return h.Fighter(e).Damage }
func (h *Host) HitQueries(e host.EntityID) host.HitQueries { return h.Fighter(e).Hits }
func (h *Host) Situation(e host.EntityID) host.Situation   { return h.Fighter(e).Situation }
func (h *Host) Pressed(e host.EntityID) host.Buttons       { return h.Fighter(e).Pressed }
func (h *Host) ColorSlot(e host.EntityID) int              { return h.Fighter(e).Slot }
func (h *Host) MatchFrame() uint32                         { return h.Match }

func (h *Host) alloc() host.Handle {
	h.next++
	return h.next
}

func (h *Host) SpawnEffect(spec host.EffectSpec) host.Handle {
	if h.RefuseSpawns {
		return 0
	}
	id := h.alloc()
	h.effects[id] = spec
	h.Spawned = append(h.Spawned, spec)
	return id
}

func (h *Host) KillEffect(id host.Handle) {
	h.Killed = append(h.Killed, id)
	delete(h.effects, id)
}

func (h *Host) EffectExists(id host.Handle) bool {
	_, ok := h.effects[id]
	return ok
}

// Expire drops an effect on the host side without going through KillEffect,
// the way an effect with its own lifetime disappears.
func (h *Host) Expire(id host.Handle) {
	delete(h.effects, id)
}

func (h *Host) PlaySound(name host.Token, looping bool, volume float32) host.Handle {
	if h.RefuseSpawns {
		return 0
	}
	id := h.alloc()
	call := SoundCall{Handle: id, Name: name, Looping: looping, Volume: volume}
	if looping {
		h.sounds[id] = call
	}
	h.Played = append(h.Played, call)
	return id
}

func (h *Host) StopSound(id host.Handle) {
	h.Stopped = append(h.Stopped, id)
	delete(h.sounds, id)
}

func (h *Host) SetMeshVisible(e host.EntityID, mesh host.Token, visible bool) {
	m, ok := h.meshes[e]
	if !ok {
		m = make(map[host.Token]bool)
		h.meshes[e] = m
	}
	m[mesh] = visible
	h.MeshCalls = append(h.MeshCalls, MeshCall{Entity: e, Mesh: mesh, Visible: visible})
}

// MeshVisible reports the last visibility set for a mesh.
func (h *Host) MeshVisible(e host.EntityID, mesh host.Token) (visible, known bool) {
	visible, known = h.meshes[e][mesh]
	return visible, known
}

// LiveEffects returns live effects of e keyed by handle.
func (h *Host) LiveEffects(e host.EntityID) map[host.Handle]host.EffectSpec {
	out := make(map[host.Handle]host.EffectSpec)
	for id, spec := range h.effects {
		if spec.Entity == e {
			out[id] = spec
		}
	}
	return out
}

// LiveEffectNames returns the sorted names of live effects of e.
func (h *Host) LiveEffectNames(e host.EntityID) []string {
	var names []string
	for _, spec := range h.LiveEffects(e) {
		names = append(names, string(spec.Name))
	}
	sort.Strings(names)
	return names
}

// LiveLoops returns the sorted names of looping sounds not yet stopped.
func (h *Host) LiveLoops() []string {
	var names []string
	for _, call := range h.sounds {
		names = append(names, string(call.Name))
	}
	sort.Strings(names)
	return names
}

// SpawnCount returns how many times an effect with the given name was spawned.
func (h *Host) SpawnCount(name host.Token) int {
	n := 0
	for _, spec := range h.Spawned {
		if spec.Name == name {
			n++
		}
	}
	return n
}

// PlayCount returns how many times a sound with the given name was played.
func (h *Host) PlayCount(name host.Token) int {
	n := 0
	for _, call := range h.Played {
		if call.Name == name {
			n++
		}
	}
	return n
}
