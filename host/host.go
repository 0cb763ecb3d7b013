// Package host describes the boundary between the evolution runtime and the
// fighting simulation that drives it. The simulation is only ever polled; it
// never pushes notifications.
package host

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityID is the simulation's identifier for one fighter instance.
type EntityID uint32

func (e EntityID) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// Handle is a host allocated effect or sound. Zero is never a live handle.
type Handle uint32

func (h Handle) Valid() bool {
	return h != 0
}

// Token is an opaque asset name (effect, sound, mesh or bone).
type Token string

type Vec3 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

type Button uint8

const (
	ButtonAttack Button = iota
	ButtonSpecial
	ButtonJump
	ButtonGuard
	ButtonTaunt
	NumButtons
)

var buttonNames = [NumButtons]string{"attack", "special", "jump", "guard", "taunt"}

func (b Button) String() string {
	if b >= NumButtons {
		return fmt.Sprintf("button(%d)", uint8(b))
	}
	return buttonNames[b]
}

// ParseButton resolves a button name as written in tuning specs.
func ParseButton(name string) (Button, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	for i, n := range buttonNames {
		if n == s {
			return Button(i), nil
		}
	}
	return 0, fmt.Errorf("host: unknown button %q", name)
}

// Buttons is a set of buttons, typically the ones pressed this frame.
type Buttons uint16

func (b Buttons) Has(btn Button) bool {
	return btn < NumButtons && b&(1<<btn) != 0
}

func (b Buttons) With(btn Button) Buttons {
	if btn >= NumButtons {
		return b
	}
	return b | 1<<btn
}

// HitQueries are the per-frame hit detection answers the host exposes.
type HitQueries struct {
	// HitLanded reports that one of the fighter's attacks connected this frame.
	HitLanded bool
	// HitboxActive reports a live offensive hitbox on the fighter this frame.
	HitboxActive bool
}

type Situation struct {
	Grounded bool
	Airborne bool
	Guarding bool
}

// EffectSpec is everything the host needs to spawn an effect.
type EffectSpec struct {
	Entity   EntityID
	Name     Token
	Bone     Token
	Offset   Vec3
	Rotation Vec3
	Scale    float32
	Flags    uint32
}

// Host is the read-only query surface, polled once per entity-frame.
type Host interface {
	Status(e EntityID) int32
	AnimationID(e EntityID) uint64
	AnimationFrame(e EntityID) float32
	Damage(e EntityID) float32
	HitQueries(e EntityID) HitQueries
	Situation(e EntityID) Situation
	Pressed(e EntityID) Buttons
	ColorSlot(e EntityID) int
	MatchFrame() uint32
}

// Effector is the outbound call surface. Calls are fire-and-forget; a zero
// handle from a spawn or play means the host refused it this frame.
type Effector interface {
	SpawnEffect(spec EffectSpec) Handle
	KillEffect(h Handle)
	EffectExists(h Handle) bool
	PlaySound(name Token, looping bool, volume float32) Handle
	StopSound(h Handle)
	SetMeshVisible(e EntityID, mesh Token, visible bool)
}
