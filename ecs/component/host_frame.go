package component

import "github.com/milk9111/evostage/host"

// HostFrame is the snapshot of every host query for the current
// entity-frame. The driver fills it before any system runs.
type HostFrame struct {
	Frame       uint64
	Processed   bool
	MatchFrame  uint32
	Status      int32
	Motion      uint64
	MotionFrame float32
	Damage      float32
	Hits        host.HitQueries
	Situation   host.Situation
	Pressed     host.Buttons
	Slot        int
}

var HostFrameComponent = NewComponent[HostFrame]("host_frame")
