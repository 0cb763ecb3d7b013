package system

import (
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/prefabs"
)

// ChargeSystem runs the charge/hitbox classifier once per frame.
type ChargeSystem struct {
	svc *Services
}

func NewChargeSystem(svc *Services) *ChargeSystem {
	return &ChargeSystem{svc: svc}
}

func (s *ChargeSystem) Update(w *ecs.World, e ecs.Entity) {
	if w == nil || s.svc == nil {
		return
	}
	f, ok := ecs.Get(w, e, component.HostFrameComponent)
	if !ok {
		return
	}
	c, ok := ecs.Get(w, e, component.ChargeComponent)
	if !ok {
		return
	}
	prev := c.State
	state := Classify(s.svc.Spec, f.Status, f.Motion, f.MotionFrame, f.Hits, f.Situation.Airborne, c)
	if state != prev {
		w.Logger().Debug("charge: state", "entity", e.String(), "from", prev.String(), "to", state.String(),
			"status", f.Status, "frames", c.StatusFrames)
	}
}

// Classify maps this frame's host state to a ChargeState, updating the
// rolling counters in c.
//
// Hold statuses count frames while the status is continuous and latch
// Sufficient once the motion's threshold is reached. Rollout statuses follow
// the live hitbox query with no hysteresis. The latch is only cleared when the
// cycle ends or a hold restarts discontinuously.
func Classify(spec *prefabs.EvolutionSpec, status int32, motion uint64, motionFrame float32,
	hits host.HitQueries, airborne bool, c *component.Charge) component.ChargeState {

	state := component.NotActive
	switch {
	case spec.IsChargeHold(status):
		continuous := c.State != component.NotActive &&
			(status == c.LastStatus || spec.Continues(c.LastStatus, status))
		if !continuous {
			c.StatusFrames = 0
			c.Sufficient = false
		}
		if motionFrame >= spec.Charge.WindupFrames {
			c.StatusFrames++
		}
		threshold := spec.Charge.GroundFrames
		if spec.AirCharge(motion, airborne) {
			threshold = spec.Charge.AirFrames
		}
		if c.StatusFrames >= threshold {
			c.Sufficient = true
		}
		state = component.ChargingBelowThreshold
		if c.Sufficient {
			state = component.ChargedHold
		}
	case spec.IsRollout(status):
		switch {
		case !c.Sufficient:
			state = component.VisibleMotion
		case hits.HitboxActive:
			state = component.InvisibleMotionWithHitbox
		default:
			state = component.InvisibleMotionNoHitbox
		}
	case spec.IsTransition(status):
		state = component.TransitionHold
	default:
		c.StatusFrames = 0
		c.Sufficient = false
	}

	c.LastStatus = status
	c.Prev = c.State
	c.State = state
	return state
}
