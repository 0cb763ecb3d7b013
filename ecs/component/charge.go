package component

// ChargeState classifies the neutral-special hold and rollout behaviour into
// visibility relevant cases.
type ChargeState uint8

const (
	NotActive ChargeState = iota
	ChargingBelowThreshold
	ChargedHold
	VisibleMotion
	InvisibleMotionWithHitbox
	InvisibleMotionNoHitbox
	TransitionHold
)

func (s ChargeState) String() string {
	switch s {
	case NotActive:
		return "not_active"
	case ChargingBelowThreshold:
		return "charging"
	case ChargedHold:
		return "charged_hold"
	case VisibleMotion:
		return "visible_motion"
	case InvisibleMotionWithHitbox:
		return "invisible_hitbox"
	case InvisibleMotionNoHitbox:
		return "invisible_no_hitbox"
	case TransitionHold:
		return "transition_hold"
	default:
		return "unknown"
	}
}

// Invisible reports whether the body is swapped out for the ball.
func (s ChargeState) Invisible() bool {
	return s == InvisibleMotionWithHitbox || s == InvisibleMotionNoHitbox
}

// Charge carries the classifier's rolling counters. Sufficient survives
// status changes for the whole charge to discharge cycle.
type Charge struct {
	StatusFrames int
	Sufficient   bool
	LastStatus   int32
	State        ChargeState
	Prev         ChargeState
}

// Reset ends the current cycle.
func (c *Charge) Reset() {
	c.StatusFrames = 0
	c.Sufficient = false
	c.State = NotActive
	c.Prev = NotActive
}

var ChargeComponent = NewComponent[Charge]("charge")
