package component

// IconKind names the four readiness icons.
type IconKind uint8

const (
	// IconT shows when the hits threshold is met.
	IconT IconKind = iota
	// IconD shows when the damage threshold is met.
	IconD
	// IconSS starts the combined sequence when both thresholds are met.
	IconSS
	// IconSE ends the combined sequence.
	IconSE
)

func (k IconKind) String() string {
	switch k {
	case IconT:
		return "T"
	case IconD:
		return "D"
	case IconSS:
		return "SS"
	case IconSE:
		return "SE"
	default:
		return "?"
	}
}

// Icon is a countdown plus a lockout. A locked icon stays silent until its
// condition has been false at least once.
type Icon struct {
	Timer     int
	Active    bool
	LockedOut bool
}

func (i *Icon) Show(frames int) {
	if frames <= 0 {
		frames = 1
	}
	i.Timer = frames
	i.Active = true
}

// Tick counts down an active icon and reports whether it expired this frame.
// Expiry locks the icon out.
func (i *Icon) Tick() bool {
	if !i.Active {
		return false
	}
	i.Timer--
	if i.Timer > 0 {
		return false
	}
	i.Timer = 0
	i.Active = false
	i.LockedOut = true
	return true
}

func (i *Icon) Hide() {
	i.Timer = 0
	i.Active = false
}

// Readiness holds the icon sub-state of one fighter.
type Readiness struct {
	T, D, SS, SE Icon

	DamageMet Edge
	HitsMet   Edge
	BothMet   Edge
}

// Displaying reports whether any icon is mid-display.
func (r *Readiness) Displaying() bool {
	return r.T.Active || r.D.Active || r.SS.Active || r.SE.Active
}

// Combined reports whether the combined sequence is running.
func (r *Readiness) Combined() bool {
	return r.SS.Active || r.SE.Active
}

// Icon returns the icon of the given kind.
func (r *Readiness) Icon(k IconKind) *Icon {
	switch k {
	case IconT:
		return &r.T
	case IconD:
		return &r.D
	case IconSS:
		return &r.SS
	default:
		return &r.SE
	}
}

// Clear starts a new cycle: no icon active, no lockouts, no edge history.
func (r *Readiness) Clear() {
	*r = Readiness{}
}

var ReadinessComponent = NewComponent[Readiness]("readiness")
