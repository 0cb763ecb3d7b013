package component

// ResetVerdict is what the reset detector concluded for the current frame.
type ResetVerdict uint8

const (
	ResetNone ResetVerdict = iota
	// ResetMatch cancels an evolution in progress but keeps the stage.
	ResetMatch
	// ResetFull wipes the fighter back to its first-sight state.
	ResetFull
)

func (v ResetVerdict) String() string {
	switch v {
	case ResetMatch:
		return "match"
	case ResetFull:
		return "full"
	default:
		return "none"
	}
}

// ResetWatch holds the previous samples the reset detector compares against.
type ResetWatch struct {
	Seen           bool
	LastStatus     int32
	LastDamage     float32
	LastMatchFrame uint32

	Verdict ResetVerdict
	Reason  string
}

var ResetWatchComponent = NewComponent[ResetWatch]("reset_watch")
