package component

import "fmt"

// Stage is one of the three evolution forms. Stages are ordered and the
// progression never wraps.
type Stage uint8

const (
	Stage1 Stage = iota
	Stage2
	Stage3
)

// StageCount is the number of evolution forms.
const StageCount = 3

func (s Stage) String() string {
	switch s {
	case Stage1:
		return "stage1"
	case Stage2:
		return "stage2"
	case Stage3:
		return "stage3"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// Terminal reports whether no further evolution exists.
func (s Stage) Terminal() bool {
	return s >= Stage3
}

// Penultimate reports whether the next stage is the terminal one.
func (s Stage) Penultimate() bool {
	return s == Stage3-1
}

// Next returns the following stage, or s itself at the terminal stage.
func (s Stage) Next() Stage {
	if s.Terminal() {
		return s
	}
	return s + 1
}

// StageFromNumber maps 1..3 to a stage.
func StageFromNumber(n int) (Stage, bool) {
	if n < 1 || n > StageCount {
		return Stage1, false
	}
	return Stage(n - 1), true
}
