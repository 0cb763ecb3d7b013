package component

// Phase is one numbered step of a Sequence.
type Phase struct {
	Name   string
	Frames int
}

// Sequence is a small explicit sub-state machine: an ordered list of phases,
// each with a remaining frame count.
type Sequence struct {
	Phases    []Phase
	Index     int
	Remaining int
	Running   bool
}

// Start begins at the first phase with a positive duration.
func (s *Sequence) Start(phases []Phase) {
	s.Phases = phases
	s.Index = -1
	s.Running = true
	s.advance()
}

// Step consumes one frame and reports whether the phase changed.
func (s *Sequence) Step() bool {
	if !s.Running {
		return false
	}
	s.Remaining--
	if s.Remaining > 0 {
		return false
	}
	s.advance()
	return true
}

func (s *Sequence) advance() {
	for s.Index++; s.Index < len(s.Phases); s.Index++ {
		if s.Phases[s.Index].Frames > 0 {
			s.Remaining = s.Phases[s.Index].Frames
			return
		}
	}
	s.Stop()
}

func (s *Sequence) Stop() {
	s.Running = false
	s.Remaining = 0
	s.Index = len(s.Phases)
}

// Current returns the running phase name.
func (s *Sequence) Current() (string, bool) {
	if !s.Running || s.Index < 0 || s.Index >= len(s.Phases) {
		return "", false
	}
	return s.Phases[s.Index].Name, true
}

// Reached reports whether the named phase is running or already passed.
func (s *Sequence) Reached(name string) bool {
	if !s.Running {
		return false
	}
	for i := 0; i <= s.Index && i < len(s.Phases); i++ {
		if s.Phases[i].Name == name {
			return true
		}
	}
	return false
}

// Cosmetics bundles the phased sequences that drive timed effects.
type Cosmetics struct {
	Evolve   Sequence
	Complete Sequence
	Cancel   Sequence
	Blink    Sequence
	// EyesClosed is derived from Blink each frame.
	EyesClosed bool
}

var CosmeticsComponent = NewComponent[Cosmetics]("cosmetics")
