package component

import "github.com/milk9111/evostage/host"

// Loop is one named looping sound. The host's looping primitive never stops
// by itself, so MaxFrames is enforced here.
type Loop struct {
	Name      string
	Group     string
	Priority  int
	MaxFrames int
	Sound     host.Token
	Volume    float32

	Flag  bool
	Timer int
}

// SoundBank holds a fighter's named loops in a fixed order.
type SoundBank struct {
	Loops []Loop

	EvolvingEdge Edge
	ReadyEdge    Edge
	ChargeEdge   Edge
}

func (b *SoundBank) Find(name string) *Loop {
	for i := range b.Loops {
		if b.Loops[i].Name == name {
			return &b.Loops[i]
		}
	}
	return nil
}

// Active reports whether the named loop is flagged on.
func (b *SoundBank) Active(name string) bool {
	l := b.Find(name)
	return l != nil && l.Flag
}

// Start flags the named loop on and force-stops every other loop in its
// group. It refuses when an active loop of the group outranks it.
func (b *SoundBank) Start(name string) bool {
	l := b.Find(name)
	if l == nil {
		return false
	}
	if l.Flag {
		return true
	}
	for i := range b.Loops {
		other := &b.Loops[i]
		if other == l || other.Group != l.Group || !other.Flag {
			continue
		}
		if other.Priority > l.Priority {
			return false
		}
	}
	for i := range b.Loops {
		other := &b.Loops[i]
		if other != l && other.Group == l.Group {
			other.Flag = false
			other.Timer = 0
		}
	}
	l.Flag = true
	l.Timer = 0
	return true
}

// Stop clears the named loop. It reports whether the loop was on.
func (b *SoundBank) Stop(name string) bool {
	l := b.Find(name)
	if l == nil || !l.Flag {
		return false
	}
	l.Flag = false
	l.Timer = 0
	return true
}

// Tick advances every flagged loop and force-stops the ones that reached
// their maximum duration. It returns the names it stopped.
func (b *SoundBank) Tick() []string {
	var stopped []string
	for i := range b.Loops {
		l := &b.Loops[i]
		if !l.Flag {
			continue
		}
		l.Timer++
		if l.MaxFrames > 0 && l.Timer >= l.MaxFrames {
			l.Flag = false
			l.Timer = 0
			stopped = append(stopped, l.Name)
		}
	}
	return stopped
}

func (b *SoundBank) StopAll() {
	for i := range b.Loops {
		b.Loops[i].Flag = false
		b.Loops[i].Timer = 0
	}
	b.EvolvingEdge = Edge{}
	b.ReadyEdge = Edge{}
	b.ChargeEdge = Edge{}
}

var SoundBankComponent = NewComponent[SoundBank]("sound_bank")
