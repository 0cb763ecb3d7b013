package component

import "github.com/milk9111/evostage/host"

// Buttons detects double presses from per-frame press edges.
type Buttons struct {
	pending [host.NumButtons]bool
	pressAt [host.NumButtons]uint64
}

// Observe records this frame's presses and returns the buttons whose second
// press landed within window frames of the first. A completed double press
// is consumed, so a third press starts a new pattern.
func (b *Buttons) Observe(pressed host.Buttons, frame uint64, window uint64) host.Buttons {
	var doubles host.Buttons
	for i := host.Button(0); i < host.NumButtons; i++ {
		if !pressed.Has(i) {
			continue
		}
		if b.pending[i] && frame > b.pressAt[i] && frame-b.pressAt[i] <= window {
			doubles = doubles.With(i)
			b.pending[i] = false
			continue
		}
		b.pending[i] = true
		b.pressAt[i] = frame
	}
	return doubles
}

// Clear forgets every pending first press.
func (b *Buttons) Clear() {
	*b = Buttons{}
}

var ButtonsComponent = NewComponent[Buttons]("buttons")
