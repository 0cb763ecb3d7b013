package component

import (
	"testing"

	"github.com/milk9111/evostage/host"
)

func TestSequencePhases(t *testing.T) {
	var s Sequence
	s.Start([]Phase{{"a", 2}, {"skip", 0}, {"b", 1}})

	want := []string{"a", "a", "b", ""}
	for i, w := range want {
		got, _ := s.Current()
		if got != w {
			t.Fatalf("frame %d: phase %q, want %q", i, got, w)
		}
		if i == 2 && !s.Reached("a") {
			t.Fatalf("phase a should count as reached once passed")
		}
		s.Step()
	}
	if s.Running || s.Reached("a") {
		t.Fatalf("finished sequence should not run or report phases")
	}
}

func TestSequenceEmpty(t *testing.T) {
	var s Sequence
	s.Start(nil)
	if s.Running {
		t.Fatalf("empty sequence should stop immediately")
	}
	if s.Step() {
		t.Fatalf("stopped sequence should not change phase")
	}
}

func TestEdge(t *testing.T) {
	var e Edge
	cases := []struct {
		v          bool
		rose, fell bool
	}{
		{false, false, false},
		{true, true, false},
		{true, false, false},
		{false, false, true},
		{false, false, false},
	}
	for i, c := range cases {
		rose, fell := e.Observe(c.v)
		if rose != c.rose || fell != c.fell {
			t.Fatalf("sample %d (%v): rose=%v fell=%v, want %v %v", i, c.v, rose, fell, c.rose, c.fell)
		}
	}
}

func TestButtonsDoublePress(t *testing.T) {
	cases := []struct {
		name    string
		presses []uint64
		doubles int
	}{
		{"inside_window", []uint64{10, 15}, 1},
		{"at_window", []uint64{10, 22}, 1},
		{"outside_window", []uint64{10, 23}, 0},
		{"same_frame_only_once", []uint64{10, 10}, 0},
		{"third_press_restarts", []uint64{10, 12, 14}, 1},
		{"two_pairs", []uint64{10, 12, 14, 16}, 2},
		{"late_then_pair", []uint64{10, 40, 45}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var b Buttons
			n := 0
			for _, f := range c.presses {
				if b.Observe(host.Buttons(0).With(host.ButtonTaunt), f, 12).Has(host.ButtonTaunt) {
					n++
				}
			}
			if n != c.doubles {
				t.Fatalf("doubles = %d, want %d", n, c.doubles)
			}
		})
	}
}

func TestIconLockout(t *testing.T) {
	var i Icon
	i.Show(2)
	if i.Tick() {
		t.Fatalf("icon expired early")
	}
	if !i.Tick() || i.Active || !i.LockedOut {
		t.Fatalf("icon should expire into lockout: %+v", i)
	}
	if i.Tick() {
		t.Fatalf("inactive icon should not expire again")
	}

	var r Readiness
	r.SS.Show(0)
	if !r.Combined() || !r.Displaying() || r.SS.Timer != 1 {
		t.Fatalf("zero-frame show should still display for one frame: %+v", r.SS)
	}
	r.Icon(IconSS).Hide()
	if r.Displaying() {
		t.Fatalf("hidden icon still displaying")
	}
}

func TestSoundBankPriority(t *testing.T) {
	newBank := func() *SoundBank {
		return &SoundBank{Loops: []Loop{
			{Name: "low", Group: "voice", Priority: 1},
			{Name: "high", Group: "voice", Priority: 5},
			{Name: "equal", Group: "voice", Priority: 1},
			{Name: "hum", Group: "body", Priority: 0, MaxFrames: 3},
		}}
	}

	cases := []struct {
		name      string
		first     string
		second    string
		wantOK    bool
		wantFirst bool
	}{
		{"higher_replaces_lower", "low", "high", true, false},
		{"lower_refused_by_higher", "high", "low", false, true},
		{"equal_replaces", "low", "equal", true, false},
		{"other_group_coexists", "low", "hum", true, true},
		{"restart_is_noop", "low", "low", true, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newBank()
			if !b.Start(c.first) {
				t.Fatalf("Start(%s) refused on an empty bank", c.first)
			}
			if got := b.Start(c.second); got != c.wantOK {
				t.Fatalf("Start(%s) = %v, want %v", c.second, got, c.wantOK)
			}
			if b.Active(c.first) != c.wantFirst {
				t.Fatalf("%s active = %v, want %v", c.first, b.Active(c.first), c.wantFirst)
			}
		})
	}

	t.Run("max_duration", func(t *testing.T) {
		b := newBank()
		b.Start("hum")
		var stopped []string
		for i := 0; i < 3; i++ {
			stopped = append(stopped, b.Tick()...)
		}
		if len(stopped) != 1 || stopped[0] != "hum" || b.Active("hum") {
			t.Fatalf("hum should stop after 3 ticks, stopped=%v", stopped)
		}
		if b.Start("missing") || b.Stop("hum") {
			t.Fatalf("unknown start or second stop should report false")
		}
	})
}
