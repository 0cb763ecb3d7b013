package system

import (
	"testing"

	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
)

func TestDeathWipesEvolutionAndResources(t *testing.T) {
	f := newFixture(t)
	f.toPenultimate()
	f.doublePress(host.ButtonSpecial)
	f.steps(10)
	if !f.evo().Evolving {
		t.Fatalf("manual evolution did not start")
	}
	if len(f.h.LiveEffectNames(fighter)) == 0 || len(f.h.LiveLoops()) == 0 {
		t.Fatalf("expected live effects and loops while evolving")
	}
	f.w.Events().Drain()

	f.fighter().Status = 181
	f.steps(5)

	evo := f.evo()
	if evo.Evolving || evo.Stage != component.Stage1 {
		t.Fatalf("expected stage 1 after death, got %+v", *evo)
	}
	if names := f.h.LiveEffectNames(fighter); len(names) != 0 {
		t.Fatalf("effects survived the reset: %v", names)
	}
	if loops := f.h.LiveLoops(); len(loops) != 0 {
		t.Fatalf("loops survived the reset: %v", loops)
	}
	if n := len(f.eventsOf(ecs.EventFullReset)); n != 1 {
		t.Fatalf("got %d reset events while the death status was held, want 1", n)
	}
}

func TestResetDetection(t *testing.T) {
	cases := []struct {
		name      string
		prepare   func(f *fixture)
		trigger   func(f *fixture)
		wantReset bool
		reason    string
	}{
		{
			name:      "training damage drop",
			prepare:   func(f *fixture) { f.fighter().Damage = 40 },
			trigger:   func(f *fixture) { f.fighter().Damage = 0 },
			wantReset: true,
			reason:    "damage_drop",
		},
		{
			name:    "results screen keeps state",
			prepare: func(f *fixture) { f.fighter().Damage = 40 },
			trigger: func(f *fixture) {
				f.fighter().Damage = 0
				f.fighter().Status = 600
			},
		},
		{
			name:      "respawn",
			prepare:   func(f *fixture) { f.fighter().Damage = 5 },
			trigger:   func(f *fixture) { f.fighter().Status = 183 },
			wantReset: true,
			reason:    "respawn",
		},
		{
			name:      "rollback with near zero damage",
			prepare:   func(f *fixture) { f.h.Match = 300 },
			trigger:   func(f *fixture) { f.h.Match = 1 },
			wantReset: true,
			reason:    "match_rollback",
		},
		{
			name: "rollback alone",
			prepare: func(f *fixture) {
				f.h.Match = 300
				f.fighter().Damage = 20
			},
			trigger: func(f *fixture) { f.h.Match = 1 },
		},
		{
			name:    "small damage decrease",
			prepare: func(f *fixture) { f.fighter().Damage = 8 },
			trigger: func(f *fixture) { f.fighter().Damage = 0 },
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)
			c.prepare(f)
			f.steps(3)
			f.evo().Stage = component.Stage2
			f.evo().Target = component.Stage2
			f.w.Events().Drain()

			c.trigger(f)
			f.step()

			events := f.eventsOf(ecs.EventFullReset)
			if got := len(events) == 1; got != c.wantReset {
				t.Fatalf("reset = %v, want %v (events %+v)", got, c.wantReset, events)
			}
			if c.wantReset {
				if reason := events[0].Data.(string); reason != c.reason {
					t.Fatalf("reason %q, want %q", reason, c.reason)
				}
				if f.evo().Stage != component.Stage1 {
					t.Fatalf("stage %s after reset, want stage 1", f.evo().Stage)
				}
				return
			}
			if f.evo().Stage != component.Stage2 {
				t.Fatalf("stage changed without a reset: %s", f.evo().Stage)
			}
		})
	}
}

func TestFullResetIdempotent(t *testing.T) {
	f := newFixture(t)
	f.fighter().Damage = 12
	f.steps(2)

	FullReset(f.w, fighter, f.svc, "test")
	first := *f.evo()
	FullReset(f.w, fighter, f.svc, "test")
	second := *f.evo()

	if first != second {
		t.Fatalf("second reset changed state: %+v vs %+v", first, second)
	}
	if first.LastDamage != 12 || first.DamageReceived != 0 {
		t.Fatalf("reset should baseline damage without counting it: %+v", first)
	}
}
