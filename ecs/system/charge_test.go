package system

import (
	"testing"

	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/prefabs"
)

type chargeFrame struct {
	status   int32
	frames   int
	airborne bool
	hitbox   bool
}

func runCharge(t *testing.T, spec *prefabs.EvolutionSpec, c *component.Charge, seq []chargeFrame) component.ChargeState {
	t.Helper()
	state := component.NotActive
	for _, fr := range seq {
		for i := 0; i < fr.frames; i++ {
			state = Classify(spec, fr.status, 0, float32(i), host.HitQueries{HitboxActive: fr.hitbox}, fr.airborne, c)
		}
	}
	return state
}

func TestClassify(t *testing.T) {
	spec, err := prefabs.DefaultEvolutionSpec()
	if err != nil {
		t.Fatalf("default spec: %v", err)
	}

	cases := []struct {
		name string
		seq  []chargeFrame
		want component.ChargeState
	}{
		{"idle", []chargeFrame{{status: 0, frames: 5}}, component.NotActive},
		{"ground below threshold", []chargeFrame{{status: 481, frames: 59}}, component.ChargingBelowThreshold},
		{"ground charged", []chargeFrame{{status: 481, frames: 60}}, component.ChargedHold},
		{"air threshold is lower", []chargeFrame{{status: 481, frames: 45, airborne: true}}, component.ChargedHold},
		{"continuation keeps counting", []chargeFrame{
			{status: 481, frames: 30},
			{status: 482, frames: 30},
		}, component.ChargedHold},
		{"interruption restarts the count", []chargeFrame{
			{status: 481, frames: 30},
			{status: 0, frames: 1},
			{status: 481, frames: 30},
		}, component.ChargingBelowThreshold},
		{"uncharged rollout stays visible", []chargeFrame{
			{status: 481, frames: 20},
			{status: 484, frames: 3, hitbox: true},
		}, component.VisibleMotion},
		{"charged rollout with hitbox", []chargeFrame{
			{status: 481, frames: 60},
			{status: 484, frames: 1, hitbox: true},
		}, component.InvisibleMotionWithHitbox},
		{"charged rollout without hitbox", []chargeFrame{
			{status: 481, frames: 60},
			{status: 484, frames: 5, hitbox: true},
			{status: 485, frames: 1},
		}, component.InvisibleMotionNoHitbox},
		{"air charge discharged on the ground keeps the latch", []chargeFrame{
			{status: 481, frames: 45, airborne: true},
			{status: 487, frames: 2},
			{status: 484, frames: 1, hitbox: true},
		}, component.InvisibleMotionWithHitbox},
		{"transition", []chargeFrame{
			{status: 481, frames: 10},
			{status: 488, frames: 1},
		}, component.TransitionHold},
		{"cycle end clears the latch", []chargeFrame{
			{status: 481, frames: 60},
			{status: 0, frames: 1},
			{status: 484, frames: 1, hitbox: true},
		}, component.VisibleMotion},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var charge component.Charge
			if got := runCharge(t, spec, &charge, c.seq); got != c.want {
				t.Fatalf("Classify = %s, want %s", got, c.want)
			}
		})
	}
}

func TestClassifyHitboxHasNoHysteresis(t *testing.T) {
	spec, err := prefabs.DefaultEvolutionSpec()
	if err != nil {
		t.Fatalf("default spec: %v", err)
	}
	var c component.Charge
	runCharge(t, spec, &c, []chargeFrame{{status: 481, frames: 60}})

	pattern := []bool{true, false, true, true, false}
	for i, hitbox := range pattern {
		got := Classify(spec, 484, 0, float32(i), host.HitQueries{HitboxActive: hitbox}, false, &c)
		want := component.InvisibleMotionNoHitbox
		if hitbox {
			want = component.InvisibleMotionWithHitbox
		}
		if got != want {
			t.Fatalf("frame %d: Classify = %s, want %s", i, got, want)
		}
	}
}

func TestBodyHidden(t *testing.T) {
	cases := []struct {
		charge component.Charge
		want   bool
	}{
		{component.Charge{State: component.NotActive}, false},
		{component.Charge{State: component.ChargedHold, Sufficient: true}, false},
		{component.Charge{State: component.InvisibleMotionNoHitbox, Sufficient: true}, true},
		{component.Charge{State: component.TransitionHold, Sufficient: true}, true},
		{component.Charge{State: component.TransitionHold}, false},
	}
	for _, c := range cases {
		t.Run(c.charge.State.String(), func(t *testing.T) {
			if got := BodyHidden(&c.charge); got != c.want {
				t.Fatalf("BodyHidden(%+v) = %v, want %v", c.charge, got, c.want)
			}
		})
	}
}
