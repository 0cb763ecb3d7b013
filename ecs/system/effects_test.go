package system

import (
	"slices"
	"testing"

	"github.com/milk9111/evostage/ecs/component"
	"github.com/milk9111/evostage/host"
)

func TestEvolutionEffectsSpawnOncePerPhase(t *testing.T) {
	f := newFixture(t)
	f.readyBoth()
	f.stepUntil(120, "auto evolution", func() bool { return f.evo().Evolving })
	f.stepUntil(300, "confirm", func() bool { return !f.evo().Evolving })

	for _, name := range []host.Token{"ef_evolve_aura", "ef_evolve_glow", "ef_evolve_flash", "ef_evolve_swap", "ef_evolve_settle"} {
		if got := f.h.SpawnCount(name); got != 1 {
			t.Fatalf("%s spawned %d times, want 1", name, got)
		}
	}
	live := f.h.LiveEffectNames(fighter)
	if !slices.Contains(live, "ef_complete_burst") {
		t.Fatalf("completion burst missing on the confirm frame, live %v", live)
	}
	if slices.Contains(live, "ef_evolve_aura") {
		t.Fatalf("aura outlived the evolution")
	}

	f.steps(f.svc.Spec.Afterglow.CompleteFrames + 1)
	if live := f.h.LiveEffectNames(fighter); len(live) != 0 {
		t.Fatalf("effects left after the afterglow: %v", live)
	}
}

func TestShadowballRespawnDependsOnVisibleAge(t *testing.T) {
	cases := []struct {
		name        string
		firstFrames int
		wantSpawns  int
	}{
		{"status change before visible frame respawns", 2, 2},
		{"status change after visible frame keeps it", 5, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)
			f.fighter().Status = 481
			f.steps(60)

			f.fighter().Hits.HitboxActive = true
			f.fighter().Status = 484
			f.steps(c.firstFrames)
			f.fighter().Status = 485
			f.steps(3)

			if got := f.h.SpawnCount("ef_shadowball"); got != c.wantSpawns {
				t.Fatalf("shadowball spawned %d times, want %d", got, c.wantSpawns)
			}
			live := 0
			for _, name := range f.h.LiveEffectNames(fighter) {
				if name == "ef_shadowball" {
					live++
				}
			}
			if live != 1 {
				t.Fatalf("%d live shadowballs, want 1", live)
			}
		})
	}
}

func TestExpiredEffectIsReplacedWithoutKill(t *testing.T) {
	f := newFixture(t)
	f.fighter().Damage = 40
	f.step()

	h := liveHandle(t, f, "icon_d")
	f.h.Expire(h)
	killed := len(f.h.Killed)
	f.step()

	if got := f.h.SpawnCount("ef_icon_d"); got != 2 {
		t.Fatalf("icon effect spawned %d times after host expiry, want 2", got)
	}
	if len(f.h.Killed) != killed {
		t.Fatalf("stale handle was killed")
	}
}

func TestSoundLoops(t *testing.T) {
	f := newFixture(t)
	f.readyBoth()
	if loops := f.h.LiveLoops(); !slices.Equal(loops, []string{"se_ready_loop"}) {
		t.Fatalf("live loops %v, want the readiness loop", loops)
	}

	f.stepUntil(120, "auto evolution", func() bool { return f.evo().Evolving })
	if loops := f.h.LiveLoops(); !slices.Equal(loops, []string{"se_evolving_loop"}) {
		t.Fatalf("evolving loop should replace the readiness loop, live %v", loops)
	}

	f.stepUntil(300, "confirm", func() bool { return !f.evo().Evolving })
	if loops := f.h.LiveLoops(); len(loops) != 0 {
		t.Fatalf("loops left after confirm: %v", loops)
	}
	if got := f.h.PlayCount("se_evolving_loop"); got != 1 {
		t.Fatalf("evolving loop played %d times, want 1", got)
	}
}

func TestLoopStopsAtMaxDuration(t *testing.T) {
	f := newFixture(t)
	f.fighter().Status = 481
	f.steps(61)
	if loops := f.h.LiveLoops(); !slices.Equal(loops, []string{"se_charge_loop"}) {
		t.Fatalf("charge hum not playing: %v", loops)
	}
	f.steps(300)
	if loops := f.h.LiveLoops(); len(loops) != 0 {
		t.Fatalf("charge hum outlived its max duration: %v", loops)
	}
	if got := f.h.PlayCount("se_charge_loop"); got != 1 {
		t.Fatalf("charge hum restarted %d times", got)
	}
}

func TestMeshVisibility(t *testing.T) {
	f := newFixture(t)
	f.step()

	visible := func(mesh host.Token) bool {
		v, _ := f.h.MeshVisible(fighter, mesh)
		return v
	}
	if !visible("body_s1") || visible("body_s2") || !visible("eye_open_s1") || visible("eye_close_s1") {
		t.Fatalf("unexpected first-frame meshes: %+v", f.h.MeshCalls)
	}

	calls := len(f.h.MeshCalls)
	f.steps(5)
	if len(f.h.MeshCalls) != calls {
		t.Fatalf("unchanged meshes were re-sent")
	}

	f.fighter().Status = 481
	f.steps(60)
	f.fighter().Status = 484
	f.step()
	if visible("body_s1") {
		t.Fatalf("body visible during an invisible rollout")
	}
	f.fighter().Status = 0
	f.step()
	if !visible("body_s1") {
		t.Fatalf("body not restored after the rollout")
	}
}

func TestMeshSwapDuringEvolution(t *testing.T) {
	f := newFixture(t)
	f.readyBoth()
	f.stepUntil(120, "auto evolution", func() bool { return f.evo().Evolving })

	visible := func(mesh host.Token) bool {
		v, _ := f.h.MeshVisible(fighter, mesh)
		return v
	}
	f.steps(30)
	if !visible("body_s1") || visible("body_s2") {
		t.Fatalf("model swapped before the swap phase")
	}
	f.steps(80)
	if visible("body_s1") || !visible("body_s2") {
		t.Fatalf("model not swapped during the swap phase")
	}
}

func TestVoiceLinePlaysOnStart(t *testing.T) {
	f := newFixture(t)
	f.toPenultimate()
	f.doublePress(host.ButtonSpecial)

	played := 0
	for _, call := range f.h.Played {
		if slices.Contains(f.svc.Spec.Stage(2).VoiceLines, call.Name) {
			played++
			if call.Looping {
				t.Fatalf("voice line played as a loop")
			}
		}
	}
	if played != 1 {
		t.Fatalf("%d voice lines played on start, want 1", played)
	}
}

func TestBlinkClosesEyes(t *testing.T) {
	f := newFixture(t)
	closed := false
	for i := 0; i < 260 && !closed; i++ {
		f.step()
		v, _ := f.h.MeshVisible(fighter, "eye_close_s1")
		closed = v
	}
	if !closed {
		t.Fatalf("eyes never closed within the maximum open time")
	}
	if v, _ := f.h.MeshVisible(fighter, "eye_open_s1"); v {
		t.Fatalf("open and closed eyes visible together")
	}
}

func TestOneShotSoundsGoThroughSoundManager(t *testing.T) {
	f := newFixture(t)
	f.readyBoth()
	f.stepUntil(120, "auto evolution", func() bool { return f.evo().Evolving })
	f.steps(5)

	if got, want := f.svc.Sounds.Stats().Spawned, len(f.h.Played); got != want {
		t.Fatalf("sound manager spawned %d handles, host played %d", got, want)
	}
	if _, ok := f.svc.Sounds.Binding(VoiceKey(fighter)); !ok {
		t.Fatalf("voice line is not bound while evolving")
	}
	if f.h.PlayCount("se_icon_ss") != 1 || f.h.PlayCount("se_icon_se") != 1 {
		t.Fatalf("combined cues played ss=%d se=%d, want 1 each",
			f.h.PlayCount("se_icon_ss"), f.h.PlayCount("se_icon_se"))
	}
	for _, kind := range []component.IconKind{component.IconSS, component.IconSE} {
		if _, ok := f.svc.Sounds.Binding(CueKey(fighter, kind)); ok {
			t.Fatalf("%s cue still bound after its icon ended", kind)
		}
	}

	voice, _ := f.svc.Sounds.Binding(VoiceKey(fighter))
	f.fighter().Status = 181
	f.step()

	if n := f.svc.Sounds.Len(fighter); n != 0 {
		t.Fatalf("%d sound bindings survived the reset", n)
	}
	if !slices.Contains(f.h.Stopped, voice.Handle) {
		t.Fatalf("voice handle %d was not stopped by the reset", voice.Handle)
	}
	if got, want := f.svc.Sounds.Stats().Spawned, len(f.h.Played); got != want {
		t.Fatalf("after reset: sound manager spawned %d handles, host played %d", got, want)
	}
}
