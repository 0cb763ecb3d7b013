package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/evostage/host"
)

func TestDefaultSpec(t *testing.T) {
	spec, err := DefaultEvolutionSpec()
	if err != nil {
		t.Fatalf("default spec: %v", err)
	}
	if spec.TotalFrames != 240 {
		t.Fatalf("total frames %d, want 240", spec.TotalFrames)
	}
	if spec.DamageThreshold(0) != 35 || spec.HitsThreshold(0) != 10 {
		t.Fatalf("stage 1 thresholds %v/%d", spec.DamageThreshold(0), spec.HitsThreshold(0))
	}
	if spec.Derived.EvolveButton != host.ButtonSpecial || spec.Derived.HoldButton != host.ButtonTaunt {
		t.Fatalf("buttons not derived: %+v", spec.Derived)
	}
	if !spec.IsDeath(181) || spec.IsDeath(183) || !spec.IsRespawn(183) {
		t.Fatalf("status sets wrong")
	}
	if !spec.Continues(481, 482) || spec.Continues(481, 484) {
		t.Fatalf("continuations wrong")
	}
	if !spec.SlotEnabled(7) || spec.SlotEnabled(8) {
		t.Fatalf("slot set wrong")
	}
	if e, ok := spec.Effect("shadowball"); !ok || e.TargetVisibleFrame != 4 {
		t.Fatalf("shadowball effect %+v %v", e, ok)
	}
	if _, ok := spec.Effect("missing"); ok {
		t.Fatalf("unknown effect resolved")
	}
	if spec.Stage(5).DamageThreshold != 0 {
		t.Fatalf("out of range stage returned data")
	}
}

func TestParseOverlay(t *testing.T) {
	cases := []struct {
		name    string
		overlay string
		wantErr bool
		check   func(t *testing.T, spec *EvolutionSpec)
	}{
		{
			name:    "penalty only",
			overlay: "penalty:\n  damage_percent: 50\n",
			check: func(t *testing.T, spec *EvolutionSpec) {
				if spec.Penalty.DamagePercent != 50 || spec.TotalFrames != 240 {
					t.Fatalf("overlay did not merge: %+v", spec.Penalty)
				}
			},
		},
		{
			name:    "air motions switch the air check",
			overlay: "charge:\n  air_motions: [77]\n",
			check: func(t *testing.T, spec *EvolutionSpec) {
				if !spec.AirCharge(77, false) || spec.AirCharge(1, true) {
					t.Fatalf("air motion list not honoured")
				}
				if spec.Charge.GroundFrames != 60 {
					t.Fatalf("sibling charge fields lost")
				}
			},
		},
		{name: "sequence must sum to total", overlay: "total_frames: 200\n", wantErr: true},
		{name: "unknown button", overlay: "manual:\n  evolve_button: kick\n", wantErr: true},
		{name: "zero window", overlay: "manual:\n  window_frames: 0\n", wantErr: true},
		{name: "inverted blink", overlay: "blink:\n  min_open_frames: 300\n", wantErr: true},
		{name: "malformed yaml", overlay: "total_frames: [\n", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := ParseEvolutionSpec([]byte(c.overlay))
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			c.check(t, spec)
		})
	}
}

func TestValidationErrorsAreTyped(t *testing.T) {
	_, err := ParseEvolutionSpec([]byte("total_frames: 10\n"))
	if !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestWriteAndLoadSpec(t *testing.T) {
	spec, err := DefaultEvolutionSpec()
	if err != nil {
		t.Fatalf("default spec: %v", err)
	}
	spec.Penalty.DamagePercent = 10
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := spec.WriteYAML(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := LoadEvolutionSpec(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Penalty.DamagePercent != 10 {
		t.Fatalf("penalty %v after reload", loaded.Penalty.DamagePercent)
	}
	if _, err := LoadEvolutionSpec(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file loaded")
	}
}

func TestScripts(t *testing.T) {
	names := ScriptNames()
	for _, want := range []string{"full_evolution", "manual_cancel", "shadowball", "training_reset"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Fatalf("script %s not embedded (have %v)", want, names)
		}
	}
	for _, name := range []string{"full_evolution", "full_evolution.tengo", "scripts/full_evolution.tengo"} {
		if _, err := LoadScript(name); err != nil {
			t.Fatalf("LoadScript(%q): %v", name, err)
		}
	}
	if _, err := LoadScript("nope"); err == nil {
		t.Fatalf("unknown script loaded")
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("EVO_SEED", "42")
	t.Setenv("EVO_LOG_FORMAT", "json")
	s, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if s.Seed != 42 || s.LogFormat != "json" || s.LogLevel != "info" {
		t.Fatalf("settings %+v", s)
	}

	t.Setenv("EVO_SEED", "many")
	if _, err := ParseEnv(); err == nil {
		t.Fatalf("bad seed accepted")
	}
}

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("name: a\n"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("name: b\n"), 0644); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("edit: %v", err)
	}

	select {
	case change := <-w.Events:
		if change.Kind != ChangeSpec || filepath.Base(change.Path) != "tuning.yaml" {
			t.Fatalf("unexpected change %+v", change)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no change reported")
	}
}

func TestDiskDefaultsOverrideEmbedded(t *testing.T) {
	dir := t.TempDir()
	edited, err := DefaultEvolutionSpec()
	if err != nil {
		t.Fatalf("default spec: %v", err)
	}
	edited.Name = "edited_on_disk"
	edited.Manual.WindowFrames = 18
	if err := edited.WriteYAML(filepath.Join(dir, defaultSpecFile)); err != nil {
		t.Fatalf("write: %v", err)
	}

	old := DiskRoot
	DiskRoot = dir
	t.Cleanup(func() { DiskRoot = old })

	spec, err := LoadEvolutionSpec("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "edited_on_disk" || spec.Manual.WindowFrames != 18 {
		t.Fatalf("disk defaults ignored: name %q window %d", spec.Name, spec.Manual.WindowFrames)
	}

	DiskRoot = filepath.Join(dir, "missing")
	spec, err = LoadEvolutionSpec("")
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if spec.Name == "edited_on_disk" {
		t.Fatalf("embedded defaults not used when the disk copy is missing")
	}
}
