// Package scenario drives the evolution runtime from tengo scripts that play
// the part of the fighting simulation, one frame at a time.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/evostage/driver"
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/host/memhost"
	"github.com/milk9111/evostage/prefabs"
	"github.com/milk9111/evostage/rng"
)

// ErrScriptDone is returned by Step once the script has called done().
var ErrScriptDone = errors.New("scenario: script done")

// Fighter is the entity every scenario drives.
const Fighter host.EntityID = 1

const defaultFrames = 3600

const dispatchScript = `
update(__engine, __state, __frame)
`

// Options configure a run. Zero values pick sensible defaults.
type Options struct {
	Spec      *prefabs.EvolutionSpec
	Seed      uint64
	MaxFrames int
	Logger    *slog.Logger
	// OnFrame sees the fighter after every driven frame.
	OnFrame func(frame uint64, snap driver.Snapshot)
}

// Result summarises one run.
type Result struct {
	Name           string
	Frames         uint64
	Completed      bool
	Stage          int
	Evolutions     int
	Cancels        int
	Resets         int
	Icons          int
	FirstEvolution uint64
	Events         []ecs.Event
}

// ScriptedHost is an in-memory host whose state is written by a script each
// frame before the driver polls it.
type ScriptedHost struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap

	mem    *memhost.Host
	rng    *rng.Service
	logger *slog.Logger
	driver *driver.Driver

	frame      uint64
	maxFrames  int
	done       bool
	failed     error
	rolledBack bool
	last       driver.Snapshot
	events     []ecs.Event
}

// LoadScript resolves a script by file path or by embedded name.
func LoadScript(nameOrPath string) (string, []byte, error) {
	if info, err := os.Stat(nameOrPath); err == nil && !info.IsDir() {
		data, err := os.ReadFile(nameOrPath)
		if err != nil {
			return "", nil, fmt.Errorf("scenario: read %s: %w", nameOrPath, err)
		}
		return strings.TrimSuffix(filepath.Base(nameOrPath), ".tengo"), data, nil
	}
	data, err := prefabs.LoadScript(nameOrPath)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSuffix(filepath.Base(nameOrPath), ".tengo"), data, nil
}

// New compiles src and wires a fresh driver to the scripted host.
func New(name string, src []byte, opts Options) (*ScriptedHost, error) {
	spec := opts.Spec
	if spec == nil {
		var err error
		if spec, err = prefabs.DefaultEvolutionSpec(); err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__frame", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}

	sh := &ScriptedHost{
		name:      name,
		compiled:  compiled,
		state:     &tengo.Map{Value: map[string]tengo.Object{}},
		mem:       memhost.New(),
		rng:       rng.New(opts.Seed),
		logger:    logger,
		maxFrames: opts.MaxFrames,
	}
	sh.engine = buildEngine(sh)
	sh.driver = driver.New(sh.mem, sh.mem, spec,
		driver.WithLogger(logger),
		driver.WithRNG(rng.New(opts.Seed+1)),
		driver.WithEventHandler(func(evt ecs.Event) { sh.events = append(sh.events, evt) }),
	)

	if sh.maxFrames <= 0 {
		sh.maxFrames = defaultFrames
		if compiled.IsDefined("frames") {
			if n := compiled.Get("frames").Int(); n > 0 {
				sh.maxFrames = n
			}
		}
	}
	sh.last, _ = sh.snapshot()
	return sh, nil
}

func (sh *ScriptedHost) fighter() *memhost.Fighter {
	return sh.mem.Fighter(Fighter)
}

func (sh *ScriptedHost) snapshot() (driver.Snapshot, bool) {
	s, ok := sh.driver.Snapshot(Fighter)
	if !ok {
		s = driver.Snapshot{Entity: Fighter, Stage: 1, Target: 1}
	}
	return s, ok
}

// Host exposes the recording host for inspection.
func (sh *ScriptedHost) Host() *memhost.Host { return sh.mem }

// Driver exposes the driver, for spec swaps between frames.
func (sh *ScriptedHost) Driver() *driver.Driver { return sh.driver }

// Step runs the script for the next frame and then drives the fighter.
func (sh *ScriptedHost) Step() (driver.Snapshot, error) {
	if sh.failed != nil {
		return sh.last, sh.failed
	}
	if sh.done {
		return sh.last, ErrScriptDone
	}
	sh.frame++
	sh.rolledBack = false

	if err := sh.compiled.Set("__engine", sh.engine); err != nil {
		return sh.last, err
	}
	if err := sh.compiled.Set("__state", sh.state); err != nil {
		return sh.last, err
	}
	if err := sh.compiled.Set("__frame", int64(sh.frame)); err != nil {
		return sh.last, err
	}
	if err := sh.runScript(); err != nil {
		sh.failed = err
		return sh.last, err
	}
	if !sh.rolledBack {
		sh.mem.Match++
	}

	sh.driver.Step(sh.frame, Fighter)
	sh.last, _ = sh.snapshot()

	sh.mem.EndFrame()
	sh.fighter().Hits.HitLanded = false

	if sh.done {
		return sh.last, ErrScriptDone
	}
	return sh.last, nil
}

// runScript executes one frame of the script. Some tengo runtime faults,
// such as integer division by zero, panic inside the VM instead of
// returning an error.
func (sh *ScriptedHost) runScript() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scenario: %s frame %d: %v", sh.name, sh.frame, r)
		}
	}()
	if err := sh.compiled.Run(); err != nil {
		return fmt.Errorf("scenario: %s frame %d: %w", sh.name, sh.frame, err)
	}
	return nil
}

// Run steps the script until it calls done(), the frame limit is reached or
// ctx is cancelled.
func Run(ctx context.Context, name string, src []byte, opts Options) (Result, error) {
	sh, err := New(name, src, opts)
	if err != nil {
		return Result{Name: name}, err
	}
	defer sh.driver.Shutdown()
	return sh.Run(ctx, opts.OnFrame)
}

func (sh *ScriptedHost) Run(ctx context.Context, onFrame func(uint64, driver.Snapshot)) (Result, error) {
	for int(sh.frame) < sh.maxFrames {
		if err := ctx.Err(); err != nil {
			return sh.result(), err
		}
		snap, err := sh.Step()
		if onFrame != nil && (err == nil || errors.Is(err, ErrScriptDone)) {
			onFrame(sh.frame, snap)
		}
		if errors.Is(err, ErrScriptDone) {
			break
		}
		if err != nil {
			return sh.result(), err
		}
	}
	res := sh.result()
	sh.logger.Info("scenario: finished", "name", sh.name, "frames", res.Frames, "stage", res.Stage,
		"completed", res.Completed, "evolutions", res.Evolutions, "cancels", res.Cancels)
	return res, nil
}

func (sh *ScriptedHost) result() Result {
	r := Result{
		Name:      sh.name,
		Frames:    sh.frame,
		Completed: sh.done,
		Stage:     sh.last.Stage,
		Events:    append([]ecs.Event(nil), sh.events...),
	}
	for _, evt := range sh.events {
		switch evt.Type {
		case ecs.EventStageConfirmed:
			r.Evolutions++
			if r.FirstEvolution == 0 {
				r.FirstEvolution = evt.Frame
			}
		case ecs.EventEvolutionCancelled:
			r.Cancels++
		case ecs.EventFullReset:
			r.Resets++
		case ecs.EventIconShown:
			r.Icons++
		}
	}
	return r
}
