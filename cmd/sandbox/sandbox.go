package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/evostage/common"
	"github.com/milk9111/evostage/driver"
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/host"
	"github.com/milk9111/evostage/host/memhost"
	"github.com/milk9111/evostage/prefabs"
	"github.com/milk9111/evostage/rng"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
)

const (
	screenWidth  = 480
	screenHeight = 320

	fighter host.EntityID = 1

	deathFrames   = 45
	rolloutFrames = 60
	damageStep    = 5
)

// Sandbox is a live host: the keyboard writes fighter state, the driver
// polls it once per tick.
type Sandbox struct {
	logger  *slog.Logger
	spec    *prefabs.EvolutionSpec
	mem     *memhost.Host
	driver  *driver.Driver
	watcher *prefabs.Watcher

	frame    uint64
	snap     driver.Snapshot
	log      []string
	clipOK   bool
	deathFor int
	rollFor  int
	barShown float32
}

func NewSandbox(specPath string, seed uint64, logger *slog.Logger) (*Sandbox, error) {
	spec, err := prefabs.LoadEvolutionSpec(specPath)
	if err != nil {
		return nil, err
	}
	s := &Sandbox{logger: logger, spec: spec, mem: memhost.New()}
	s.driver = driver.New(s.mem, s.mem, spec,
		driver.WithLogger(logger),
		driver.WithRNG(rng.New(seed)),
		driver.WithEventHandler(s.onEvent),
	)
	if err := clipboard.Init(); err != nil {
		logger.Warn("sandbox: clipboard unavailable", "err", err)
	} else {
		s.clipOK = true
	}
	return s, nil
}

// Watch reloads the spec overlay at path whenever it changes.
func (s *Sandbox) Watch(path string) error {
	w, err := prefabs.NewWatcher(path)
	if err != nil {
		return err
	}
	s.watcher = w
	return nil
}

func (s *Sandbox) Close() {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.driver.Shutdown()
}

func (s *Sandbox) onEvent(evt ecs.Event) {
	line := fmt.Sprintf("%5d %s %v", evt.Frame, evt.Type, evt.Data)
	s.log = append(s.log, line)
	if len(s.log) > 6 {
		s.log = s.log[len(s.log)-6:]
	}
}

func (s *Sandbox) Update() error {
	s.pollWatcher()

	f := s.mem.Fighter(fighter)
	s.applyKeys(f)
	s.applyTimers(f)

	s.frame++
	s.mem.Match++
	s.driver.Step(s.frame, fighter)
	s.mem.EndFrame()
	f.Hits.HitLanded = false

	if snap, ok := s.driver.Snapshot(fighter); ok {
		s.snap = snap
	}
	target := common.Ratio(s.snap.DamageReceived, s.snap.DamageNeeded)
	if s.snap.Evolving {
		target = common.Ratio(float32(s.snap.Timer), float32(s.spec.TotalFrames))
	}
	s.barShown = common.Lerp(s.barShown, target, 0.2)
	return nil
}

func (s *Sandbox) applyKeys(f *memhost.Fighter) {
	press := func(key ebiten.Key, btn host.Button) {
		if inpututil.IsKeyJustPressed(key) {
			f.Pressed = f.Pressed.With(btn)
		}
	}
	press(ebiten.KeyJ, host.ButtonAttack)
	press(ebiten.KeyK, host.ButtonSpecial)
	press(ebiten.KeyT, host.ButtonTaunt)

	f.Situation.Guarding = ebiten.IsKeyPressed(ebiten.KeyL)
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		f.Situation.Airborne = !f.Situation.Airborne
		f.Situation.Grounded = !f.Situation.Airborne
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		f.Hits.HitLanded = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		f.Damage += damageStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		f.Damage = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) && s.deathFor == 0 && len(s.spec.Statuses.Death) > 0 {
		f.Status = s.spec.Statuses.Death[0]
		s.deathFor = deathFrames
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		s.copySnapshot()
	}

	if s.deathFor > 0 || s.rollFor > 0 {
		return
	}
	hold := s.spec.Charge.HoldStatuses
	rollout := s.spec.Charge.RolloutStatuses
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyS) && len(hold) > 0:
		f.Status = hold[0]
	case inpututil.IsKeyJustReleased(ebiten.KeyS) && len(rollout) > 0:
		f.Status = rollout[0]
		s.rollFor = rolloutFrames
	}
}

func (s *Sandbox) applyTimers(f *memhost.Fighter) {
	if s.deathFor > 0 {
		s.deathFor--
		if s.deathFor == 0 {
			f.Status = 0
			if len(s.spec.Statuses.Respawn) > 0 {
				f.Status = s.spec.Statuses.Respawn[0]
			}
			f.Damage = 0
		}
		return
	}
	if len(s.spec.Statuses.Respawn) > 0 && f.Status == s.spec.Statuses.Respawn[0] {
		f.Status = 0
	}
	if s.rollFor > 0 {
		s.rollFor--
		f.Hits.HitboxActive = s.rollFor%10 < 6
		if s.rollFor == 0 {
			f.Status = 0
			f.Hits.HitboxActive = false
		}
	}
}

func (s *Sandbox) pollWatcher() {
	if s.watcher == nil {
		return
	}
	select {
	case change, ok := <-s.watcher.Events:
		if !ok {
			s.watcher = nil
			return
		}
		spec, err := prefabs.LoadEvolutionSpec(change.Path)
		if err != nil {
			s.logger.Warn("sandbox: reload failed", "path", change.Path, "err", err)
			return
		}
		s.spec = spec
		s.driver.SetSpec(spec)
		s.logger.Info("sandbox: spec reloaded", "path", change.Path)
	default:
	}
}

func (s *Sandbox) copySnapshot() {
	out, err := s.snap.YAML()
	if err != nil {
		s.logger.Warn("sandbox: snapshot", "err", err)
		return
	}
	if !s.clipOK {
		s.logger.Info("sandbox: snapshot", "yaml", out)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(out))
	s.logger.Info("sandbox: snapshot copied", "frame", s.snap.Frame)
}

func (s *Sandbox) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	bar := colornames.Gold
	if s.snap.Evolving {
		bar = colornames.Orchid
	}
	fillRect(screen, image.Rect(10, 10, screenWidth-10, 22), colornames.Darkslategray)
	fillRect(screen, image.Rect(10, 10, 10+int(s.barShown*float32(screenWidth-20)), 22), bar)

	body := colornames.Lightsteelblue
	if s.snap.Charge == "invisible_hitbox" || s.snap.Charge == "invisible_no_hitbox" {
		body = colornames.Black
	}
	size := 20 + 10*s.snap.Stage
	fillRect(screen, image.Rect(screenWidth-30-size, 40, screenWidth-30, 40+size), body)

	lines := []string{
		"",
		"",
		fmt.Sprintf("frame %d  stage %d -> %d  evolving %v  timer %d", s.snap.Frame, s.snap.Stage, s.snap.Target, s.snap.Evolving, s.snap.Timer),
		fmt.Sprintf("damage %.1f / %.1f  hits %d / %d  hold %v", s.snap.DamageReceived, s.snap.DamageNeeded, s.snap.HitsLanded, s.snap.HitsNeeded, s.snap.HoldAuto),
		fmt.Sprintf("charge %s  phase %s  icons %s", s.snap.Charge, s.snap.Phase, strings.Join(s.snap.Icons, ",")),
		fmt.Sprintf("loops %s", strings.Join(s.snap.Loops, ",")),
		fmt.Sprintf("effects %s", strings.Join(s.snap.Effects, ",")),
		"",
	}
	lines = append(lines, s.log...)
	lines = append(lines, "", "J/K atk/special  L guard  Space air  T taunt  H hit  D +dmg",
		"S charge  R training reset  X death  C copy")
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}

func (s *Sandbox) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	dst.SubImage(r).(*ebiten.Image).Fill(c)
}
