package prefabs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/milk9111/evostage/host"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec wraps every validation failure.
var ErrInvalidSpec = errors.New("prefabs: invalid spec")

const defaultSpecFile = "evolution.yaml"

// EvolutionSpec is the tuning for the whole evolution runtime.
type EvolutionSpec struct {
	Name         string                `yaml:"name"`
	TotalFrames  int                   `yaml:"total_frames"`
	EnabledSlots []int                 `yaml:"enabled_slots"`
	Stages       []StageSpec           `yaml:"stages"`
	Penalty      PenaltySpec           `yaml:"penalty"`
	Manual       ManualSpec            `yaml:"manual"`
	Statuses     StatusSpec            `yaml:"statuses"`
	Reset        ResetSpec             `yaml:"reset"`
	Charge       ChargeSpec            `yaml:"charge"`
	Icons        IconsSpec             `yaml:"icons"`
	Sequence     []PhaseSpec           `yaml:"sequence"`
	Afterglow    AfterglowSpec         `yaml:"afterglow"`
	Blink        BlinkSpec             `yaml:"blink"`
	VoiceVolume  float32               `yaml:"voice_volume"`
	Loops        []LoopSpec            `yaml:"loops"`
	Effects      map[string]EffectSpec `yaml:"effects"`

	// Derived values computed after loading
	Derived DerivedSpec `yaml:"-"`
}

type StageSpec struct {
	Stage           int          `yaml:"stage"`
	DamageThreshold float32      `yaml:"damage_threshold"`
	HitsThreshold   int          `yaml:"hits_threshold"`
	Meshes          []host.Token `yaml:"meshes"`
	EyesOpen        host.Token   `yaml:"eyes_open"`
	EyesClosed      host.Token   `yaml:"eyes_closed"`
	// VoiceLines play when evolving into this stage.
	VoiceLines []host.Token `yaml:"voice_lines"`
}

type PenaltySpec struct {
	DamagePercent float32 `yaml:"damage_percent"`
}

type ManualSpec struct {
	WindowFrames     int    `yaml:"window_frames"`
	EvolveButton     string `yaml:"evolve_button"`
	CancelButton     string `yaml:"cancel_button"`
	HoldToggleButton string `yaml:"hold_toggle_button"`
}

type StatusSpec struct {
	Death      []int32 `yaml:"death"`
	Respawn    []int32 `yaml:"respawn"`
	Results    []int32 `yaml:"results"`
	FinalSmash []int32 `yaml:"final_smash"`
}

type ResetSpec struct {
	DamageHigh float32 `yaml:"damage_high"`
	NearZero   float32 `yaml:"near_zero"`
}

type ChargeSpec struct {
	HoldStatuses       []int32    `yaml:"hold_statuses"`
	Continuations      [][2]int32 `yaml:"continuations"`
	RolloutStatuses    []int32    `yaml:"rollout_statuses"`
	TransitionStatuses []int32    `yaml:"transition_statuses"`
	GroundFrames       int        `yaml:"ground_frames"`
	AirFrames          int        `yaml:"air_frames"`
	WindupFrames       float32    `yaml:"windup_frames"`
	AirMotions         []uint64   `yaml:"air_motions"`
}

type IconSpec struct {
	Frames int        `yaml:"frames"`
	Sound  host.Token `yaml:"sound"`
}

type IconsSpec struct {
	T      IconSpec `yaml:"t"`
	D      IconSpec `yaml:"d"`
	SS     IconSpec `yaml:"ss"`
	SE     IconSpec `yaml:"se"`
	Volume float32  `yaml:"volume"`
}

type PhaseSpec struct {
	Name   string `yaml:"name"`
	Frames int    `yaml:"frames"`
}

type AfterglowSpec struct {
	CompleteFrames int `yaml:"complete_frames"`
	CancelFrames   int `yaml:"cancel_frames"`
}

type BlinkSpec struct {
	MinOpenFrames int `yaml:"min_open_frames"`
	MaxOpenFrames int `yaml:"max_open_frames"`
	ClosedFrames  int `yaml:"closed_frames"`
}

type LoopSpec struct {
	Name      string     `yaml:"name"`
	Group     string     `yaml:"group"`
	Priority  int        `yaml:"priority"`
	MaxFrames int        `yaml:"max_frames"`
	Sound     host.Token `yaml:"sound"`
	Volume    float32    `yaml:"volume"`
}

type EffectSpec struct {
	Name               host.Token `yaml:"name"`
	Bone               host.Token `yaml:"bone"`
	Offset             host.Vec3  `yaml:"offset"`
	Rotation           host.Vec3  `yaml:"rotation"`
	Scale              float32    `yaml:"scale"`
	Flags              uint32     `yaml:"flags"`
	TargetVisibleFrame uint64     `yaml:"target_visible_frame"`
}

// DerivedSpec holds lookup structures built from the loaded spec.
type DerivedSpec struct {
	Stages       [3]StageSpec
	EvolveButton host.Button
	CancelButton host.Button
	HoldButton   host.Button

	slots         map[int]struct{}
	death         map[int32]struct{}
	respawn       map[int32]struct{}
	results       map[int32]struct{}
	finalSmash    map[int32]struct{}
	hold          map[int32]struct{}
	rollout       map[int32]struct{}
	transition    map[int32]struct{}
	continuations map[[2]int32]struct{}
	airMotions    map[uint64]struct{}
}

// DefaultEvolutionSpec returns the embedded defaults.
func DefaultEvolutionSpec() (*EvolutionSpec, error) {
	return ParseEvolutionSpec(nil)
}

// LoadEvolutionSpec loads the embedded defaults and overlays the file at
// path. An empty path uses the defaults alone.
func LoadEvolutionSpec(path string) (*EvolutionSpec, error) {
	if path == "" {
		return ParseEvolutionSpec(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read %s: %w", path, err)
	}
	spec, err := ParseEvolutionSpec(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", path, err)
	}
	return spec, nil
}

// ParseEvolutionSpec overlays data onto the defaults. Only fields present in
// data are overwritten. The defaults come from DiskRoot when an edited copy
// exists there, otherwise from the embedded file.
func ParseEvolutionSpec(data []byte) (*EvolutionSpec, error) {
	defaults, err := Load(defaultSpecFile)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", defaultSpecFile, err)
	}
	spec := &EvolutionSpec{}
	if err := yaml.Unmarshal(defaults, spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", defaultSpecFile, err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, spec); err != nil {
			return nil, fmt.Errorf("prefabs: unmarshal overlay: %w", err)
		}
	}
	if err := spec.computeDerived(); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *EvolutionSpec) computeDerived() error {
	d := &s.Derived
	var errs []error

	for _, st := range s.Stages {
		if st.Stage < 1 || st.Stage > len(d.Stages) {
			errs = append(errs, fmt.Errorf("stage %d out of range", st.Stage))
			continue
		}
		d.Stages[st.Stage-1] = st
	}

	var err error
	if d.EvolveButton, err = host.ParseButton(s.Manual.EvolveButton); err != nil {
		errs = append(errs, err)
	}
	if d.CancelButton, err = host.ParseButton(s.Manual.CancelButton); err != nil {
		errs = append(errs, err)
	}
	if d.HoldButton, err = host.ParseButton(s.Manual.HoldToggleButton); err != nil {
		errs = append(errs, err)
	}

	d.slots = make(map[int]struct{}, len(s.EnabledSlots))
	for _, slot := range s.EnabledSlots {
		d.slots[slot] = struct{}{}
	}
	d.death = statusSet(s.Statuses.Death)
	d.respawn = statusSet(s.Statuses.Respawn)
	d.results = statusSet(s.Statuses.Results)
	d.finalSmash = statusSet(s.Statuses.FinalSmash)
	d.hold = statusSet(s.Charge.HoldStatuses)
	d.rollout = statusSet(s.Charge.RolloutStatuses)
	d.transition = statusSet(s.Charge.TransitionStatuses)
	d.continuations = make(map[[2]int32]struct{}, len(s.Charge.Continuations))
	for _, pair := range s.Charge.Continuations {
		d.continuations[pair] = struct{}{}
	}
	d.airMotions = make(map[uint64]struct{}, len(s.Charge.AirMotions))
	for _, m := range s.Charge.AirMotions {
		d.airMotions[m] = struct{}{}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, errors.Join(errs...))
	}
	return nil
}

func statusSet(codes []int32) map[int32]struct{} {
	out := make(map[int32]struct{}, len(codes))
	for _, c := range codes {
		out[c] = struct{}{}
	}
	return out
}

// Validate checks cross-field consistency.
func (s *EvolutionSpec) Validate() error {
	var errs []error
	if s.TotalFrames <= 0 {
		errs = append(errs, fmt.Errorf("total_frames must be positive, got %d", s.TotalFrames))
	}
	sum := 0
	for _, p := range s.Sequence {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, errors.New("sequence phase without a name"))
		}
		if p.Frames < 0 {
			errs = append(errs, fmt.Errorf("sequence phase %q has negative frames", p.Name))
		}
		sum += p.Frames
	}
	if len(s.Sequence) > 0 && sum != s.TotalFrames {
		errs = append(errs, fmt.Errorf("sequence phases sum to %d, total_frames is %d", sum, s.TotalFrames))
	}
	for i := 0; i < len(s.Derived.Stages)-1; i++ {
		st := s.Derived.Stages[i]
		if st.DamageThreshold <= 0 || st.HitsThreshold <= 0 {
			errs = append(errs, fmt.Errorf("stage %d needs positive thresholds", i+1))
		}
	}
	if s.Penalty.DamagePercent < 0 {
		errs = append(errs, fmt.Errorf("penalty.damage_percent must not be negative"))
	}
	if s.Manual.WindowFrames <= 0 {
		errs = append(errs, fmt.Errorf("manual.window_frames must be positive"))
	}
	if s.Charge.GroundFrames <= 0 || s.Charge.AirFrames <= 0 {
		errs = append(errs, fmt.Errorf("charge thresholds must be positive"))
	}
	if s.Blink.MinOpenFrames > s.Blink.MaxOpenFrames {
		errs = append(errs, fmt.Errorf("blink.min_open_frames exceeds max_open_frames"))
	}
	seen := make(map[string]bool, len(s.Loops))
	for _, l := range s.Loops {
		if l.Name == "" || l.Group == "" {
			errs = append(errs, fmt.Errorf("loop %q needs a name and a group", l.Name))
		}
		if seen[l.Name] {
			errs = append(errs, fmt.Errorf("duplicate loop %q", l.Name))
		}
		seen[l.Name] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, errors.Join(errs...))
	}
	return nil
}

// Stage returns the tuning of the stage at index 0..2.
func (s *EvolutionSpec) Stage(index int) StageSpec {
	if index < 0 || index >= len(s.Derived.Stages) {
		return StageSpec{}
	}
	return s.Derived.Stages[index]
}

func (s *EvolutionSpec) DamageThreshold(index int) float32 {
	return s.Stage(index).DamageThreshold
}

func (s *EvolutionSpec) HitsThreshold(index int) int {
	return s.Stage(index).HitsThreshold
}

func (s *EvolutionSpec) SlotEnabled(slot int) bool {
	_, ok := s.Derived.slots[slot]
	return ok
}

func (s *EvolutionSpec) IsDeath(status int32) bool      { return has(s.Derived.death, status) }
func (s *EvolutionSpec) IsRespawn(status int32) bool    { return has(s.Derived.respawn, status) }
func (s *EvolutionSpec) IsResults(status int32) bool    { return has(s.Derived.results, status) }
func (s *EvolutionSpec) IsFinalSmash(status int32) bool { return has(s.Derived.finalSmash, status) }

func (s *EvolutionSpec) IsChargeHold(status int32) bool { return has(s.Derived.hold, status) }
func (s *EvolutionSpec) IsRollout(status int32) bool    { return has(s.Derived.rollout, status) }
func (s *EvolutionSpec) IsTransition(status int32) bool { return has(s.Derived.transition, status) }

// Continues reports whether from→to keeps a charge cycle going.
func (s *EvolutionSpec) Continues(from, to int32) bool {
	_, ok := s.Derived.continuations[[2]int32{from, to}]
	return ok
}

// AirCharge reports whether the charge threshold for the air applies. The
// motion list wins when configured; otherwise the host's situation decides.
func (s *EvolutionSpec) AirCharge(motion uint64, airborne bool) bool {
	if len(s.Derived.airMotions) == 0 {
		return airborne
	}
	_, ok := s.Derived.airMotions[motion]
	return ok
}

func (s *EvolutionSpec) Effect(name string) (EffectSpec, bool) {
	e, ok := s.Effects[name]
	return e, ok && e.Name != ""
}

func has[K comparable](set map[K]struct{}, k K) bool {
	_, ok := set[k]
	return ok
}

// WriteYAML writes the spec to a YAML file.
func (s *EvolutionSpec) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("prefabs: marshal spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("prefabs: write %s: %w", path, err)
	}
	return nil
}
