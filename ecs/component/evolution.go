package component

import "log/slog"

// Evolution is the authoritative evolution state of one fighter.
type Evolution struct {
	Stage    Stage
	Target   Stage
	Evolving bool
	// Timer counts frames spent evolving, 0..total frames.
	Timer int

	DamageReceived float32
	HitsLanded     int

	// Penalties inflate the next thresholds after a cancel. Only a confirmed
	// evolution clears them.
	DelayDamagePenalty float32
	// DelayHitsPenalty is part of the threshold sum but no cancel path grows
	// it; the hits threshold stays at its base value.
	DelayHitsPenalty int

	// HoldAuto suppresses automatic evolution.
	HoldAuto bool

	// One-frame flags, cleared at the end of the frame that set them.
	JustStarted   bool
	JustCompleted bool
	JustCancelled bool

	Manual      bool
	CancelCount int
	LastDamage  float32
	HitEdge     Edge
}

// NewEvolution returns the state of a freshly seen fighter.
func NewEvolution(stage Stage) *Evolution {
	return &Evolution{Stage: stage, Target: stage}
}

// LogValue implements slog.LogValuer.
func (e Evolution) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("stage", e.Stage.String()),
		slog.String("target", e.Target.String()),
		slog.Bool("evolving", e.Evolving),
		slog.Int("timer", e.Timer),
		slog.Float64("damage", float64(e.DamageReceived)),
		slog.Int("hits", e.HitsLanded),
		slog.Float64("damage_penalty", float64(e.DelayDamagePenalty)),
	)
}

var EvolutionComponent = NewComponent[Evolution]("evolution")
