package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a batch of runs of one scenario.
type Summary struct {
	Runs      int
	Completed int
	Evolved   int

	// First-evolution frame statistics over the runs that evolved.
	MeanFirstEvolution float64
	StdFirstEvolution  float64
	P50FirstEvolution  float64
	P90FirstEvolution  float64

	MeanCancels float64
	MeanResets  float64
	MeanFrames  float64
}

// Summarize computes batch statistics.
func Summarize(runs []RunRecord) Summary {
	s := Summary{Runs: len(runs)}
	if len(runs) == 0 {
		return s
	}

	var first, cancels, resets, frames []float64
	for _, r := range runs {
		if r.Completed {
			s.Completed++
		}
		if r.Evolutions > 0 {
			s.Evolved++
			first = append(first, float64(r.FirstEvolution))
		}
		cancels = append(cancels, float64(r.Cancels))
		resets = append(resets, float64(r.Resets))
		frames = append(frames, float64(r.Frames))
	}

	s.MeanCancels = stat.Mean(cancels, nil)
	s.MeanResets = stat.Mean(resets, nil)
	s.MeanFrames = stat.Mean(frames, nil)

	if len(first) > 0 {
		sort.Float64s(first)
		s.MeanFirstEvolution, s.StdFirstEvolution = stat.MeanStdDev(first, nil)
		if len(first) == 1 {
			s.StdFirstEvolution = 0
		}
		s.P50FirstEvolution = stat.Quantile(0.5, stat.Empirical, first, nil)
		s.P90FirstEvolution = stat.Quantile(0.9, stat.Empirical, first, nil)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("runs", s.Runs),
		slog.Int("completed", s.Completed),
		slog.Int("evolved", s.Evolved),
		slog.Float64("first_evolution_mean", s.MeanFirstEvolution),
		slog.Float64("first_evolution_std", s.StdFirstEvolution),
		slog.Float64("first_evolution_p50", s.P50FirstEvolution),
		slog.Float64("first_evolution_p90", s.P90FirstEvolution),
		slog.Float64("cancels_mean", s.MeanCancels),
		slog.Float64("resets_mean", s.MeanResets),
	)
}
