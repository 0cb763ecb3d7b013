package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/milk9111/evostage/driver"
	"github.com/milk9111/evostage/ecs"
	"github.com/milk9111/evostage/prefabs"
	"github.com/milk9111/evostage/scenario"
	"github.com/milk9111/evostage/telemetry"
)

type simulator struct {
	logger   *slog.Logger
	scenario string
	frames   int
	runs     int
	seed     uint64
	traceDir string
	specPath string
}

// batch loads the spec and script fresh, runs every seed and prints a summary.
func (s *simulator) batch(ctx context.Context) error {
	spec, err := prefabs.LoadEvolutionSpec(s.specPath)
	if err != nil {
		return err
	}
	name, src, err := scenario.LoadScript(s.scenario)
	if err != nil {
		return err
	}

	tw, err := telemetry.NewTraceWriter(s.traceDir)
	if err != nil {
		return err
	}
	defer tw.Close()

	runs := s.runs
	if runs < 1 {
		runs = 1
	}
	records := make([]telemetry.RunRecord, 0, runs)
	start := time.Now()

	for i := 0; i < runs; i++ {
		seed := s.seed + uint64(i)
		run := i
		var writeErr error
		res, err := scenario.Run(ctx, name, src, scenario.Options{
			Spec:      spec,
			Seed:      seed,
			MaxFrames: s.frames,
			Logger:    s.logger,
			OnFrame: func(frame uint64, snap driver.Snapshot) {
				if writeErr == nil {
					writeErr = tw.WriteFrame(telemetry.RecordFrom(run, frame, snap))
				}
			},
		})
		if err != nil {
			return fmt.Errorf("run %d (seed %d): %w", run, seed, err)
		}
		if writeErr != nil {
			return writeErr
		}

		if runs == 1 {
			printTransitions(res)
		}
		rec := telemetry.RunFrom(run, seed, res)
		if err := tw.WriteRun(rec); err != nil {
			return err
		}
		records = append(records, rec)
	}

	summary := telemetry.Summarize(records)
	s.logger.Info("evosim: batch done", "scenario", name, "summary", summary,
		"elapsed", time.Since(start).Round(time.Millisecond), "trace", tw.Dir())
	printSummary(name, summary)
	return nil
}

// summarizeFile re-reads a runs.csv from an earlier batch.
func summarizeFile(logger *slog.Logger, path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "runs.csv")
	}
	records, err := telemetry.ReadRuns(path)
	if err != nil {
		return err
	}
	name := path
	if len(records) > 0 {
		name = records[0].Scenario
	}
	summary := telemetry.Summarize(records)
	logger.Info("evosim: summary", "file", path, "summary", summary)
	printSummary(name, summary)
	return nil
}

func printSummary(name string, summary telemetry.Summary) {
	fmt.Printf("%s: %d runs, %d completed, %d evolved, first evolution mean %.1f p50 %.0f p90 %.0f\n",
		name, summary.Runs, summary.Completed, summary.Evolved,
		summary.MeanFirstEvolution, summary.P50FirstEvolution, summary.P90FirstEvolution)
}

func printTransitions(res scenario.Result) {
	for _, evt := range res.Events {
		switch evt.Type {
		case ecs.EventIconShown:
			continue
		case ecs.EventEvolutionStarted, ecs.EventStageConfirmed, ecs.EventEvolutionCancelled:
			fmt.Printf("frame %5d  %-20s %+v\n", evt.Frame, evt.Type, evt.Data)
		default:
			fmt.Printf("frame %5d  %-20s %v\n", evt.Frame, evt.Type, evt.Data)
		}
	}
	fmt.Printf("finished at frame %d in stage %d\n", res.Frames, res.Stage)
}

// watch re-runs the batch whenever the spec overlay or a script changes.
func (s *simulator) watch(ctx context.Context) error {
	var paths []string
	for _, dir := range []string{prefabs.DiskRoot, filepath.Join(prefabs.DiskRoot, "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths = append(paths, dir)
		}
	}
	if s.specPath != "" {
		paths = append(paths, s.specPath)
	}
	if info, err := os.Stat(s.scenario); err == nil && !info.IsDir() {
		paths = append(paths, s.scenario)
	}

	if len(paths) == 0 {
		return fmt.Errorf("evosim: nothing to watch")
	}
	w, err := prefabs.NewWatcher(paths...)
	if err != nil {
		return err
	}
	defer w.Close()
	s.logger.Info("evosim: watching", "paths", paths)

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Events:
			if !ok {
				return nil
			}
			s.logger.Info("evosim: change detected", "path", change.Path, "kind", change.Kind)
			if err := s.batch(ctx); err != nil {
				s.logger.Error("evosim: run failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("evosim: watcher error", "err", err)
		}
	}
}
